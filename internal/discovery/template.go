package discovery

import (
	"fmt"
	"strconv"
	"strings"
)

// RenameTemplate is a parsed rename format with two slots: {0} is the
// original name and {1} is the registration authority's short code.
type RenameTemplate struct {
	source string
	parts  []templatePart
}

type templatePart struct {
	literal string
	slot    int // -1 for literal parts
}

// ParseRenameTemplate parses a format such as "[{1}] {0}". Slots other than
// {0} and {1}, and unterminated braces, are rejected.
//
// A single quote starts or ends a quoted run whose text is copied literally,
// so "'{0}'" yields the text {0}. Two single quotes yield one, inside or
// outside a quoted run. An unterminated quoted run extends to the end.
func ParseRenameTemplate(format string) (*RenameTemplate, error) {
	t := &RenameTemplate{source: format}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.parts = append(t.parts, templatePart{literal: lit.String(), slot: -1})
			lit.Reset()
		}
	}

	quoted := false
	for i := 0; i < len(format); {
		c := format[i]
		switch {
		case c == '\'':
			if i+1 < len(format) && format[i+1] == '\'' {
				lit.WriteByte('\'')
				i += 2
				continue
			}
			quoted = !quoted
			i++
		case quoted || c != '{':
			lit.WriteByte(c)
			i++
		default:
			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("rename format %q: unterminated '{'", format)
			}
			arg := strings.TrimSpace(format[i+1 : i+end])
			slot, err := strconv.Atoi(arg)
			if err != nil || slot < 0 || slot > 1 {
				return nil, fmt.Errorf("rename format %q: unknown slot {%s}, want {0} or {1}", format, arg)
			}
			flush()
			t.parts = append(t.parts, templatePart{slot: slot})
			i += end + 1
		}
	}
	flush()
	return t, nil
}

// Format substitutes name into {0} and code into {1}.
func (t *RenameTemplate) Format(name, code string) string {
	var b strings.Builder
	for _, p := range t.parts {
		switch p.slot {
		case 0:
			b.WriteString(name)
		case 1:
			b.WriteString(code)
		default:
			b.WriteString(p.literal)
		}
	}
	return b.String()
}

func (t *RenameTemplate) String() string {
	return t.source
}
