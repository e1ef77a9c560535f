// Package validate provides chains of string validators. Each validator in a
// chain either lets the next one run or ends the chain.
package validate

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dusk-indust/mdagg/internal/entity"
)

// Action tells a Chain whether to run the next validator.
type Action int

const (
	Continue Action = iota
	Done
)

func (a Action) String() string {
	if a == Done {
		return "done"
	}
	return "continue"
}

// Reporter receives validation findings.
type Reporter interface {
	Error(message string)
	Warning(message string)
}

// Validator checks one value.
type Validator interface {
	Validate(value string, rep Reporter) Action
}

// Func adapts a function to Validator.
type Func func(value string, rep Reporter) Action

func (f Func) Validate(value string, rep Reporter) Action { return f(value, rep) }

// Chain applies validators in order, stopping at the first that returns Done.
type Chain []Validator

// Validate runs the chain. It returns Done if any validator did.
func (c Chain) Validate(value string, rep Reporter) Action {
	for _, v := range c {
		if v.Validate(value, rep) == Done {
			return Done
		}
	}
	return Continue
}

// RecordReporter attaches findings to a record as statuses from component.
type RecordReporter struct {
	Record    *entity.Record
	Component string
}

func (r RecordReporter) Error(message string)   { r.Record.AddError(r.Component, message) }
func (r RecordReporter) Warning(message string) { r.Record.AddWarning(r.Component, message) }

// Empty fails blank values and ends the chain, since nothing else can be said
// about them.
func Empty() Validator {
	return Func(func(value string, rep Reporter) Action {
		if strings.TrimSpace(value) == "" {
			rep.Error("discovery name is empty")
			return Done
		}
		return Continue
	})
}

// ControlChars fails values containing control characters.
func ControlChars() Validator {
	return Func(func(value string, rep Reporter) Action {
		trimmed := strings.TrimSpace(value)
		if strings.IndexFunc(trimmed, unicode.IsControl) >= 0 {
			rep.Error(fmt.Sprintf("discovery name %q contains control characters", trimmed))
			return Done
		}
		return Continue
	})
}

// Padded warns about leading or trailing whitespace.
func Padded() Validator {
	return Func(func(value string, rep Reporter) Action {
		if trimmed := strings.TrimSpace(value); trimmed != value {
			rep.Warning(fmt.Sprintf("discovery name '%s' has leading or trailing whitespace", trimmed))
		}
		return Continue
	})
}

// MaxLength warns about values longer than max characters after trimming.
// A max of zero or less disables the check.
func MaxLength(max int) Validator {
	return Func(func(value string, rep Reporter) Action {
		trimmed := strings.TrimSpace(value)
		if max > 0 && utf8.RuneCountInString(trimmed) > max {
			rep.Warning(fmt.Sprintf("discovery name '%s' is longer than %d characters", trimmed, max))
		}
		return Continue
	})
}

// DiscoveryNames is the standard discovery-name chain.
func DiscoveryNames(maxLength int) Chain {
	return Chain{Empty(), ControlChars(), Padded(), MaxLength(maxLength)}
}
