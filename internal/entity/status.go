package entity

// StatusKind is the severity of a Status.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusWarning
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusInfo:
		return "info"
	case StatusWarning:
		return "warning"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Status is one diagnostic attached to a record by a pipeline component.
type Status struct {
	Kind      StatusKind
	Component string
	Message   string
}

// StatusLog is an append-only diagnostic log. The zero value is ready to use.
// Nothing in this module removes entries once added.
type StatusLog struct {
	entries []Status
}

// Add appends a status.
func (l *StatusLog) Add(s Status) {
	l.entries = append(l.entries, s)
}

// All returns a copy of every status in insertion order.
func (l *StatusLog) All() []Status {
	out := make([]Status, len(l.entries))
	copy(out, l.entries)
	return out
}

// Of returns the statuses of the given kind in insertion order.
func (l *StatusLog) Of(kind StatusKind) []Status {
	var out []Status
	for _, s := range l.entries {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// Count returns the number of statuses of the given kind.
func (l *StatusLog) Count(kind StatusKind) int {
	n := 0
	for _, s := range l.entries {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

// HasErrors reports whether any Error status has been recorded.
func (l *StatusLog) HasErrors() bool {
	return l.Count(StatusError) > 0
}

// Len returns the total number of statuses.
func (l *StatusLog) Len() int {
	return len(l.entries)
}
