package entity

// Role classifies an entity for conflict processing.
type Role int

const (
	RoleOther Role = iota
	RoleIdentityProvider
)

func (r Role) String() string {
	switch r {
	case RoleIdentityProvider:
		return "identity-provider"
	case RoleOther:
		return "other"
	default:
		return "unknown"
	}
}

// Name is a handle on one discovery-name element. Text returns the raw,
// untrimmed content; SetText overwrites it in place.
type Name interface {
	Text() string
	SetText(text string)
}

// Source is the extraction view of one entity's underlying representation.
type Source interface {
	Identifier() string
	Role() Role

	// PreferredNames returns the preferred discovery names in document order.
	PreferredNames() []Name

	// LegacyNames returns the legacy organization display names in document order.
	LegacyNames() []Name

	// RegistrationAuthority returns the registering authority, if declared.
	RegistrationAuthority() (string, bool)
}

// Record is the in-memory view of one entity for the duration of a batch.
type Record struct {
	ID    string
	Role  Role
	Names []Name

	// RegistrationAuthority is empty when HasAuthority is false.
	RegistrationAuthority string
	HasAuthority          bool

	Statuses StatusLog

	// Source is the representation the record was assembled from. It may be
	// nil for records built directly in memory.
	Source Source
}

// IsIdentityProvider reports whether the record takes part in discovery-name
// conflict processing.
func (r *Record) IsIdentityProvider() bool {
	return r.Role == RoleIdentityProvider
}

// AddStatus appends a status to the record's log.
func (r *Record) AddStatus(kind StatusKind, component, message string) {
	r.Statuses.Add(Status{Kind: kind, Component: component, Message: message})
}

// AddError appends an Error status.
func (r *Record) AddError(component, message string) {
	r.AddStatus(StatusError, component, message)
}

// AddWarning appends a Warning status.
func (r *Record) AddWarning(component, message string) {
	r.AddStatus(StatusWarning, component, message)
}

// AddInfo appends an Info status.
func (r *Record) AddInfo(component, message string) {
	r.AddStatus(StatusInfo, component, message)
}

// NameTexts returns the raw text of every discovery name, in order.
func (r *Record) NameTexts() []string {
	texts := make([]string, len(r.Names))
	for i, n := range r.Names {
		texts[i] = n.Text()
	}
	return texts
}

// TextName is an in-memory Name.
type TextName struct {
	Value string
}

// NewTextNames wraps each string in a TextName, preserving order.
func NewTextNames(values ...string) []Name {
	names := make([]Name, len(values))
	for i, v := range values {
		names[i] = &TextName{Value: v}
	}
	return names
}

func (n *TextName) Text() string        { return n.Value }
func (n *TextName) SetText(text string) { n.Value = text }
