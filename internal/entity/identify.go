package entity

// IdentifierFunc names a record in diagnostic messages.
type IdentifierFunc func(r *Record) string

// Unidentified names a record for which no strategy produced an identifier.
const Unidentified = "(unidentified entity)"

// ByEntityID identifies a record by its entityID. It returns "" when the
// record has none.
func ByEntityID(r *Record) string {
	return r.ID
}

// DefaultIdentifier is ByEntityID with the Unidentified fallback.
var DefaultIdentifier = FirstNonEmpty(ByEntityID)

// FirstNonEmpty tries each strategy in turn and returns the first non-empty
// identifier. If every strategy yields "", Unidentified is returned.
func FirstNonEmpty(strategies ...IdentifierFunc) IdentifierFunc {
	return func(r *Record) string {
		for _, s := range strategies {
			if s == nil {
				continue
			}
			if id := s(r); id != "" {
				return id
			}
		}
		return Unidentified
	}
}

// ByFirstName identifies a record by its first discovery name, which is
// useful as a fallback for entities without an entityID.
func ByFirstName(r *Record) string {
	if len(r.Names) == 0 {
		return ""
	}
	return r.Names[0].Text()
}
