// Package discovery implements the batch-wide discovery-name conflict
// algorithms: detection, which flags identity providers that share a
// display name, and avoidance, which renames colliding foreign entities so
// that home entities keep their names.
package discovery

import (
	"strings"

	"github.com/dusk-indust/mdagg/internal/entity"
	"golang.org/x/text/cases"
)

// Extract returns an entity's discovery names. Preferred names win whenever
// at least one exists; legacy names are used only as a fallback. The two
// sources are never merged and the text is not trimmed here.
func Extract(src entity.Source) []entity.Name {
	if preferred := src.PreferredNames(); len(preferred) > 0 {
		return preferred
	}
	return src.LegacyNames()
}

// NewRecord assembles a record from its source.
func NewRecord(src entity.Source) *entity.Record {
	authority, ok := src.RegistrationAuthority()
	return &entity.Record{
		ID:                    src.Identifier(),
		Role:                  src.Role(),
		Names:                 Extract(src),
		RegistrationAuthority: authority,
		HasAuthority:          ok,
		Source:                src,
	}
}

// NewRecords assembles one record per source, preserving order.
func NewRecords(sources []entity.Source) []*entity.Record {
	records := make([]*entity.Record, len(sources))
	for i, src := range sources {
		records[i] = NewRecord(src)
	}
	return records
}

// DetectionKey is the comparison key used by the Detector: the trimmed name,
// case folded.
//
// Detection and avoidance deliberately use different keys: "Example" and
// "EXAMPLE" collide for detection but not for avoidance.
func DetectionKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// AvoidanceKey is the comparison key used by the Avoider: the trimmed name
// with case preserved.
func AvoidanceKey(name string) string {
	return strings.TrimSpace(name)
}
