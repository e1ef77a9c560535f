package discovery

import (
	"fmt"

	"github.com/dusk-indust/mdagg/internal/entity"
)

// DetectorComponent is the default component ID on statuses added by a Detector.
const DetectorComponent = "DiscoveryNameDetector"

// Detector flags every identity provider whose discovery name collides,
// case-insensitively after trimming, with another identity provider's name.
// A Detector holds only configuration and may be shared between goroutines
// as long as each batch is processed by one goroutine.
type Detector struct {
	component string
	identify  entity.IdentifierFunc
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithDetectorComponent overrides the component ID recorded on statuses.
func WithDetectorComponent(id string) DetectorOption {
	return func(d *Detector) {
		if id != "" {
			d.component = id
		}
	}
}

// WithDetectorIdentifier sets the strategy used to name the other party in
// collision messages.
func WithDetectorIdentifier(fn entity.IdentifierFunc) DetectorOption {
	return func(d *Detector) {
		if fn != nil {
			d.identify = fn
		}
	}
}

// NewDetector creates a Detector.
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{
		component: DetectorComponent,
		identify:  entity.DefaultIdentifier,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Component returns the component ID recorded on statuses.
func (d *Detector) Component() string {
	return d.component
}

// Detect annotates colliding records with Error statuses. It never changes
// name text and never reorders, adds or removes records.
//
// Every record sharing a key with another record ends up with at least one
// Error regardless of batch order; only the wording of individual messages
// depends on which record was seen first.
func (d *Detector) Detect(records []*entity.Record) {
	firstSeen := make(map[string]claim)
	marked := make(map[*entity.Record]bool)

	for _, r := range records {
		if !r.IsIdentityProvider() {
			continue
		}
		for _, name := range r.Names {
			raw := name.Text()
			key := DetectionKey(raw)

			prior, ok := firstSeen[key]
			if !ok {
				firstSeen[key] = claim{record: r, name: AvoidanceKey(raw)}
				continue
			}
			other := prior.record
			if other == r {
				// Same name in two languages, for example.
				continue
			}

			r.AddError(d.component, clashMessage(AvoidanceKey(raw), d.identify(other)))
			if !marked[other] {
				other.AddError(d.component, clashMessage(prior.name, d.identify(r)))
				marked[other] = true
			}
			marked[r] = true
		}
	}
}

// claim records which record first used a key, and the trimmed name it used.
type claim struct {
	record *entity.Record
	name   string
}

func clashMessage(name, otherID string) string {
	return fmt.Sprintf("duplicate display name '%s' clashes with %s", name, otherID)
}
