package discovery

import (
	"errors"
	"fmt"

	"github.com/dusk-indust/mdagg/internal/entity"
)

// Defaults for AvoiderConfig.
const (
	AvoiderComponent     = "DiscoveryNameAvoider"
	DefaultHomeAuthority = "http://ukfederation.org.uk"
	DefaultDisplayName   = "??"
	DefaultRenameFormat  = "[{1}] {0}"
)

const (
	missingAuthorityMessage = "identity provider has no registration authority"
	renamedMessageFormat    = "discovery name changed to '%s'"
)

// ErrDuplicateHomeName is matched by errors.Is for every
// *DuplicateHomeNameError.
var ErrDuplicateHomeName = errors.New("duplicate home discovery name")

// DuplicateHomeNameError aborts avoidance when two home discovery names are
// identical after trimming, whether they belong to one entity or two.
type DuplicateHomeNameError struct {
	Name      string
	Authority string
	EntityID  string
}

func (e *DuplicateHomeNameError) Error() string {
	return fmt.Sprintf("discovery name '%s' (entity %s) is not unique among entities registered by %s",
		e.Name, e.EntityID, e.Authority)
}

func (e *DuplicateHomeNameError) Unwrap() error {
	return ErrDuplicateHomeName
}

// AvoiderConfig configures an Avoider. Zero fields take the package defaults.
type AvoiderConfig struct {
	// HomeAuthority is the registration authority whose names are preserved.
	HomeAuthority string

	// AuthorityDisplayNames maps a registration authority to the short code
	// used in renamed discovery names.
	AuthorityDisplayNames map[string]string

	// DefaultDisplayName is the code used for authorities without a mapping.
	DefaultDisplayName string

	// RenameFormat has slot {0} for the original name and {1} for the code.
	RenameFormat string

	Component string
	Identify  entity.IdentifierFunc
}

// Rename describes one rewritten discovery name.
type Rename struct {
	Record *entity.Record
	Index  int
	From   string
	To     string
}

// Avoider keeps home entities' discovery names intact by renaming any foreign
// identity provider name that exactly matches one of them.
type Avoider struct {
	home      string
	codes     map[string]string
	fallback  string
	template  *RenameTemplate
	component string
	identify  entity.IdentifierFunc
}

// NewAvoider validates cfg and returns an Avoider. The authority map is copied.
func NewAvoider(cfg AvoiderConfig) (*Avoider, error) {
	a := &Avoider{
		home:      cfg.HomeAuthority,
		codes:     make(map[string]string, len(cfg.AuthorityDisplayNames)),
		fallback:  cfg.DefaultDisplayName,
		component: cfg.Component,
		identify:  cfg.Identify,
	}
	if a.home == "" {
		a.home = DefaultHomeAuthority
	}
	if a.fallback == "" {
		a.fallback = DefaultDisplayName
	}
	if a.component == "" {
		a.component = AvoiderComponent
	}
	if a.identify == nil {
		a.identify = entity.DefaultIdentifier
	}
	for authority, code := range cfg.AuthorityDisplayNames {
		a.codes[authority] = code
	}

	format := cfg.RenameFormat
	if format == "" {
		format = DefaultRenameFormat
	}
	tmpl, err := ParseRenameTemplate(format)
	if err != nil {
		return nil, fmt.Errorf("avoider: %w", err)
	}
	a.template = tmpl
	return a, nil
}

// Component returns the component ID recorded on statuses.
func (a *Avoider) Component() string {
	return a.component
}

// HomeAuthority returns the configured home registration authority.
func (a *Avoider) HomeAuthority() string {
	return a.home
}

// Avoid partitions the identity providers into home and foreign, verifies
// that home names are unique, and renames foreign names that collide with a
// home name. If home names are not unique it returns a
// *DuplicateHomeNameError and leaves every record untouched.
func (a *Avoider) Avoid(records []*entity.Record) ([]Rename, error) {
	var home, foreign, missing []*entity.Record
	for _, r := range records {
		if !r.IsIdentityProvider() {
			continue
		}
		switch {
		case !r.HasAuthority:
			missing = append(missing, r)
		case r.RegistrationAuthority == a.home:
			home = append(home, r)
		default:
			foreign = append(foreign, r)
		}
	}

	homeNames := make(map[string]struct{})
	for _, r := range home {
		for _, name := range r.Names {
			key := AvoidanceKey(name.Text())
			if _, dup := homeNames[key]; dup {
				return nil, &DuplicateHomeNameError{
					Name:      key,
					Authority: a.home,
					EntityID:  a.identify(r),
				}
			}
			homeNames[key] = struct{}{}
		}
	}

	for _, r := range missing {
		r.AddError(a.component, missingAuthorityMessage)
	}

	var renames []Rename
	for _, r := range foreign {
		for i, name := range r.Names {
			key := AvoidanceKey(name.Text())
			if _, clash := homeNames[key]; !clash {
				continue
			}
			renamed := a.template.Format(key, a.code(r.RegistrationAuthority))
			name.SetText(renamed)
			r.AddInfo(a.component, fmt.Sprintf(renamedMessageFormat, renamed))
			renames = append(renames, Rename{Record: r, Index: i, From: key, To: renamed})
		}
	}
	return renames, nil
}

func (a *Avoider) code(authority string) string {
	if code, ok := a.codes[authority]; ok {
		return code
	}
	return a.fallback
}
