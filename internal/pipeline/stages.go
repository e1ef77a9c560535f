package pipeline

import (
	"context"
	"log/slog"

	"github.com/dusk-indust/mdagg/internal/discovery"
	"github.com/dusk-indust/mdagg/internal/entity"
	"github.com/dusk-indust/mdagg/internal/validate"
)

// Compile-time interface checks.
var (
	_ Stage = (*AuthorityCheck)(nil)
	_ Stage = (*NameCheck)(nil)
	_ Stage = (*Detect)(nil)
	_ Stage = (*Avoid)(nil)
	_ Stage = (*ErrorFilter)(nil)
	_ Stage = (*StatusLogger)(nil)
)

// Stage IDs, also used as status component IDs.
const (
	AuthorityCheckID = "RegistrationAuthorityCheck"
	NameCheckID      = "DiscoveryNameCheck"
	ErrorFilterID    = "ErrorFilter"
	StatusLoggerID   = "StatusLogger"
)

// AuthorityCheck flags identity providers without a registration authority.
type AuthorityCheck struct{}

func (*AuthorityCheck) ID() string { return AuthorityCheckID }

func (*AuthorityCheck) Execute(_ context.Context, records []*entity.Record) ([]*entity.Record, error) {
	for _, r := range records {
		if r.IsIdentityProvider() && !r.HasAuthority {
			r.AddError(AuthorityCheckID, "registration authority is missing")
		}
	}
	return records, nil
}

// NameCheck validates every identity provider discovery name.
type NameCheck struct {
	Chain validate.Chain
}

// NewNameCheck creates a NameCheck running the standard discovery-name chain.
func NewNameCheck(maxLength int) *NameCheck {
	return &NameCheck{Chain: validate.DiscoveryNames(maxLength)}
}

func (*NameCheck) ID() string { return NameCheckID }

func (s *NameCheck) Execute(_ context.Context, records []*entity.Record) ([]*entity.Record, error) {
	for _, r := range records {
		if !r.IsIdentityProvider() {
			continue
		}
		rep := validate.RecordReporter{Record: r, Component: NameCheckID}
		for _, name := range r.Names {
			s.Chain.Validate(name.Text(), rep)
		}
	}
	return records, nil
}

// Detect runs discovery-name conflict detection.
type Detect struct {
	Detector *discovery.Detector
}

func (s *Detect) ID() string { return s.Detector.Component() }

func (s *Detect) Execute(_ context.Context, records []*entity.Record) ([]*entity.Record, error) {
	s.Detector.Detect(records)
	return records, nil
}

// Avoid runs discovery-name conflict avoidance. A duplicate home name fails
// the stage with the batch untouched.
type Avoid struct {
	Avoider *discovery.Avoider
	Logger  *slog.Logger
}

func (s *Avoid) ID() string { return s.Avoider.Component() }

func (s *Avoid) Execute(_ context.Context, records []*entity.Record) ([]*entity.Record, error) {
	renames, err := s.Avoider.Avoid(records)
	if err != nil {
		return records, err
	}
	if s.Logger != nil {
		for _, rn := range renames {
			s.Logger.Info("discovery name changed",
				"entity", rn.Record.ID,
				"from", rn.From,
				"to", rn.To)
		}
	}
	return records, nil
}

// ErrorFilter removes records carrying any Error status.
type ErrorFilter struct {
	Logger *slog.Logger
}

func (*ErrorFilter) ID() string { return ErrorFilterID }

func (s *ErrorFilter) Execute(_ context.Context, records []*entity.Record) ([]*entity.Record, error) {
	kept := make([]*entity.Record, 0, len(records))
	for _, r := range records {
		if r.Statuses.HasErrors() {
			if s.Logger != nil {
				s.Logger.Warn("dropping entity with errors", "entity", r.ID)
			}
			continue
		}
		kept = append(kept, r)
	}
	return kept, nil
}

// StatusLogger logs every record's errors, with its warnings as context.
// Records with only warnings are logged at warn level, infos at debug.
type StatusLogger struct {
	Logger *slog.Logger
}

func (*StatusLogger) ID() string { return StatusLoggerID }

func (s *StatusLogger) Execute(ctx context.Context, records []*entity.Record) ([]*entity.Record, error) {
	if s.Logger == nil {
		return records, nil
	}
	for _, r := range records {
		errs := messages(r.Statuses.Of(entity.StatusError))
		warnings := messages(r.Statuses.Of(entity.StatusWarning))
		switch {
		case len(errs) > 0:
			s.Logger.ErrorContext(ctx, "entity has errors",
				"entity", r.ID, "errors", errs, "warnings", warnings)
		case len(warnings) > 0:
			s.Logger.WarnContext(ctx, "entity has warnings",
				"entity", r.ID, "warnings", warnings)
		}
		for _, info := range r.Statuses.Of(entity.StatusInfo) {
			s.Logger.DebugContext(ctx, info.Message, "entity", r.ID, "component", info.Component)
		}
	}
	return records, nil
}

func messages(statuses []entity.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.Component + ": " + s.Message
	}
	return out
}
