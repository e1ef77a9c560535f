package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/dusk-indust/mdagg/internal/config"
	"github.com/dusk-indust/mdagg/internal/discovery"
	"github.com/dusk-indust/mdagg/internal/entity"
)

// FromConfig assembles the configured stage sequence:
// authority check, name check, the conflict algorithm for cfg.Mode, status
// logging, and finally the error filter when enabled. In avoid mode the
// avoider reports missing registration authorities itself, so the authority
// check is left out.
func FromConfig(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: invalid config: %w", err)
	}

	identify := Identifier(cfg.Identifier)
	var stages []Stage
	if cfg.Mode != config.ModeAvoid {
		stages = append(stages, &AuthorityCheck{})
	}

	if !cfg.NameCheck.Disabled {
		stages = append(stages, NewNameCheck(cfg.NameCheck.MaxLength))
	}

	switch cfg.Mode {
	case config.ModeDetect:
		stages = append(stages, &Detect{
			Detector: discovery.NewDetector(discovery.WithDetectorIdentifier(identify)),
		})
	case config.ModeAvoid:
		avoider, err := discovery.NewAvoider(discovery.AvoiderConfig{
			HomeAuthority:         cfg.HomeAuthority,
			AuthorityDisplayNames: cfg.AuthorityDisplayNames,
			DefaultDisplayName:    cfg.DefaultDisplayName,
			RenameFormat:          cfg.RenameFormat,
			Identify:              identify,
		})
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		stages = append(stages, &Avoid{Avoider: avoider, Logger: logger})
	}

	stages = append(stages, &StatusLogger{Logger: logger})
	if cfg.ShouldDropErrors() {
		stages = append(stages, &ErrorFilter{Logger: logger})
	}

	return New(stages, WithLogger(logger)), nil
}

// Identifier returns the identification strategy for a config scheme name.
// Unknown names fall back to the entityID strategy.
func Identifier(scheme string) entity.IdentifierFunc {
	if scheme == config.IdentifierNameFallback {
		return entity.FirstNonEmpty(entity.ByEntityID, entity.ByFirstName)
	}
	return entity.DefaultIdentifier
}
