package mcptools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/mdagg/internal/config"
	"github.com/dusk-indust/mdagg/internal/discovery"
	"github.com/dusk-indust/mdagg/internal/entity"
	"github.com/dusk-indust/mdagg/internal/metadata"
	"github.com/dusk-indust/mdagg/internal/pipeline"
	"github.com/dusk-indust/mdagg/internal/runner"
)

// Service handles MCP tool calls against a base configuration.
type Service struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewService creates a Service. A nil logger discards output.
func NewService(cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{cfg: cfg, logger: logger}
}

// CheckNames runs collision detection without modifying anything.
func (s *Service) CheckNames(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CheckNamesInput,
) (*mcp.CallToolResult, CheckNamesOutput, error) {
	records, err := s.load(ctx, input.Inputs)
	if err != nil {
		return nil, CheckNamesOutput{}, err
	}

	d := discovery.NewDetector(discovery.WithDetectorIdentifier(pipeline.Identifier(s.cfg.Identifier)))
	d.Detect(records)

	out := CheckNamesOutput{Entities: len(records), Collisions: []Collision{}}
	for _, r := range records {
		var msgs []string
		for _, st := range r.Statuses.Of(entity.StatusError) {
			if st.Component == d.Component() {
				msgs = append(msgs, st.Message)
			}
		}
		if len(msgs) > 0 {
			out.Collisions = append(out.Collisions, Collision{EntityID: r.ID, Messages: msgs})
		}
	}
	return nil, out, nil
}

// PreviewRenames reports the renames avoidance would make. The loaded
// documents are discarded afterwards.
func (s *Service) PreviewRenames(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PreviewRenamesInput,
) (*mcp.CallToolResult, PreviewRenamesOutput, error) {
	home := input.HomeAuthority
	if home == "" {
		home = s.cfg.HomeAuthority
	}
	avoider, err := discovery.NewAvoider(discovery.AvoiderConfig{
		HomeAuthority:         home,
		AuthorityDisplayNames: s.cfg.AuthorityDisplayNames,
		DefaultDisplayName:    s.cfg.DefaultDisplayName,
		RenameFormat:          s.cfg.RenameFormat,
		Identify:              pipeline.Identifier(s.cfg.Identifier),
	})
	if err != nil {
		return nil, PreviewRenamesOutput{}, err
	}

	records, err := s.load(ctx, input.Inputs)
	if err != nil {
		return nil, PreviewRenamesOutput{}, err
	}

	renames, err := avoider.Avoid(records)
	if err != nil {
		var dup *discovery.DuplicateHomeNameError
		if errors.As(err, &dup) {
			return nil, PreviewRenamesOutput{
				Renames: []RenameSummary{},
				Status:  "aborted",
				Message: err.Error(),
			}, nil
		}
		return nil, PreviewRenamesOutput{}, err
	}

	out := PreviewRenamesOutput{Renames: make([]RenameSummary, 0, len(renames)), Status: "ok"}
	for _, rn := range renames {
		out.Renames = append(out.Renames, RenameSummary{EntityID: rn.Record.ID, From: rn.From, To: rn.To})
	}
	for _, r := range records {
		if r.IsIdentityProvider() && !r.HasAuthority {
			out.Unregistered = append(out.Unregistered, r.ID)
		}
	}
	return nil, out, nil
}

// SummarizeRun performs a dry run of the configured pipeline and returns
// the plain-text summary.
func (s *Service) SummarizeRun(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummarizeRunInput,
) (*mcp.CallToolResult, SummarizeRunOutput, error) {
	cfg := *s.cfg
	if input.Mode != "" {
		cfg.Mode = config.Mode(input.Mode)
	}

	res, err := runner.Run(ctx, &cfg, runner.Options{Logger: s.logger, DryRun: true})
	if err != nil {
		return nil, SummarizeRunOutput{Status: "failed", Message: err.Error()}, nil
	}

	t := res.Report.Totals
	return nil, SummarizeRunOutput{
		Status:   "completed",
		Entities: t.Entities,
		Kept:     t.Kept,
		Errors:   t.Errors,
		Warnings: t.Warnings,
		Summary:  res.Report.Summary(),
	}, nil
}

func (s *Service) load(ctx context.Context, inputs []string) ([]*entity.Record, error) {
	if len(inputs) == 0 {
		inputs = s.cfg.Inputs
	}
	if len(inputs) == 0 {
		return nil, runner.ErrNoInputs
	}
	docs, err := metadata.LoadAll(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("load inputs: %w", err)
	}
	var records []*entity.Record
	for _, d := range docs {
		records = append(records, d.Records()...)
	}
	return records, nil
}
