// Package runner wires configuration, metadata loading, the stage pipeline
// and output writing into one batch run.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dusk-indust/mdagg/internal/config"
	"github.com/dusk-indust/mdagg/internal/entity"
	"github.com/dusk-indust/mdagg/internal/metadata"
	"github.com/dusk-indust/mdagg/internal/pipeline"
	"github.com/dusk-indust/mdagg/internal/report"
)

// ErrNoInputs is returned when the configuration names no input files.
var ErrNoInputs = errors.New("no input metadata files")

// Result is the outcome of a successful run.
type Result struct {
	Document *metadata.Document
	All      []*entity.Record // every record, in document order
	Kept     []*entity.Record // records surviving the pipeline
	Removed  int              // entity elements pruned from Document
	Report   *report.Report
}

// Options adjusts a run without touching the configuration.
type Options struct {
	Logger *slog.Logger

	// OnProgress, if set, receives pipeline progress events.
	OnProgress func(pipeline.ProgressEvent)

	// DryRun skips writing the output document and report.
	DryRun bool
}

// Run loads cfg.Inputs, processes every entity through the configured
// pipeline, prunes dropped entities and writes the configured outputs.
// A fatal pipeline error is returned before anything is written.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if len(cfg.Inputs) == 0 {
		return nil, ErrNoInputs
	}

	p, err := pipeline.FromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	docs, err := metadata.LoadAll(ctx, cfg.Inputs)
	if err != nil {
		return nil, fmt.Errorf("load inputs: %w", err)
	}
	doc := docs[0]
	if len(docs) > 1 {
		doc = metadata.Aggregate(cfg.Name, docs)
	}

	all := doc.Records()
	logger.Info("loaded metadata", "inputs", len(cfg.Inputs), "entities", len(all), "mode", cfg.Mode)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range p.Progress() {
			if opts.OnProgress != nil {
				opts.OnProgress(ev)
			}
		}
	}()
	kept, err := p.Run(ctx, all)
	p.Close()
	<-done
	if err != nil {
		return nil, err
	}

	removed, err := doc.Prune(kept)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Document: doc,
		All:      all,
		Kept:     kept,
		Removed:  removed,
		Report:   report.Build(string(cfg.Mode), all, kept),
	}
	logger.Info("pipeline complete",
		"entities", len(all),
		"kept", len(kept),
		"errors", res.Report.Totals.Errors,
		"infos", res.Report.Totals.Infos)

	if opts.DryRun {
		return res, nil
	}
	if cfg.Output != "" {
		if err := doc.WriteFile(cfg.Output); err != nil {
			return nil, err
		}
	}
	if cfg.Report != "" {
		if err := res.Report.WriteFile(cfg.Report); err != nil {
			return nil, err
		}
	}
	return res, nil
}
