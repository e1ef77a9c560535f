// Package pipeline runs a batch of entity records through an ordered
// sequence of stages.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dusk-indust/mdagg/internal/entity"
)

// Stage processes a whole batch. It may annotate records, rewrite them in
// place, or return a shorter batch; it must not reorder records.
type Stage interface {
	ID() string
	Execute(ctx context.Context, records []*entity.Record) ([]*entity.Record, error)
}

// Pipeline executes stages sequentially. It holds no per-batch state, so one
// Pipeline can run many batches, one at a time. Progress events stop after
// Close; runs after Close still process their batch.
type Pipeline struct {
	stages   []Stage
	logger   *slog.Logger
	progress *ProgressReporter
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for stage lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Pipeline over stages, in order.
func New(stages []Stage, opts ...Option) *Pipeline {
	p := &Pipeline{
		stages:   stages,
		logger:   slog.New(slog.DiscardHandler),
		progress: NewProgressReporter(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stages returns the stage IDs in execution order.
func (p *Pipeline) Stages() []string {
	ids := make([]string, len(p.stages))
	for i, s := range p.stages {
		ids[i] = s.ID()
	}
	return ids
}

// Run passes records through every stage and returns the final batch. On
// failure it returns the batch as it was before the failing stage, together
// with the stage's error wrapped; errors.Is and errors.As see through it.
func (p *Pipeline) Run(ctx context.Context, records []*entity.Record) ([]*entity.Record, error) {
	for i, stage := range p.stages {
		p.progress.Emit(ProgressEvent{Index: i, Stage: stage.ID(), Status: ProgressPending})
	}

	for i, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return records, fmt.Errorf("pipeline: stage %d (%s) not started: %w", i, stage.ID(), err)
		}

		p.progress.Emit(ProgressEvent{Index: i, Stage: stage.ID(), Status: ProgressWorking})
		start := time.Now()

		out, err := stage.Execute(ctx, records)
		if err != nil {
			p.progress.Emit(ProgressEvent{
				Index:   i,
				Stage:   stage.ID(),
				Status:  ProgressFailed,
				Message: err.Error(),
			})
			p.logger.Error("stage failed", "stage", stage.ID(), "error", err)
			return records, fmt.Errorf("pipeline: stage %d (%s) failed: %w", i, stage.ID(), err)
		}

		p.logger.Debug("stage complete",
			"stage", stage.ID(),
			"in", len(records),
			"out", len(out),
			"elapsed", time.Since(start))
		p.progress.Emit(ProgressEvent{
			Index:   i,
			Stage:   stage.ID(),
			Status:  ProgressComplete,
			Records: len(out),
		})
		records = out
	}
	return records, nil
}

// Progress returns a channel that emits progress events. Events are dropped
// when nobody drains the channel.
func (p *Pipeline) Progress() <-chan ProgressEvent {
	return p.progress.Subscribe()
}

// Close shuts down the progress reporter, closing the Progress channel.
// Callers should invoke this when the pipeline is no longer needed. It is
// safe to call more than once.
func (p *Pipeline) Close() {
	p.progress.Close()
}
