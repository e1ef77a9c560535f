// Package report renders the outcome of a pipeline run: a JSON document for
// machines and a plain-text summary for people.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dusk-indust/mdagg/internal/entity"
)

// Report is the top-level JSON report structure.
type Report struct {
	RunID       string         `json:"runId"`
	GeneratedAt string         `json:"generatedAt"`
	Mode        string         `json:"mode"`
	Totals      Totals         `json:"totals"`
	Entities    []EntityReport `json:"entities"`
}

// Totals summarizes a run.
type Totals struct {
	Entities int `json:"entities"`
	Kept     int `json:"kept"`
	Dropped  int `json:"dropped"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

// EntityReport describes one entity after processing.
type EntityReport struct {
	ID       string         `json:"id"`
	Role     string         `json:"role"`
	Names    []string       `json:"names,omitempty"`
	Kept     bool           `json:"kept"`
	Statuses []StatusReport `json:"statuses,omitempty"`
}

// StatusReport is one status entry.
type StatusReport struct {
	Kind      string `json:"kind"`
	Component string `json:"component"`
	Message   string `json:"message"`
}

// Option configures Build.
type Option func(*builder)

type builder struct {
	runID string
	now   func() time.Time
}

// WithRunID fixes the run ID instead of generating a random UUID.
func WithRunID(id string) Option {
	return func(b *builder) { b.runID = id }
}

// WithClock sets the time source for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(b *builder) { b.now = now }
}

// Build reports on every record in all, in order, marking those present in
// kept. Dropped records are reported with their statuses.
func Build(mode string, all, kept []*entity.Record, opts ...Option) *Report {
	b := builder{now: time.Now}
	for _, opt := range opts {
		opt(&b)
	}
	if b.runID == "" {
		b.runID = uuid.NewString()
	}

	keptSet := make(map[*entity.Record]bool, len(kept))
	for _, r := range kept {
		keptSet[r] = true
	}

	rep := &Report{
		RunID:       b.runID,
		GeneratedAt: b.now().UTC().Format(time.RFC3339),
		Mode:        mode,
		Entities:    make([]EntityReport, 0, len(all)),
	}
	for _, r := range all {
		er := EntityReport{
			ID:    r.ID,
			Role:  r.Role.String(),
			Names: r.NameTexts(),
			Kept:  keptSet[r],
		}
		for _, s := range r.Statuses.All() {
			er.Statuses = append(er.Statuses, StatusReport{
				Kind:      s.Kind.String(),
				Component: s.Component,
				Message:   s.Message,
			})
		}
		rep.Entities = append(rep.Entities, er)

		rep.Totals.Entities++
		if er.Kept {
			rep.Totals.Kept++
		} else {
			rep.Totals.Dropped++
		}
		rep.Totals.Errors += r.Statuses.Count(entity.StatusError)
		rep.Totals.Warnings += r.Statuses.Count(entity.StatusWarning)
		rep.Totals.Infos += r.Statuses.Count(entity.StatusInfo)
	}
	return rep
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = w.Write(append(out, '\n'))
	return err
}

// WriteFile writes the JSON report to path.
func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := r.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Summary renders a deterministic plain-text view: one block per entity that
// carries statuses, followed by the totals. Run ID and time are omitted.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mode: %s\n", r.Mode)
	for _, e := range r.Entities {
		if len(e.Statuses) == 0 {
			continue
		}
		state := "kept"
		if !e.Kept {
			state = "dropped"
		}
		fmt.Fprintf(&b, "\n%s (%s, %s)\n", e.ID, e.Role, state)
		for _, s := range e.Statuses {
			fmt.Fprintf(&b, "  %-7s %s: %s\n", s.Kind, s.Component, s.Message)
		}
	}
	t := r.Totals
	fmt.Fprintf(&b, "\nentities=%d kept=%d dropped=%d errors=%d warnings=%d infos=%d\n",
		t.Entities, t.Kept, t.Dropped, t.Errors, t.Warnings, t.Infos)
	return b.String()
}
