// Package report builds per-group timing tables.
package report

import (
	"fmt"
	"sort"

	"eventlog/internal/timefmt"
	"eventlog/pkg/models"
)

// Row is one line of a group report
type Row struct {
	ID             string `json:"id" yaml:"id"`
	Time           string `json:"time" yaml:"time"`
	TimeSinceStart string `json:"time_since_start" yaml:"time_since_start"`
	TimeSinceLast  string `json:"time_since_last" yaml:"time_since_last"`
	Data           any    `json:"data" yaml:"data"`
	Level          string `json:"level" yaml:"level"`
}

// GroupSource yields the indexed events of a group
type GroupSource interface {
	Group(name string) ([]models.LogEvent, error)
}

// Renderer receives the rows of one report
type Renderer interface {
	Render(rows []Row) error
}

// Reporter computes start and previous-event deltas for a group
type Reporter struct {
	source   GroupSource
	renderer Renderer
	fallback Renderer
}

// NewReporter creates a reporter. A nil renderer makes Show print rows one
// at a time through fallback.
func NewReporter(source GroupSource, renderer, fallback Renderer) *Reporter {
	return &Reporter{source: source, renderer: renderer, fallback: fallback}
}

// Rows builds the report rows for a group, ordered by time
func (r *Reporter) Rows(group string) ([]Row, error) {
	events, err := r.source.Group(group)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("group %q: %w", group, models.ErrNotFound)
	}
	return BuildRows(events), nil
}

// Show renders the report for a group
func (r *Reporter) Show(group string) error {
	rows, err := r.Rows(group)
	if err != nil {
		return err
	}
	if r.renderer != nil {
		return r.renderer.Render(rows)
	}
	if r.fallback == nil {
		return fmt.Errorf("show group %q: no renderer configured", group)
	}
	return r.fallback.Render(rows)
}

// BuildRows sorts events by time (stable) and derives the deltas
func BuildRows(events []models.LogEvent) []Row {
	sorted := make([]models.LogEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})

	rows := make([]Row, 0, len(sorted))
	if len(sorted) == 0 {
		return rows
	}
	start := sorted[0].Time
	last := start
	for _, e := range sorted {
		rows = append(rows, Row{
			ID:             e.ID,
			Time:           timefmt.Format(e.Time),
			TimeSinceStart: timefmt.Format(e.Time - start),
			TimeSinceLast:  timefmt.Format(e.Time - last),
			Data:           e.Data,
			Level:          e.Level.String(),
		})
		last = e.Time
	}
	return rows
}
