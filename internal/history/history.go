// Package history records optimization runs for later review.
package history

import (
	"context"
	"time"

	"github.com/iwvelando/ecoprice/internal/pricing"
)

// Run is one recorded optimization.
type Run struct {
	ID           string             `json:"id"`
	CreatedAt    time.Time          `json:"createdAt"`
	Inputs       pricing.Inputs     `json:"inputs"`
	Baseline     pricing.Baseline   `json:"baseline"`
	Optimal      pricing.CurvePoint `json:"optimal"`
	SampleCount  int                `json:"sampleCount"`
	ReportStatus string             `json:"reportStatus,omitempty"`
}

// NewRun captures a finished optimization.
func NewRun(id string, in pricing.Inputs, result *pricing.Result, reportStatus string) *Run {
	run := &Run{
		ID:           id,
		CreatedAt:    time.Now().UTC(),
		Inputs:       in,
		ReportStatus: reportStatus,
	}
	if result != nil {
		run.Baseline = result.Baseline
		run.Optimal = result.Optimal
		run.SampleCount = len(result.Curve)
	}
	return run
}

// Recorder persists runs. Implementations must be safe for concurrent use.
type Recorder interface {
	RecordRun(ctx context.Context, run *Run) error
	Recent(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// Open returns a SQLite recorder for path, or a no-op recorder when path is
// empty.
func Open(path string) (Recorder, error) {
	if path == "" {
		return NewNoopRecorder(), nil
	}
	return NewSQLiteRecorder(path)
}
