// Package report produces the narrative pricing report. Report generation is
// fallible and isolated: its outcome is returned as a value and never affects
// the numeric optimization result.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Status describes how report generation ended.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Outcome is either a report text (StatusOK) or the reason there is none.
type Outcome struct {
	ID          string    `json:"id"`
	Status      Status    `json:"status"`
	Text        string    `json:"text,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	Provider    string    `json:"provider,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// OK reports whether Text holds a generated report.
func (o Outcome) OK() bool {
	return o.Status == StatusOK
}

// Generator runs a Provider with a timeout and folds errors into an Outcome.
type Generator struct {
	provider Provider
	logger   *zap.Logger
	timeout  time.Duration
	now      func() time.Time
}

// NewGenerator returns a Generator. A nil provider yields skipped outcomes.
func NewGenerator(logger *zap.Logger, provider Provider, timeout time.Duration) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		provider: provider,
		logger:   logger,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Generate produces the report for facts. It never returns an error.
func (g *Generator) Generate(ctx context.Context, facts Facts) Outcome {
	return g.GenerateWithID(ctx, uuid.NewString(), facts)
}

// GenerateWithID is Generate with a caller supplied outcome ID, e.g. the
// request ID of an HTTP call.
func (g *Generator) GenerateWithID(ctx context.Context, id string, facts Facts) Outcome {
	if g == nil || g.provider == nil {
		return Outcome{ID: id, Status: StatusSkipped, Detail: "report generation is disabled", GeneratedAt: time.Now()}
	}

	outcome := Outcome{ID: id, Provider: g.provider.Name()}

	prompt, err := BuildPrompt(facts)
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Detail = err.Error()
		outcome.GeneratedAt = g.now()
		return outcome
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := g.now()
	text, err := g.provider.Generate(ctx, SystemPrompt, prompt)
	outcome.GeneratedAt = g.now()
	if err != nil {
		g.logger.Warn("report generation failed",
			zap.String("op", "report.Generate"),
			zap.String("reportID", id),
			zap.String("provider", outcome.Provider),
			zap.Error(err),
		)
		outcome.Status = StatusFailed
		outcome.Detail = err.Error()
		return outcome
	}

	g.logger.Info("report generated",
		zap.String("op", "report.Generate"),
		zap.String("reportID", id),
		zap.String("provider", outcome.Provider),
		zap.Duration("duration", outcome.GeneratedAt.Sub(start)),
		zap.Int("chars", len(text)),
	)
	outcome.Status = StatusOK
	outcome.Text = text
	return outcome
}
