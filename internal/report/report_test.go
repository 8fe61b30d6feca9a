package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/ecoprice/internal/pricing"
	"go.uber.org/zap"
)

type stubProvider struct {
	text   string
	err    error
	prompt string
	wait   time.Duration
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Generate(ctx context.Context, systemPrompt string, prompt string) (string, error) {
	s.prompt = prompt
	if s.wait > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.wait):
		}
	}
	return s.text, s.err
}

func sampleFacts(t *testing.T) Facts {
	t.Helper()
	in := pricing.Inputs{
		VariableCostPerUnit: 20,
		FixedCostPerPeriod:  2000,
		CurrentPrice:        45,
		CurrentVolume:       500,
		CompetitorAvgPrice:  44,
		Elasticity:          -1.2,
	}
	result, err := pricing.OptimizeDefault(in)
	if err != nil {
		t.Fatalf("OptimizeDefault() error = %v", err)
	}
	return NewFacts(in, result, "$")
}

func TestGeneratorSuccess(t *testing.T) {
	provider := &stubProvider{text: "Four paragraphs."}
	generator := NewGenerator(zap.NewNop(), provider, time.Second)

	outcome := generator.Generate(context.Background(), sampleFacts(t))
	if !outcome.OK() {
		t.Fatalf("expected ok outcome, got %+v", outcome)
	}
	if outcome.Text != "Four paragraphs." {
		t.Fatalf("unexpected text %q", outcome.Text)
	}
	if outcome.ID == "" {
		t.Fatal("expected generated outcome ID")
	}
	if outcome.Provider != "stub" {
		t.Fatalf("unexpected provider %q", outcome.Provider)
	}
	if !strings.Contains(provider.prompt, "Suggested optimal price: $72.00") {
		t.Fatalf("expected prompt to carry the optimal price, got:\n%s", provider.prompt)
	}
}

func TestGeneratorFailureIsNotFatal(t *testing.T) {
	provider := &stubProvider{err: errors.New("service unavailable")}
	generator := NewGenerator(zap.NewNop(), provider, time.Second)

	outcome := generator.GenerateWithID(context.Background(), "req-1", sampleFacts(t))
	if outcome.Status != StatusFailed {
		t.Fatalf("expected failed outcome, got %s", outcome.Status)
	}
	if outcome.ID != "req-1" {
		t.Fatalf("expected caller ID, got %q", outcome.ID)
	}
	if !strings.Contains(outcome.Detail, "service unavailable") {
		t.Fatalf("expected error detail, got %q", outcome.Detail)
	}
	if outcome.Text != "" {
		t.Fatalf("expected no text on failure")
	}
}

func TestGeneratorTimeout(t *testing.T) {
	provider := &stubProvider{text: "late", wait: time.Second}
	generator := NewGenerator(zap.NewNop(), provider, 20*time.Millisecond)

	outcome := generator.Generate(context.Background(), sampleFacts(t))
	if outcome.Status != StatusFailed {
		t.Fatalf("expected failed outcome after timeout, got %s", outcome.Status)
	}
	if !strings.Contains(outcome.Detail, context.DeadlineExceeded.Error()) {
		t.Fatalf("expected deadline detail, got %q", outcome.Detail)
	}
}

func TestGeneratorSkippedWithoutProvider(t *testing.T) {
	outcome := NewGenerator(nil, nil, 0).Generate(context.Background(), sampleFacts(t))
	if outcome.Status != StatusSkipped {
		t.Fatalf("expected skipped outcome, got %s", outcome.Status)
	}

	var nilGenerator *Generator
	if got := nilGenerator.Generate(context.Background(), Facts{}); got.Status != StatusSkipped {
		t.Fatalf("expected skipped outcome from nil generator, got %s", got.Status)
	}
}
