package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/iwvelando/ecoprice/internal/pricing"
)

func TestSQLiteRecorderRoundTrip(t *testing.T) {
	recorder, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRecorder() error = %v", err)
	}
	defer func() {
		_ = recorder.Close()
	}()

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

	ctx := context.Background()
	older := NewRun("run-1", in, result, "skipped")
	older.CreatedAt = time.Now().Add(-time.Hour).UTC()
	newer := NewRun("run-2", in, result, "ok")

	for _, run := range []*Run{older, newer} {
		if err := recorder.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun(%s) error = %v", run.ID, err)
		}
	}

	runs, err := recorder.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-2" || runs[1].ID != "run-1" {
		t.Fatalf("expected newest first, got %s, %s", runs[0].ID, runs[1].ID)
	}

	got := runs[0]
	if got.Inputs != in {
		t.Fatalf("inputs mismatch: %+v vs %+v", got.Inputs, in)
	}
	if got.Baseline != result.Baseline {
		t.Fatalf("baseline mismatch: %+v vs %+v", got.Baseline, result.Baseline)
	}
	if got.Optimal != result.Optimal {
		t.Fatalf("optimal mismatch: %+v vs %+v", got.Optimal, result.Optimal)
	}
	if got.SampleCount != 20 {
		t.Fatalf("expected sample count 20, got %d", got.SampleCount)
	}
	if got.ReportStatus != "ok" {
		t.Fatalf("expected report status ok, got %q", got.ReportStatus)
	}

	limited, err := recorder.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent(1) error = %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 run with limit, got %d", len(limited))
	}
}

func TestSQLiteRecorderRejectsNilRun(t *testing.T) {
	recorder, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRecorder() error = %v", err)
	}
	defer func() {
		_ = recorder.Close()
	}()

	if err := recorder.RecordRun(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil run")
	}
}

func TestOpen(t *testing.T) {
	recorder, err := Open("")
	if err != nil {
		t.Fatalf("Open(\"\") error = %v", err)
	}
	if _, ok := recorder.(*NoopRecorder); !ok {
		t.Fatalf("expected NoopRecorder for empty path, got %T", recorder)
	}
	if err := recorder.RecordRun(context.Background(), &Run{ID: "x"}); err != nil {
		t.Fatalf("noop RecordRun() error = %v", err)
	}
	runs, err := recorder.Recent(context.Background(), 5)
	if err != nil || len(runs) != 0 {
		t.Fatalf("expected no runs from noop recorder, got %v, %v", runs, err)
	}

	sqliteRecorder, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open(path) error = %v", err)
	}
	defer func() {
		_ = sqliteRecorder.Close()
	}()
	if _, ok := sqliteRecorder.(*SQLiteRecorder); !ok {
		t.Fatalf("expected SQLiteRecorder, got %T", sqliteRecorder)
	}
}
