package cron

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeOverdueMarker struct {
	batches []int
	calls   int
	err     error
}

func (f *fakeOverdueMarker) UpdateOverdueStatus(ctx context.Context, now time.Time, limit int) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.calls >= len(f.batches) {
		return 0, nil
	}
	updated := f.batches[f.calls]
	f.calls++
	return updated, nil
}

func TestOverduePaymentsJob_Run(t *testing.T) {
	marker := &fakeOverdueMarker{batches: []int{overduePaymentsBatchSize, 3}}
	job, err := NewOverduePaymentsJob(marker, testLogger())
	if err != nil {
		t.Fatalf("unexpected job error: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	// A full first batch means more rows may remain, so the job sweeps again.
	if marker.calls != 2 {
		t.Fatalf("expected 2 sweep calls, got %d", marker.calls)
	}
}

func TestOverduePaymentsJob_RunPropagatesErrors(t *testing.T) {
	marker := &fakeOverdueMarker{err: errors.New("db down")}
	job, err := NewOverduePaymentsJob(marker, testLogger())
	if err != nil {
		t.Fatalf("unexpected job error: %v", err)
	}

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected sweep error")
	}
}

func TestNewOverduePaymentsJob_Validation(t *testing.T) {
	if _, err := NewOverduePaymentsJob(nil, testLogger()); err == nil {
		t.Fatal("expected payments requirement")
	}
	if _, err := NewOverduePaymentsJob(&fakeOverdueMarker{}, nil); err == nil {
		t.Fatal("expected logger requirement")
	}
}
