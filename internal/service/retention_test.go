package service

import (
	"context"
	"testing"
	"time"
)

func TestRetentionCutoff(t *testing.T) {
	now := time.Date(2026, 8, 30, 4, 0, 0, 0, time.UTC)
	cutoff := retentionCutoff(now, 30)

	kept := now.AddDate(0, 0, -29)
	dropped := now.AddDate(0, 0, -31)
	if !kept.After(cutoff) {
		t.Fatalf("29-day-old row must survive a 30-day horizon (cutoff %s)", cutoff)
	}
	if !dropped.Before(cutoff) {
		t.Fatalf("31-day-old row must fall below the cutoff (cutoff %s)", cutoff)
	}
	if want := now.AddDate(0, 0, -30); !cutoff.Equal(want) {
		t.Fatalf("cutoff = %s, want %s", cutoff, want)
	}
}

func TestSweepRejectsNonPositiveHorizon(t *testing.T) {
	svc := &RetentionService{Repo: newStubRepo()}
	if _, err := svc.Sweep(context.Background(), 0); err == nil {
		t.Fatalf("expected error for zero retention days")
	}
	if _, err := svc.Sweep(context.Background(), -7); err == nil {
		t.Fatalf("expected error for negative retention days")
	}
}
