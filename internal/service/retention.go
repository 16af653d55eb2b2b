package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"p2pmonitor/internal/repository"
)

type RetentionService struct {
	Repo   repository.MarketRepository
	Logger *zap.Logger
}

// Sweep deletes fact, bridge and satellite rows older than the horizon.
// All three tables use the same cutoff so no referencing row outlives the
// sweep it belongs to.
func (s *RetentionService) Sweep(ctx context.Context, retentionDays int) (repository.SweepResult, error) {
	if retentionDays <= 0 {
		return repository.SweepResult{}, fmt.Errorf("retention days must be positive, got %d", retentionDays)
	}
	cutoff := retentionCutoff(time.Now().UTC(), retentionDays)
	result, err := s.Repo.DeleteSnapshotsBefore(ctx, cutoff)
	if err != nil {
		return result, err
	}
	if s.Logger != nil {
		s.Logger.Info("retention sweep complete",
			zap.Time("cutoff", cutoff),
			zap.Int64("snapshots", result.Snapshots),
			zap.Int64("payments", result.Payments),
			zap.Int64("preferences", result.Preferences),
		)
	}
	return result, nil
}

func retentionCutoff(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}
