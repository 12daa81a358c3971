package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/yukikurage/task-reminder-api/internal/metrics"
	"github.com/yukikurage/task-reminder-api/internal/repository"
	"go.uber.org/zap"
)

// ExpirySweeper marks in-progress tasks whose due date has passed as
// expired in a single bulk update.
type ExpirySweeper struct {
	tasks  repository.TaskRepository
	now    func() time.Time
	logger *zap.Logger
}

// NewExpirySweeper creates a new ExpirySweeper. A nil now uses time.Now.
func NewExpirySweeper(tasks repository.TaskRepository, now func() time.Time, logger *zap.Logger) *ExpirySweeper {
	if now == nil {
		now = time.Now
	}
	return &ExpirySweeper{
		tasks:  tasks,
		now:    now,
		logger: logger.Named("expiry"),
	}
}

// Sweep returns the number of tasks moved to expired.
func (s *ExpirySweeper) Sweep(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	expired, err := s.tasks.ExpireOverdue(s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to expire overdue tasks: %w", err)
	}

	metrics.TasksExpired.Add(float64(expired))
	s.logger.Info("expired overdue tasks", zap.Int64("count", expired))
	return expired, nil
}
