// Package scheduler runs the periodic jobs: evening due-task reminders and
// the overdue-task expiry sweep.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/yukikurage/task-reminder-api/internal/metrics"
	"github.com/yukikurage/task-reminder-api/internal/models"
	"github.com/yukikurage/task-reminder-api/internal/repository"
	"go.uber.org/zap"
)

// Reminder delivers the due reminder for one task and reports success.
type Reminder interface {
	SendTaskDueReminder(ctx context.Context, user models.User, task models.Task) bool
}

// Config holds scheduler settings
type Config struct {
	Window   Window
	Location *time.Location
	Interval time.Duration
	Now      func() time.Time
}

// Result summarizes one scheduler invocation.
type Result struct {
	InWindow bool
	Checked  int
	Sent     int
}

// DueTaskScheduler sends reminders for tasks due today during the evening
// window. Reruns inside the window resend reminders; nothing records that a
// task was already reminded.
type DueTaskScheduler struct {
	tasks    repository.TaskRepository
	reminder Reminder
	window   Window
	location *time.Location
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewDueTaskScheduler creates a new DueTaskScheduler
func NewDueTaskScheduler(tasks repository.TaskRepository, reminder Reminder, cfg Config, logger *zap.Logger) *DueTaskScheduler {
	s := &DueTaskScheduler{
		tasks:    tasks,
		reminder: reminder,
		window:   cfg.Window,
		location: cfg.Location,
		interval: cfg.Interval,
		now:      cfg.Now,
		logger:   logger.Named("scheduler"),
	}
	if s.window == (Window{}) {
		s.window = DefaultWindow
	}
	if s.location == nil {
		s.location = time.Local
	}
	if s.interval <= 0 {
		s.interval = time.Minute
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// RunOnce performs a single scheduler pass.
func (s *DueTaskScheduler) RunOnce(ctx context.Context) (Result, error) {
	now := s.now().In(s.location)

	if !s.window.Contains(now) {
		metrics.SchedulerRuns.WithLabelValues(metrics.OutcomeSkipped).Inc()
		s.logger.Debug("outside reminder window",
			zap.String("time", now.Format(clockLayout)),
			zap.Stringer("window", s.window))
		return Result{}, nil
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	endOfDay := startOfDay.AddDate(0, 0, 1)

	dueTasks, err := s.tasks.ListActiveDueBetween(startOfDay, endOfDay)
	if err != nil {
		metrics.SchedulerRuns.WithLabelValues(metrics.OutcomeFailed).Inc()
		return Result{InWindow: true}, fmt.Errorf("failed to list due tasks: %w", err)
	}

	result := Result{InWindow: true, Checked: len(dueTasks)}
	for _, task := range dueTasks {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if s.reminder.SendTaskDueReminder(ctx, task.User, task) {
			result.Sent++
		}
	}

	metrics.SchedulerRuns.WithLabelValues(metrics.OutcomeRan).Inc()
	metrics.DueTasksChecked.Add(float64(result.Checked))
	metrics.NotificationsSent.Add(float64(result.Sent))

	s.logger.Info(fmt.Sprintf("checked %d due tasks for today, sent %d notifications", result.Checked, result.Sent),
		zap.Int("checked", result.Checked),
		zap.Int("sent", result.Sent))

	return result, nil
}

// Start runs RunOnce every interval until ctx is cancelled. Passes run
// sequentially on the calling goroutine.
func (s *DueTaskScheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("due-task scheduler started",
		zap.Duration("interval", s.interval),
		zap.Stringer("window", s.window),
		zap.String("timezone", s.location.String()))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("due-task scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("due-task scheduler run failed", zap.Error(err))
			}
		}
	}
}
