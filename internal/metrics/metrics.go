// Package metrics holds the Prometheus collectors exported on /metrics.
//
// All metrics are prefixed with "task_reminder_":
//   - task_reminder_scheduler_runs_total{outcome} - scheduler invocations, "skipped" outside the window
//   - task_reminder_due_tasks_checked_total - due tasks examined inside the window
//   - task_reminder_notifications_sent_total - reminders delivered to at least one endpoint
//   - task_reminder_push_deliveries_total{result} - individual Web Push attempts
//   - task_reminder_subscriptions_pruned_total - endpoints removed after a 410 response
//   - task_reminder_tasks_expired_total - tasks moved to expired by the sweep
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scheduler outcomes
const (
	OutcomeSkipped = "skipped"
	OutcomeRan     = "ran"
	OutcomeFailed  = "failed"
)

// Push delivery results
const (
	DeliverySuccess = "success"
	DeliveryGone    = "gone"
	DeliveryFailed  = "failed"
)

var (
	SchedulerRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_reminder_scheduler_runs_total",
			Help: "Total number of due-task scheduler invocations",
		},
		[]string{"outcome"},
	)

	DueTasksChecked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "task_reminder_due_tasks_checked_total",
		Help: "Total number of due tasks examined inside the reminder window",
	})

	NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "task_reminder_notifications_sent_total",
		Help: "Total number of reminders delivered to at least one endpoint",
	})

	PushDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_reminder_push_deliveries_total",
			Help: "Total number of Web Push delivery attempts",
		},
		[]string{"result"},
	)

	SubscriptionsPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "task_reminder_subscriptions_pruned_total",
		Help: "Total number of push subscriptions deleted after a 410 response",
	})

	TasksExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "task_reminder_tasks_expired_total",
		Help: "Total number of tasks marked expired by the sweep",
	})
)
