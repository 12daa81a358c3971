package push

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/yukikurage/task-reminder-api/internal/metrics"
	"github.com/yukikurage/task-reminder-api/internal/models"
	"github.com/yukikurage/task-reminder-api/internal/repository"
	"go.uber.org/zap"
)

// Transport delivers an encoded payload to one subscription and reports the
// push service's HTTP status.
type Transport interface {
	Send(ctx context.Context, sub models.PushSubscription, payload []byte) (int, error)
}

// Sender fans a payload out to every endpoint a user registered.
type Sender struct {
	subs      repository.PushSubscriptionRepository
	transport Transport
	logger    *zap.Logger
	now       func() time.Time
}

// SenderOption configures a Sender
type SenderOption func(*Sender)

// WithClock overrides the clock used for the remaining-time countdown.
func WithClock(now func() time.Time) SenderOption {
	return func(s *Sender) {
		s.now = now
	}
}

// NewSender creates a new Sender
func NewSender(subs repository.PushSubscriptionRepository, transport Transport, logger *zap.Logger, opts ...SenderOption) *Sender {
	s := &Sender{
		subs:      subs,
		transport: transport,
		logger:    logger.Named("push"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendToUser delivers payload to each of the user's subscriptions
// independently. A 410 response deletes the subscription; other failures
// are dropped. It reports whether at least one delivery succeeded.
func (s *Sender) SendToUser(ctx context.Context, userID uint64, payload Payload) bool {
	subs, err := s.subs.ListByUser(userID)
	if err != nil {
		s.logger.Warn("failed to load push subscriptions", zap.Uint64("user_id", userID), zap.Error(err))
		return false
	}
	if len(subs) == 0 {
		return false
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to encode push payload", zap.Error(err))
		return false
	}

	delivered := false
	for _, sub := range subs {
		status, err := s.transport.Send(ctx, sub, body)
		switch {
		case err == nil && status >= 200 && status < 300:
			delivered = true
			metrics.PushDeliveries.WithLabelValues(metrics.DeliverySuccess).Inc()
		case err == nil && status == http.StatusGone:
			metrics.PushDeliveries.WithLabelValues(metrics.DeliveryGone).Inc()
			if err := s.subs.Delete(sub.ID); err != nil {
				s.logger.Warn("failed to delete expired subscription", zap.Uint64("subscription_id", sub.ID), zap.Error(err))
				continue
			}
			metrics.SubscriptionsPruned.Inc()
		default:
			metrics.PushDeliveries.WithLabelValues(metrics.DeliveryFailed).Inc()
			s.logger.Debug("push delivery failed",
				zap.Uint64("subscription_id", sub.ID),
				zap.Int("status", status),
				zap.Error(err))
		}
	}

	return delivered
}

// SendTaskDueReminder sends the evening reminder for task to its owner.
func (s *Sender) SendTaskDueReminder(ctx context.Context, user models.User, task models.Task) bool {
	return s.SendToUser(ctx, user.ID, TaskDuePayload(task, s.now()))
}
