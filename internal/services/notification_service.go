package services

import (
	"fmt"
	"strings"

	"github.com/yukikurage/task-reminder-api/internal/models"
	"github.com/yukikurage/task-reminder-api/internal/repository"
)

// SubscriptionInput is the browser PushSubscription JSON.
type SubscriptionInput struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// NotificationService manages a user's push subscriptions.
type NotificationService struct {
	subs repository.PushSubscriptionRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(subs repository.PushSubscriptionRepository) *NotificationService {
	return &NotificationService{subs: subs}
}

// Subscribe stores the subscription, replacing the keys of an existing
// one for the same endpoint.
func (s *NotificationService) Subscribe(userID uint64, input SubscriptionInput) error {
	endpoint := strings.TrimSpace(input.Endpoint)
	if endpoint == "" || input.Keys.P256dh == "" || input.Keys.Auth == "" {
		return ErrInvalidSubscription
	}

	err := s.subs.Upsert(&models.PushSubscription{
		UserID:    userID,
		Endpoint:  endpoint,
		P256dhKey: input.Keys.P256dh,
		AuthToken: input.Keys.Auth,
	})
	if err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}

// Unsubscribe removes one endpoint, or every subscription of the user when
// endpoint is empty.
func (s *NotificationService) Unsubscribe(userID uint64, endpoint string) (int64, error) {
	var (
		n   int64
		err error
	)
	if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
		n, err = s.subs.DeleteByUserEndpoint(userID, endpoint)
	} else {
		n, err = s.subs.DeleteByUser(userID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to remove subscription: %w", err)
	}
	return n, nil
}
