package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-reminder-api/internal/errors"
	"github.com/yukikurage/task-reminder-api/internal/middleware"
	"github.com/yukikurage/task-reminder-api/internal/services"
)

// NotificationHandler manages Web Push subscriptions.
type NotificationHandler struct {
	notifications  *services.NotificationService
	vapidPublicKey string
}

func NewNotificationHandler(notifications *services.NotificationService, vapidPublicKey string) *NotificationHandler {
	return &NotificationHandler{
		notifications:  notifications,
		vapidPublicKey: vapidPublicKey,
	}
}

// Subscribe stores a browser PushSubscription. The "subscription" field
// may be the object itself or its JSON-encoded string.
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	type SubscribeRequest struct {
		Subscription json.RawMessage `json:"subscription"`
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	input, err := decodeSubscription(req.Subscription)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := h.notifications.Subscribe(userID, input); err != nil {
		respondServiceError(c, err)
		return
	}

	success(c, http.StatusOK, "Push notification subscription saved", nil)
}

func decodeSubscription(raw json.RawMessage) (services.SubscriptionInput, error) {
	var input services.SubscriptionInput

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return input, services.ErrInvalidSubscription
	}
	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return input, services.ErrInvalidSubscription
		}
		raw = []byte(encoded)
	}
	if err := json.Unmarshal(raw, &input); err != nil {
		return input, services.ErrInvalidSubscription
	}
	return input, nil
}

// Unsubscribe removes the given endpoint, or every subscription of the
// user when no endpoint is sent.
func (h *NotificationHandler) Unsubscribe(c *gin.Context) {
	type UnsubscribeRequest struct {
		Endpoint string `json:"endpoint"`
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req UnsubscribeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.ValidationFailed(c, err)
			return
		}
	}

	if _, err := h.notifications.Unsubscribe(userID, req.Endpoint); err != nil {
		respondServiceError(c, err)
		return
	}

	success(c, http.StatusOK, "Push notification subscription removed", nil)
}

// VAPIDPublicKey exposes the application server key browsers subscribe with.
func (h *NotificationHandler) VAPIDPublicKey(c *gin.Context) {
	if h.vapidPublicKey == "" {
		apierrors.ServiceUnavailable(c, "Push notifications are not configured")
		return
	}
	success(c, http.StatusOK, "", gin.H{"publicKey": h.vapidPublicKey})
}
