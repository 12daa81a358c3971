package push

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/yukikurage/task-reminder-api/internal/models"
)

const defaultTTL = 24 * time.Hour

// VAPIDConfig identifies this server to push services.
type VAPIDConfig struct {
	Subject    string
	PublicKey  string
	PrivateKey string
}

// WebPushTransport sends encrypted, VAPID-signed messages over HTTP.
type WebPushTransport struct {
	client *http.Client
	vapid  VAPIDConfig
	ttl    time.Duration
}

// NewWebPushTransport creates a transport; a nil client uses a 30s timeout.
// The library adds the mailto: scheme itself for non-https subjects.
func NewWebPushTransport(vapid VAPIDConfig, client *http.Client) *WebPushTransport {
	vapid.Subject = strings.TrimPrefix(vapid.Subject, "mailto:")
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &WebPushTransport{
		client: client,
		vapid:  vapid,
		ttl:    defaultTTL,
	}
}

// Send implements Transport.
func (t *WebPushTransport) Send(ctx context.Context, sub models.PushSubscription, payload []byte) (int, error) {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dhKey,
			Auth:   sub.AuthToken,
		},
	}, &webpush.Options{
		HTTPClient:      t.client,
		Subscriber:      t.vapid.Subject,
		VAPIDPublicKey:  t.vapid.PublicKey,
		VAPIDPrivateKey: t.vapid.PrivateKey,
		TTL:             int(t.ttl / time.Second),
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

// GenerateVAPIDKeys returns a fresh base64url key pair.
func GenerateVAPIDKeys() (publicKey, privateKey string, err error) {
	privateKey, publicKey, err = webpush.GenerateVAPIDKeys()
	return publicKey, privateKey, err
}
