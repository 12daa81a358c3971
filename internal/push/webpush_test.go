package push

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-reminder-api/internal/models"
)

func newBrowserSubscription(t *testing.T, endpoint string) models.PushSubscription {
	t.Helper()

	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)

	auth := make([]byte, 16)
	_, err = rand.Read(auth)
	require.NoError(t, err)

	return models.PushSubscription{
		Endpoint:  endpoint,
		P256dhKey: base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
		AuthToken: base64.RawURLEncoding.EncodeToString(auth),
	}
}

func TestWebPushTransport_Send(t *testing.T) {
	var gotAuth, gotEncoding string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotEncoding = r.Header.Get("Content-Encoding")
		if strings.HasSuffix(r.URL.Path, "/gone") {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	publicKey, privateKey, err := GenerateVAPIDKeys()
	require.NoError(t, err)

	transport := NewWebPushTransport(VAPIDConfig{
		Subject:    "mailto:ops@example.com",
		PublicKey:  publicKey,
		PrivateKey: privateKey,
	}, server.Client())

	status, err := transport.Send(context.Background(), newBrowserSubscription(t, server.URL+"/ok"), []byte(`{"title":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.True(t, strings.HasPrefix(gotAuth, "vapid "))
	assert.Equal(t, "aes128gcm", gotEncoding)

	status, err = transport.Send(context.Background(), newBrowserSubscription(t, server.URL+"/gone"), []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusGone, status)
}
