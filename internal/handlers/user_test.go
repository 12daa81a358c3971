package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-reminder-api/internal/models"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

func avatarRequest(t *testing.T, token string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("avatar", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/user/upload-avatar", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	env := setupTestEnv(t)
	token, _ := env.register(t, "profile@example.com")
	env.register(t, "taken@example.com")

	w := env.request(t, http.MethodPatch, "/user/update-profile", map[string]string{"email": "taken@example.com"}, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, fieldErrors(t, w), "email")

	w = env.request(t, http.MethodPatch, "/user/update-profile", map[string]string{
		"name":     "Jane",
		"bio":      "Gardener",
		"location": "Jakarta",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Profile updated successfully", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "Jane", user["name"])
	assert.Equal(t, "Gardener", user["bio"])
	assert.Equal(t, "profile@example.com", user["email"])
}

func TestUserHandler_ChangePassword(t *testing.T) {
	env := setupTestEnv(t)
	token, _ := env.register(t, "pw@example.com")

	w := env.request(t, http.MethodPatch, "/user/change-password", map[string]string{
		"current_password":      "wrong-password",
		"password":              "newpassword",
		"password_confirmation": "newpassword",
	}, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Current password is incorrect", decode(t, w)["message"])

	w = env.request(t, http.MethodPatch, "/user/change-password", map[string]string{
		"current_password":      "password123",
		"password":              "newpassword",
		"password_confirmation": "newpassword",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Password changed successfully", decode(t, w)["message"])

	w = env.request(t, http.MethodPost, "/login", map[string]string{"email": "pw@example.com", "password": "newpassword"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserHandler_UploadAvatar(t *testing.T) {
	env := setupTestEnv(t)
	token, userID := env.register(t, "avatar@example.com")

	w := env.do(avatarRequest(t, token, pngHeader))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Avatar uploaded successfully", body["message"])
	assert.True(t, strings.HasPrefix(body["avatar"].(string), "data:image/png;base64,"))

	var user models.User
	require.NoError(t, env.db.First(&user, userID).Error)
	require.NotNil(t, user.Avatar)

	w = env.do(avatarRequest(t, token, []byte("just some text")))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, fieldErrors(t, w), "avatar")

	req := httptest.NewRequest(http.MethodPost, "/user/upload-avatar", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = env.do(req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "The avatar field is required.", decode(t, w)["message"])
}

func TestUserHandler_ActivityAndDelete(t *testing.T) {
	env := setupTestEnv(t)
	token, userID := env.register(t, "gone@example.com")

	w := env.request(t, http.MethodGet, "/user/activity", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "register", data[0].(map[string]any)["action"])
	assert.Equal(t, float64(1), body["meta"].(map[string]any)["total"])

	w = env.request(t, http.MethodDelete, "/user/delete", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Account deleted successfully", decode(t, w)["message"])

	var count int64
	env.db.Model(&models.User{}).Where("id = ?", userID).Count(&count)
	assert.Zero(t, count)
	assert.Equal(t, http.StatusUnauthorized, env.request(t, http.MethodGet, "/user", nil, token).Code)
}
