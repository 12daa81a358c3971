package constants

import "time"

// Context keys
const (
	ContextKeyUserID  = "user_id"
	ContextKeyTokenID = "token_id"
)

// Session
const (
	SessionCookieName    = "task_session"
	SessionKeyOAuthState = "oauth_state"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 15
	MaxPageSize     = 100
)

// Auth
const (
	MinPasswordLength = 8
	AuthTokenName     = "auth_token"
	PasswordResetTTL  = 60 * time.Minute
)

// Task defaults
const (
	DefaultTaskCategory     = "Home"
	DefaultTaskCategoryIcon = "i-heroicons-home"
)

// Uploads
const (
	MaxAvatarBytes = 2 << 20
)

// Date layouts
const (
	DateTimeLayout = "2006-01-02 15:04:05"
)
