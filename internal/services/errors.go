package services

import "errors"

// Messages of user-facing errors are returned to API clients verbatim.
var (
	ErrEmailTaken               = errors.New("The email has already been taken.")
	ErrInvalidCredentials       = errors.New("The provided credentials are incorrect.")
	ErrUserNotFound             = errors.New("We could not find a user with that email address")
	ErrCurrentPasswordIncorrect = errors.New("Current password is incorrect")
	ErrInvalidResetToken        = errors.New("This password reset token is invalid.")
	ErrUnsupportedAvatar        = errors.New("The avatar field must be a file of type: jpeg, png, jpg, gif.")
	ErrInvalidToken             = errors.New("Unauthenticated.")
	ErrTaskNotFound             = errors.New("Task not found")
	ErrNoTasks                  = errors.New("No tasks found for this user")
	ErrInvalidSubscription      = errors.New("The subscription field must contain an endpoint and keys.")

	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
	ErrFailedToIssueToken   = errors.New("failed to issue token")
)
