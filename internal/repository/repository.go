package repository

import (
	"time"

	"github.com/yukikurage/task-reminder-api/internal/models"
	"github.com/yukikurage/task-reminder-api/internal/utils"
)

// TaskRepository defines the interface for task data access. Every
// per-task operation takes the owner ID and filters on it in SQL.
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindOwned finds a task by ID belonging to userID
	FindOwned(userID, id uint64) (*models.Task, error)

	// List retrieves a user's tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// ListAllByUser returns every task of a user, newest first
	ListAllByUser(userID uint64) ([]models.Task, error)

	// CountByUser counts a user's tasks
	CountByUser(userID uint64) (int64, error)

	// UpdateOwned applies a partial update to a task belonging to userID
	UpdateOwned(userID, id uint64, fields map[string]interface{}) (*models.Task, error)

	// DeleteOwned deletes a task belonging to userID
	DeleteOwned(userID, id uint64) error

	// ListCategories returns the distinct categories a user has used
	ListCategories(userID uint64) ([]Category, error)

	// ListActiveDueBetween returns tasks that are neither completed nor
	// expired with due_date in [from, to), owners preloaded
	ListActiveDueBetween(from, to time.Time) ([]models.Task, error)

	// ExpireOverdue marks in-progress tasks due before now as expired
	ExpireOverdue(now time.Time) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	UserID     uint64
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	Search     string
	Pagination utils.PaginationParams
}

// Category is a category name with the icon recorded for it
type Category struct {
	Category     string `json:"category"`
	CategoryIcon string `json:"categoryIcon"`
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindBySocialOrEmail finds a user by provider identity, falling back to email
	FindBySocialOrEmail(provider models.SocialProvider, socialID, email string) (*models.User, error)

	// EmailTaken reports whether another user already owns email
	EmailTaken(email string, exceptID uint64) (bool, error)

	// Update persists all user fields
	Update(user *models.User) error

	// ResetPassword stores a new password hash and consumes the pending
	// reset for email atomically
	ResetPassword(id uint64, email, passwordHash string) error

	// Delete removes a user and everything it owns
	Delete(id uint64) error
}

// PushSubscriptionRepository defines the interface for push subscription data access
type PushSubscriptionRepository interface {
	// Upsert creates or replaces the subscription for (user, endpoint)
	Upsert(sub *models.PushSubscription) error

	// ListByUser lists a user's subscriptions
	ListByUser(userID uint64) ([]models.PushSubscription, error)

	// Delete removes a single subscription
	Delete(id uint64) error

	// DeleteByUser removes all of a user's subscriptions
	DeleteByUser(userID uint64) (int64, error)

	// DeleteByUserEndpoint removes one endpoint of a user
	DeleteByUserEndpoint(userID uint64, endpoint string) (int64, error)
}

// ActivityRepository defines the interface for the activity log
type ActivityRepository interface {
	// Create appends an activity record
	Create(activity *models.UserActivity) error

	// ListByUser lists a user's activity, newest first
	ListByUser(userID uint64, params utils.PaginationParams) ([]models.UserActivity, int64, error)
}

// TokenRepository defines the interface for issued bearer tokens
type TokenRepository interface {
	// Create records an issued token
	Create(token *models.PersonalAccessToken) error

	// Find finds a token by ID
	Find(id string) (*models.PersonalAccessToken, error)

	// Touch updates last_used_at
	Touch(id string, at time.Time) error

	// Delete revokes a token
	Delete(id string) error

	// DeleteByUser revokes all tokens of a user
	DeleteByUser(userID uint64) error
}

// PasswordResetRepository defines the interface for pending password resets
type PasswordResetRepository interface {
	// Put stores the token hash for email, replacing any previous one
	Put(email, tokenHash string, createdAt time.Time) error

	// Find finds the pending reset for email
	Find(email string) (*models.PasswordResetToken, error)
}
