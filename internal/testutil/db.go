// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-reminder-api/internal/database"
	"github.com/yukikurage/task-reminder-api/internal/models"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated in-memory SQLite database that is closed when
// the test ends. A single connection keeps every query on the same
// in-memory database.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db, zaptest.NewLogger(t)))
	return db
}

// CreateUser inserts a password-less user with the given email.
func CreateUser(t testing.TB, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "User " + email, Email: email}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTask inserts a task owned by userID.
func CreateTask(t testing.TB, db *gorm.DB, userID uint64, title string, status models.TaskStatus, due time.Time) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:       title,
		Description: title + " description",
		Category:    "Home",
		Priority:    models.TaskPriorityMedium,
		Status:      status,
		DueDate:     due.UTC(),
		UserID:      userID,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}
