package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-reminder-api/internal/models"
	"github.com/yukikurage/task-reminder-api/internal/repository"
	"github.com/yukikurage/task-reminder-api/internal/testutil"
	"go.uber.org/zap/zaptest"
)

func TestExpirySweeper_Sweep(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "a@example.com")
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	overdue := testutil.CreateTask(t, db, user.ID, "Overdue", models.TaskStatusInProgress, yesterday)
	justDue := testutil.CreateTask(t, db, user.ID, "Due now", models.TaskStatusInProgress, now)
	future := testutil.CreateTask(t, db, user.ID, "Future", models.TaskStatusInProgress, now.Add(time.Hour))
	completed := testutil.CreateTask(t, db, user.ID, "Completed", models.TaskStatusCompleted, yesterday)

	sweeper := NewExpirySweeper(repository.NewTaskRepository(db), func() time.Time { return now }, zaptest.NewLogger(t))
	n, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	status := func(id uint64) models.TaskStatus {
		var task models.Task
		require.NoError(t, db.First(&task, id).Error)
		return task.Status
	}
	assert.Equal(t, models.TaskStatusExpired, status(overdue.ID))
	assert.Equal(t, models.TaskStatusInProgress, status(justDue.ID))
	assert.Equal(t, models.TaskStatusInProgress, status(future.ID))
	assert.Equal(t, models.TaskStatusCompleted, status(completed.ID))

	// Nothing left to expire.
	n, err = sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
