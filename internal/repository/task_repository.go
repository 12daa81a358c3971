package repository

import (
	"strings"
	"time"

	"github.com/yukikurage/task-reminder-api/internal/database"
	"github.com/yukikurage/task-reminder-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	task.DueDate = task.DueDate.UTC()
	return r.db.Create(task).Error
}

// FindOwned finds a task by ID belonging to userID
func (r *GormTaskRepository) FindOwned(userID, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Scopes(database.OwnedBy(userID)).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Scopes(database.OwnedBy(filter.UserID))

	// Apply filters
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			r.db.Where("LOWER(title) LIKE ?", pattern).
				Or("LOWER(description) LIKE ?", pattern).
				Or("LOWER(priority) LIKE ?", pattern).
				Or("LOWER(status) LIKE ?", pattern).
				Or(r.dueDateAsText()+" LIKE ?", pattern),
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// dueDateAsText returns an expression rendering due_date as text so it can
// take part in the substring search.
func (r *GormTaskRepository) dueDateAsText() string {
	switch r.db.Dialector.Name() {
	case "postgres":
		return "CAST(due_date AS TEXT)"
	case "mysql":
		return "CAST(due_date AS CHAR)"
	default:
		return "due_date"
	}
}

// ListAllByUser returns every task of a user, newest first
func (r *GormTaskRepository) ListAllByUser(userID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Scopes(database.OwnedBy(userID)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountByUser counts a user's tasks
func (r *GormTaskRepository) CountByUser(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Scopes(database.OwnedBy(userID)).Count(&count).Error
	return count, err
}

// UpdateOwned applies a partial update to a task belonging to userID
func (r *GormTaskRepository) UpdateOwned(userID, id uint64, fields map[string]interface{}) (*models.Task, error) {
	task, err := r.FindOwned(userID, id)
	if err != nil {
		return nil, err
	}

	if due, ok := fields["due_date"].(time.Time); ok {
		fields["due_date"] = due.UTC()
	}

	if len(fields) > 0 {
		if err := r.db.Model(task).Updates(fields).Error; err != nil {
			return nil, err
		}
	}

	return r.FindOwned(userID, id)
}

// DeleteOwned deletes a task belonging to userID
func (r *GormTaskRepository) DeleteOwned(userID, id uint64) error {
	result := r.db.Scopes(database.OwnedBy(userID)).Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListCategories returns the distinct categories a user has used
func (r *GormTaskRepository) ListCategories(userID uint64) ([]Category, error) {
	var categories []Category
	err := r.db.Model(&models.Task{}).
		Select("category, MAX(category_icon) AS category_icon").
		Scopes(database.OwnedBy(userID)).
		Group("category").
		Order("category").
		Scan(&categories).Error
	return categories, err
}

// ListActiveDueBetween returns non-terminal tasks due in [from, to). Bounds
// are bound in UTC, matching how due dates are written.
func (r *GormTaskRepository) ListActiveDueBetween(from, to time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Preload("User").
		Where("status NOT IN ?", []models.TaskStatus{models.TaskStatusCompleted, models.TaskStatusExpired}).
		Where("due_date >= ? AND due_date < ?", from.UTC(), to.UTC()).
		Order("id").
		Find(&tasks).Error
	return tasks, err
}

// ExpireOverdue marks in-progress tasks due before now as expired
func (r *GormTaskRepository) ExpireOverdue(now time.Time) (int64, error) {
	result := r.db.Model(&models.Task{}).
		Where("status = ? AND due_date < ?", models.TaskStatusInProgress, now.UTC()).
		Update("status", models.TaskStatusExpired)
	return result.RowsAffected, result.Error
}
