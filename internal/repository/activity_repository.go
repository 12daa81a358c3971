package repository

import (
	"github.com/yukikurage/task-reminder-api/internal/database"
	"github.com/yukikurage/task-reminder-api/internal/models"
	"github.com/yukikurage/task-reminder-api/internal/utils"
	"gorm.io/gorm"
)

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

// Create appends an activity record
func (r *GormActivityRepository) Create(activity *models.UserActivity) error {
	return r.db.Create(activity).Error
}

// ListByUser lists a user's activity, newest first
func (r *GormActivityRepository) ListByUser(userID uint64, params utils.PaginationParams) ([]models.UserActivity, int64, error) {
	query := r.db.Model(&models.UserActivity{}).Scopes(database.OwnedBy(userID))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []models.UserActivity
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Scopes(database.Paginate(params)).
		Find(&activities).Error; err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}
