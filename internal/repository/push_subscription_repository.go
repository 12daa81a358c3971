package repository

import (
	"github.com/yukikurage/task-reminder-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPushSubscriptionRepository is a GORM implementation of PushSubscriptionRepository
type GormPushSubscriptionRepository struct {
	db *gorm.DB
}

// NewPushSubscriptionRepository creates a new PushSubscriptionRepository
func NewPushSubscriptionRepository(db *gorm.DB) PushSubscriptionRepository {
	return &GormPushSubscriptionRepository{db: db}
}

// Upsert creates the subscription or replaces the keys of an existing one
func (r *GormPushSubscriptionRepository) Upsert(sub *models.PushSubscription) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh_key", "auth_token", "updated_at"}),
		}).
		Create(sub).Error
}

// ListByUser lists a user's subscriptions
func (r *GormPushSubscriptionRepository) ListByUser(userID uint64) ([]models.PushSubscription, error) {
	var subs []models.PushSubscription
	if err := r.db.Where("user_id = ?", userID).Order("id").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// Delete removes a single subscription
func (r *GormPushSubscriptionRepository) Delete(id uint64) error {
	return r.db.Delete(&models.PushSubscription{}, id).Error
}

// DeleteByUser removes all of a user's subscriptions
func (r *GormPushSubscriptionRepository) DeleteByUser(userID uint64) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&models.PushSubscription{})
	return result.RowsAffected, result.Error
}

// DeleteByUserEndpoint removes one endpoint of a user
func (r *GormPushSubscriptionRepository) DeleteByUserEndpoint(userID uint64, endpoint string) (int64, error) {
	result := r.db.Where("user_id = ? AND endpoint = ?", userID, endpoint).Delete(&models.PushSubscription{})
	return result.RowsAffected, result.Error
}
