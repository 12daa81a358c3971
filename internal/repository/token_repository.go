package repository

import (
	"time"

	"github.com/yukikurage/task-reminder-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTokenRepository is a GORM implementation of TokenRepository
type GormTokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &GormTokenRepository{db: db}
}

// Create records an issued token
func (r *GormTokenRepository) Create(token *models.PersonalAccessToken) error {
	return r.db.Create(token).Error
}

// Find finds a token by ID
func (r *GormTokenRepository) Find(id string) (*models.PersonalAccessToken, error) {
	var token models.PersonalAccessToken
	if err := r.db.Where("id = ?", id).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// Touch updates last_used_at
func (r *GormTokenRepository) Touch(id string, at time.Time) error {
	return r.db.Model(&models.PersonalAccessToken{}).Where("id = ?", id).Update("last_used_at", at).Error
}

// Delete revokes a token
func (r *GormTokenRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.PersonalAccessToken{}).Error
}

// DeleteByUser revokes all tokens of a user
func (r *GormTokenRepository) DeleteByUser(userID uint64) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.PersonalAccessToken{}).Error
}

// GormPasswordResetRepository is a GORM implementation of PasswordResetRepository
type GormPasswordResetRepository struct {
	db *gorm.DB
}

// NewPasswordResetRepository creates a new PasswordResetRepository
func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &GormPasswordResetRepository{db: db}
}

// Put stores the token hash for email, replacing any previous one
func (r *GormPasswordResetRepository) Put(email, tokenHash string, createdAt time.Time) error {
	row := models.PasswordResetToken{Email: email, TokenHash: tokenHash, CreatedAt: createdAt}
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"token_hash", "created_at"}),
		}).
		Create(&row).Error
}

// Find finds the pending reset for email
func (r *GormPasswordResetRepository) Find(email string) (*models.PasswordResetToken, error) {
	var row models.PasswordResetToken
	if err := r.db.Where("email = ?", email).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
