package repository

import (
	"fmt"

	"github.com/yukikurage/task-reminder-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindBySocialOrEmail matches the provider identity first and falls back to
// an account registered with the same email.
func (r *GormUserRepository) FindBySocialOrEmail(provider models.SocialProvider, socialID, email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("social_id = ? AND social_type = ?", socialID, provider).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound || email == "" {
		return nil, err
	}
	return r.FindByEmail(email)
}

// EmailTaken reports whether a user other than exceptID owns email
func (r *GormUserRepository) EmailTaken(email string, exceptID uint64) (bool, error) {
	var count int64
	query := r.db.Model(&models.User{}).Where("email = ?", email)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update persists all user fields
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// ResetPassword stores a new password hash and deletes the pending reset
// for email in one transaction, so a used token cannot outlive the change
func (r *GormUserRepository) ResetPassword(id uint64, email, passwordHash string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).Where("id = ?", id).Update("password_hash", passwordHash)
		if result.Error != nil {
			return fmt.Errorf("failed to update password: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("email = ?", email).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return fmt.Errorf("failed to consume reset token: %w", err)
		}
		return nil
	})
}

// Delete deletes a user and all related data in a transaction
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}

		owned := []struct {
			name  string
			model interface{}
		}{
			{"tasks", &models.Task{}},
			{"activities", &models.UserActivity{}},
			{"push subscriptions", &models.PushSubscription{}},
			{"tokens", &models.PersonalAccessToken{}},
		}
		for _, o := range owned {
			if err := tx.Where("user_id = ?", id).Delete(o.model).Error; err != nil {
				return fmt.Errorf("failed to delete %s: %w", o.name, err)
			}
		}

		if err := tx.Where("email = ?", user.Email).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return fmt.Errorf("failed to delete password resets: %w", err)
		}

		return tx.Delete(&models.User{}, id).Error
	})
}
