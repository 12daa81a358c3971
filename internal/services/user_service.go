package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yukikurage/task-reminder-api/internal/models"
	"github.com/yukikurage/task-reminder-api/internal/repository"
	"gorm.io/gorm"
)

var avatarMIMETypes = []string{"image/jpeg", "image/png", "image/gif"}

// UserService manages the authenticated user's own account.
type UserService struct {
	userRepo repository.UserRepository
	activity *ActivityService
	now      func() time.Time
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, activity *ActivityService) *UserService {
	return &UserService{
		userRepo: userRepo,
		activity: activity,
		now:      time.Now,
	}
}

// UpdateProfileInput holds the profile fields present in the request. A
// nil field is left unchanged; an empty bio or location clears it.
type UpdateProfileInput struct {
	Name     *string
	Email    *string
	Bio      *string
	Location *string
}

// UpdateProfile applies a partial profile update.
func (s *UserService) UpdateProfile(userID uint64, input UpdateProfileInput, client ClientInfo) (*models.User, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		taken, err := s.userRepo.EmailTaken(email, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
		user.Email = email
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Bio != nil {
		user.Bio = nullable(*input.Bio)
	}
	if input.Location != nil {
		user.Location = nullable(*input.Location)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.activity.Record(user.ID, models.ActivityProfileUpdate, client)
	return user, nil
}

// ChangePasswordInput holds a password change request.
type ChangePasswordInput struct {
	CurrentPassword string
	Password        string
}

// ChangePassword replaces the password. Accounts created through a social
// provider that never set a password skip the current-password check.
func (s *UserService) ChangePassword(userID uint64, input ChangePasswordInput, client ClientInfo) error {
	user, err := s.findUser(userID)
	if err != nil {
		return err
	}

	if !user.IsOAuthOnly() && !checkPassword(user.PasswordHash, input.CurrentPassword) {
		return ErrCurrentPasswordIncorrect
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return err
	}
	now := s.now()
	user.PasswordHash = &hash
	user.PasswordUpdatedAt = &now

	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.activity.Record(user.ID, models.ActivityPasswordChange, client)
	return nil
}

// DeleteAccount removes the user and everything it owns.
func (s *UserService) DeleteAccount(userID uint64) error {
	if err := s.userRepo.Delete(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// UploadAvatar stores image data as a data URI on the user and returns it.
func (s *UserService) UploadAvatar(userID uint64, data []byte, client ClientInfo) (string, error) {
	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), avatarMIMETypes...) {
		return "", ErrUnsupportedAvatar
	}

	user, err := s.findUser(userID)
	if err != nil {
		return "", err
	}

	avatar := "data:" + mtype.String() + ";base64," + base64.StdEncoding.EncodeToString(data)
	user.Avatar = &avatar
	if err := s.userRepo.Update(user); err != nil {
		return "", fmt.Errorf("failed to save avatar: %w", err)
	}

	s.activity.Record(user.ID, models.ActivityAvatarUpload, client)
	return avatar, nil
}

func (s *UserService) findUser(userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func nullable(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

