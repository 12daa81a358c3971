package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yukikurage/task-reminder-api/internal/constants"
	"github.com/yukikurage/task-reminder-api/internal/models"
	"github.com/yukikurage/task-reminder-api/internal/repository"
	"github.com/yukikurage/task-reminder-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ResetMailer delivers password reset links.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

// PasswordResetService implements the forgot/reset password flow. Only a
// bcrypt hash of the emailed token is stored.
type PasswordResetService struct {
	userRepo    repository.UserRepository
	resets      repository.PasswordResetRepository
	mailer      ResetMailer
	activity    *ActivityService
	frontendURL string
	ttl         time.Duration
	now         func() time.Time
}

// NewPasswordResetService creates a new PasswordResetService
func NewPasswordResetService(
	userRepo repository.UserRepository,
	resets repository.PasswordResetRepository,
	mailer ResetMailer,
	activity *ActivityService,
	frontendURL string,
) *PasswordResetService {
	return &PasswordResetService{
		userRepo:    userRepo,
		resets:      resets,
		mailer:      mailer,
		activity:    activity,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		ttl:         constants.PasswordResetTTL,
		now:         time.Now,
	}
}

// ForgotPassword stores a fresh reset token for email and mails the link.
func (s *PasswordResetService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	token, err := utils.GenerateToken(32)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}
	if err := s.resets.Put(user.Email, string(hash), s.now()); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s&email=%s", s.frontendURL, token, url.QueryEscape(user.Email))
	if err := s.mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ResetPasswordInput holds a password reset request.
type ResetPasswordInput struct {
	Token    string
	Email    string
	Password string
}

// ResetPassword sets a new password when token is valid for email. The
// token is consumed.
func (s *PasswordResetService) ResetPassword(input ResetPasswordInput, client ClientInfo) error {
	email := strings.TrimSpace(input.Email)

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	valid, err := s.TokenValid(email, input.Token)
	if err != nil {
		return err
	}
	if !valid {
		return ErrInvalidResetToken
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return err
	}
	if err := s.userRepo.ResetPassword(user.ID, user.Email, hash); err != nil {
		return err
	}

	s.activity.Record(user.ID, models.ActivityPasswordReset, client)
	return nil
}

// TokenValid reports whether token is the unexpired pending token for email.
func (s *PasswordResetService) TokenValid(email, token string) (bool, error) {
	row, err := s.resets.Find(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load reset token: %w", err)
	}

	if s.now().Sub(row.CreatedAt) > s.ttl {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(row.TokenHash), []byte(token)) == nil, nil
}
