package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/task-reminder-api/internal/models"
	"github.com/yukikurage/task-reminder-api/internal/oauth"
	"github.com/yukikurage/task-reminder-api/internal/repository"
	"github.com/yukikurage/task-reminder-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *TokenService
	activity *ActivityService
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *TokenService, activity *ActivityService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		activity: activity,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new user and issues its first token.
func (s *AuthService) Register(input RegisterInput, client ClientInfo) (*models.User, string, error) {
	email := strings.TrimSpace(input.Email)

	taken, err := s.userRepo.EmailTaken(email, 0)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, "", ErrEmailTaken
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: &hash,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.activity.Record(user.ID, models.ActivityRegister, client)
	return user, token, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials, revokes the user's previous tokens and issues
// a new one.
func (s *AuthService) Login(input LoginInput, client ClientInfo) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if !checkPassword(user.PasswordHash, input.Password) {
		return nil, "", ErrInvalidCredentials
	}

	if err := s.tokens.RevokeAll(user.ID); err != nil {
		return nil, "", fmt.Errorf("failed to revoke tokens: %w", err)
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.activity.Record(user.ID, models.ActivityLogin, client)
	return user, token, nil
}

// Logout revokes the token used for the current request.
func (s *AuthService) Logout(identity Identity, client ClientInfo) error {
	if err := s.tokens.Revoke(identity.TokenID); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.activity.Record(identity.UserID, models.ActivityLogout, client)
	return nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// LoginWithProvider signs in the owner of a social identity, creating the
// account on first use. Existing users are matched by provider id or email.
func (s *AuthService) LoginWithProvider(provider models.SocialProvider, identity *oauth.Identity, client ClientInfo) (*models.User, string, error) {
	user, err := s.userRepo.FindBySocialOrEmail(provider, identity.ID, identity.Email)
	switch {
	case err == nil:
		s.activity.Record(user.ID, models.ActivityLogin, client)
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.createSocialUser(provider, identity)
		if err != nil {
			return nil, "", err
		}
		s.activity.Record(user.ID, models.ActivityRegister, client)
	default:
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// createSocialUser stores a new account with an unusable random password.
func (s *AuthService) createSocialUser(provider models.SocialProvider, identity *oauth.Identity) (*models.User, error) {
	random, err := utils.GenerateToken(24)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
	}
	hash, err := hashPassword(random)
	if err != nil {
		return nil, err
	}

	name := identity.Name
	if name == "" {
		name = identity.Email
	}
	socialID := identity.ID

	user := &models.User{
		Name:         name,
		Email:        identity.Email,
		PasswordHash: &hash,
		SocialID:     &socialID,
		SocialType:   provider,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
	}
	return user, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrFailedToHashPassword
	}
	return string(hashed), nil
}

func checkPassword(hash *string, password string) bool {
	if hash == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*hash), []byte(password)) == nil
}
