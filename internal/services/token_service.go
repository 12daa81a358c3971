package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yukikurage/task-reminder-api/internal/constants"
	"github.com/yukikurage/task-reminder-api/internal/models"
	"github.com/yukikurage/task-reminder-api/internal/repository"
	"gorm.io/gorm"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID  uint64
	TokenID string
}

// TokenService issues HS256 bearer tokens whose jti names a stored
// personal access token row. Deleting the row revokes the token.
type TokenService struct {
	tokens repository.TokenRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a new TokenService
func NewTokenService(tokens repository.TokenRepository, secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		tokens: tokens,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue stores a new token for userID and returns its signed form.
func (s *TokenService) Issue(userID uint64) (string, error) {
	now := s.now()
	record := &models.PersonalAccessToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      constants.AuthTokenName,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.tokens.Create(record); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToIssueToken, err)
	}

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		ID:        record.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(record.ExpiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToIssueToken, err)
	}
	return signed, nil
}

// Authenticate validates a bearer token and checks it has not been revoked.
func (s *TokenService) Authenticate(raw string) (*Identity, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	record, err := s.tokens.Find(claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load token: %w", err)
	}
	if record.UserID != userID {
		return nil, ErrInvalidToken
	}

	if err := s.tokens.Touch(record.ID, s.now()); err != nil {
		return nil, fmt.Errorf("failed to touch token: %w", err)
	}

	return &Identity{UserID: userID, TokenID: record.ID}, nil
}

// Revoke deletes a single token.
func (s *TokenService) Revoke(tokenID string) error {
	return s.tokens.Delete(tokenID)
}

// RevokeAll deletes every token of userID.
func (s *TokenService) RevokeAll(userID uint64) error {
	return s.tokens.DeleteByUser(userID)
}
