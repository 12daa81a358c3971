package oauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StateTTL bounds the time between the redirect and the callback.
const StateTTL = 10 * time.Minute

const stateAudience = "oauth-state"

var ErrInvalidState = errors.New("oauth state is invalid or expired")

// StateSigner issues the state parameter as a short-lived HS256 token bound
// to one provider, so a callback can check it without a session.
type StateSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewStateSigner(secret string) *StateSigner {
	return &StateSigner{secret: []byte(secret), ttl: StateTTL, now: time.Now}
}

// Issue returns a fresh state for provider.
func (s *StateSigner) Issue(provider string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   provider,
		Audience:  jwt.ClaimStrings{stateAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign oauth state: %w", err)
	}
	return signed, nil
}

// Verify checks that state was issued here for provider and has not expired.
func (s *StateSigner) Verify(state, provider string) error {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(state, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithAudience(stateAudience),
		jwt.WithSubject(provider),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return ErrInvalidState
	}
	return nil
}
