package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "intrak/internal/errors"
	"intrak/internal/model"
)

const (
	// DefaultTokenTTL is how long a session token stays valid.
	DefaultTokenTTL = time.Hour
	// MinSecretLength is the shortest HMAC secret accepted at startup.
	MinSecretLength = 32
)

// ErrWeakSecret is returned when the signing secret is missing or too short.
var ErrWeakSecret = fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)

// Claims represents JWT claims.
type Claims struct {
	UserID uuid.UUID  `json:"id"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity returns the identity asserted by the token.
func (c *Claims) Identity() model.Identity {
	return model.Identity{ID: c.UserID, Email: c.Email, Role: c.Role}
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a JWTService.
type Option func(*JWTService)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) {
		s.now = now
	}
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string, ttl time.Duration, opts ...Option) (*JWTService, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	s := &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the lifetime of issued tokens.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token asserting id, valid for the configured TTL.
func (s *JWTService) Issue(id model.Identity) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: id.ID,
		Email:  id.Email,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a JWT token and returns the claims.
// A token is expired from the second its exp claim names.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}
