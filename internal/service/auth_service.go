package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"intrak/internal/auth"
	apperrors "intrak/internal/errors"
	"intrak/internal/model"
	"intrak/internal/repository"
	"intrak/internal/validation"
)

// DefaultStorageTimeout bounds every repository call made by the services.
const DefaultStorageTimeout = 5 * time.Second

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=student instructor coordinator"`
}

// LoginResult is a verified identity plus the session token minted for it.
type LoginResult struct {
	Token    string
	Identity model.Identity
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.PublicUser, error)
	VerifyLogin(ctx context.Context, email, password string) (*model.Identity, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type authService struct {
	users          repository.UserRepository
	hasher         auth.PasswordHasher
	tokens         *auth.JWTService
	validate       *validator.Validate
	storageTimeout time.Duration

	dummyMu   sync.Mutex
	dummyHash string
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, tokens *auth.JWTService, storageTimeout time.Duration) AuthService {
	if storageTimeout <= 0 {
		storageTimeout = DefaultStorageTimeout
	}
	return &authService{
		users:          users,
		hasher:         hasher,
		tokens:         tokens,
		validate:       validation.New(),
		storageTimeout: storageTimeout,
	}
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user with a hashed password.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.PublicUser, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	in.Role = strings.TrimSpace(in.Role)

	if err := validation.Translate(s.validate.Struct(in)); err != nil {
		return nil, err
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, apperrors.NewValidationError("password must be at most %d bytes", auth.MaxPasswordBytes)
	}
	role, ok := model.ParseRole(in.Role)
	if !ok {
		return nil, apperrors.NewValidationError("role must be one of: student, instructor, coordinator")
	}

	// Early exit only; the unique index decides concurrent races.
	_, err := s.findByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, apperrors.ErrDuplicateUser
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	if err := s.users.Create(storeCtx, user); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("user registered")
	return user.Public(), nil
}

// VerifyLogin checks credentials. Unknown email and wrong password yield the same error.
func (s *authService) VerifyLogin(ctx context.Context, email, password string) (*model.Identity, error) {
	user, err := s.findByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, apperrors.ErrNotFound) {
		s.burnCompare(ctx, password)
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	err = s.hasher.Compare(ctx, user.PasswordHash, password)
	if errors.Is(err, auth.ErrPasswordMismatch) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("compare password: %w", err)
	}

	id := user.Identity()
	return &id, nil
}

// Login verifies credentials and issues a session token.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	id, err := s.VerifyLogin(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(*id)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	log.Info().Str("user_id", id.ID.String()).Str("role", string(id.Role)).Msg("user logged in")
	return &LoginResult{Token: token, Identity: *id}, nil
}

func (s *authService) findByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	return s.users.FindByEmail(ctx, email)
}

// burnCompare spends one bcrypt comparison so unknown emails take as long as wrong passwords.
func (s *authService) burnCompare(ctx context.Context, password string) {
	hash := s.dummy(ctx)
	if hash == "" {
		return
	}
	_ = s.hasher.Compare(ctx, hash, password)
}

// dummy returns the hash used by burnCompare. A failed attempt is retried on the next call.
func (s *authService) dummy(ctx context.Context) string {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()
	if s.dummyHash != "" {
		return s.dummyHash
	}
	hash, err := s.hasher.Hash(context.WithoutCancel(ctx), "intrak-dummy-password")
	if err != nil {
		log.Warn().Err(err).Msg("dummy hash unavailable")
		return ""
	}
	s.dummyHash = hash
	return hash
}
