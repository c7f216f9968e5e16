package auth

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultBcryptCost matches the work factor the accounts were created with.
const DefaultBcryptCost = 10

// MaxPasswordBytes is bcrypt's input limit; longer passwords are rejected, not truncated.
const MaxPasswordBytes = 72

// ErrPasswordMismatch is returned by Compare when the password does not match.
var ErrPasswordMismatch = errors.New("password mismatch")

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Compare(ctx context.Context, hash, password string) error
}

// BcryptHasher is a PasswordHasher that caps how many bcrypt computations run at once.
type BcryptHasher struct {
	cost int
	sem  *semaphore.Weighted
}

var _ PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher creates a hasher. A non-positive concurrency defaults to GOMAXPROCS.
func NewBcryptHasher(cost, concurrency int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	return &BcryptHasher{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(concurrency)),
	}, nil
}

// Hash returns a salted bcrypt hash of password.
func (h *BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("wait for hash slot: %w", err)
	}
	defer h.sem.Release(1)

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare checks password against hash in constant time. Passwords longer than
// MaxPasswordBytes never match, since bcrypt would only look at their prefix.
func (h *BcryptHasher) Compare(ctx context.Context, hash, password string) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("wait for hash slot: %w", err)
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil && len(password) > MaxPasswordBytes {
		return ErrPasswordMismatch
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	if err != nil {
		return fmt.Errorf("compare password: %w", err)
	}
	return nil
}
