package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "intrak/internal/errors"
	"intrak/internal/model"
)

// MemoryUserRepository keeps users in process memory. It enforces the same
// email uniqueness as the SQL schema and is used for DB_DRIVER=memory and tests.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]model.User
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

var _ UserRepository = (*MemoryUserRepository)(nil)

// NewMemoryUserRepository returns an empty in-memory repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[uuid.UUID]model.User),
		byEmail: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Storage("create user", err)
	}
	key := strings.ToLower(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[key]; taken {
		return apperrors.ErrDuplicateUser
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.now()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.byID[user.ID] = *user
	r.byEmail[key] = user.ID
	return nil
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Storage("find user by id", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &user, nil
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Storage("find user by email", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	user := r.byID[id]
	return &user, nil
}

func (r *MemoryUserRepository) List(ctx context.Context) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Storage("list users", err)
	}
	r.mu.RLock()
	users := make([]model.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, u)
	}
	r.mu.RUnlock()

	slices.SortFunc(users, func(a, b model.User) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Email, b.Email)
	})
	return users, nil
}

func (r *MemoryUserRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
