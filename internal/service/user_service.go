package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"intrak/internal/cache"
	"intrak/internal/model"
	"intrak/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes read access to registered users.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.PublicUser, error)
	ListUsers(ctx context.Context) ([]model.PublicUser, error)
}

type userService struct {
	repo           repository.UserRepository
	cache          *cache.Client
	storageTimeout time.Duration
}

// NewUserService builds a UserService with repository and cache. A nil cache disables caching.
func NewUserService(repo repository.UserRepository, cache *cache.Client, storageTimeout time.Duration) UserService {
	if storageTimeout <= 0 {
		storageTimeout = DefaultStorageTimeout
	}
	return &userService{repo: repo, cache: cache, storageTimeout: storageTimeout}
}

// CacheKey is the redis key holding the public profile of id.
func CacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.PublicUser, error) {
	var cached model.PublicUser
	if s.cache.GetJSON(ctx, CacheKey(id), &cached) {
		return &cached, nil
	}

	repoCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	user, err := s.repo.FindByID(repoCtx, id)
	if err != nil {
		return nil, err
	}

	public := user.Public()
	_ = s.cache.SetJSON(ctx, CacheKey(id), public, userCacheTTL)
	return public, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.PublicUser, error) {
	repoCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	users, err := s.repo.List(repoCtx)
	if err != nil {
		return nil, err
	}

	out := make([]model.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, *users[i].Public())
	}
	return out, nil
}
