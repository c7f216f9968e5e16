package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "intrak/internal/errors"
	"intrak/internal/model"
)

// UserRepository defines persistence operations.
//
// Implementations return apperrors.ErrNotFound for missing rows,
// apperrors.ErrDuplicateUser when the email is taken and wrap every
// other failure with apperrors.ErrStorage.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Ping(ctx context.Context) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrDuplicateUser
	}
	if err != nil {
		return apperrors.Storage("create user", err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate("find user by id", err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	// Emails are stored lowercased. Postgres indexes LOWER(email) and
	// MySQL's default collation already compares case-insensitively.
	cond := "email = ?"
	if r.db.Dialector.Name() == "postgres" {
		cond = "LOWER(email) = ?"
	}

	var user model.User
	err := r.db.WithContext(ctx).
		Where(cond, strings.ToLower(email)).
		First(&user).Error
	if err != nil {
		return nil, translate("find user by email", err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, apperrors.Storage("list users", err)
	}
	return users, nil
}

func (r *userRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return apperrors.Storage("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperrors.Storage("ping", err)
	}
	return nil
}

func translate(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	return apperrors.Storage(op, err)
}
