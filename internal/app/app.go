// Package app assembles the storage and auth components from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"intrak/internal/auth"
	"intrak/internal/config"
	"intrak/internal/db"
	"intrak/internal/repository"
	"intrak/internal/service"
)

// Storage is an opened user repository plus its cleanup.
type Storage struct {
	Users repository.UserRepository
	Close func() error
}

// OpenStorage connects to the configured database and applies migrations.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg.DBDriver == db.DriverMemory {
		log.Warn().Msg("using in-memory user store; data is lost on restart")
		return &Storage{
			Users: repository.NewMemoryUserRepository(),
			Close: func() error { return nil },
		}, nil
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("database pool: %w", err)
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 4*cfg.StorageTimeout)
	defer cancel()
	if err := db.Migrate(migrateCtx, sqlDB, cfg.DBDriver); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("database ready")

	return &Storage{
		Users: repository.NewUserRepository(gormDB),
		Close: sqlDB.Close,
	}, nil
}

// NewAuthService builds the hasher, token service and auth service from cfg.
func NewAuthService(cfg *config.Config, users repository.UserRepository) (service.AuthService, *auth.JWTService, error) {
	hasher, err := auth.NewBcryptHasher(cfg.BcryptCost, cfg.HashConcurrency)
	if err != nil {
		return nil, nil, err
	}
	jwtService, err := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, nil, err
	}
	return service.NewAuthService(users, hasher, jwtService, cfg.StorageTimeout), jwtService, nil
}
