package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/postgres/*.sql migrations/mysql/*.sql
var migrations embed.FS

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// gooseLogger routes goose output through zerolog.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	log.Info().Str("component", "migrate").Msgf(format, v...)
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	log.Fatal().Str("component", "migrate").Msgf(format, v...)
}

// MigrationsFS returns the embedded migration files for driver.
func MigrationsFS(driver string) (fs.FS, error) {
	switch driver {
	case DriverPostgres, DriverMySQL:
		return fs.Sub(migrations, "migrations/"+driver)
	default:
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}
}

// Migrate applies all pending migrations for driver.
func Migrate(ctx context.Context, sqlDB *sql.DB, driver string) error {
	if driver == "" {
		driver = DriverPostgres
	}
	migrationFS, err := MigrationsFS(driver)
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrationFS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := gooseUpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
