package db

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	db, err := Open("sqlite", "file::memory:")

	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestNewPostgresWithConn(t *testing.T) {
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	db, err := NewPostgresWithConn(conn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", db.Dialector.Name())
	assert.True(t, db.Config.TranslateError)
}

func TestMigrationsFS(t *testing.T) {
	for _, driver := range []string{DriverPostgres, DriverMySQL} {
		t.Run(driver, func(t *testing.T) {
			migrationFS, err := MigrationsFS(driver)
			require.NoError(t, err)

			body, err := fs.ReadFile(migrationFS, "00001_create_users.sql")
			require.NoError(t, err)
			assert.Contains(t, string(body), "-- +goose Up")
			assert.Contains(t, string(body), "users_email_key")
			assert.Contains(t, string(body), "users_role_check")
		})
	}

	_, err := MigrationsFS(DriverMemory)
	assert.Error(t, err)
}

func TestMigrate(t *testing.T) {
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	t.Run("runs embedded migrations", func(t *testing.T) {
		var gotDir string
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			gotDir = dir
			return nil
		}

		require.NoError(t, Migrate(context.Background(), conn, DriverPostgres))
		assert.Equal(t, ".", gotDir)
	})

	t.Run("wraps goose errors", func(t *testing.T) {
		boom := errors.New("boom")
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			return boom
		}

		err := Migrate(context.Background(), conn, DriverMySQL)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("unknown driver", func(t *testing.T) {
		assert.Error(t, Migrate(context.Background(), conn, "oracle"))
	})
}
