package db

import (
	"database/sql"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported DB_DRIVER values.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMemory   = "memory"
)

// Pool limits applied to every SQL connection pool.
const (
	maxOpenConns    = 20
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// Open connects to the database selected by driver and returns a GORM handle.
func Open(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case DriverPostgres, "":
		return NewPostgres(dsn)
	case DriverMySQL:
		return NewMySQL(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		// Unique violations surface as gorm.ErrDuplicatedKey.
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}
}

func configurePool(sqlDB *sql.DB) {
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
}
