// Package database provides the relational database client.
// It supports MySQL and PostgreSQL for production and pure-Go SQLite
// for local development and tests.
package database

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	mysqldriver "gorm.io/driver/mysql"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dbopts "github.com/kart-io/ragchat/pkg/options/database"
)

// New opens a database connection from the provided options and
// configures the connection pool.
func New(opts *dbopts.Options) (*gorm.DB, error) {
	return NewWithContext(context.Background(), opts)
}

// NewWithContext opens a database connection, verifying it with a ping
// bounded by ctx.
func NewWithContext(ctx context.Context, opts *dbopts.Options) (*gorm.DB, error) {
	if opts == nil {
		return nil, fmt.Errorf("database options cannot be nil")
	}

	var dialector gorm.Dialector
	switch opts.Driver {
	case dbopts.DriverMySQL:
		dialector = mysqldriver.Open(opts.DSN())
	case dbopts.DriverPostgres:
		dialector = postgresdriver.Open(opts.DSN())
	case dbopts.DriverSQLite:
		dialector = sqlite.Open(opts.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel(opts.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(opts.MaxIdleConnections)
	sqlDB.SetMaxOpenConns(opts.MaxOpenConnections)
	sqlDB.SetConnMaxLifetime(opts.MaxConnectionLifeTime)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func logLevel(level int) gormlogger.LogLevel {
	switch level {
	case 2:
		return gormlogger.Error
	case 3:
		return gormlogger.Warn
	case 4:
		return gormlogger.Info
	default:
		return gormlogger.Silent
	}
}
