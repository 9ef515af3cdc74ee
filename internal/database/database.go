package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/glefebvre/cinescout/internal/config"
	"github.com/glefebvre/cinescout/internal/errors"
	"github.com/glefebvre/cinescout/internal/logger"
	"github.com/glefebvre/cinescout/internal/models"
	"github.com/glefebvre/cinescout/internal/retry"
)

var db *gorm.DB

// Initialize sets up the database connection and runs migrations
func Initialize() error {
	cfg := config.Get()

	dialector, err := openDialector(cfg)
	if err != nil {
		return err
	}

	gormCfg := &gorm.Config{
		Logger: logger.NewGormAdapter(logger.Default(), cfg.Logging.Level),
	}

	// Postgres may still be starting when we are; retry the connect.
	connectCfg := retry.DefaultConfig()
	connectCfg.MaxAttempts = 5
	connectCfg.InitialBackoff = time.Second

	err = retry.Do(context.Background(), connectCfg, func() error {
		var openErr error
		db, openErr = gorm.Open(dialector, gormCfg)
		return openErr
	}, func(err error) bool {
		return err != nil && strings.Contains(err.Error(), "connection refused")
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseConnection, "failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabase, "failed to get database instance")
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := runMigrations(); err != nil {
		return errors.Wrap(err, errors.CodeDatabase, "failed to run migrations")
	}

	return nil
}

func openDialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		if dir := filepath.Dir(cfg.Database.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(err, errors.CodeDatabase, "failed to create database directory")
			}
		}
		return sqlite.Open(cfg.Database.Path), nil
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.DBName,
			cfg.Database.SSLMode,
		)
		return postgres.Open(dsn), nil
	default:
		return nil, errors.New(errors.CodeConfig, "unsupported database driver: "+cfg.Database.Driver)
	}
}

// Get returns the database instance
func Get() *gorm.DB {
	return db
}

// Set replaces the database instance, used by tests
func Set(instance *gorm.DB) {
	db = instance
}

// HealthCheck verifies database connectivity
func HealthCheck() error {
	if db == nil {
		return errors.New(errors.CodeDatabase, "database not initialized")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabase, "failed to get database instance")
	}
	if err := sqlDB.Ping(); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseConnection, "database ping failed")
	}
	return nil
}

// Close closes the database connection
func Close() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabase, "failed to get database instance")
	}
	return sqlDB.Close()
}

func runMigrations() error {
	return db.AutoMigrate(
		&models.SearchRecord{},
	)
}
