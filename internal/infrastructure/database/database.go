package database

import (
	"context"
	"fmt"
	"time"

	"github.com/casbin/gorm-adapter/v3"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/you/parkease/internal/infrastructure/repositories"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialector picks the gorm driver for the configured database
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open connects to the database, retrying with exponential backoff until
// the connection answers a ping or maxWait elapses.
func Open(ctx context.Context, driver, dsn string, maxWait time.Duration, log zerolog.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	var db *gorm.DB
	op := func() error {
		conn, err := gorm.Open(dialector, config)
		if err != nil {
			log.Warn().Err(err).Str("driver", driver).Msg("database not ready")
			return err
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			log.Warn().Err(err).Str("driver", driver).Msg("database ping failed")
			return err
		}
		db = conn
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = maxWait
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	return db, nil
}

// AutoMigrate creates the application tables and the Casbin policy table
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&repositories.DBUser{},
		&repositories.DBVehicle{},
		&repositories.DBLocation{},
		&repositories.DBBooking{},
	); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}

	// The adapter creates casbin_rule on construction
	if _, err := gormadapter.NewAdapterByDB(db); err != nil {
		return fmt.Errorf("failed to initialize Casbin GORM adapter: %w", err)
	}

	return nil
}
