// Package database provides database connection management for the chainpulse
// options analytics system.
//
// This package includes:
//   - Database connection management using GORM and PostgreSQL
//   - Support for TimescaleDB hypertables and continuous aggregates
//   - Comprehensive error handling and validation
//
// Key Concepts:
//   - TimescaleDB hypertables for option-chain time-series data
//   - Continuous aggregates for pre-computed daily chain rows
//   - Composite primary keys for hypertable compatibility
//
// Data Models:
//
//	All data models (OptionChainTick, SignalDB, StrategyDB, etc.) are defined
//	in the models_pkg package to avoid circular import dependencies.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	models "chainpulse/database/models_pkg"
)

// Database holds the GORM database connection and provides access to the underlying DB instance.
// It serves as the central connection point for all database operations in the application.
type Database struct {
	db *gorm.DB
}

// DB returns the underlying GORM database instance for direct access when needed.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Connect establishes database connection using GORM
func Connect(host string, port int, dbname, user, password string) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Silent logging for production
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// Migrate creates or updates the application tables. Hypertable conversion
// for option_chain_ticks is handled by SQL migrations, not AutoMigrate.
func (d *Database) Migrate() error {
	return d.db.AutoMigrate(
		&models.OptionChainTick{},
		&models.SignalDB{},
		&models.StrategyDB{},
		&models.BacktestRunDB{},
	)
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ============================================================================
// Backward Compatibility Type Aliases
// ============================================================================

// These type aliases let callers import the core models from the database
// package directly.

type OptionChainTick = models.OptionChainTick
type OptionChainDaily = models.OptionChainDaily
type SignalDB = models.SignalDB
type StrategyDB = models.StrategyDB
type BacktestRunDB = models.BacktestRunDB
type SignalStats = models.SignalStats
