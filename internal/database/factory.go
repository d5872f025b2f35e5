package database

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"paywall-go/internal/config"
	"paywall-go/internal/database/migrations"
	"paywall-go/internal/paywall"
)

// NewLedgerFromConfig creates a Ledger implementation based on the database
// config type. In-memory ledgers get the schema applied directly since they
// start empty every run.
func NewLedgerFromConfig(cfg config.DatabaseConfig) (paywall.Ledger, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		return NewSQLiteLedger(filepath.Join(cfg.DataDir, "ledger.db"))
	case "memory":
		l, err := NewSQLiteLedger(":memory:")
		if err != nil {
			return nil, err
		}
		if _, err := l.db.Exec(Schema); err != nil {
			l.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}

func checkMigrations(db *sql.DB) error {
	return migrations.CheckDBMigrationStatus(db)
}

func migrateUp(db *sql.DB) error {
	return migrations.MigrateUp(db)
}
