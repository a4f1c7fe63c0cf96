package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
	"github.com/placementdesk/backend/internal/config"
)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, cfg config.Database) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	configurePool(db, cfg)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database %s on %s:%s: %w", cfg.Name, cfg.Host, cfg.Port, err)
	}
	log.Printf("[DB] Connected to %s on %s:%s", cfg.Name, cfg.Host, cfg.Port)
	return db, nil
}

func configurePool(db *sql.DB, cfg config.Database) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
}

// InitDatabase opens the document database and applies migrations, exiting on failure.
func InitDatabase(ctx context.Context, cfg config.Database) *sql.DB {
	db, err := Open(ctx, cfg)
	if err != nil {
		log.Fatalf("[DB] Failed to initialize database: %v", err)
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		log.Fatalf("[DB] Failed to migrate database: %v", err)
	}
	return db
}
