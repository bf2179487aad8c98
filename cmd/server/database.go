package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/phrazzld/tasknest-api/internal/config"
)

// setupDatabase opens a connection pool to PostgreSQL and verifies it with a
// ping. Returns the pool or an error if the database is unreachable.
func setupDatabase(cfg *config.Config, appLogger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	appLogger.Info("database connection established")
	return db, nil
}

// closeDatabase closes the pool, logging rather than failing on error.
func closeDatabase(db *sql.DB, appLogger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		appLogger.Error("failed to close database connection", "error", err)
	}
}
