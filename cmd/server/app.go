package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasknest-api/internal/config"
	"github.com/phrazzld/tasknest-api/internal/platform/postgres"
	"github.com/phrazzld/tasknest-api/internal/service/auth"
	"github.com/phrazzld/tasknest-api/internal/store"
)

// application holds the wired dependencies of the running server. Handlers
// and middleware receive these through their constructors, never through
// package globals.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore  store.UserStore
	taskStore  store.TaskStore
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
}

// newApplication builds the dependency graph from configuration and an open
// database connection.
func newApplication(cfg *config.Config, appLogger *slog.Logger, db *sql.DB) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	return &application{
		config:     cfg,
		logger:     appLogger,
		db:         db,
		userStore:  postgres.NewPostgresUserStore(db, appLogger),
		taskStore:  postgres.NewPostgresTaskStore(db, appLogger),
		jwtService: jwtService,
		hasher:     auth.NewBcryptHasher(cfg.Auth.BcryptCost),
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	closeDatabase(app.db, app.logger)
}
