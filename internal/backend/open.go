// Package backend selects and opens the configured task store.
package backend

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"todo/internal/backend/csvfile"
	"todo/internal/backend/googletasks"
	"todo/internal/backend/sqlite"
	"todo/internal/config"
	"todo/internal/repository"
)

// Open returns the repository named by cfg.Backend.
// Configuration and credential problems wrap config.ErrInvalid.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("backend", cfg.Backend)

	switch cfg.Backend {
	case config.BackendSQLite:
		logger.Debug("opening store", "path", cfg.DataPath())
		return sqlite.Open(cfg.DataPath(), logger)

	case config.BackendGoogle:
		if !cfg.HasOAuthClient() {
			return nil, fmt.Errorf("%w: oauth_client.json not found in %s", config.ErrInvalid, cfg.Dir)
		}
		if !cfg.HasToken() {
			return nil, fmt.Errorf("%w: not logged in (run: todo login)", config.ErrInvalid)
		}
		client, err := googletasks.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
		}
		logger.Debug("opening store", "list", client.ListID())
		return client, nil

	default:
		logger.Debug("opening store", "path", cfg.DataPath())
		return csvfile.New(cfg.DataPath(), csvfile.WithLogger(logger)), nil
	}
}
