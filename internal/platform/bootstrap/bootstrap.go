// Package bootstrap wires configuration, storage and collaborators into the
// service container shared by the server and the CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/adapters/database/pgsql"
	"github.com/SscSPs/ledger_assistant/internal/adapters/llm"
	"github.com/SscSPs/ledger_assistant/internal/adapters/lock"
	"github.com/SscSPs/ledger_assistant/internal/adapters/vectorindex"
	"github.com/SscSPs/ledger_assistant/internal/apperrors"
	portssvc "github.com/SscSPs/ledger_assistant/internal/core/ports/services"
	"github.com/SscSPs/ledger_assistant/internal/core/services"
	"github.com/SscSPs/ledger_assistant/internal/platform/config"
	"github.com/SscSPs/ledger_assistant/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const lockTTL = 2 * time.Minute

// App owns every long-lived resource. Close releases them in reverse order.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Pool     *pgxpool.Pool
	Services *portssvc.ServiceContainer

	index *vectorindex.Index
	redis *redis.Client
}

// NewLogger builds the JSON logger at the configured level.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// New connects to the database, applies migrations and builds the services.
// Optional collaborators (Redis, OpenAI) are skipped when not configured.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	app.Pool = pool
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
		app.Close()
		return nil, err
	}

	collaborators := services.Collaborators{}

	if cfg.RedisAddress != "" {
		rdb, err := database.NewRedisClient(ctx, cfg.RedisAddress, cfg.RedisPassword)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.redis = rdb
		collaborators.Locker = lock.NewRedisLocker(rdb, lockTTL)
		logger.Info("Using Redis ingestion lock", slog.String("address", cfg.RedisAddress))
	} else {
		collaborators.Locker = lock.NewLocalLocker()
	}

	if cfg.OpenAIAPIKey != "" {
		client, err := llm.NewClient(llm.Config{
			APIKey:         cfg.OpenAIAPIKey,
			BaseURL:        cfg.OpenAIBaseURL,
			ChatModel:      cfg.OpenAIChatModel,
			EmbeddingModel: cfg.OpenAIEmbeddingModel,
		})
		if err != nil {
			app.Close()
			return nil, err
		}
		collaborators.Planner = client

		if dir := filepath.Dir(cfg.IndexPath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				app.Close()
				return nil, fmt.Errorf("failed to create index directory: %w", err)
			}
		}
		index, err := openIndex(logger, cfg.IndexPath, client)
		if err != nil {
			app.Close()
			return nil, err
		}
		if index != nil {
			app.index = index
			collaborators.Index = index
		}
	} else {
		logger.Warn("OPENAI_API_KEY not set; search is disabled and answers use structured fallbacks")
	}

	app.Services = services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(pool), collaborators)

	if err := app.Services.Account.EnsureDefaultAccounts(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create default accounts: %w", err)
	}
	return app, nil
}

// openIndex opens the semantic index. An index held by another process is
// not fatal: the caller runs without search and a nil index is returned.
func openIndex(logger *slog.Logger, path string, embedder vectorindex.Embedder, opts ...vectorindex.Option) (*vectorindex.Index, error) {
	index, err := vectorindex.Open(path, embedder, opts...)
	if errors.Is(err, apperrors.ErrCollaborator) {
		logger.Warn("Semantic index unavailable, continuing without search",
			slog.String("path", path), slog.String("error", err.Error()))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	logger.Info("Semantic index opened", slog.String("path", path))
	return index, nil
}

// Close releases the index, Redis and the pool.
func (a *App) Close() {
	if a.index != nil {
		if err := a.index.Close(); err != nil {
			a.Logger.Error("Failed to close semantic index", slog.String("error", err.Error()))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Error("Failed to close Redis client", slog.String("error", err.Error()))
		}
	}
	if a.Pool != nil {
		database.ClosePgxPool(a.Pool)
	}
}
