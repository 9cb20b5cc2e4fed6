package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"archive-backend/internal/documents"
	"archive-backend/internal/enrich"
	"archive-backend/internal/llm"
	anthropicllm "archive-backend/internal/llm/anthropic"
	openaillm "archive-backend/internal/llm/openai"
	"archive-backend/internal/services/health"
	"archive-backend/internal/shared/config"
	"archive-backend/internal/shared/server"
	"archive-backend/internal/shared/server/middleware"
	"archive-backend/internal/shared/storage/db"
	"archive-backend/internal/shared/telemetry"
	"archive-backend/internal/stats"
	"archive-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	LLM              llm.Client
	DocumentsRepo    documents.Repo
	UsersRepo        users.Repo
	DocumentsService *documents.Service
	UsersService     *users.Service
	StatsService     *stats.Service
	HealthService    *health.Service
	DocumentsHandler *documents.Handler
	UsersHandler     *users.Handler
	StatsHandler     *stats.Handler
	HealthHandler    *health.Handler
}

// Option customizes Build.
type Option func(*buildOptions)

type buildOptions struct {
	llm llm.Client
}

// WithLLM replaces the provider client chosen from configuration.
func WithLLM(client llm.Client) Option {
	return func(o *buildOptions) { o.llm = client }
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	var bo buildOptions
	for _, opt := range opts {
		opt(&bo)
	}
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := bo.llm
	if client == nil {
		client, err = buildLLM(cfg)
		if err != nil {
			if sqlDB != nil {
				sqlDB.Close()
			}
			return nil, err
		}
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		LLM:    client,
	}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		UserHandler:     app.UsersHandler,
		DocumentHandler: app.DocumentsHandler,
		StatsHandler:    app.StatsHandler,
		HealthHandler:   app.HealthHandler,
		RateLimiter:     middleware.NewRateLimiter(nil),
	})

	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_store", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	dsn, err := db.ResolveDSN(cfg.DatabaseURL, cfg.DatabaseName)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.Connect(ctx, dsn, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_store", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

// buildLLM picks the provider client. Without an API key uploads still
// succeed and are stored as classification errors.
func buildLLM(cfg config.Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.LLMAPIKey) == "" {
		telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{"provider": cfg.LLMProvider})
		return llm.UnconfiguredClient{Provider: cfg.LLMProvider}, nil
	}
	switch cfg.LLMProvider {
	case "anthropic":
		return anthropicllm.NewClient(anthropicllm.Config{
			APIKey:      cfg.LLMAPIKey,
			Model:       cfg.LLMModel,
			VisionModel: cfg.LLMVisionModel,
			BaseURL:     cfg.LLMBaseURL,
			Timeout:     cfg.LLMTimeout,
		})
	case "openai", "":
		return openaillm.NewClient(openaillm.Config{
			APIKey:      cfg.LLMAPIKey,
			Model:       cfg.LLMModel,
			VisionModel: cfg.LLMVisionModel,
			BaseURL:     cfg.LLMBaseURL,
			Timeout:     cfg.LLMTimeout,
			Structured:  cfg.LLMStructuredOutput,
		})
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

func buildServices(app *App) error {
	var docRepo documents.Repo
	var userRepo users.Repo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	docSvc := documents.NewService(docRepo, enrich.New(app.LLM))
	userSvc := users.NewService(userRepo)
	statsSvc := stats.NewService(docRepo, userRepo)
	healthSvc := health.NewService()

	app.DocumentsRepo = docRepo
	app.UsersRepo = userRepo
	app.DocumentsService = docSvc
	app.UsersService = userSvc
	app.StatsService = statsSvc
	app.HealthService = healthSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.UsersHandler = users.NewHandler(userSvc)
	app.StatsHandler = stats.NewHandler(statsSvc)
	app.HealthHandler = health.NewHandler(healthSvc)

	if app.DocumentsHandler == nil || app.UsersHandler == nil || app.StatsHandler == nil {
		return errors.New("failed to initialize handlers")
	}
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
