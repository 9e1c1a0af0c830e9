// Package bootstrap wires configuration into stores and usecases for the
// server and the CLI.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go-candidate-scout/config"
	"go-candidate-scout/internal/domain"
	"go-candidate-scout/internal/repository/github"
	"go-candidate-scout/internal/repository/memory"
	"go-candidate-scout/internal/repository/postgres"
	redisrepo "go-candidate-scout/internal/repository/redis"
	"go-candidate-scout/internal/repository/saved"
	"go-candidate-scout/internal/repository/sqlite"
	"go-candidate-scout/internal/usecase"
	"go-candidate-scout/pkg/audit"
	"go-candidate-scout/pkg/database"
	"go-candidate-scout/pkg/imaging"
	"go-candidate-scout/pkg/logger"
	"go-candidate-scout/pkg/objectstore"
	"go-candidate-scout/pkg/redis"
	"go-candidate-scout/pkg/validation"
)

// App holds everything a delivery layer needs.
type App struct {
	Store         domain.KeyValueStore
	SavedUC       domain.SavedCandidateUsecase
	AcquisitionUC domain.AcquisitionUsecase
	HealthUC      usecase.HealthUsecase
	Avatars       *imaging.Prober
	Audit         *audit.Logger

	closers []func()
}

// Close releases connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

type Option func(*App)

// WithAudit replaces the default stdout audit logger.
func WithAudit(l *audit.Logger) Option {
	return func(a *App) { a.Audit = l }
}

func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	app := &App{}
	for _, opt := range opts {
		opt(app)
	}

	// Redis backs the rate limiter even when it is not the store
	if cfg.UpstashRedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
		} else {
			app.closers = append(app.closers, func() { _ = redis.Close() })
		}
	}

	store, err := app.openStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = store

	validate := validation.New()
	if app.Audit == nil {
		app.Audit = audit.New()
	}
	app.closers = append(app.closers, func() { _ = app.Audit.Sync() })

	savedOpts := []usecase.SavedOption{usecase.WithAudit(app.Audit)}
	if cfg.ArchiveConfigured() {
		archive, err := objectstore.NewS3Store(ctx, objectstore.Config{
			Provider:        objectstore.Provider(cfg.S3Provider),
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
		})
		if err != nil {
			logger.Log.Warn("Archive storage unavailable", "error", err)
		} else {
			savedOpts = append(savedOpts, usecase.WithArchive(archive))
		}
	}

	repo := saved.NewSavedCandidateRepository(store, validate)
	app.SavedUC = usecase.NewSavedCandidateUsecase(repo, validate, cfg.SortLocale, savedOpts...)

	dirCfg := github.LoadConfigFromEnv()
	if dirCfg.Token == "" {
		logger.Log.Warn("GITHUB_TOKEN not configured. Candidate loading will report a configuration error.")
	}
	directory := github.NewDirectoryRepository(dirCfg, validate)

	app.Avatars = imaging.NewProber(&http.Client{Timeout: 10 * time.Second}, cfg.AvatarHosts...)
	acqOpts := []usecase.AcquisitionOption{}
	if cfg.AvatarProbe {
		acqOpts = append(acqOpts, usecase.WithAvatarProber(app.Avatars))
	}
	app.AcquisitionUC = usecase.NewAcquisitionUsecase(directory, app.SavedUC, validate, usecase.AcquisitionConfig{
		BatchDelay:   time.Duration(cfg.BatchDelayMs) * time.Millisecond,
		ProfileDelay: time.Duration(cfg.ProfileDelayMs) * time.Millisecond,
	}, acqOpts...)

	app.HealthUC = usecase.NewHealthUsecase(store)
	return app, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (domain.KeyValueStore, error) {
	switch cfg.StoreDriver {
	case "memory", "":
		logger.Log.Warn("Using in-memory store. Saved candidates are lost on restart.")
		return memory.NewKVStore(), nil

	case "sqlite":
		db, err := database.NewSQLiteConnection(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		return sqlite.NewKVStore(ctx, db)

	case "postgres":
		pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		return postgres.NewKVStore(ctx, pool, cfg.KVTable)

	case "redis":
		client := redis.Client()
		if client == nil {
			return nil, fmt.Errorf("STORE_DRIVER=redis but redis is not connected")
		}
		return redisrepo.NewKVStore(client), nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}
