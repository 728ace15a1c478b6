package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/amagambo-bot/internal/config"
	"github.com/aliskhannn/amagambo-bot/internal/infra/catalog"
	"github.com/aliskhannn/amagambo-bot/internal/infra/gemini"
	"github.com/aliskhannn/amagambo-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/amagambo-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/amagambo-bot/internal/infra/sqlite"
	"github.com/aliskhannn/amagambo-bot/internal/logger"
	"github.com/aliskhannn/amagambo-bot/internal/repository"
	"github.com/aliskhannn/amagambo-bot/internal/service"
	"github.com/aliskhannn/amagambo-bot/internal/srs"
	"github.com/aliskhannn/amagambo-bot/internal/storage"
)

// app holds the dependencies shared by every command.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	scheduler *srs.Scheduler
	states    *repository.StateRepository

	transactor *postgres.Transactor // postgres driver only

	closers []func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	l, err := logger.New(cfg)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		logger:    l,
		scheduler: srs.New(loc),
	}
	a.closers = append(a.closers, func() { _ = l.Sync() })

	blobs, err := a.openStore(ctx)
	if err != nil {
		a.close()
		return nil, err
	}
	a.states = repository.NewStateRepository(blobs, l)

	return a, nil
}

func (a *app) openStore(ctx context.Context) (repository.BlobStore, error) {
	switch a.cfg.Storage.Driver {
	case config.DriverPostgres:
		dsn, err := a.cfg.DB.DSN()
		if err != nil {
			return nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(a.cfg.DB.MaxConnections),
			MaxConnLifetime: a.cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)

		store := pgrepo.NewStateStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		a.transactor = postgres.NewTransactor(pool, pgx.RepeatableRead)
		a.logger.Info("using postgres storage")
		return store, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, a.cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		a.logger.Info("using sqlite storage", zap.String("path", a.cfg.Storage.SQLitePath))
		return sqlite.NewStateStore(db), nil

	default:
		a.logger.Warn("using in-memory storage, progress is lost on restart")
		return storage.NewMemoryStateStore(), nil
	}
}

func (a *app) generator(ctx context.Context) (service.FactGenerator, error) {
	switch a.cfg.Content.Provider {
	case config.ProviderCatalog:
		c, err := catalog.Load(a.cfg.Content.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		a.logger.Info("using word catalog", zap.String("path", a.cfg.Content.CatalogPath))
		return c, nil
	default:
		g, err := gemini.NewGenerator(ctx, a.cfg.Content.APIKey, a.cfg.Content.Model, a.logger)
		if err != nil {
			return nil, err
		}
		a.logger.Info("using gemini generator", zap.String("model", a.cfg.Content.Model))
		return g, nil
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
