// Package app wires configuration into repositories, cache and the analytics
// service for the binaries under cmd/.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/cache"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/config"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/fixture"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository/memory"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository/mongodb"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository/postgres"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/service"
	"github.com/IMC-ERP/ERP-FE-sub000/pkg/logger"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Runtime holds the wired dependencies and the hooks that release them.
type Runtime struct {
	Store   repository.Store
	Cache   cache.AnalyticsCache
	Service *service.AnalyticsService
	closers []func(context.Context) error
}

// Close releases resources in reverse order of acquisition.
func (r *Runtime) Close(ctx context.Context) {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](ctx); err != nil {
			logger.Log.Warn().Err(err).Msg("close failed")
		}
	}
}

func (r *Runtime) onClose(fn func(context.Context) error) {
	r.closers = append(r.closers, fn)
}

// OpenStore builds the repositories selected by cfg.Store.Driver. Daily
// summaries move to MongoDB when it is enabled.
func OpenStore(ctx context.Context, cfg *config.Config, rt *Runtime) (repository.Store, error) {
	var store repository.Store

	switch cfg.Store.Driver {
	case "", DriverMemory:
		store = memory.New().Repositories()
	case DriverPostgres:
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			return repository.Store{}, fmt.Errorf("connect postgres: %w", err)
		}
		rt.onClose(func(context.Context) error { return db.Close() })
		if err := db.Migrate(ctx); err != nil {
			return repository.Store{}, err
		}
		store = postgres.Repositories(db)
	default:
		return repository.Store{}, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if cfg.Mongo.Enabled {
		summaries, err := mongodb.NewSummaryRepository(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err != nil {
			return repository.Store{}, fmt.Errorf("connect mongo: %w", err)
		}
		rt.onClose(summaries.Close)
		store.Summaries = summaries
	}
	return store, nil
}

// ServiceOptions maps the reporting config onto service options.
func ServiceOptions(cfg config.ReportingConfig) service.Options {
	return service.Options{
		TopItemsLimit: cfg.TopItemsLimit,
		EditWindow:    cfg.EditWindow(),
		BusinessOpen:  cfg.BusinessOpen,
		BusinessClose: cfg.BusinessClose,
		Location:      cfg.Location(),
	}
}

// New wires the store, cache and analytics service, seeding fixtures into
// an empty memory store when configured.
func New(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	rt := &Runtime{}

	store, err := OpenStore(ctx, cfg, rt)
	if err != nil {
		rt.Close(ctx)
		return nil, err
	}
	rt.Store = store

	analyticsCache, err := cache.NewAnalyticsCache(ctx, cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("redis unavailable, serving analytics uncached")
		analyticsCache = cache.NewNoopAnalyticsCache()
	}
	rt.Cache = analyticsCache
	rt.onClose(func(context.Context) error { return analyticsCache.Close() })

	rt.Service = service.NewAnalyticsService(store, analyticsCache, ServiceOptions(cfg.Reporting))

	if cfg.Store.SeedOnStart {
		if err := Seed(ctx, store, cfg.Store, rt.Service.Today()); err != nil {
			rt.Close(ctx)
			return nil, err
		}
	}
	return rt, nil
}

// Seed loads the deterministic fixture ledger ending yesterday.
func Seed(ctx context.Context, store repository.Store, cfg config.StoreConfig, today time.Time) error {
	ds, err := fixture.Generate(fixture.Options{
		Seed: cfg.FixtureSeed,
		Days: cfg.FixtureDays,
		End:  today.AddDate(0, 0, -1),
	}, domain.NewSequenceGenerator(fmt.Sprintf("fixture-%d", cfg.FixtureSeed)))
	if err != nil {
		return fmt.Errorf("generate fixtures: %w", err)
	}
	if err := fixture.Load(ctx, store, ds); err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}
	logger.Log.Info().Int("sales", len(ds.Sales)).Int("recipes", len(ds.Recipes)).Msg("fixtures loaded")
	return nil
}
