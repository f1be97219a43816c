package service

import (
	"context"
	"time"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/cache"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository"
	"github.com/IMC-ERP/ERP-FE-sub000/pkg/logger"
	"github.com/rs/zerolog"
)

const (
	defaultTopItemsLimit   = 5
	defaultEditWindow      = 36 * time.Hour
	defaultUsageWindowDays = 28
)

type Options struct {
	TopItemsLimit   int
	EditWindow      time.Duration
	UsageWindowDays int
	BusinessOpen    int
	BusinessClose   int
	Location        *time.Location
	Now             func() time.Time
	IDs             domain.IDGenerator
}

func (o Options) withDefaults() Options {
	if o.TopItemsLimit <= 0 {
		o.TopItemsLimit = defaultTopItemsLimit
	}
	if o.EditWindow <= 0 {
		o.EditWindow = defaultEditWindow
	}
	if o.UsageWindowDays <= 0 {
		o.UsageWindowDays = defaultUsageWindowDays
	}
	if o.BusinessClose <= 0 || o.BusinessClose > 23 {
		o.BusinessClose = 23
	}
	if o.BusinessOpen < 0 || o.BusinessOpen > o.BusinessClose {
		o.BusinessOpen = 0
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.IDs == nil {
		o.IDs = domain.UUIDGenerator{}
	}
	return o
}

// AnalyticsService loads ledger snapshots from the repositories, runs the
// engines over them and caches the rendered results.
type AnalyticsService struct {
	store repository.Store
	cache cache.AnalyticsCache
	opts  Options
	log   zerolog.Logger
}

func NewAnalyticsService(store repository.Store, cacheImpl cache.AnalyticsCache, opts Options) *AnalyticsService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopAnalyticsCache()
	}
	return &AnalyticsService{
		store: store,
		cache: cacheImpl,
		opts:  opts.withDefaults(),
		log:   logger.Component("analytics"),
	}
}

// Today is the current calendar date in the reporting timezone.
func (s *AnalyticsService) Today() time.Time {
	now := s.opts.Now().In(s.opts.Location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *AnalyticsService) TopItemsLimit() int {
	return s.opts.TopItemsLimit
}

// cached serves scope/params from the cache, or runs load and stores its
// result. Cache failures are logged and never fail the request. The
// generation is read before load, so a result computed from a snapshot that a
// concurrent write has since invalidated lands under a dead key.
func cached[T any](ctx context.Context, s *AnalyticsService, scope string, params any, load func() (T, error)) (T, error) {
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("scope", scope).Msg("cache generation unavailable")
		return load()
	}

	var out T
	if ok, err := s.cache.Get(ctx, gen, scope, params, &out); err == nil && ok {
		return out, nil
	} else if err != nil {
		s.log.Warn().Err(err).Str("scope", scope).Msg("cache get failed")
	}

	out, err = load()
	if err != nil {
		return out, err
	}

	if err := s.cache.Set(ctx, gen, scope, params, out); err != nil {
		s.log.Warn().Err(err).Str("scope", scope).Msg("cache set failed")
	}
	return out, nil
}

func (s *AnalyticsService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.log.Warn().Err(err).Msg("cache invalidation failed")
	}
}
