// Package scheduler runs the nightly daily-summary rollup.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/service"
	"github.com/IMC-ERP/ERP-FE-sub000/pkg/logger"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const (
	DefaultRollupSpec = "5 0 * * *"
	jobTimeout        = 2 * time.Minute
)

// Rollup is the part of the analytics service the nightly job drives.
type Rollup interface {
	Today() time.Time
	DailyRollup(ctx context.Context, date string) (domain.DailySummary, error)
	LedgerSnapshot(ctx context.Context, q service.RangeQuery) ([]domain.SaleRecord, error)
}

// DayExporter uploads a rolled-up day. Optional.
type DayExporter interface {
	ExportDay(ctx context.Context, summary domain.DailySummary, sales []domain.SaleRecord) ([]string, error)
}

type Scheduler struct {
	cron     *cron.Cron
	spec     string
	rollup   Rollup
	exporter DayExporter
	log      zerolog.Logger
}

func NewScheduler(spec string, loc *time.Location, rollup Rollup, exporter DayExporter) *Scheduler {
	if spec == "" {
		spec = DefaultRollupSpec
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		spec:     spec,
		rollup:   rollup,
		exporter: exporter,
		log:      logger.Component("scheduler"),
	}
}

// Start registers the rollup job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.rollupYesterday); err != nil {
		return fmt.Errorf("schedule daily rollup %q: %w", s.spec, err)
	}
	s.log.Info().Str("spec", s.spec).Msg("starting scheduler")
	s.cron.Start()
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.log.Info().Msg("stopping scheduler")
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) rollupYesterday() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	date := s.rollup.Today().AddDate(0, 0, -1).Format(domain.DateLayout)
	if err := s.RunRollup(ctx, date); err != nil {
		s.log.Error().Err(err).Str("date", date).Msg("daily rollup failed")
	}
}

// RunRollup archives the summary of date and exports it when an exporter is
// configured. An export failure does not undo the archived summary.
func (s *Scheduler) RunRollup(ctx context.Context, date string) error {
	summary, err := s.rollup.DailyRollup(ctx, date)
	if err != nil {
		return err
	}
	if s.exporter == nil {
		return nil
	}

	sales, err := s.rollup.LedgerSnapshot(ctx, service.RangeQuery{Start: date, End: date})
	if err != nil {
		return fmt.Errorf("load ledger for export: %w", err)
	}
	keys, err := s.exporter.ExportDay(ctx, summary, sales)
	if err != nil {
		return fmt.Errorf("export %s: %w", date, err)
	}
	s.log.Info().Str("date", date).Strs("objects", keys).Msg("daily report exported")
	return nil
}
