package service

import (
	"context"
	"fmt"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/analytics/period"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository"
)

// RangeQuery selects the inclusive date window [Start, End].
type RangeQuery struct {
	Start string `json:"start" form:"start"`
	End   string `json:"end" form:"end"`
}

func (q RangeQuery) validate() error {
	_, err := period.InclusiveDays(q.Start, q.End)
	return err
}

type HourlyQuery struct {
	RangeQuery
	StartHour *int `json:"start_hour"`
	EndHour   *int `json:"end_hour"`
}

type SeriesQuery struct {
	RangeQuery
	Granularity period.Granularity `json:"granularity"`
}

// PeriodReport covers one calendar period and its predecessor.
type PeriodReport struct {
	Period     string                 `json:"period"`
	Previous   string                 `json:"previous"`
	Bounds     period.DateRange       `json:"bounds"`
	Summary    period.Summary         `json:"summary"`
	PrevSum    period.Summary         `json:"previous_summary"`
	Categories []period.CategoryDelta `json:"categories"`
	TopItems   []period.ItemDelta     `json:"top_items"`
}

func (s *AnalyticsService) loadSales(ctx context.Context, start, end string) ([]domain.SaleRecord, error) {
	sales, err := s.store.Sales.ListSales(ctx, repository.SaleFilter{Start: start, End: end})
	if err != nil {
		return nil, fmt.Errorf("load sales %s..%s: %w", start, end, err)
	}
	return sales, nil
}

func (s *AnalyticsService) Summary(ctx context.Context, q RangeQuery) (period.Summary, error) {
	if err := q.validate(); err != nil {
		return period.Summary{}, err
	}
	return cached(ctx, s, "summary", q, func() (period.Summary, error) {
		sales, err := s.loadSales(ctx, q.Start, q.End)
		if err != nil {
			return period.Summary{}, err
		}
		return period.Summarize(sales), nil
	})
}

func (s *AnalyticsService) Weekday(ctx context.Context, q RangeQuery) ([]period.WeekdayBucket, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	return cached(ctx, s, "weekday", q, func() ([]period.WeekdayBucket, error) {
		sales, err := s.loadSales(ctx, q.Start, q.End)
		if err != nil {
			return nil, err
		}
		return period.ByWeekday(sales), nil
	})
}

// Hourly defaults the hour window to the configured business hours.
func (s *AnalyticsService) Hourly(ctx context.Context, q HourlyQuery) (period.HourlyBreakdown, error) {
	if err := q.validate(); err != nil {
		return period.HourlyBreakdown{}, err
	}
	startHour, endHour := s.opts.BusinessOpen, s.opts.BusinessClose
	if q.StartHour != nil {
		startHour = *q.StartHour
	}
	if q.EndHour != nil {
		endHour = *q.EndHour
	}
	key := struct {
		RangeQuery
		From, To int
	}{q.RangeQuery, startHour, endHour}

	return cached(ctx, s, "hourly", key, func() (period.HourlyBreakdown, error) {
		sales, err := s.loadSales(ctx, q.Start, q.End)
		if err != nil {
			return period.HourlyBreakdown{}, err
		}
		return period.ByHour(sales, startHour, endHour), nil
	})
}

func (s *AnalyticsService) Comparison(ctx context.Context, q RangeQuery) (period.Comparison, error) {
	prev, _, err := period.PreviousRange(q.Start, q.End)
	if err != nil {
		return period.Comparison{}, err
	}
	return cached(ctx, s, "comparison", q, func() (period.Comparison, error) {
		sales, err := s.loadSales(ctx, prev.Start, q.End)
		if err != nil {
			return period.Comparison{}, err
		}
		return period.Compare(sales, q.Start, q.End)
	})
}

// Series returns a zero-filled daily series for the daily granularity and
// sparse buckets for every other granularity.
func (s *AnalyticsService) Series(ctx context.Context, q SeriesQuery) ([]period.SeriesPoint, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	if q.Granularity == "" {
		q.Granularity = period.Daily
	}
	if _, err := period.ParseGranularity(string(q.Granularity)); err != nil {
		return nil, err
	}

	return cached(ctx, s, "series", q, func() ([]period.SeriesPoint, error) {
		sales, err := s.loadSales(ctx, q.Start, q.End)
		if err != nil {
			return nil, err
		}
		if q.Granularity == period.Daily {
			return period.DailySeries(sales, q.Start, q.End)
		}
		return period.Series(sales, q.Granularity), nil
	})
}

// loadPeriodSales returns the ledger covering sel and the period before it.
func (s *AnalyticsService) loadPeriodSales(ctx context.Context, sel period.Selector) ([]domain.SaleRecord, error) {
	return s.loadSales(ctx, sel.Previous().Bounds().Start, sel.Bounds().End)
}

func (s *AnalyticsService) Categories(ctx context.Context, sel period.Selector) ([]period.CategoryDelta, error) {
	return cached(ctx, s, "categories", sel, func() ([]period.CategoryDelta, error) {
		sales, err := s.loadPeriodSales(ctx, sel)
		if err != nil {
			return nil, err
		}
		return period.CompareCategories(sales, sel, sel.Previous()), nil
	})
}

func (s *AnalyticsService) TopItems(ctx context.Context, sel period.Selector, limit int) ([]period.ItemDelta, error) {
	if limit <= 0 {
		limit = s.opts.TopItemsLimit
	}
	key := struct {
		period.Selector
		Limit int
	}{sel, limit}

	return cached(ctx, s, "top_items", key, func() ([]period.ItemDelta, error) {
		sales, err := s.loadPeriodSales(ctx, sel)
		if err != nil {
			return nil, err
		}
		return period.CompareTopItems(sales, sel, sel.Previous(), limit), nil
	})
}

func (s *AnalyticsService) PeriodReport(ctx context.Context, sel period.Selector) (PeriodReport, error) {
	return cached(ctx, s, "period_report", sel, func() (PeriodReport, error) {
		sales, err := s.loadPeriodSales(ctx, sel)
		if err != nil {
			return PeriodReport{}, err
		}
		prev := sel.Previous()
		return PeriodReport{
			Period:     sel.String(),
			Previous:   prev.String(),
			Bounds:     sel.Bounds(),
			Summary:    period.Summarize(period.FilterByPeriod(sales, sel)),
			PrevSum:    period.Summarize(period.FilterByPeriod(sales, prev)),
			Categories: period.CompareCategories(sales, sel, prev),
			TopItems:   period.CompareTopItems(sales, sel, prev, s.opts.TopItemsLimit),
		}, nil
	})
}
