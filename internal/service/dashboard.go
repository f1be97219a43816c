package service

import (
	"context"
	"fmt"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/analytics/costing"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/analytics/inventory"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/analytics/period"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"golang.org/x/sync/errgroup"
)

const defaultDashboardDays = 7

type Dashboard struct {
	Range       RangeQuery               `json:"range"`
	Summary     period.Summary           `json:"summary"`
	Comparison  period.Comparison        `json:"comparison"`
	Weekday     []period.WeekdayBucket   `json:"weekday"`
	Hourly      period.HourlyBreakdown   `json:"hourly"`
	Series      []period.SeriesPoint     `json:"series"`
	Categories  []period.CategoryTotal   `json:"categories"`
	TopItems    []period.ItemRank        `json:"top_items"`
	Inventory   []inventory.StatusCount  `json:"inventory"`
	CogsAlerts  []costing.RecipeCosting  `json:"cogs_alerts"`
	CostingBand map[costing.CogsBand]int `json:"costing_bands"`
}

// Dashboard loads the ledger, catalog and inventory concurrently and renders
// every dashboard widget from the same snapshot. An empty range defaults to
// the last seven days ending today.
func (s *AnalyticsService) Dashboard(ctx context.Context, q RangeQuery) (Dashboard, error) {
	today := s.Today()
	if q.Start == "" && q.End == "" {
		q.End = today.Format(domain.DateLayout)
		q.Start = today.AddDate(0, 0, -(defaultDashboardDays - 1)).Format(domain.DateLayout)
	}
	prev, _, err := period.PreviousRange(q.Start, q.End)
	if err != nil {
		return Dashboard{}, err
	}

	// Inventory status depends on the current date as well as the range.
	key := struct {
		RangeQuery
		Today string `json:"today"`
	}{q, today.Format(domain.DateLayout)}

	return cached(ctx, s, "dashboard", key, func() (Dashboard, error) {
		var (
			sales     []domain.SaleRecord
			recipes   []domain.MenuRecipe
			materials []domain.RawMaterial
			health    InventoryReport
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			sales, err = s.loadSales(gctx, prev.Start, q.End)
			return err
		})
		g.Go(func() error {
			var err error
			recipes, materials, err = s.loadCatalog(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			health, err = s.InventoryHealth(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return Dashboard{}, fmt.Errorf("load dashboard: %w", err)
		}

		current := period.FilterByDateRange(sales, q.Start, q.End)
		comparison, err := period.Compare(sales, q.Start, q.End)
		if err != nil {
			return Dashboard{}, err
		}
		series, err := period.DailySeries(current, q.Start, q.End)
		if err != nil {
			return Dashboard{}, err
		}

		costings := costing.EvaluateAll(recipes, materials)
		bands := make(map[costing.CogsBand]int, 3)
		alerts := make([]costing.RecipeCosting, 0)
		for _, c := range costings {
			bands[c.Band]++
			if c.Band == costing.BandCritical {
				alerts = append(alerts, c)
			}
		}

		return Dashboard{
			Range:       q,
			Summary:     period.Summarize(current),
			Comparison:  comparison,
			Weekday:     period.ByWeekday(current),
			Hourly:      period.ByHour(current, s.opts.BusinessOpen, s.opts.BusinessClose),
			Series:      series,
			Categories:  period.CategoryTotals(current),
			TopItems:    period.TopItemsByQuantity(current, s.opts.TopItemsLimit),
			Inventory:   health.Summary,
			CogsAlerts:  alerts,
			CostingBand: bands,
		}, nil
	})
}
