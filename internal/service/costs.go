package service

import (
	"context"
	"fmt"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/analytics/costing"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/analytics/expense"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/analytics/inventory"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/analytics/period"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type InventoryReport struct {
	AsOf    string                  `json:"as_of"`
	Items   []inventory.Health      `json:"items"`
	Summary []inventory.StatusCount `json:"summary"`
}

type MonthlyCostReport struct {
	Month        string          `json:"month"`
	FixedCost    decimal.Decimal `json:"fixed_cost"`
	Expenditures expense.Totals  `json:"expenditures"`
	Result       expense.Result  `json:"result"`
}

func (s *AnalyticsService) RecipeCosts(ctx context.Context) ([]costing.RecipeCosting, error) {
	return cached(ctx, s, "recipe_costs", struct{}{}, func() ([]costing.RecipeCosting, error) {
		recipes, materials, err := s.loadCatalog(ctx)
		if err != nil {
			return nil, err
		}
		return costing.EvaluateAll(recipes, materials), nil
	})
}

func (s *AnalyticsService) RecipeCost(ctx context.Context, id string) (costing.RecipeCosting, error) {
	recipe, err := s.store.Catalog.GetRecipe(ctx, id)
	if err != nil {
		return costing.RecipeCosting{}, err
	}
	materials, err := s.store.Catalog.ListMaterials(ctx)
	if err != nil {
		return costing.RecipeCosting{}, fmt.Errorf("load materials: %w", err)
	}
	return costing.Evaluate(recipe, costing.IndexMaterials(materials)), nil
}

func (s *AnalyticsService) loadCatalog(ctx context.Context) ([]domain.MenuRecipe, []domain.RawMaterial, error) {
	var (
		recipes   []domain.MenuRecipe
		materials []domain.RawMaterial
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recipes, err = s.store.Catalog.ListRecipes(gctx)
		if err != nil {
			return fmt.Errorf("load recipes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		materials, err = s.store.Catalog.ListMaterials(gctx)
		if err != nil {
			return fmt.Errorf("load materials: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return recipes, materials, nil
}

// InventoryHealth assesses every inventory item as of today. Items without a
// stored average usage get one estimated from the recent sales ledger.
func (s *AnalyticsService) InventoryHealth(ctx context.Context) (InventoryReport, error) {
	today := s.Today()
	key := today.Format(domain.DateLayout)

	return cached(ctx, s, "inventory_health", key, func() (InventoryReport, error) {
		var (
			items   []domain.InventoryItem
			recipes []domain.MenuRecipe
			sales   []domain.SaleRecord
		)
		usageEnd := today.AddDate(0, 0, -1)
		usageStart := today.AddDate(0, 0, -s.opts.UsageWindowDays)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			items, err = s.store.Inventory.ListItems(gctx)
			if err != nil {
				return fmt.Errorf("load inventory: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			recipes, err = s.store.Catalog.ListRecipes(gctx)
			if err != nil {
				return fmt.Errorf("load recipes: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			sales, err = s.loadSales(gctx, usageStart.Format(domain.DateLayout), usageEnd.Format(domain.DateLayout))
			return err
		})
		if err := g.Wait(); err != nil {
			return InventoryReport{}, err
		}

		usage := inventory.EstimateDailyUsage(sales, recipes, s.opts.UsageWindowDays)
		health := inventory.NewCalculator(usage).AssessAll(items, today)
		return InventoryReport{
			AsOf:    key,
			Items:   health,
			Summary: inventory.Summarize(health),
		}, nil
	})
}

// MonthlyCosts combines the month's revenue, recipe COGS, fixed costs and
// expenditures into an operating result. month is YYYY-MM.
func (s *AnalyticsService) MonthlyCosts(ctx context.Context, month string) (MonthlyCostReport, error) {
	sel, err := period.ParseSelector(month)
	if err != nil {
		return MonthlyCostReport{}, err
	}
	if sel.Mode != period.ModeMonth {
		return MonthlyCostReport{}, fmt.Errorf("%w: month must be YYYY-MM, got %q", domain.ErrInvalidDate, month)
	}

	return cached(ctx, s, "monthly_costs", sel, func() (MonthlyCostReport, error) {
		bounds := sel.Bounds()

		var (
			sales        []domain.SaleRecord
			recipes      []domain.MenuRecipe
			materials    []domain.RawMaterial
			utilities    []domain.UtilityExpense
			expenditures []domain.ExpenditureRecord
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			sales, err = s.loadSales(gctx, bounds.Start, bounds.End)
			return err
		})
		g.Go(func() error {
			var err error
			recipes, materials, err = s.loadCatalog(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			if utilities, err = s.store.Expenses.ListUtilities(gctx); err != nil {
				return fmt.Errorf("load utilities: %w", err)
			}
			if expenditures, err = s.store.Expenses.ListExpenditures(gctx); err != nil {
				return fmt.Errorf("load expenditures: %w", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return MonthlyCostReport{}, err
		}

		summary := period.Summarize(sales)
		cogs := salesCogs(sales, recipes, materials)
		fixed := expense.MonthlyFixedCost(utilities, sel.String())
		totals := expense.ExpenditureTotals(expenditures, sel)

		return MonthlyCostReport{
			Month:        sel.String(),
			FixedCost:    fixed,
			Expenditures: totals,
			Result:       expense.OperatingResult(summary.Revenue, cogs, fixed, totals.Total),
		}, nil
	})
}

// salesCogs prices every sold unit at its recipe cost. Items without a
// recipe cost nothing.
func salesCogs(sales []domain.SaleRecord, recipes []domain.MenuRecipe, materials []domain.RawMaterial) decimal.Decimal {
	idx := costing.IndexMaterials(materials)
	unitCost := make(map[string]decimal.Decimal, len(recipes))
	for _, r := range recipes {
		unitCost[r.Name] = costing.RecipeCost(r.Ingredients, idx)
	}

	total := decimal.Zero
	for _, sale := range sales {
		if c, ok := unitCost[sale.ItemName]; ok {
			total = total.Add(c.Mul(decimal.NewFromInt(int64(sale.Quantity))))
		}
	}
	return total
}
