package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/analytics/period"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository"
	"github.com/shopspring/decimal"
)

// IntakeInput carries a new stock delivery. ReceivedAt defaults to now.
type IntakeInput struct {
	ItemID     string     `json:"item_id" binding:"required"`
	Quantity   float64    `json:"quantity" binding:"required"`
	UnitCost   string     `json:"unit_cost"`
	ReceivedAt *time.Time `json:"received_at"`
}

func (s *AnalyticsService) RecordSale(ctx context.Context, in domain.SaleInput) (domain.SaleRecord, error) {
	sale, err := domain.NewSaleRecord(s.opts.IDs, in)
	if err != nil {
		return domain.SaleRecord{}, err
	}
	if err := s.store.Sales.CreateSales(ctx, []domain.SaleRecord{sale}); err != nil {
		return domain.SaleRecord{}, fmt.Errorf("save sale: %w", err)
	}
	s.invalidate(ctx)
	return sale, nil
}

// ImportSales validates every input before writing any of them.
func (s *AnalyticsService) ImportSales(ctx context.Context, inputs []domain.SaleInput) ([]domain.SaleRecord, error) {
	sales, err := buildSales(s.opts.IDs, inputs)
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return sales, nil
	}

	if err := s.store.Sales.CreateSales(ctx, sales); err != nil {
		return nil, fmt.Errorf("save sales: %w", err)
	}
	s.invalidate(ctx)
	s.log.Info().Int("rows", len(sales)).Msg("sales imported")
	return sales, nil
}

// ImportSourceSales replaces everything previously imported from source with
// inputs. IDs are derived from source and row order, so importing the same
// file twice leaves the ledger unchanged.
func (s *AnalyticsService) ImportSourceSales(ctx context.Context, source string, inputs []domain.SaleInput) ([]domain.SaleRecord, error) {
	if source == "" {
		return nil, errors.New("import source is required")
	}

	sales, err := buildSales(domain.NewSequenceGenerator(source), inputs)
	if err != nil {
		return nil, err
	}
	for i := range sales {
		sales[i].Source = source
	}

	if err := s.store.Sales.ReplaceSourceSales(ctx, source, sales); err != nil {
		return nil, fmt.Errorf("save sales from %s: %w", source, err)
	}
	s.invalidate(ctx)
	s.log.Info().Str("source", source).Int("rows", len(sales)).Msg("sales imported")
	return sales, nil
}

func buildSales(ids domain.IDGenerator, inputs []domain.SaleInput) ([]domain.SaleRecord, error) {
	sales := make([]domain.SaleRecord, 0, len(inputs))
	for i, in := range inputs {
		sale, err := domain.NewSaleRecord(ids, in)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", in.Label(i), err)
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

// UpdateSale applies u to the stored sale and persists the re-derived record.
func (s *AnalyticsService) UpdateSale(ctx context.Context, id string, u domain.SaleUpdate) (domain.SaleRecord, error) {
	current, err := s.store.Sales.GetSale(ctx, id)
	if err != nil {
		return domain.SaleRecord{}, err
	}

	next, err := current.Apply(u)
	if err != nil {
		return domain.SaleRecord{}, err
	}

	if err := s.store.Sales.UpdateSale(ctx, next); err != nil {
		return domain.SaleRecord{}, fmt.Errorf("update sale: %w", err)
	}
	s.invalidate(ctx)
	return next, nil
}

func (s *AnalyticsService) RecordIntake(ctx context.Context, in IntakeInput) (domain.InventoryIntake, error) {
	if in.Quantity <= 0 {
		return domain.InventoryIntake{}, fmt.Errorf("%w: %v", domain.ErrInvalidQuantity, in.Quantity)
	}
	unitCost, err := parseMoney(in.UnitCost)
	if err != nil {
		return domain.InventoryIntake{}, err
	}

	received := s.opts.Now()
	if in.ReceivedAt != nil {
		received = *in.ReceivedAt
	}

	intake := domain.InventoryIntake{
		ID:         s.opts.IDs.NewID(),
		ItemID:     in.ItemID,
		Quantity:   in.Quantity,
		UnitCost:   unitCost,
		ReceivedAt: received,
	}
	if err := s.store.Inventory.CreateIntake(ctx, intake); err != nil {
		return domain.InventoryIntake{}, err
	}
	s.invalidate(ctx)
	return intake, nil
}

// DeleteIntake removes an intake while it is still inside the edit window.
func (s *AnalyticsService) DeleteIntake(ctx context.Context, id string) error {
	intake, err := s.store.Inventory.GetIntake(ctx, id)
	if err != nil {
		return err
	}

	if !intake.Editable(s.opts.Now(), s.opts.EditWindow) {
		return fmt.Errorf("intake %s received %s: %w",
			id, intake.ReceivedAt.Format(time.RFC3339), domain.ErrEditWindowClosed)
	}

	if err := s.store.Inventory.DeleteIntake(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// DailyRollup recomputes the summary of date from the ledger and archives it.
func (s *AnalyticsService) DailyRollup(ctx context.Context, date string) (domain.DailySummary, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return domain.DailySummary{}, err
	}

	sales, err := s.loadSales(ctx, date, date)
	if err != nil {
		return domain.DailySummary{}, err
	}

	summary := period.DailyRollup(sales, date)
	if err := s.store.Summaries.SaveDailySummary(ctx, summary); err != nil {
		return domain.DailySummary{}, fmt.Errorf("save daily summary %s: %w", date, err)
	}

	s.log.Info().
		Str("date", date).
		Int("count", summary.Count).
		Str("revenue", summary.Revenue.String()).
		Msg("daily summary archived")
	return summary, nil
}

func (s *AnalyticsService) DailySummaries(ctx context.Context, q RangeQuery) ([]domain.DailySummary, error) {
	return s.store.Summaries.ListDailySummaries(ctx, repository.SaleFilter{Start: q.Start, End: q.End})
}

func (s *AnalyticsService) DeleteDailySummary(ctx context.Context, date string) error {
	if _, err := domain.ParseDate(date); err != nil {
		return err
	}
	return s.store.Summaries.DeleteDailySummary(ctx, date)
}

// LedgerSnapshot returns every sale in the range, for exports and the assistant.
func (s *AnalyticsService) LedgerSnapshot(ctx context.Context, q RangeQuery) ([]domain.SaleRecord, error) {
	return s.loadSales(ctx, q.Start, q.End)
}

func parseMoney(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidPrice, value)
	}
	return d, nil
}
