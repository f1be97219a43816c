package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/analytics/costing"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/analytics/inventory"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/analytics/period"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/cache"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/report"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 11, 8, 12, 0, 0, 0, time.UTC)

type countingCache struct {
	mu          sync.Mutex
	gen         int64
	entries     map[string][]byte
	invalidated int
}

func (c *countingCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *countingCache) Get(_ context.Context, gen int64, scope string, params any, dest any) (bool, error) {
	key, err := cache.BuildKey(gen, scope, params)
	if err != nil {
		return false, err
	}
	c.mu.Lock()
	raw, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *countingCache) Set(_ context.Context, gen int64, scope string, params any, value any) error {
	key, err := cache.BuildKey(gen, scope, params)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[key] = raw
	c.mu.Unlock()
	return nil
}

func (c *countingCache) InvalidateAll(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.invalidated++
	c.entries = map[string][]byte{}
	return nil
}

func (c *countingCache) Close() error { return nil }

// gatedSales holds the first ListSales call after it has read the ledger
// until release is closed.
type gatedSales struct {
	repository.SalesRepository
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (g *gatedSales) ListSales(ctx context.Context, filter repository.SaleFilter) ([]domain.SaleRecord, error) {
	sales, err := g.SalesRepository.ListSales(ctx, filter)
	g.once.Do(func() {
		close(g.started)
		<-g.release
	})
	return sales, err
}

func newTestService(t *testing.T) (*AnalyticsService, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.SaveMaterial(ctx, domain.RawMaterial{
		ID: "bean", Name: "Espresso beans", PurchasePrice: decimal.NewFromInt(15000),
		PurchaseUnitQty: decimal.NewFromInt(1000), Unit: domain.UnitGram,
	}))
	require.NoError(t, store.SaveMaterial(ctx, domain.RawMaterial{
		ID: "milk", Name: "Milk", PurchasePrice: decimal.NewFromInt(3000),
		PurchaseUnitQty: decimal.NewFromInt(1000), Unit: domain.UnitMilliliter,
	}))
	require.NoError(t, store.SaveRecipe(ctx, domain.MenuRecipe{
		ID: "americano", Name: "Americano", Category: "coffee", SalePrice: decimal.NewFromInt(4000),
		Ingredients: []domain.RecipeIngredient{{MaterialID: "bean", QuantityUsed: decimal.NewFromInt(20)}},
	}))
	require.NoError(t, store.SaveRecipe(ctx, domain.MenuRecipe{
		ID: "latte", Name: "Latte", Category: "coffee", SalePrice: decimal.NewFromInt(1000),
		Ingredients: []domain.RecipeIngredient{
			{MaterialID: "bean", QuantityUsed: decimal.NewFromInt(20)},
			{MaterialID: "milk", QuantityUsed: decimal.NewFromInt(100)},
		},
	}))
	require.NoError(t, store.SaveItem(ctx, domain.InventoryItem{
		ID: "inv-bean", MaterialID: "bean", NameLocalized: "Beans", CurrentStock: 200,
		Unit: domain.UnitGram, LeadTimeDays: 3, MaxStockLevel: 2000,
	}))

	svc := NewAnalyticsService(store.Repositories(), nil, Options{
		Now: func() time.Time { return testNow },
		IDs: domain.NewSequenceGenerator("service-test"),
	})
	return svc, store
}

func record(t *testing.T, svc *AnalyticsService, date, clock, item string, qty int, price int64) domain.SaleRecord {
	t.Helper()
	s, err := svc.RecordSale(context.Background(), domain.SaleInput{
		Date: date, Time: clock, ItemName: item, Category: "coffee",
		Quantity: qty, UnitPrice: decimal.NewFromInt(price),
	})
	require.NoError(t, err)
	return s
}

func TestSummaryAndComparison(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	record(t, svc, "2025-11-01", "09:00:00", "Americano", 1, 4000)
	record(t, svc, "2025-11-02", "10:00:00", "Latte", 1, 5000)
	record(t, svc, "2025-10-31", "10:00:00", "Latte", 1, 4500)

	sum, err := svc.Summary(ctx, RangeQuery{Start: "2025-11-01", End: "2025-11-07"})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Count)
	assert.True(t, sum.Revenue.Equal(decimal.NewFromInt(9000)))
	assert.True(t, sum.AvgTicket.Equal(decimal.NewFromInt(4500)))

	cmp, err := svc.Comparison(ctx, RangeQuery{Start: "2025-11-01", End: "2025-11-07"})
	require.NoError(t, err)
	assert.Equal(t, period.DateRange{Start: "2025-10-25", End: "2025-10-31"}, cmp.Previous)
	assert.True(t, cmp.PreviousRevenue.Equal(decimal.NewFromInt(4500)))

	_, err = svc.Summary(ctx, RangeQuery{Start: "2025-11-07", End: "2025-11-01"})
	assert.ErrorIs(t, err, period.ErrInvalidRange)
}

func TestRecordSaleRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.RecordSale(context.Background(), domain.SaleInput{
		Date: "2025-11-01", Time: "09:00:00", ItemName: "Latte", Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.True(t, domain.IsValidation(err))
}

func TestUpdateSaleRederivesRevenue(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	sale := record(t, svc, "2025-11-01", "09:00:00", "Latte", 1, 5000)

	qty := 4
	updated, err := svc.UpdateSale(ctx, sale.ID, domain.SaleUpdate{Quantity: &qty})
	require.NoError(t, err)
	assert.True(t, updated.Revenue.Equal(decimal.NewFromInt(20000)))

	stored, err := store.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Quantity)

	_, err = svc.UpdateSale(ctx, "missing", domain.SaleUpdate{Quantity: &qty})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImportSalesIsAllOrNothing(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.ImportSales(ctx, []domain.SaleInput{
		{Date: "2025-11-01", Time: "09:00:00", ItemName: "Latte", Quantity: 1, UnitPrice: decimal.NewFromInt(5000)},
		{Date: "2025-13-01", Time: "09:00:00", ItemName: "Latte", Quantity: 1, UnitPrice: decimal.NewFromInt(5000)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
	assert.Contains(t, err.Error(), "row 2")

	all, err := store.ListSales(ctx, repository.SaleFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestImportErrorsNameSpreadsheetLine(t *testing.T) {
	svc, _ := newTestService(t)
	ledger := "date,time,item,qty,price\n" +
		"2025-11-01,09:00,Latte,1,5000\n" +
		",,,,\n" +
		"2025-11-31,09:00,Latte,1,5000\n"

	inputs, err := report.ParseSalesCSV(strings.NewReader(ledger))
	require.NoError(t, err)
	_, err = svc.ImportSourceSales(context.Background(), "file:ledger.csv", inputs)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
	assert.Contains(t, err.Error(), "line 4")
}

func TestImportSourceSalesReplacesEarlierRows(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	record(t, svc, "2025-11-01", "08:00:00", "Americano", 1, 4000)

	batch := []domain.SaleInput{
		{Date: "2025-11-01", Time: "09:00:00", ItemName: "Latte", Quantity: 1, UnitPrice: decimal.NewFromInt(5000)},
		{Date: "2025-11-01", Time: "10:00:00", ItemName: "Latte", Quantity: 2, UnitPrice: decimal.NewFromInt(5000)},
	}
	first, err := svc.ImportSourceSales(ctx, "drive:f1", batch)
	require.NoError(t, err)
	again, err := svc.ImportSourceSales(ctx, "drive:f1", batch)
	require.NoError(t, err)
	assert.Equal(t, first[0].ID, again[0].ID)

	all, err := store.ListSales(ctx, repository.SaleFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.ImportSourceSales(ctx, "drive:f1", batch[:1])
	require.NoError(t, err)
	sum, err := svc.Summary(ctx, RangeQuery{Start: "2025-11-01", End: "2025-11-01"})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Count)
	assert.True(t, sum.Revenue.Equal(decimal.NewFromInt(9000)))

	_, err = svc.ImportSourceSales(ctx, "", batch)
	assert.Error(t, err)
}

func TestRecipeCosts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	costs, err := svc.RecipeCosts(ctx)
	require.NoError(t, err)
	require.Len(t, costs, 2)
	assert.Equal(t, "americano", costs[0].RecipeID)
	assert.True(t, costs[0].Cost.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, costing.BandHealthy, costs[0].Band)
	assert.Equal(t, costing.BandCritical, costs[1].Band)

	one, err := svc.RecipeCost(ctx, "latte")
	require.NoError(t, err)
	assert.True(t, one.Cost.Equal(decimal.NewFromInt(600)))

	_, err = svc.RecipeCost(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInventoryHealthEstimatesUsageFromSales(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	// 28 days window ending yesterday; 70 americanos use 1400g, 50g a day.
	record(t, svc, "2025-11-01", "09:00:00", "Americano", 70, 4000)

	report, err := svc.InventoryHealth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-11-08", report.AsOf)
	require.Len(t, report.Items, 1)

	h := report.Items[0]
	assert.InDelta(t, 50.0, h.AvgDailyUsage, 1e-9)
	assert.InDelta(t, 4.0, h.Cover.Days, 1e-9)
	assert.Equal(t, inventory.StatusWarning, h.Status)
	assert.InDelta(t, 1800.0, h.SuggestedOrderQty, 1e-9)
}

func TestDeleteIntakeHonoursEditWindow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	fresh := testNow.Add(-2 * time.Hour)
	stale := testNow.Add(-37 * time.Hour)

	in1, err := svc.RecordIntake(ctx, IntakeInput{ItemID: "inv-bean", Quantity: 500, UnitCost: "15", ReceivedAt: &fresh})
	require.NoError(t, err)
	in2, err := svc.RecordIntake(ctx, IntakeInput{ItemID: "inv-bean", Quantity: 500, ReceivedAt: &stale})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteIntake(ctx, in1.ID))
	assert.ErrorIs(t, svc.DeleteIntake(ctx, in2.ID), domain.ErrEditWindowClosed)
	assert.ErrorIs(t, svc.DeleteIntake(ctx, in1.ID), domain.ErrNotFound)

	_, err = svc.RecordIntake(ctx, IntakeInput{ItemID: "inv-bean", Quantity: 1, UnitCost: "-3"})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestDailyRollupArchivesAndDeletes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	record(t, svc, "2025-11-01", "09:00:00", "Americano", 2, 4000)
	record(t, svc, "2025-11-01", "11:00:00", "Latte", 1, 5000)

	sum, err := svc.DailyRollup(ctx, "2025-11-01")
	require.NoError(t, err)
	assert.Equal(t, "Americano", sum.TopItem)
	assert.True(t, sum.Revenue.Equal(decimal.NewFromInt(13000)))

	list, err := svc.DailySummaries(ctx, RangeQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.DeleteDailySummary(ctx, "2025-11-01"))
	assert.ErrorIs(t, svc.DeleteDailySummary(ctx, "2025-11-01"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteDailySummary(ctx, "yesterday"), domain.ErrInvalidDate)
}

func TestMonthlyCosts(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	record(t, svc, "2025-11-03", "09:00:00", "Americano", 10, 4000)
	require.NoError(t, store.SaveUtility(ctx, domain.UtilityExpense{
		ID: "rent", Name: "Rent", Amount: decimal.NewFromInt(10000), Recurrence: domain.RecurrenceRecurring, Date: "2025-01-01",
	}))
	require.NoError(t, store.SaveExpenditure(ctx, domain.ExpenditureRecord{
		ID: "cups", Description: "Cups", Amount: decimal.NewFromInt(2000), ProofType: domain.ProofCardSlip, Date: "2025-11-05",
	}))

	report, err := svc.MonthlyCosts(ctx, "2025-11")
	require.NoError(t, err)
	assert.True(t, report.Result.Revenue.Equal(decimal.NewFromInt(40000)))
	assert.True(t, report.Result.Cogs.Equal(decimal.NewFromInt(3000)))
	assert.True(t, report.FixedCost.Equal(decimal.NewFromInt(10000)))
	assert.True(t, report.Result.OperatingProfit.Equal(decimal.NewFromInt(25000)))

	_, err = svc.MonthlyCosts(ctx, "2025-Q4")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestDashboardDefaultsToLastWeek(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	record(t, svc, "2025-11-02", "09:00:00", "Americano", 1, 4000)
	record(t, svc, "2025-11-05", "10:00:00", "Latte", 2, 5000)

	d, err := svc.Dashboard(ctx, RangeQuery{})
	require.NoError(t, err)
	assert.Equal(t, RangeQuery{Start: "2025-11-02", End: "2025-11-08"}, d.Range)
	assert.Equal(t, 2, d.Summary.Count)
	assert.Len(t, d.Weekday, 7)
	assert.Len(t, d.Series, 7)
	require.NotEmpty(t, d.TopItems)
	assert.Equal(t, "Latte", d.TopItems[0].ItemName)
	assert.Len(t, d.CogsAlerts, 1)
	assert.Equal(t, 1, d.CostingBand[costing.BandHealthy])
	assert.Len(t, d.Inventory, len(inventory.AllStatuses))
}

func TestDashboardCacheFollowsToday(t *testing.T) {
	svc, _ := newTestService(t)
	svc.cache = &countingCache{entries: map[string][]byte{}}
	now := testNow
	svc.opts.Now = func() time.Time { return now }
	ctx := context.Background()
	record(t, svc, "2025-11-01", "09:00:00", "Americano", 70, 4000)

	q := RangeQuery{Start: "2025-11-01", End: "2025-11-07"}
	d, err := svc.Dashboard(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, inventory.StatusCount{Status: inventory.StatusWarning, Count: 1}, d.Inventory[1])

	// The sale falls out of the usage window a month later.
	now = testNow.AddDate(0, 1, 0)
	d, err = svc.Dashboard(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Summary.Count)
	assert.Equal(t, inventory.StatusCount{Status: inventory.StatusWarning, Count: 0}, d.Inventory[1])
	assert.Equal(t, inventory.StatusCount{Status: inventory.StatusSufficient, Count: 1}, d.Inventory[2])
}

func TestPeriodReportAndTopItems(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	record(t, svc, "2025-10-15", "09:00:00", "Latte", 3, 5000)
	record(t, svc, "2025-11-03", "09:00:00", "Americano", 2, 4000)
	record(t, svc, "2025-11-04", "09:00:00", "Latte", 1, 5000)

	report, err := svc.PeriodReport(ctx, period.Month(2025, 11))
	require.NoError(t, err)
	assert.Equal(t, "2025-11", report.Period)
	assert.Equal(t, "2025-10", report.Previous)
	assert.Equal(t, 2, report.Summary.Count)
	assert.Equal(t, 1, report.PrevSum.Count)

	top, err := svc.TopItems(ctx, period.Month(2025, 11), 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Americano", top[0].ItemName)
	assert.Equal(t, 1, top[1].PreviousRank)
}

func TestCacheServesRepeatedQueries(t *testing.T) {
	svc, _ := newTestService(t)
	fake := &countingCache{entries: map[string][]byte{}}
	svc.cache = fake
	ctx := context.Background()

	record(t, svc, "2025-11-01", "09:00:00", "Latte", 1, 5000)
	before := fake.invalidated

	q := RangeQuery{Start: "2025-11-01", End: "2025-11-01"}
	_, err := svc.Summary(ctx, q)
	require.NoError(t, err)
	assert.Len(t, fake.entries, 1)

	record(t, svc, "2025-11-01", "10:00:00", "Latte", 1, 5000)
	assert.Equal(t, before+1, fake.invalidated)
	assert.Empty(t, fake.entries)

	sum, err := svc.Summary(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Count)
}

func TestCacheDropsResultLoadedBeforeWrite(t *testing.T) {
	svc, _ := newTestService(t)
	svc.cache = &countingCache{entries: map[string][]byte{}}
	gate := &gatedSales{
		SalesRepository: svc.store.Sales,
		started:         make(chan struct{}),
		release:         make(chan struct{}),
	}
	svc.store.Sales = gate
	ctx := context.Background()
	q := RangeQuery{Start: "2025-11-01", End: "2025-11-01"}

	stale := make(chan period.Summary, 1)
	go func() {
		sum, err := svc.Summary(ctx, q)
		assert.NoError(t, err)
		stale <- sum
	}()

	<-gate.started
	record(t, svc, "2025-11-01", "09:00:00", "Latte", 1, 5000)
	close(gate.release)
	assert.Equal(t, 0, (<-stale).Count)

	sum, err := svc.Summary(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Count)
	assert.True(t, sum.Revenue.Equal(decimal.NewFromInt(5000)))
}
