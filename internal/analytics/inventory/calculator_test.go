package inventory

import (
	"testing"
	"time"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestDaysCover(t *testing.T) {
	assert.Equal(t, Cover{Days: 5}, DaysCover(500, 100))
	assert.Equal(t, Cover{Infinite: true}, DaysCover(500, 0))
	assert.Equal(t, Cover{Infinite: true}, DaysCover(500, -3))
	assert.Equal(t, Cover{Days: -2}, DaysCover(-200, 100))
}

func TestClassifyStatusBuffer(t *testing.T) {
	cases := []struct {
		days float64
		lead int
		want Status
	}{
		{2.9, 3, StatusCritical},
		{3, 3, StatusWarning},
		{4.99, 3, StatusWarning},
		{5, 3, StatusSufficient},
		{-1, 0, StatusCritical},
		{0, 0, StatusWarning},
		{2, 0, StatusSufficient},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyStatus(Cover{Days: tc.days}, tc.lead), "days=%v lead=%d", tc.days, tc.lead)
	}
	assert.Equal(t, StatusSufficient, ClassifyStatus(Cover{Infinite: true}, 30))
}

func TestReorderPointOrderBy(t *testing.T) {
	today := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)
	rp := ReorderPointFor(today, 3)
	assert.Equal(t, 3, rp.LeadTimeDays)

	orderBy, ok := rp.OrderBy(Cover{Days: 7.6})
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 11, 14, 0, 0, 0, 0, time.UTC), orderBy)

	_, ok = rp.OrderBy(Cover{Infinite: true})
	assert.False(t, ok)
}

func TestAssess(t *testing.T) {
	today := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)
	calc := NewCalculator(map[string]float64{"milk": 900})

	beans := domain.InventoryItem{
		ID: "inv-beans", NameLocalized: "원두", CurrentStock: 1200, Unit: domain.UnitGram,
		LeadTimeDays: 3, SafetyStockThreshold: 1500, MaxStockLevel: 5000, AvgDailyUsage: ptr(400),
	}
	h := calc.Assess(beans, today)
	assert.Equal(t, StatusWarning, h.Status)
	assert.Equal(t, 3.0, h.Cover.Days)
	assert.True(t, h.BelowSafetyStock)
	assert.Equal(t, 3800.0, h.SuggestedOrderQty)
	require.NotNil(t, h.OrderBy)
	assert.Equal(t, today, *h.OrderBy)

	milk := domain.InventoryItem{
		ID: "inv-milk", MaterialID: "milk", CurrentStock: 9000, Unit: domain.UnitMilliliter,
		LeadTimeDays: 1, MaxStockLevel: 8000,
	}
	h = calc.Assess(milk, today)
	assert.Equal(t, 900.0, h.AvgDailyUsage)
	assert.Equal(t, StatusSufficient, h.Status)
	assert.True(t, h.OverMaxLevel)
	assert.Zero(t, h.SuggestedOrderQty)

	cups := domain.InventoryItem{ID: "inv-cups", CurrentStock: 10, LeadTimeDays: 5}
	h = calc.Assess(cups, today)
	assert.True(t, h.Cover.Infinite)
	assert.Nil(t, h.OrderBy)
	assert.Equal(t, StatusSufficient, h.Status)
}

func TestAssessNilCalculatorUsesItemUsageOnly(t *testing.T) {
	var calc *Calculator
	h := calc.Assess(domain.InventoryItem{ID: "x", CurrentStock: -50, AvgDailyUsage: ptr(10), LeadTimeDays: 2}, time.Now())
	assert.Equal(t, -5.0, h.Cover.Days)
	assert.Equal(t, StatusCritical, h.Status)
}

func TestSummarizeReturnsEveryStatus(t *testing.T) {
	got := Summarize([]Health{{Status: StatusWarning}, {Status: StatusWarning}})
	assert.Equal(t, []StatusCount{
		{Status: StatusCritical, Count: 0},
		{Status: StatusWarning, Count: 2},
		{Status: StatusSufficient, Count: 0},
	}, got)
}

func TestEstimateDailyUsage(t *testing.T) {
	ids := domain.NewSequenceGenerator("usage")
	mk := func(item string, qty int) domain.SaleRecord {
		rec, err := domain.NewSaleRecord(ids, domain.SaleInput{
			Date: "2025-11-01", Time: "08:00:00", ItemName: item, Quantity: qty, UnitPrice: decimal.NewFromInt(4000),
		})
		require.NoError(t, err)
		return rec
	}
	recipes := []domain.MenuRecipe{{
		Name: "Latte",
		Ingredients: []domain.RecipeIngredient{
			{MaterialID: "bean", QuantityUsed: decimal.NewFromInt(18)},
			{MaterialID: "milk", QuantityUsed: decimal.NewFromInt(200)},
		},
	}}

	usage := EstimateDailyUsage([]domain.SaleRecord{mk("Latte", 3), mk("Latte", 1), mk("Scone", 5)}, recipes, 2)
	assert.Equal(t, 36.0, usage["bean"])
	assert.Equal(t, 400.0, usage["milk"])
	assert.Len(t, usage, 2)

	assert.Empty(t, EstimateDailyUsage(nil, recipes, 0))
}
