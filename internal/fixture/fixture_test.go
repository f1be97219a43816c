package fixture

import (
	"context"
	"testing"
	"time"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/analytics/costing"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var end = time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := Generate(Options{Seed: 7, Days: 14, End: end}, domain.NewSequenceGenerator("fx"))
	require.NoError(t, err)
	b, err := Generate(Options{Seed: 7, Days: 14, End: end}, domain.NewSequenceGenerator("fx"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEmpty(t, a.Sales)
	assert.Equal(t, "2025-11-17", a.Sales[0].Date)
	assert.Equal(t, "2025-11-30", a.Sales[len(a.Sales)-1].Date)

	c, err := Generate(Options{Seed: 8, Days: 14, End: end}, domain.NewSequenceGenerator("fx"))
	require.NoError(t, err)
	assert.NotEqual(t, a.Sales, c.Sales)
}

func TestGeneratedSalesAreValidAndPriced(t *testing.T) {
	ds, err := Generate(Options{Seed: 1, Days: 7, End: end}, domain.NewSequenceGenerator("fx"))
	require.NoError(t, err)

	prices := make(map[string]string)
	for _, r := range ds.Recipes {
		prices[r.Name] = r.SalePrice.String()
	}
	for _, s := range ds.Sales {
		assert.Equal(t, prices[s.ItemName], s.UnitPrice.String())
		assert.GreaterOrEqual(t, s.Hour(), 8)
		assert.LessOrEqual(t, s.Hour(), 21)
		assert.Positive(t, s.Quantity)
	}

	bands := map[costing.CogsBand]bool{}
	for _, c := range costing.EvaluateAll(ds.Recipes, ds.Materials) {
		bands[c.Band] = true
	}
	assert.True(t, bands[costing.BandHealthy])
	assert.True(t, bands[costing.BandWatch])
	assert.True(t, bands[costing.BandCritical])
}

func TestGenerateRequiresEnd(t *testing.T) {
	_, err := Generate(Options{Seed: 1}, domain.NewSequenceGenerator("fx"))
	assert.Error(t, err)
}

func TestLoadIntoMemoryStore(t *testing.T) {
	ds, err := Generate(Options{Seed: 3, Days: 3, End: end}, domain.NewSequenceGenerator("fx"))
	require.NoError(t, err)

	store := memory.New()
	require.NoError(t, Load(context.Background(), store.Repositories(), ds))

	sales, err := store.ListSales(context.Background(), repository.SaleFilter{})
	require.NoError(t, err)
	assert.Len(t, sales, len(ds.Sales))

	recipes, err := store.ListRecipes(context.Background())
	require.NoError(t, err)
	assert.Len(t, recipes, len(ds.Recipes))
}
