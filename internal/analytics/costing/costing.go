// Package costing prices menu recipes from their bill of materials.
//
// Every function is pure: inputs are read-only snapshots and degenerate
// divisions (zero lot size, zero sale price) yield zero instead of failing.
package costing

import (
	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CogsBand is the three-tier classification of a COGS ratio.
type CogsBand string

const (
	BandHealthy  CogsBand = "healthy"
	BandWatch    CogsBand = "watch"
	BandCritical CogsBand = "critical"
)

const (
	watchThreshold    = 20.0
	criticalThreshold = 30.0
)

// MaterialIndex resolves material IDs referenced by recipe ingredients.
type MaterialIndex map[string]domain.RawMaterial

func IndexMaterials(materials []domain.RawMaterial) MaterialIndex {
	idx := make(MaterialIndex, len(materials))
	for _, m := range materials {
		idx[m.ID] = m
	}
	return idx
}

// UnitPrice is the cost of one unit of the material, or zero when the lot
// size is zero.
func UnitPrice(m domain.RawMaterial) decimal.Decimal {
	if m.PurchaseUnitQty.IsZero() {
		return decimal.Zero
	}
	return m.PurchasePrice.Div(m.PurchaseUnitQty)
}

// RecipeCost sums unit price times quantity over the ingredients. Ingredients
// whose material is missing from the index contribute nothing.
func RecipeCost(ingredients []domain.RecipeIngredient, materials MaterialIndex) decimal.Decimal {
	total := decimal.Zero
	for _, ing := range ingredients {
		m, ok := materials[ing.MaterialID]
		if !ok {
			continue
		}
		total = total.Add(UnitPrice(m).Mul(ing.QuantityUsed))
	}
	return total
}

// CogsRatio is recipe cost as a percentage of sale price; zero when the sale
// price is zero or negative.
func CogsRatio(recipeCost, salePrice decimal.Decimal) float64 {
	if !salePrice.IsPositive() {
		return 0
	}
	return recipeCost.Div(salePrice).Mul(hundred).InexactFloat64()
}

// ClassifyCogs bands a ratio: below 20 is healthy, below 30 is watch, the
// rest critical.
func ClassifyCogs(ratio float64) CogsBand {
	switch {
	case ratio < watchThreshold:
		return BandHealthy
	case ratio < criticalThreshold:
		return BandWatch
	default:
		return BandCritical
	}
}
