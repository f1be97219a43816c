package costing

import (
	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// Line is the costing of one recipe ingredient.
type Line struct {
	MaterialID        string          `json:"material_id"`
	MaterialName      string          `json:"material_name,omitempty"`
	Unit              string          `json:"unit,omitempty"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	QuantityUsed      decimal.Decimal `json:"quantity_used"`
	Cost              decimal.Decimal `json:"cost"`
	WasteAdjustedCost decimal.Decimal `json:"waste_adjusted_cost"`
	Missing           bool            `json:"missing"`
}

// RecipeCosting is the full costing of a menu recipe.
type RecipeCosting struct {
	RecipeID          string          `json:"recipe_id"`
	Name              string          `json:"name"`
	Category          string          `json:"category,omitempty"`
	SalePrice         decimal.Decimal `json:"sale_price"`
	Cost              decimal.Decimal `json:"cost"`
	WasteAdjustedCost decimal.Decimal `json:"waste_adjusted_cost"`
	Margin            decimal.Decimal `json:"margin"`
	Ratio             float64         `json:"cogs_ratio"`
	Band              CogsBand        `json:"band"`
	Lines             []Line          `json:"lines"`
}

// Evaluate costs a recipe line by line. Dangling ingredients stay in Lines,
// flagged Missing, with zero cost. Ratio and Band derive from Cost, not from
// WasteAdjustedCost.
func Evaluate(recipe domain.MenuRecipe, materials MaterialIndex) RecipeCosting {
	lines := make([]Line, 0, len(recipe.Ingredients))
	wasteTotal := decimal.Zero

	for _, ing := range recipe.Ingredients {
		line := Line{
			MaterialID:        ing.MaterialID,
			QuantityUsed:      ing.QuantityUsed,
			UnitPrice:         decimal.Zero,
			Cost:              decimal.Zero,
			WasteAdjustedCost: decimal.Zero,
		}

		m, ok := materials[ing.MaterialID]
		if !ok {
			line.Missing = true
			lines = append(lines, line)
			continue
		}

		line.MaterialName = m.Name
		line.Unit = string(m.Unit)
		line.UnitPrice = UnitPrice(m)
		line.Cost = line.UnitPrice.Mul(ing.QuantityUsed)
		line.WasteAdjustedCost = line.Cost.Mul(wasteFactor(ing.WastePercentage))
		wasteTotal = wasteTotal.Add(line.WasteAdjustedCost)
		lines = append(lines, line)
	}

	cost := RecipeCost(recipe.Ingredients, materials)
	ratio := CogsRatio(cost, recipe.SalePrice)

	return RecipeCosting{
		RecipeID:          recipe.ID,
		Name:              recipe.Name,
		Category:          recipe.Category,
		SalePrice:         recipe.SalePrice,
		Cost:              cost,
		WasteAdjustedCost: wasteTotal,
		Margin:            recipe.SalePrice.Sub(cost),
		Ratio:             ratio,
		Band:              ClassifyCogs(ratio),
		Lines:             lines,
	}
}

// EvaluateAll costs every recipe against one material snapshot, preserving
// input order.
func EvaluateAll(recipes []domain.MenuRecipe, materials []domain.RawMaterial) []RecipeCosting {
	idx := IndexMaterials(materials)
	out := make([]RecipeCosting, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, Evaluate(r, idx))
	}
	return out
}

// wasteFactor turns a waste percentage into a quantity multiplier; negative
// percentages are treated as no waste.
func wasteFactor(pct decimal.Decimal) decimal.Decimal {
	if !pct.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(1).Add(pct.Div(hundred))
}
