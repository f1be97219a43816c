package inventory

import (
	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
)

// EstimateDailyUsage derives average daily consumption per material from a
// sales ledger covering the given number of days. Sales are matched to
// recipes by item name; unmatched sales consume nothing.
func EstimateDailyUsage(sales []domain.SaleRecord, recipes []domain.MenuRecipe, days int) map[string]float64 {
	usage := make(map[string]float64)
	if days <= 0 {
		return usage
	}

	byName := make(map[string]domain.MenuRecipe, len(recipes))
	for _, r := range recipes {
		byName[r.Name] = r
	}

	for _, s := range sales {
		r, ok := byName[s.ItemName]
		if !ok {
			continue
		}
		for _, ing := range r.Ingredients {
			usage[ing.MaterialID] += ing.QuantityUsed.InexactFloat64() * float64(s.Quantity)
		}
	}

	for id, total := range usage {
		usage[id] = roundFloat(total/float64(days), 4)
	}
	return usage
}
