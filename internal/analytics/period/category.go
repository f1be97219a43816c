package period

import (
	"sort"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

const DefaultTopItemsLimit = 5

// FilterByPeriod keeps sales whose date the selector matches.
func FilterByPeriod(sales []domain.SaleRecord, sel Selector) []domain.SaleRecord {
	out := make([]domain.SaleRecord, 0, len(sales))
	for _, s := range sales {
		if sel.Matches(s.Date) {
			out = append(out, s)
		}
	}
	return out
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
	Quantity int             `json:"quantity"`
	Share    float64         `json:"share"`
}

// CategoryBreakdown groups the period's revenue by category.
func CategoryBreakdown(sales []domain.SaleRecord, sel Selector) []CategoryTotal {
	return CategoryTotals(FilterByPeriod(sales, sel))
}

// CategoryTotals groups revenue by category, highest revenue first; equal
// revenues keep first-seen order.
func CategoryTotals(sales []domain.SaleRecord) []CategoryTotal {
	var (
		order []string
		byKey = make(map[string]*CategoryTotal)
		total = decimal.Zero
	)
	for _, s := range sales {
		ct, ok := byKey[s.Category]
		if !ok {
			ct = &CategoryTotal{Category: s.Category, Revenue: decimal.Zero}
			byKey[s.Category] = ct
			order = append(order, s.Category)
		}
		ct.Revenue = ct.Revenue.Add(s.Revenue)
		ct.Quantity += s.Quantity
		total = total.Add(s.Revenue)
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, key := range order {
		ct := *byKey[key]
		ct.Share = percentOf(ct.Revenue, total)
		out = append(out, ct)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})
	return out
}

type CategoryDelta struct {
	Category         string          `json:"category"`
	Current          decimal.Decimal `json:"current"`
	Previous         decimal.Decimal `json:"previous"`
	Diff             decimal.Decimal `json:"diff"`
	PercentageChange float64         `json:"percentage_change"`
}

// CompareCategories lines up category revenue of two periods. Categories from
// the current period come first in breakdown order, then categories that only
// sold in the previous period.
func CompareCategories(sales []domain.SaleRecord, current, previous Selector) []CategoryDelta {
	cur := CategoryBreakdown(sales, current)
	prev := CategoryBreakdown(sales, previous)

	prevByKey := make(map[string]decimal.Decimal, len(prev))
	for _, p := range prev {
		prevByKey[p.Category] = p.Revenue
	}

	out := make([]CategoryDelta, 0, len(cur)+len(prev))
	seen := make(map[string]struct{}, len(cur))
	for _, c := range cur {
		seen[c.Category] = struct{}{}
		out = append(out, newCategoryDelta(c.Category, c.Revenue, prevByKey[c.Category]))
	}
	for _, p := range prev {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		out = append(out, newCategoryDelta(p.Category, decimal.Zero, p.Revenue))
	}
	return out
}

func newCategoryDelta(category string, cur, prev decimal.Decimal) CategoryDelta {
	diff := cur.Sub(prev)
	return CategoryDelta{
		Category:         category,
		Current:          cur,
		Previous:         prev,
		Diff:             diff,
		PercentageChange: percentChange(diff, prev),
	}
}

type ItemRank struct {
	Rank     int             `json:"rank"`
	ItemName string          `json:"item_name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// TopItemsByQuantity ranks items by summed quantity. Ties keep the order in
// which items first appear in the ledger. A non-positive limit means
// DefaultTopItemsLimit.
func TopItemsByQuantity(sales []domain.SaleRecord, limit int) []ItemRank {
	if limit <= 0 {
		limit = DefaultTopItemsLimit
	}

	var order []string
	byName := make(map[string]*ItemRank)
	for _, s := range sales {
		it, ok := byName[s.ItemName]
		if !ok {
			it = &ItemRank{ItemName: s.ItemName, Revenue: decimal.Zero}
			byName[s.ItemName] = it
			order = append(order, s.ItemName)
		}
		it.Quantity += s.Quantity
		it.Revenue = it.Revenue.Add(s.Revenue)
	}

	out := make([]ItemRank, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity > out[j].Quantity
	})

	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// TopItemsForPeriod ranks items sold inside the selected period.
func TopItemsForPeriod(sales []domain.SaleRecord, sel Selector, limit int) []ItemRank {
	return TopItemsByQuantity(FilterByPeriod(sales, sel), limit)
}

type ItemDelta struct {
	ItemRank
	PreviousRank     int `json:"previous_rank,omitempty"`
	PreviousQuantity int `json:"previous_quantity"`
}

// CompareTopItems ranks the current period and attaches each item's rank and
// quantity in the previous period. PreviousRank is zero when the item did not
// make the previous ranking.
func CompareTopItems(sales []domain.SaleRecord, current, previous Selector, limit int) []ItemDelta {
	cur := TopItemsForPeriod(sales, current, limit)
	prevAll := TopItemsByQuantity(FilterByPeriod(sales, previous), len(sales)+1)

	prevByName := make(map[string]ItemRank, len(prevAll))
	for _, p := range prevAll {
		prevByName[p.ItemName] = p
	}

	out := make([]ItemDelta, 0, len(cur))
	for _, c := range cur {
		d := ItemDelta{ItemRank: c}
		if p, ok := prevByName[c.ItemName]; ok {
			d.PreviousQuantity = p.Quantity
			if p.Rank <= limitOrDefault(limit) {
				d.PreviousRank = p.Rank
			}
		}
		out = append(out, d)
	}
	return out
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultTopItemsLimit
	}
	return limit
}

func percentOf(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).InexactFloat64()
}
