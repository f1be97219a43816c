package period

import (
	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

type Summary struct {
	Revenue   decimal.Decimal `json:"revenue"`
	Count     int             `json:"count"`
	AvgTicket decimal.Decimal `json:"avg_ticket"`
}

// Summarize totals revenue and counts sales. AvgTicket is rounded to whole
// currency units.
func Summarize(sales []domain.SaleRecord) Summary {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.Revenue)
	}

	avg := decimal.Zero
	if len(sales) > 0 {
		avg = total.Div(decimal.NewFromInt(int64(len(sales)))).Round(0)
	}

	return Summary{Revenue: total, Count: len(sales), AvgTicket: avg}
}

// DailyRollup builds the archived aggregate for one day of the ledger.
func DailyRollup(sales []domain.SaleRecord, date string) domain.DailySummary {
	day := FilterByDateRange(sales, date, date)
	sum := Summarize(day)

	qty := 0
	for _, s := range day {
		qty += s.Quantity
	}

	out := domain.DailySummary{
		Date:      date,
		Revenue:   sum.Revenue,
		Count:     sum.Count,
		Quantity:  qty,
		AvgTicket: sum.AvgTicket,
	}
	if top := TopItemsByQuantity(day, 1); len(top) > 0 {
		out.TopItem = top[0].ItemName
	}
	return out
}
