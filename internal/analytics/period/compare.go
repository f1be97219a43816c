package period

import (
	"errors"
	"fmt"
	"math"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

var ErrInvalidRange = errors.New("range end is before range start")

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Comparison contrasts the current window with the equal-length window that
// ends the day before it starts.
type Comparison struct {
	Current          DateRange       `json:"current"`
	Previous         DateRange       `json:"previous"`
	DiffDays         int             `json:"diff_days"`
	CurrentRevenue   decimal.Decimal `json:"current_revenue"`
	PreviousRevenue  decimal.Decimal `json:"previous_revenue"`
	RevenueDiff      decimal.Decimal `json:"revenue_diff"`
	PercentageChange float64         `json:"percentage_change"`
	CurrentCount     int             `json:"current_count"`
	PreviousCount    int             `json:"previous_count"`
}

// InclusiveDays counts the days in [start, end], so a single-day range is 1.
func InclusiveDays(start, end string) (int, error) {
	from, err := domain.ParseDate(start)
	if err != nil {
		return 0, err
	}
	to, err := domain.ParseDate(end)
	if err != nil {
		return 0, err
	}
	if to.Before(from) {
		return 0, fmt.Errorf("%w: %s..%s", ErrInvalidRange, start, end)
	}
	return int(math.Ceil(to.Sub(from).Hours()/24)) + 1, nil
}

// PreviousRange returns the window of the same inclusive length that ends the
// day before start.
func PreviousRange(start, end string) (DateRange, int, error) {
	days, err := InclusiveDays(start, end)
	if err != nil {
		return DateRange{}, 0, err
	}
	from, _ := domain.ParseDate(start)
	prevEnd := from.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -(days - 1))
	return DateRange{
		Start: prevStart.Format(domain.DateLayout),
		End:   prevEnd.Format(domain.DateLayout),
	}, days, nil
}

func Compare(sales []domain.SaleRecord, currentStart, currentEnd string) (Comparison, error) {
	prev, days, err := PreviousRange(currentStart, currentEnd)
	if err != nil {
		return Comparison{}, err
	}

	cur := Summarize(FilterByDateRange(sales, currentStart, currentEnd))
	old := Summarize(FilterByDateRange(sales, prev.Start, prev.End))
	diff := cur.Revenue.Sub(old.Revenue)

	return Comparison{
		Current:          DateRange{Start: currentStart, End: currentEnd},
		Previous:         prev,
		DiffDays:         days,
		CurrentRevenue:   cur.Revenue,
		PreviousRevenue:  old.Revenue,
		RevenueDiff:      diff,
		PercentageChange: percentChange(diff, old.Revenue),
		CurrentCount:     cur.Count,
		PreviousCount:    old.Count,
	}, nil
}

// percentChange is diff relative to base in percent, zero when base is zero.
func percentChange(diff, base decimal.Decimal) float64 {
	if base.IsZero() {
		return 0
	}
	return diff.Div(base).Mul(decimal.NewFromInt(100)).InexactFloat64()
}
