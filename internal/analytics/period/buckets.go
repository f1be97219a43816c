// Package period aggregates a sales ledger into time buckets, period
// comparisons, category breakdowns and item rankings.
//
// All functions are pure and never modify the slices they are given.
package period

import (
	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// FilterByDateRange keeps sales whose date lies in [start, end]. Dates are
// fixed-width YYYY-MM-DD strings, so string comparison orders them.
func FilterByDateRange(sales []domain.SaleRecord, start, end string) []domain.SaleRecord {
	out := make([]domain.SaleRecord, 0, len(sales))
	for _, s := range sales {
		if s.Date >= start && s.Date <= end {
			out = append(out, s)
		}
	}
	return out
}

type WeekdayBucket struct {
	Weekday  domain.Weekday  `json:"weekday"`
	Revenue  decimal.Decimal `json:"revenue"`
	Quantity int             `json:"quantity"`
	Count    int             `json:"count"`
}

// ByWeekday always returns seven buckets, Monday through Sunday.
func ByWeekday(sales []domain.SaleRecord) []WeekdayBucket {
	buckets := make([]WeekdayBucket, len(domain.AllWeekdays))
	for i, wd := range domain.AllWeekdays {
		buckets[i] = WeekdayBucket{Weekday: wd, Revenue: decimal.Zero}
	}

	for _, s := range sales {
		if s.Weekday < domain.Monday || s.Weekday > domain.Sunday {
			continue
		}
		b := &buckets[s.Weekday]
		b.Revenue = b.Revenue.Add(s.Revenue)
		b.Quantity += s.Quantity
		b.Count++
	}
	return buckets
}

type HourBucket struct {
	Hour     int             `json:"hour"`
	Revenue  decimal.Decimal `json:"revenue"`
	Quantity int             `json:"quantity"`
	Count    int             `json:"count"`
}

// HourlyBreakdown holds the buckets of the requested hour window and its
// extremes. Peak and Low are nil when the window is empty.
type HourlyBreakdown struct {
	Buckets []HourBucket `json:"buckets"`
	Peak    *HourBucket  `json:"peak,omitempty"`
	Low     *HourBucket  `json:"low,omitempty"`
}

// ByHour buckets revenue into the 24 hours of the day and returns the
// inclusive window [startHour, endHour]. Ties for peak and low go to the
// earliest hour.
func ByHour(sales []domain.SaleRecord, startHour, endHour int) HourlyBreakdown {
	var all [24]HourBucket
	for h := range all {
		all[h] = HourBucket{Hour: h, Revenue: decimal.Zero}
	}

	for _, s := range sales {
		h := s.Hour()
		if h < 0 {
			continue
		}
		all[h].Revenue = all[h].Revenue.Add(s.Revenue)
		all[h].Quantity += s.Quantity
		all[h].Count++
	}

	if startHour < 0 {
		startHour = 0
	}
	if endHour > 23 {
		endHour = 23
	}

	out := HourlyBreakdown{Buckets: []HourBucket{}}
	if startHour > endHour {
		return out
	}

	out.Buckets = append(out.Buckets, all[startHour:endHour+1]...)

	peak, low := 0, 0
	for i := 1; i < len(out.Buckets); i++ {
		if out.Buckets[i].Revenue.GreaterThan(out.Buckets[peak].Revenue) {
			peak = i
		}
		if out.Buckets[i].Revenue.LessThan(out.Buckets[low].Revenue) {
			low = i
		}
	}
	p, l := out.Buckets[peak], out.Buckets[low]
	out.Peak, out.Low = &p, &l
	return out
}
