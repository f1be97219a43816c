package period

import (
	"fmt"
	"sort"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

type Granularity string

const (
	Hourly    Granularity = "hourly"
	Daily     Granularity = "daily"
	Weekly    Granularity = "weekly"
	Monthly   Granularity = "monthly"
	Quarterly Granularity = "quarterly"
	Yearly    Granularity = "yearly"
)

func ParseGranularity(value string) (Granularity, error) {
	switch g := Granularity(value); g {
	case Hourly, Daily, Weekly, Monthly, Quarterly, Yearly:
		return g, nil
	default:
		return "", fmt.Errorf("%w: unknown granularity %q", ErrInvalidPeriod, value)
	}
}

type SeriesPoint struct {
	Key      string          `json:"key"`
	Revenue  decimal.Decimal `json:"revenue"`
	Quantity int             `json:"quantity"`
	Count    int             `json:"count"`
}

// Series buckets revenue by the given granularity, ordered by key. Weekly keys
// are the Monday of the ISO week; quarterly keys look like 2025-Q4; hourly
// keys are the two-digit hour. Sales whose key cannot be derived are skipped.
func Series(sales []domain.SaleRecord, g Granularity) []SeriesPoint {
	byKey := make(map[string]*SeriesPoint)
	for _, s := range sales {
		key, ok := bucketKey(s, g)
		if !ok {
			continue
		}
		p, exists := byKey[key]
		if !exists {
			p = &SeriesPoint{Key: key, Revenue: decimal.Zero}
			byKey[key] = p
		}
		p.Revenue = p.Revenue.Add(s.Revenue)
		p.Quantity += s.Quantity
		p.Count++
	}

	out := make([]SeriesPoint, 0, len(byKey))
	for _, p := range byKey {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// DailySeries returns one point per day of [start, end], zero-filled.
func DailySeries(sales []domain.SaleRecord, start, end string) ([]SeriesPoint, error) {
	days, err := InclusiveDays(start, end)
	if err != nil {
		return nil, err
	}
	from, _ := domain.ParseDate(start)

	points := Series(FilterByDateRange(sales, start, end), Daily)
	byKey := make(map[string]SeriesPoint, len(points))
	for _, p := range points {
		byKey[p.Key] = p
	}

	out := make([]SeriesPoint, 0, days)
	for i := 0; i < days; i++ {
		key := from.AddDate(0, 0, i).Format(domain.DateLayout)
		p, ok := byKey[key]
		if !ok {
			p = SeriesPoint{Key: key, Revenue: decimal.Zero}
		}
		out = append(out, p)
	}
	return out, nil
}

func bucketKey(s domain.SaleRecord, g Granularity) (string, bool) {
	if g == Hourly {
		h := s.Hour()
		if h < 0 {
			return "", false
		}
		return fmt.Sprintf("%02d", h), true
	}

	day, err := domain.ParseDate(s.Date)
	if err != nil {
		return "", false
	}

	switch g {
	case Daily:
		return s.Date, true
	case Weekly:
		offset := int(domain.WeekdayOf(day))
		return day.AddDate(0, 0, -offset).Format(domain.DateLayout), true
	case Monthly:
		return s.Date[:7], true
	case Quarterly:
		return fmt.Sprintf("%04d-Q%d", day.Year(), (int(day.Month())-1)/3+1), true
	case Yearly:
		return s.Date[:4], true
	default:
		return "", false
	}
}
