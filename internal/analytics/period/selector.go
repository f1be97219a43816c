package period

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
)

var ErrInvalidPeriod = errors.New("invalid period")

type Mode string

const (
	ModeMonth   Mode = "month"
	ModeQuarter Mode = "quarter"
	ModeYear    Mode = "year"
)

// Selector picks a calendar month, quarter or year. Matches is the single
// membership test shared by category and top-item reports.
type Selector struct {
	Mode    Mode `json:"mode"`
	Year    int  `json:"year"`
	Month   int  `json:"month,omitempty"`
	Quarter int  `json:"quarter,omitempty"`
}

func Month(year, month int) Selector     { return Selector{Mode: ModeMonth, Year: year, Month: month} }
func Quarter(year, quarter int) Selector { return Selector{Mode: ModeQuarter, Year: year, Quarter: quarter} }
func Year(year int) Selector             { return Selector{Mode: ModeYear, Year: year} }

// ParseSelector accepts "2025-11", "2025-Q4" and "2025".
func ParseSelector(value string) (Selector, error) {
	value = strings.TrimSpace(value)
	invalid := fmt.Errorf("%w %q, expected YYYY, YYYY-MM or YYYY-Qn", ErrInvalidPeriod, value)

	parts := strings.SplitN(value, "-", 2)
	if len(parts[0]) != 4 {
		return Selector{}, invalid
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Selector{}, invalid
	}
	if len(parts) == 1 {
		return Year(year), nil
	}

	rest := strings.ToUpper(parts[1])
	if strings.HasPrefix(rest, "Q") {
		q, err := strconv.Atoi(rest[1:])
		if err != nil || q < 1 || q > 4 {
			return Selector{}, invalid
		}
		return Quarter(year, q), nil
	}

	m, err := strconv.Atoi(rest)
	if err != nil || len(rest) != 2 || m < 1 || m > 12 {
		return Selector{}, invalid
	}
	return Month(year, m), nil
}

// Matches reports whether a YYYY-MM-DD date falls inside the period.
func (p Selector) Matches(date string) bool {
	yearPrefix := fmt.Sprintf("%04d", p.Year)
	switch p.Mode {
	case ModeMonth:
		return strings.HasPrefix(date, fmt.Sprintf("%s-%02d", yearPrefix, p.Month))
	case ModeYear:
		return strings.HasPrefix(date, yearPrefix)
	case ModeQuarter:
		if !strings.HasPrefix(date, yearPrefix) || len(date) < 7 {
			return false
		}
		m, err := strconv.Atoi(date[5:7])
		if err != nil {
			return false
		}
		first := (p.Quarter-1)*3 + 1
		return m >= first && m <= first+2
	default:
		return false
	}
}

// Previous is the period immediately before p with the same mode.
func (p Selector) Previous() Selector {
	switch p.Mode {
	case ModeMonth:
		if p.Month == 1 {
			return Month(p.Year-1, 12)
		}
		return Month(p.Year, p.Month-1)
	case ModeQuarter:
		if p.Quarter == 1 {
			return Quarter(p.Year-1, 4)
		}
		return Quarter(p.Year, p.Quarter-1)
	default:
		return Year(p.Year - 1)
	}
}

// Bounds returns the first and last calendar dates of the period.
func (p Selector) Bounds() DateRange {
	var first time.Time
	months := 12
	switch p.Mode {
	case ModeMonth:
		first = time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
		months = 1
	case ModeQuarter:
		first = time.Date(p.Year, time.Month((p.Quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		months = 3
	default:
		first = time.Date(p.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	last := first.AddDate(0, months, -1)
	return DateRange{Start: first.Format(domain.DateLayout), End: last.Format(domain.DateLayout)}
}

func (p Selector) String() string {
	switch p.Mode {
	case ModeMonth:
		return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
	case ModeQuarter:
		return fmt.Sprintf("%04d-Q%d", p.Year, p.Quarter)
	default:
		return fmt.Sprintf("%04d", p.Year)
	}
}
