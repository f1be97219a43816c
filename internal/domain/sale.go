package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"

	// PriceScale is the number of decimal places stored for unit prices.
	PriceScale = 2
)

// Weekday orders the week Monday first.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// AllWeekdays is the fixed bucket order used by weekday aggregations.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayLabels = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (w Weekday) String() string {
	if w < Monday || w > Sunday {
		return "Unknown"
	}
	return weekdayLabels[w]
}

func (w Weekday) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *Weekday) UnmarshalText(text []byte) error {
	for i, label := range weekdayLabels {
		if strings.EqualFold(label, string(text)) {
			*w = Weekday(i)
			return nil
		}
	}
	return fmt.Errorf("unknown weekday %q", text)
}

// WeekdayOf converts a time.Weekday (Sunday first) into the Monday-first enum.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// ParseDate parses a fixed-width calendar date in UTC.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return t, nil
}

// SaleRecord is one line of the sales ledger.
// Revenue and Weekday are derived and are only set by NewSaleRecord and Apply.
type SaleRecord struct {
	ID        string          `json:"id" db:"id"`
	Date      string          `json:"date" db:"sale_date"`
	Time      string          `json:"time" db:"sale_time"`
	ItemName  string          `json:"item_name" db:"item_name"`
	Category  string          `json:"category" db:"category"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
	Revenue   decimal.Decimal `json:"revenue" db:"revenue"`
	Weekday   Weekday         `json:"weekday" db:"weekday"`
	// Source names the imported file a row came from. Re-importing a source
	// replaces its rows.
	Source string `json:"source,omitempty" db:"source"`
}

// SaleInput carries the caller-supplied fields of a new sale.
type SaleInput struct {
	Date      string          `json:"date" binding:"required"`
	Time      string          `json:"time" binding:"required"`
	ItemName  string          `json:"item_name" binding:"required"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	// Line is the spreadsheet line the input was read from, zero otherwise.
	Line int `json:"-"`
}

// Label names the input in error messages: its source line when known,
// otherwise its 1-based position in the batch.
func (in SaleInput) Label(index int) string {
	if in.Line > 0 {
		return fmt.Sprintf("line %d", in.Line)
	}
	return fmt.Sprintf("row %d", index+1)
}

// SaleUpdate lists the fields that may change on an existing sale.
// Nil fields keep their current value.
type SaleUpdate struct {
	Date      *string          `json:"date,omitempty"`
	Time      *string          `json:"time,omitempty"`
	ItemName  *string          `json:"item_name,omitempty"`
	Category  *string          `json:"category,omitempty"`
	Quantity  *int             `json:"quantity,omitempty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

func NewSaleRecord(ids IDGenerator, in SaleInput) (SaleRecord, error) {
	return buildSale(ids.NewID(), in)
}

// Apply returns a new record with the update merged in. The receiver is left
// untouched and the derived fields are recomputed from the merged values.
func (s SaleRecord) Apply(u SaleUpdate) (SaleRecord, error) {
	in := SaleInput{
		Date:      s.Date,
		Time:      s.Time,
		ItemName:  s.ItemName,
		Category:  s.Category,
		Quantity:  s.Quantity,
		UnitPrice: s.UnitPrice,
	}
	if u.Date != nil {
		in.Date = *u.Date
	}
	if u.Time != nil {
		in.Time = *u.Time
	}
	if u.ItemName != nil {
		in.ItemName = *u.ItemName
	}
	if u.Category != nil {
		in.Category = *u.Category
	}
	if u.Quantity != nil {
		in.Quantity = *u.Quantity
	}
	if u.UnitPrice != nil {
		in.UnitPrice = *u.UnitPrice
	}
	next, err := buildSale(s.ID, in)
	if err != nil {
		return SaleRecord{}, err
	}
	next.Source = s.Source
	return next, nil
}

// Hour returns the hour of day of the sale, or -1 when Time is malformed.
func (s SaleRecord) Hour() int {
	if len(s.Time) < 2 {
		return -1
	}
	h, err := strconv.Atoi(s.Time[:2])
	if err != nil || h < 0 || h > 23 {
		return -1
	}
	return h
}

func buildSale(id string, in SaleInput) (SaleRecord, error) {
	day, err := ParseDate(in.Date)
	if err != nil {
		return SaleRecord{}, err
	}
	if _, err := time.Parse(TimeLayout, in.Time); err != nil {
		return SaleRecord{}, fmt.Errorf("%w: %q", ErrInvalidTime, in.Time)
	}
	if in.Quantity <= 0 {
		return SaleRecord{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, in.Quantity)
	}
	if in.UnitPrice.IsNegative() {
		return SaleRecord{}, fmt.Errorf("%w: %s is negative", ErrInvalidPrice, in.UnitPrice)
	}
	if !in.UnitPrice.Equal(in.UnitPrice.Round(PriceScale)) {
		return SaleRecord{}, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidPrice, in.UnitPrice, PriceScale)
	}

	return SaleRecord{
		ID:        id,
		Date:      in.Date,
		Time:      in.Time,
		ItemName:  strings.TrimSpace(in.ItemName),
		Category:  strings.TrimSpace(in.Category),
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		Revenue:   in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))),
		Weekday:   WeekdayOf(day),
	}, nil
}
