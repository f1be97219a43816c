// Package report reads sales ledgers from spreadsheets and writes ledger and
// summary exports.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

var ErrMissingColumn = errors.New("missing required column")

var salesHeader = []string{"id", "date", "time", "weekday", "item_name", "category", "quantity", "unit_price", "revenue"}

var summaryHeader = []string{"date", "count", "quantity", "revenue", "avg_ticket", "top_item"}

// columnAliases maps accepted header spellings onto ledger fields.
var columnAliases = map[string]string{
	"date":       "date",
	"sale_date":  "date",
	"time":       "time",
	"sale_time":  "time",
	"item":       "item_name",
	"item_name":  "item_name",
	"menu":       "item_name",
	"category":   "category",
	"quantity":   "quantity",
	"qty":        "quantity",
	"unit_price": "unit_price",
	"price":      "unit_price",
}

var requiredColumns = []string{"date", "time", "item_name", "quantity", "unit_price"}

func WriteSalesCSV(w io.Writer, sales []domain.SaleRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(salesHeader); err != nil {
		return err
	}
	for _, s := range sales {
		if err := cw.Write([]string{
			s.ID, s.Date, s.Time, s.Weekday.String(), s.ItemName, s.Category,
			strconv.Itoa(s.Quantity), s.UnitPrice.String(), s.Revenue.String(),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteDailySummariesCSV(w io.Writer, summaries []domain.DailySummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return err
	}
	for _, s := range summaries {
		if err := cw.Write([]string{
			s.Date, strconv.Itoa(s.Count), strconv.Itoa(s.Quantity),
			s.Revenue.String(), s.AvgTicket.StringFixed(2), s.TopItem,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseSalesCSV reads a ledger with a header row. Blank rows are skipped.
func ParseSalesCSV(r io.Reader) ([]domain.SaleInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return ParseSalesRows(rows)
}

// ParseSalesRows converts spreadsheet rows, header first, into sale inputs.
// Rows are not validated beyond number parsing; the service validates them.
func ParseSalesRows(rows [][]string) ([]domain.SaleInput, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty sheet", ErrMissingColumn)
	}

	colMap := make(map[string]int)
	for i, col := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		key = strings.ReplaceAll(key, " ", "_")
		if field, ok := columnAliases[key]; ok {
			colMap[field] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := colMap[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	inputs := make([]domain.SaleInput, 0, len(rows)-1)
	for n, record := range rows[1:] {
		getValue := func(field string) string {
			if idx, ok := colMap[field]; ok && idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}
		if blank(record) {
			continue
		}

		line := n + 2
		qty, err := parseQuantity(getValue("quantity"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		price, err := parsePrice(getValue("unit_price"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		inputs = append(inputs, domain.SaleInput{
			Date:      getValue("date"),
			Time:      normalizeTime(getValue("time")),
			ItemName:  getValue("item_name"),
			Category:  getValue("category"),
			Quantity:  qty,
			UnitPrice: price,
			Line:      line,
		})
	}
	return inputs, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseQuantity accepts "3" and spreadsheet floats like "3.0".
func parseQuantity(value string) (int, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidQuantity, value)
	}
	return int(f), nil
}

func parsePrice(value string) (decimal.Decimal, error) {
	value = strings.ReplaceAll(value, ",", "")
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidPrice, value)
	}
	return d, nil
}

// normalizeTime pads HH:MM to HH:MM:SS.
func normalizeTime(value string) string {
	if len(value) == 5 && strings.Count(value, ":") == 1 {
		return value + ":00"
	}
	return value
}
