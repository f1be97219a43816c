package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/xuri/excelize/v2"
)

const salesSheet = "Sales"

// ReadXLSXRows returns every row of the first sheet.
func ReadXLSXRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row from sheet %s: %w", sheet, err)
		}
		out = append(out, record)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating rows in %s: %w", sheet, err)
	}
	return out, nil
}

func ParseSalesXLSX(r io.Reader) ([]domain.SaleInput, error) {
	rows, err := ReadXLSXRows(r)
	if err != nil {
		return nil, err
	}
	return ParseSalesRows(rows)
}

// SalesXLSX renders the ledger as a single-sheet workbook.
func SalesXLSX(sales []domain.SaleRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return nil, err
	}
	sw, err := f.NewStreamWriter(salesSheet)
	if err != nil {
		return nil, err
	}

	header := make([]interface{}, len(salesHeader))
	for i, h := range salesHeader {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, err
	}

	for i, s := range sales {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			s.ID, s.Date, s.Time, s.Weekday.String(), s.ItemName, s.Category,
			s.Quantity, s.UnitPrice.InexactFloat64(), s.Revenue.InexactFloat64(),
		}
		if err := sw.SetRow(cell, row); err != nil {
			return nil, err
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
