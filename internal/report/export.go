package report

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/storage"
)

const (
	csvContentType  = "text/csv"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Exporter writes report files to object storage.
type Exporter struct {
	store storage.ObjectStorage
}

func NewExporter(store storage.ObjectStorage) *Exporter {
	return &Exporter{store: store}
}

// DayKeys returns the object keys a day export writes.
func DayKeys(date string) (summaryKey, salesKey string) {
	dir := path.Join("daily", date)
	return path.Join(dir, "summary.csv"), path.Join(dir, "sales.csv")
}

// ExportDay uploads the day's summary row and its ledger.
func (e *Exporter) ExportDay(ctx context.Context, summary domain.DailySummary, sales []domain.SaleRecord) ([]string, error) {
	summaryKey, salesKey := DayKeys(summary.Date)

	var buf bytes.Buffer
	if err := WriteDailySummariesCSV(&buf, []domain.DailySummary{summary}); err != nil {
		return nil, fmt.Errorf("render summary: %w", err)
	}
	if err := e.store.UploadObject(ctx, summaryKey, buf.Bytes(), csvContentType); err != nil {
		return nil, err
	}

	buf.Reset()
	if err := WriteSalesCSV(&buf, sales); err != nil {
		return nil, fmt.Errorf("render sales: %w", err)
	}
	if err := e.store.UploadObject(ctx, salesKey, buf.Bytes(), csvContentType); err != nil {
		return nil, err
	}
	return []string{summaryKey, salesKey}, nil
}

// ExportLedgerXLSX uploads the ledger for [start, end] as a workbook.
func (e *Exporter) ExportLedgerXLSX(ctx context.Context, start, end string, sales []domain.SaleRecord) (string, error) {
	data, err := SalesXLSX(sales)
	if err != nil {
		return "", fmt.Errorf("render workbook: %w", err)
	}
	key := path.Join("ledger", fmt.Sprintf("sales_%s_%s.xlsx", start, end))
	if err := e.store.UploadObject(ctx, key, data, xlsxContentType); err != nil {
		return "", err
	}
	return key, nil
}
