package drive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/report"
	"github.com/IMC-ERP/ERP-FE-sub000/pkg/logger"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	mimeCSV  = "text/csv"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	defaultWorkers = 4
)

// FileSource is the part of the Drive client ingest needs.
type FileSource interface {
	ListFiles(ctx context.Context, folderID string) ([]*File, error)
	DownloadFile(ctx context.Context, fileID string, w io.Writer) error
}

// SalesImporter replaces the sales previously imported from source with a
// validated batch, all or nothing.
type SalesImporter interface {
	ImportSourceSales(ctx context.Context, source string, inputs []domain.SaleInput) ([]domain.SaleRecord, error)
}

// SourceKey identifies the rows imported from a Drive file.
func SourceKey(fileID string) string {
	return "drive:" + fileID
}

// Result reports the outcome of ingesting one file.
type Result struct {
	FileID string `json:"file_id"`
	Name   string `json:"name"`
	Rows   int    `json:"rows"`
	Error  string `json:"error,omitempty"`
}

type IngestService struct {
	source   FileSource
	importer SalesImporter
	workers  int
	log      zerolog.Logger
}

func NewIngestService(source FileSource, importer SalesImporter, workers int) *IngestService {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &IngestService{
		source:   source,
		importer: importer,
		workers:  workers,
		log:      logger.Component("drive"),
	}
}

type fileKind int

const (
	kindUnsupported fileKind = iota
	kindCSV
	kindXLSX
)

func kindOf(f *File) fileKind {
	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".csv":
		return kindCSV
	case ".xlsx":
		return kindXLSX
	}
	switch f.MimeType {
	case mimeCSV:
		return kindCSV
	case mimeXLSX:
		return kindXLSX
	}
	return kindUnsupported
}

// IngestFile downloads one ledger file and imports every row of it, replacing
// whatever an earlier ingest of the same file stored.
func (s *IngestService) IngestFile(ctx context.Context, f *File) (Result, error) {
	res := Result{FileID: f.ID, Name: f.Name}

	kind := kindOf(f)
	if kind == kindUnsupported {
		return res, fmt.Errorf("unsupported file type: %s", f.Name)
	}

	var buf bytes.Buffer
	if err := s.source.DownloadFile(ctx, f.ID, &buf); err != nil {
		return res, fmt.Errorf("download %s: %w", f.Name, err)
	}

	var (
		inputs []domain.SaleInput
		err    error
	)
	if kind == kindXLSX {
		inputs, err = report.ParseSalesXLSX(&buf)
	} else {
		inputs, err = report.ParseSalesCSV(&buf)
	}
	if err != nil {
		return res, fmt.Errorf("parse %s: %w", f.Name, err)
	}

	sales, err := s.importer.ImportSourceSales(ctx, SourceKey(f.ID), inputs)
	if err != nil {
		return res, fmt.Errorf("import %s: %w", f.Name, err)
	}
	res.Rows = len(sales)

	s.log.Info().Str("file", f.Name).Int("rows", res.Rows).Msg("ledger file ingested")
	return res, nil
}

// IngestFolder ingests every CSV and XLSX file in the folder with a bounded
// number of concurrent downloads. A failing file does not stop the others.
func (s *IngestService) IngestFolder(ctx context.Context, folderID string) ([]Result, error) {
	files, err := s.source.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}
	return s.ingestAll(ctx, files), nil
}

func (s *IngestService) ingestAll(ctx context.Context, files []*File) []Result {
	var (
		mu      sync.Mutex
		results = make([]Result, 0, len(files))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, f := range files {
		if kindOf(f) == kindUnsupported {
			continue
		}
		f := f
		g.Go(func() error {
			res, err := s.IngestFile(gctx, f)
			if err != nil {
				res.Error = err.Error()
				s.log.Warn().Err(err).Str("file", f.Name).Msg("ledger file skipped")
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sortResults(results)
	return results
}

func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
}
