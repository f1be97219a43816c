// Command analytics computes period reports from ledger spreadsheets without
// a database. Files are loaded into an in-memory store and the report is
// printed as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/analytics/period"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/cache"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/report"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository/memory"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/service"
	"github.com/IMC-ERP/ERP-FE-sub000/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:      "analytics",
		Usage:     "Compute sales reports from CSV or XLSX ledgers",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "period", Usage: "Report period: YYYY, YYYY-MM or YYYY-Qn"},
			&cli.StringFlag{Name: "start", Usage: "Range start (YYYY-MM-DD), used when --period is empty"},
			&cli.StringFlag{Name: "end", Usage: "Range end (YYYY-MM-DD), used when --period is empty"},
			&cli.StringFlag{Name: "out", Usage: "Write JSON to this file instead of stdout"},
		},
		Action: run,
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("analytics failed")
	}
}

func run(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one ledger file is required")
	}

	svc := service.NewAnalyticsService(memory.New().Repositories(), cache.NewNoopAnalyticsCache(), service.Options{})
	for _, path := range c.Args().Slice() {
		n, err := load(c.Context, svc, path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		logger.Log.Info().Str("file", path).Int("rows", n).Msg("loaded")
	}

	result, err := buildReport(c.Context, svc, c.String("period"), c.String("start"), c.String("end"))
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out := c.String("out"); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func load(ctx context.Context, svc *service.AnalyticsService, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var inputs []domain.SaleInput
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		inputs, err = report.ParseSalesCSV(f)
	case ".xlsx":
		inputs, err = report.ParseSalesXLSX(f)
	default:
		return 0, fmt.Errorf("unsupported ledger file")
	}
	if err != nil {
		return 0, err
	}
	sales, err := svc.ImportSourceSales(ctx, "file:"+filepath.Clean(path), inputs)
	return len(sales), err
}

func buildReport(ctx context.Context, svc *service.AnalyticsService, periodValue, start, end string) (any, error) {
	if periodValue != "" {
		sel, err := period.ParseSelector(periodValue)
		if err != nil {
			return nil, err
		}
		return svc.PeriodReport(ctx, sel)
	}
	if start == "" || end == "" {
		return nil, fmt.Errorf("either --period or both --start and --end are required")
	}
	return svc.Dashboard(ctx, service.RangeQuery{Start: start, End: end})
}
