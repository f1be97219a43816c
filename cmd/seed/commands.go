package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/app"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/report"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/storage"
	"github.com/IMC-ERP/ERP-FE-sub000/pkg/logger"
	"github.com/urfave/cli/v2"
)

func (e *env) migrate(c *cli.Context) error {
	if err := e.db.Migrate(c.Context); err != nil {
		return err
	}
	logger.Log.Info().Msg("schema applied")
	return nil
}

func (e *env) fixtures(c *cli.Context) error {
	if err := e.db.Migrate(c.Context); err != nil {
		return err
	}
	storeCfg := e.cfg.Store
	storeCfg.FixtureSeed = c.Int64("seed")
	storeCfg.FixtureDays = c.Int("days")
	return app.Seed(c.Context, e.store(), storeCfg, e.service().Today())
}

func (e *env) importFiles(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}
	return e.importPaths(c, c.Args().Slice())
}

func (e *env) importBucket(c *cli.Context) error {
	client, err := storage.NewMinioClient(e.cfg.Storage)
	if err != nil {
		return err
	}
	paths, err := downloadLedgers(c.Context, client, c.String("prefix"), c.String("object"), c.String("download-dir"))
	if err != nil {
		return err
	}
	return e.importPaths(c, paths)
}

// importPaths imports each file as its own batch so one bad file does not
// block the rest. Re-importing a file replaces its earlier rows.
func (e *env) importPaths(c *cli.Context, paths []string) error {
	svc := e.service()
	failed := 0
	for _, p := range paths {
		inputs, err := readLedger(p)
		if err == nil {
			_, err = svc.ImportSourceSales(c.Context, "file:"+filepath.Clean(p), inputs)
		}
		if err != nil {
			failed++
			logger.Log.Error().Err(err).Str("file", p).Msg("import failed")
			continue
		}
		logger.Log.Info().Str("file", p).Int("rows", len(inputs)).Msg("imported")
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", failed, len(paths))
	}
	return nil
}

func readLedger(path string) ([]domain.SaleInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return report.ParseSalesCSV(f)
	case ".xlsx":
		return report.ParseSalesXLSX(f)
	default:
		return nil, fmt.Errorf("unsupported ledger file %s", path)
	}
}
