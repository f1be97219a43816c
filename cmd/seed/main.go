// Command seed prepares a Postgres ledger: it applies the schema, loads the
// deterministic fixture dataset, and imports sales spreadsheets from disk or
// from the object storage bucket.
package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/app"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/cache"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/config"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository/postgres"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/service"
	"github.com/IMC-ERP/ERP-FE-sub000/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
)

// env carries the connection opened by the Before hook.
type env struct {
	cfg *config.Config
	db  *postgres.DB
}

func (e *env) store() repository.Store {
	return postgres.Repositories(e.db)
}

func (e *env) service() *service.AnalyticsService {
	return service.NewAnalyticsService(e.store(), cache.NewNoopAnalyticsCache(), app.ServiceOptions(e.cfg.Reporting))
}

func newDBURLFlag(cfg *config.Config) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string",
		Value:   cfg.Database.URL(),
		EnvVars: []string{"DATABASE_URL"},
	}
}

func (e *env) open(c *cli.Context) error {
	raw, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := raw.PingContext(c.Context); err != nil {
		_ = raw.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}
	e.db = postgres.Wrap(sqlx.NewDb(raw, "pgx"), e.cfg.Database.MaxConcurrency)
	return nil
}

func (e *env) close(*cli.Context) error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

func main() {
	cfg := config.Load()
	logger.SetFormat(cfg.Log.Format)
	logger.SetLevel(cfg.Log.Level)

	e := &env{cfg: cfg}

	cliApp := &cli.App{
		Name:   "seed",
		Usage:  "Prepare and load the cafe ledger database",
		Flags:  []cli.Flag{newDBURLFlag(cfg)},
		Before: e.open,
		After:  e.close,
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Apply the database schema",
				Action: e.migrate,
			},
			{
				Name:  "fixtures",
				Usage: "Load the deterministic sample catalog and ledger",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "seed", Usage: "Random seed", Value: cfg.Store.FixtureSeed},
					&cli.IntFlag{Name: "days", Usage: "Days of sales to generate", Value: cfg.Store.FixtureDays},
				},
				Action: e.fixtures,
			},
			{
				Name:      "import",
				Usage:     "Import sales ledgers from CSV or XLSX files",
				ArgsUsage: "FILE...",
				Action:    e.importFiles,
			},
			{
				Name:  "import-bucket",
				Usage: "Download sales ledgers from object storage and import them",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "prefix", Usage: "Object key prefix", Value: "imports"},
					&cli.StringFlag{Name: "object", Usage: "Single object key, relative to prefix"},
					&cli.StringFlag{Name: "download-dir", Usage: "Local staging directory", Value: "./data/tmp/imports"},
				},
				Action: e.importBucket,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("seed failed")
	}
}
