// Command api serves the Google Drive ingest endpoints and, when configured,
// polls the sales folder for new ledger exports.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/app"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/config"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/drive"
	"github.com/IMC-ERP/ERP-FE-sub000/pkg/logger"
	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()
	logger.SetFormat(cfg.Log.Format)
	logger.SetLevel(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driveService, err := drive.NewServiceFromFile(ctx, cfg.Drive.CredentialsFile)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize Google Drive service")
	}

	rt, err := app.New(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize runtime")
	}
	defer rt.Close(context.Background())

	ingestService := drive.NewIngestService(driveService, rt.Service, cfg.Drive.Workers)

	r := mux.NewRouter()
	drive.NewHandler(driveService, ingestService, cfg.Drive.FolderID).RegisterRoutes(r)

	if cfg.Drive.PollSeconds > 0 && cfg.Drive.FolderID != "" {
		poller := drive.NewPoller(ingestService, cfg.Drive.FolderID, time.Duration(cfg.Drive.PollSeconds)*time.Second)
		go poller.Run(ctx)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.IngestPort,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.IngestPort).Msg("Starting ingest server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start ingest server")
		}
	}()

	<-ctx.Done()
	logger.Log.Info().Msg("Shutting down ingest server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Ingest server forced to shutdown")
	}
}
