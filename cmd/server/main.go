package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/api"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/app"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/assistant"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/config"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/report"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/scheduler"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/storage"
	"github.com/IMC-ERP/ERP-FE-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	logger.SetFormat(cfg.Log.Format)
	logger.SetLevel(cfg.Log.Level)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	rt, err := app.New(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize runtime")
	}
	defer rt.Close(context.Background())

	services := &api.Services{Analytics: rt.Service}

	gen, err := assistant.NewGeminiGenerator(ctx, cfg.Assistant)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("assistant unavailable")
	} else if gen != nil {
		defer gen.Close()
		services.Assistant = assistant.NewAdvisor(rt.Service, gen)
	}

	var exporter scheduler.DayExporter
	if cfg.Storage.Enabled {
		client, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		if err := client.EnsureBucket(ctx); err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to prepare bucket")
		}
		exporter = report.NewExporter(client)
	}

	sched := scheduler.NewScheduler(cfg.Reporting.RollupCron, cfg.Reporting.Location(), rt.Service, exporter)
	if err := sched.Start(); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Str("store", cfg.Store.Driver).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sched.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
