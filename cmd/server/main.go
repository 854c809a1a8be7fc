// Package main is the entry point for the Riskboard server. It wires the
// market data client, the metrics modules and the HTTP API together and
// runs the background sync and backup schedules.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/riskboard/internal/clients/marketdata"
	"github.com/aristath/riskboard/internal/config"
	"github.com/aristath/riskboard/internal/database"
	"github.com/aristath/riskboard/internal/jobs"
	"github.com/aristath/riskboard/internal/modules/analysis"
	"github.com/aristath/riskboard/internal/modules/charts"
	"github.com/aristath/riskboard/internal/modules/financials"
	"github.com/aristath/riskboard/internal/modules/prices"
	"github.com/aristath/riskboard/internal/modules/quiz"
	"github.com/aristath/riskboard/internal/modules/risk"
	"github.com/aristath/riskboard/internal/reliability"
	"github.com/aristath/riskboard/internal/scheduler"
	"github.com/aristath/riskboard/internal/server"
	"github.com/aristath/riskboard/pkg/logger"
)

// Nightly, after the post-close price sync has finished.
const backupSchedule = "0 0 2 * * *"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("port", cfg.Port).
		Bool("dev_mode", cfg.DevMode).
		Msg("Starting riskboard")

	db, err := database.New(database.Config{Path: cfg.DatabasePath})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	client := marketdata.NewClient(cfg.MarketDataBaseURL, cfg.FMPAPIKey, log)

	pricesService := prices.NewService(
		prices.NewRepository(db.Conn(), log),
		prices.NewCache(db.Conn(), log),
		client,
		log,
	)
	financialsService := financials.NewService(financials.NewRepository(db.Conn(), log), client, log)

	sched := scheduler.New(log)
	registerJobs(sched, cfg, db, pricesService, log)
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:        log,
		DB:         db,
		Port:       cfg.Port,
		DevMode:    cfg.DevMode,
		Risk:       risk.NewService(pricesService, log),
		Analysis:   analysis.NewService(pricesService, client, financialsService, log),
		Charts:     charts.NewService(pricesService, log),
		Financials: financialsService,
		Quiz:       quiz.NewService(quiz.NewRepository(db.Conn(), log), log),
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Riskboard stopped")
}

// registerJobs schedules the background jobs that are enabled in the
// configuration. Both are off by default so a bare checkout can serve
// API traffic without credentials.
func registerJobs(sched *scheduler.Scheduler, cfg *config.Config, db *database.DB, pricesService *prices.Service, log zerolog.Logger) {
	if cfg.Sync.Enabled {
		job := jobs.NewPriceSyncJob(pricesService, pricesService.Repo(), log)
		if err := sched.AddJob(cfg.Sync.Schedule, job); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.Sync.Schedule).Msg("Failed to schedule price sync")
		}
	}

	if cfg.Backup.Enabled {
		store, err := reliability.NewS3Client(context.Background(), reliability.S3Config{
			Bucket:          cfg.Backup.Bucket,
			Endpoint:        cfg.Backup.Endpoint,
			Region:          cfg.Backup.Region,
			AccessKeyID:     cfg.Backup.AccessKeyID,
			SecretAccessKey: cfg.Backup.SecretAccessKey,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize backup storage")
		}

		backupService := reliability.NewBackupService(
			store,
			db.Conn(),
			cfg.DataDir,
			cfg.Backup.Prefix,
			cfg.Backup.RetentionDays,
			log,
		)
		if err := sched.AddJob(backupSchedule, jobs.NewBackupJob(backupService, log)); err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule database backup")
		}
	}
}
