package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/McPreacher/MissionTeamMoney/internal/amqp"
	"github.com/McPreacher/MissionTeamMoney/internal/cache"
	"github.com/McPreacher/MissionTeamMoney/internal/config"
	"github.com/McPreacher/MissionTeamMoney/internal/core"
	"github.com/McPreacher/MissionTeamMoney/internal/goals"
	apphttp "github.com/McPreacher/MissionTeamMoney/internal/http"
	"github.com/McPreacher/MissionTeamMoney/internal/ledger"
	gledger "github.com/McPreacher/MissionTeamMoney/internal/ledger/google"
	mem "github.com/McPreacher/MissionTeamMoney/internal/ledger/memory"
	applog "github.com/McPreacher/MissionTeamMoney/internal/log"
	"github.com/McPreacher/MissionTeamMoney/internal/report"
	appsync "github.com/McPreacher/MissionTeamMoney/internal/sync"
	"github.com/McPreacher/MissionTeamMoney/internal/view"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Ledger backend: reads always come from the selected store; writes go
	// through AMQP when configured, otherwise straight to the store.
	var store ledger.Store
	switch cfg.LedgerBackend {
	case "sheets":
		cli, err := gledger.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets ledger", "error", err)
			os.Exit(1)
		}
		store = cli
		logger.Info("Initialized Google Sheets ledger backend",
			"spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	default:
		store = mem.New()
		logger.Info("Initialized memory ledger backend")
	}

	var writer ledger.MutationWriter = store
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		writer = amqpClient
		logger.Info("Mutations will be published to AMQP",
			"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	defaultGoal, err := decimal.NewFromString(cfg.DefaultGoal)
	if err != nil {
		logger.Error("Invalid default goal", "error", err, "goal", cfg.DefaultGoal)
		os.Exit(1)
	}
	goalStore, err := goals.Open(cfg.GoalsDBPath, defaultGoal)
	if err != nil {
		logger.Error("Failed to open goals store", "error", err, "path", cfg.GoalsDBPath)
		os.Exit(1)
	}
	defer goalStore.Close()

	reports, err := report.NewGenerator()
	if err != nil {
		logger.Error("Failed to initialize report generator", "error", err)
		os.Exit(1)
	}

	// Rendered views are cached until the snapshot changes or TTL expires.
	viewCache := cache.NewLRUCache[view.GroupView](64, time.Minute)

	controller := appsync.New(store, writer, appsync.Config{
		PollInterval: cfg.PollInterval,
		SettleDelay:  cfg.SettleDelay,
	}, func([]core.LedgerEntry) {
		viewCache.Purge()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := controller.Start(ctx); err != nil {
		logger.Error("Failed to start sync controller", "error", err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, controller, goalStore, reports, viewCache, cfg.DefaultGroup)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := controller.Stop(shutdownCtx); err != nil {
			logger.Error("Sync controller shutdown error", "error", err)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting tripfund server", "port", cfg.Port, "backend", cfg.LedgerBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
