package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/McPreacher/MissionTeamMoney/internal/amqp"
	"github.com/McPreacher/MissionTeamMoney/internal/config"
	gledger "github.com/McPreacher/MissionTeamMoney/internal/ledger/google"
	applog "github.com/McPreacher/MissionTeamMoney/internal/log"
	"github.com/McPreacher/MissionTeamMoney/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logcfg := applog.DefaultConfig()
	logcfg.Component = applog.ComponentWorker
	logger := applog.New(logcfg)
	applog.SetDefault(logger)

	logger.Info("Starting tripfund-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the mutation worker")
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the mutation worker")
		os.Exit(1)
	}

	sheetsClient, err := gledger.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets ledger", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets ledger initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mutationWorker := worker.NewMutationWorker(sheetsClient)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeMutations(gctx, func(msg *amqp.MutationMessage) error {
			return mutationWorker.HandleMutationMessage(gctx, msg)
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
