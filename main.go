package main

import (
	"context"
	"log" // Standard log only for fatal errors before the logger is ready
	"time"

	"quantBreakoutBot/config"
	"quantBreakoutBot/internal/adapters/binanceclient"
	"quantBreakoutBot/internal/adapters/forest"
	"quantBreakoutBot/internal/adapters/logger"
	"quantBreakoutBot/internal/adapters/sqlite"
	"quantBreakoutBot/internal/adapters/statmodel"
	"quantBreakoutBot/internal/adapters/telegram"
	"quantBreakoutBot/internal/app"
	"quantBreakoutBot/internal/forecast"
	"quantBreakoutBot/internal/metrics"
	"quantBreakoutBot/internal/ports"
	"quantBreakoutBot/internal/probability"
	"quantBreakoutBot/internal/screener"
	"quantBreakoutBot/internal/server"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize logger
	var appLogger ports.Logger
	switch cfg.LogFormat {
	case "json":
		appLogger = logger.NewZerolog(cfg.LogLevel, false)
	case "console":
		appLogger = logger.NewZerolog(cfg.LogLevel, true)
	default:
		appLogger = logger.NewStdLogger(cfg.LogLevel)
	}
	ctx := context.Background()
	appLogger.Info(ctx, "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String(), "format": cfg.LogFormat})

	// 3. Initialize decision journal
	journal, err := sqlite.NewJournal(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize decision journal: %v", err)
	}
	defer func() {
		if err := journal.Close(); err != nil {
			appLogger.Error(ctx, err, "Error closing decision journal")
		}
	}()

	// 4. Initialize brokerage client
	broker, err := binanceclient.New(binanceclient.Config{
		APIKey:            cfg.APIKey,
		SecretKey:         cfg.SecretKey,
		UseTestnet:        cfg.IsTestnet,
		QuoteAsset:        cfg.QuoteAsset,
		RequestsPerSecond: cfg.BrokerRateLimit,
		Logger:            appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}
	appLogger.Info(ctx, "Binance client initialized")

	// 5. Initialize notifier
	notifier, err := telegram.New(telegram.Config{
		Token:  cfg.TelegramToken,
		ChatID: cfg.TelegramChatID,
		Logger: appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Telegram notifier: %v", err)
	}
	defer notifier.Close()

	// 6. Assemble the pipeline
	screen := screener.New(screener.Config{RVOLThreshold: cfg.RVOLThreshold}, broker, appLogger)
	forecaster := forecast.New(statmodel.NewTrendModel(), statmodel.NewVolatilityModel(), appLogger)
	prob := probability.New(forest.Factory(forest.Config{}), appLogger)
	recorder := metrics.New()

	// 7. Start the liveness server alongside the scheduler
	srv := server.New(cfg.HTTPAddr, appLogger)
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Error(ctx, err, "Liveness server exited with error")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			appLogger.Error(ctx, err, "Error shutting down liveness server")
		}
	}()

	// 8. Run the scheduler
	service, err := app.New(cfg, appLogger, broker, screen, forecaster, prob, notifier, journal, recorder)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize scheduler service: %v", err)
	}
	if err := service.Run(ctx); err != nil {
		log.Fatalf("FATAL: Scheduler exited with error: %v", err)
	}
	appLogger.Info(ctx, "Application finished gracefully.")
}
