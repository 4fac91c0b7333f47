package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"faturadash/internal/bootstrap"
	"faturadash/internal/config"
	cronpkg "faturadash/internal/cron"
	"faturadash/internal/handler/api"
	"faturadash/internal/middleware"
	"faturadash/internal/notify"
	"faturadash/internal/repository"
	"faturadash/internal/router"
	"faturadash/internal/storage"
	"faturadash/internal/webhook"
)

func main() {
	// --- Logger ---
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// --- Database ---
	db, err := config.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := bootstrap.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	// --- External clients ---
	webhookClient := webhook.New(&cfg.Webhook)
	storageClient := storage.New(&cfg.Storage)

	// --- Idempotency deduper (Redis with in-memory fallback) ---
	keyDeduper, dedupeErr := middleware.NewKeyDeduper(
		cfg.Redis.Addr,
		cfg.Redis.Pass,
		cfg.Redis.DB,
		10*time.Minute,
	)
	if dedupeErr != nil {
		logger.Warn("Redis unavailable for idempotency keys, using in-memory fallback", zap.Error(dedupeErr))
	}

	// --- Notifier (optional) ---
	var notifier cronpkg.Notifier
	if cfg.Notify.BotToken != "" {
		tg, err := notify.NewTelegram(cfg.Notify.BotToken, cfg.Notify.ChatID, logger)
		if err != nil {
			logger.Warn("Telegram notifier disabled", zap.Error(err))
		} else {
			notifier = tg
		}
	}

	// --- Repositories ---
	repos := &api.Repos{
		Dispatch: repository.NewDispatchRepository(db),
		Pdf:      repository.NewPdfRepository(db),
		User:     repository.NewUserRepository(db),
	}

	// --- Echo ---
	e := echo.New()
	e.HideBanner = true
	router.Setup(e, repos, webhookClient, storageClient, keyDeduper, logger)

	// --- Background scheduler ---
	scheduler := cronpkg.New(cfg, &cronpkg.Repos{
		Dispatch: repos.Dispatch,
		Pdf:      repos.Pdf,
	}, webhookClient, storageClient, notifier, logger)
	scheduler.Start()

	// --- Start server ---
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		logger.Info("Starting fatura dashboard server", zap.String("addr", addr))
		if err := e.Start(addr); err != nil {
			logger.Info("Server stopped", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	ctx := scheduler.Stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
