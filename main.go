package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/equityflow/src/config"
	"github.com/username/equityflow/src/handlers"
	"github.com/username/equityflow/src/logger"
	"github.com/username/equityflow/src/processors"
	"github.com/username/equityflow/src/services"
	"github.com/username/equityflow/src/store"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel, os.Stdout)

	logger.L.Info("equityflow ledger server starting...")

	logger.L.Info("Opening ledger database...", "path", config.Cfg.DatabasePath)
	ledgerStore, err := store.Open(config.Cfg)
	if err != nil {
		logger.L.Error("Failed to open ledger database", "error", err)
		os.Exit(1)
	}
	defer ledgerStore.Close()

	balanceCache := cache.New(config.Cfg.CacheExpiration, config.Cfg.CacheCleanupInterval)

	ledgerService := services.NewLedgerService(
		ledgerStore,
		processors.NewStatementProcessor(),
		processors.NewBalanceProcessor(),
		balanceCache,
		config.Cfg.Currency,
	)

	if config.Cfg.BackupSchedule != "" {
		scheduler, err := services.NewBackupScheduler(ledgerService, config.Cfg.BackupDir, config.Cfg.BackupSchedule)
		if err != nil {
			logger.L.Error("Invalid backup schedule", "schedule", config.Cfg.BackupSchedule, "error", err)
			os.Exit(1)
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
		logger.L.Info("Scheduled script backups enabled", "schedule", config.Cfg.BackupSchedule, "dir", config.Cfg.BackupDir)
	}

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handlers.NewRouter(config.Cfg, ledgerService),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.L.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.L.Error("Graceful shutdown failed", "error", err)
		}
	}()

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
