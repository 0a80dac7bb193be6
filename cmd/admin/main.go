package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flashdeck/internal/admin"
	"flashdeck/internal/bootstrap"
	"flashdeck/internal/config"
	"flashdeck/internal/repository/postgres"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := bootstrap.SetupLogger(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AdminSecret == "" {
		logger.Warn("ADMIN_SECRET is not set, create-table requests will be rejected")
	}

	// The endpoint still answers without a database and reports it per request
	var provisioner admin.Provisioner
	if cfg.HasDatabase() {
		db, err := bootstrap.ConnectDatabase(ctx, cfg.DSN(), logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		provisioner = postgres.NewProvisioner(db)
	} else {
		logger.Warn("Database is not configured, create-table requests will fail")
	}

	srv := admin.NewServer(cfg.AdminSecret, provisioner, logger)
	httpServer := &http.Server{
		Addr:              cfg.AdminAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Admin server listening", zap.String("addr", cfg.AdminAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Admin server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	logger.Info("Admin server stopped")
}
