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

	"flashdeck/internal/bootstrap"
	"flashdeck/internal/config"
	"flashdeck/internal/generator"
	"flashdeck/internal/repository/postgres"
	"flashdeck/internal/service"
	"flashdeck/internal/study"
	"flashdeck/internal/web"

	"go.uber.org/zap"
)

const cleanupInterval = 10 * time.Minute

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

	logger.Info("Starting flashdeck web server", zap.String("env", cfg.Env))

	if err := cfg.RequireDatabase(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := bootstrap.ConnectDatabase(ctx, cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	if err := bootstrap.RunMigrations(db, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	cardRepo, err := postgres.NewCardRepo(db, cfg.CardsTable)
	if err != nil {
		logger.Fatal("Invalid card table", zap.Error(err))
	}
	deckRepo := postgres.NewDeckRepo(db)

	// Initialize services
	gen := generator.New(generator.Config{
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		APIKey:  cfg.LLM.APIKey,
		Timeout: cfg.LLM.Timeout,
	}, logger)

	sessions := study.NewStore(cfg.SessionTTL)
	authService := service.NewAuthService(userRepo, logger)
	cardService := service.NewCardService(cardRepo)
	deckService := service.NewDeckService(deckRepo, logger)
	quizService := service.NewQuizService(gen, deckRepo, nil, cfg.DefaultLanguage, logger)
	cleanupService := service.NewCleanupService(sessions, logger)

	srv := web.NewServer(authService, cardService, deckService, quizService, sessions, cfg.SessionTTL, logger)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go bootstrap.RunCleanupJob(ctx, cleanupService, cleanupInterval, logger)

	go func() {
		logger.Info("HTTP server listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("model", gen.Model()),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
