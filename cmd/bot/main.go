package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flashdeck/internal/bootstrap"
	"flashdeck/internal/config"
	"flashdeck/internal/generator"
	"flashdeck/internal/handler"
	"flashdeck/internal/middleware"
	"flashdeck/internal/repository/postgres"
	"flashdeck/internal/service"
	"flashdeck/internal/study"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
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

	logger.Info("Starting flashdeck bot")

	if err := cfg.RequireBot(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database with retries
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
	quizService := service.NewQuizService(gen, deckRepo, nil, cfg.DefaultLanguage, logger)
	cleanupService := service.NewCleanupService(sessions, logger)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	h := handler.NewHandler(bot, authService, cardService, quizService, sessions, logger)
	bot.Use(middleware.AuthMiddleware(h, logger))
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	go bootstrap.RunCleanupJob(ctx, cleanupService, cleanupInterval, logger)

	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, stopping bot...")

	bot.Stop()

	logger.Info("Bot stopped gracefully")
}
