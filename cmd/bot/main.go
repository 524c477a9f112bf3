package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flashcards/internal/config"
	"flashcards/internal/handler"
	"flashcards/internal/i18n"
	"flashcards/internal/repository"
	"flashcards/internal/repository/postgres"
	"flashcards/internal/repository/remote"
	"flashcards/internal/service"
	"flashcards/internal/speech"
	"flashcards/internal/web"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const cleanupInterval = time.Hour

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Flashcards Bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully",
		zap.String("words_source", cfg.Words.Source),
		zap.Bool("speech", cfg.Speech.Enabled),
	)

	// Word source
	var source repository.WordSource
	switch cfg.Words.Source {
	case config.SourcePostgres:
		db, err := connectDatabase(cfg.DSN(), logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := runMigrations(db, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		source = postgres.NewWordRepo(db)
	default:
		source = remote.NewWordSource(cfg.Words.URL, cfg.Words.FetchTimeout)
	}

	images := service.NewImageResolver(cfg.Words.PublicBaseURL)
	sessions := service.NewSessionStore(source, images, logger)
	translator := i18n.NewTranslator(cfg.DefaultLocale, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	speaker := initSpeech(ctx, cfg.Speech, logger)

	// HTTP server for words.json, images and the card API
	server := web.NewServer(cfg.HTTP, service.NewSession(source, images, logger), logger)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("Unhandled bot error", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	h := handler.NewHandler(ctx, bot, sessions, speaker, translator, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	go runCleanupJob(ctx, sessions, cfg.Session.IdleTTL, logger)

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown failed", zap.Error(err))
	}

	logger.Info("Bot stopped gracefully")
}

// initSpeech returns a speaker, or nil when speech is disabled or espeak-ng is missing
func initSpeech(ctx context.Context, cfg config.SpeechConfig, logger *zap.Logger) *speech.Speaker {
	if !cfg.Enabled {
		return nil
	}

	backend := speech.NewESpeak(cfg.ESpeakPath, cfg.Speed)
	if err := backend.IsAvailable(); err != nil {
		logger.Warn("Speech disabled", zap.Error(err))
		return nil
	}

	speaker := speech.NewSpeaker(backend, logger)
	voices := speaker.WaitForVoices(ctx)
	logger.Info("Speech enabled", zap.Int("voices", len(voices)))
	return speaker
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations creates the words table
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}

// runCleanupJob periodically drops idle sessions
func runCleanupJob(ctx context.Context, sessions *service.SessionStore, idleTTL time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup job stopped")
			return
		case <-ticker.C:
			sessions.EvictIdle(idleTTL)
		}
	}
}
