package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/learnstreak/coach/internal/api"
	"github.com/learnstreak/coach/internal/config"
	"github.com/learnstreak/coach/internal/convo"
	"github.com/learnstreak/coach/internal/events"
	"github.com/learnstreak/coach/internal/extract"
	"github.com/learnstreak/coach/internal/llm"
	"github.com/learnstreak/coach/internal/store"
	"github.com/learnstreak/coach/internal/syllabus"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("coach starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// LLM proxy client
	if cfg.LLMProxyURL == "" {
		slog.Error("LLM_PROXY_URL is required")
		os.Exit(1)
	}
	client := llm.NewClient(cfg.LLMProxyURL, cfg.LLMProxyToken, cfg.LLMModel)
	slog.Info("llm client ready", "model", cfg.LLMModel)

	// Database is optional: without it the conversational flows still work,
	// nothing is persisted.
	var db *store.Store
	if cfg.DatabaseURL != "" {
		var err error
		db, err = store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database connected")
	} else {
		slog.Warn("DATABASE_URL not set, running without persistence")
	}

	// NATS (optional)
	var pub *events.Publisher
	if cfg.NatsURL != "" {
		var err error
		pub, err = events.NewPublisher(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer pub.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS_URL not set, running without events")
	}

	deps := api.Deps{
		Convo:     convo.New(client, cfg.TurnTimeout, slog.Default()),
		Extractor: extract.New(client, cfg.ExtractTimeout, slog.Default()),
		Syllabus:  syllabus.New(client, cfg.SyllabusTimeout, slog.Default()),
		Store:     db,
		Events:    pub,
		GoalDays:  cfg.GoalDays,
		Logger:    slog.Default(),
	}

	srv := api.NewServer(cfg.Port, cfg.APIToken, deps)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	if pub != nil {
		if err := pub.Publish(events.SubjectRegistered, map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"port":      cfg.Port,
		}); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	slog.Info("coach ready", "port", cfg.Port, "storage", db != nil, "events", pub != nil)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("coach stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
