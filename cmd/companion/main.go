package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"voice-companion/config"
	"voice-companion/internal/application"
	"voice-companion/internal/infra/audio"
	"voice-companion/internal/infra/gemini"
	"voice-companion/internal/infra/markdown"
	"voice-companion/internal/infra/openai"
	"voice-companion/internal/web"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	var stt application.SpeechToText = &application.NoopSTT{}
	if cfg.OpenAI.APIKey != "" {
		stt = openai.NewWhisperClient(cfg.OpenAI.APIKey, cfg.OpenAI.Language)
	}

	responder := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model)
	recorder := audio.NewMicrophone(cfg.Audio.SampleRate, logger)
	renderer := markdown.NewRenderer()
	hub := web.NewHub(logger)

	controller := application.NewSessionController(
		recorder,
		stt,
		responder,
		renderer,
		hub,
		cfg.Summary.MaxWords,
		logger,
	)

	server := web.NewServer(cfg.Server.Addr, controller, hub, logger)
	if err := server.Start(ctx); err != nil {
		logger.Error("starting web server", "error", err)
		os.Exit(1)
	}

	logger.Info("voice companion ready", "addr", cfg.Server.Addr)

	<-ctx.Done()

	if err := server.Stop(); err != nil {
		logger.Error("stopping web server", "error", err)
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
