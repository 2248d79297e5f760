package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"invoicebot/internal/bot"
	"invoicebot/internal/config"
	"invoicebot/internal/extract"
	"invoicebot/internal/extract/azure"
	"invoicebot/internal/pdf"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Lightweight flag to verify configuration without starting polling.
	if len(os.Args) > 1 && os.Args[1] == "--check" {
		fmt.Println("OK: configuration loaded")
		return
	}

	mode, err := extract.ParseMode(cfg.Extract.Mode)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Error("telegram authentication failed", "error", err)
		os.Exit(1)
	}
	api.Debug = cfg.Telegram.Debug

	oracle := azure.NewClient(azure.Config{
		Endpoint:   cfg.Oracle.Endpoint,
		APIKey:     cfg.Oracle.APIKey,
		APIVersion: cfg.Oracle.APIVersion,
		Deployment: cfg.Oracle.Deployment,
		Timeout:    cfg.Oracle.Timeout,
	}, logger)

	b := bot.New(api, oracle, bot.Config{
		Mode:            mode,
		DefaultCurrency: cfg.Extract.DefaultCurrency,
		PDF: pdf.Options{
			DPI:         cfg.PDF.DPI,
			MaxPages:    cfg.PDF.MaxPages,
			JPEGQuality: cfg.PDF.JPEGQuality,
		},
		Workers: cfg.Extract.Workers,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("bot started, listening for messages",
		"account", api.Self.UserName,
		"mode", string(mode),
		"deployment", cfg.Oracle.Deployment,
	)
	b.Run(ctx)

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	b.Shutdown(shutdownCtx)
	logger.Info("stopped")
}
