package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"order-relay-bot/internal/bot"
	"order-relay-bot/internal/bot/state_manager"
	"order-relay-bot/internal/config"
	"order-relay-bot/internal/ingest"
	"order-relay-bot/internal/server"
	"order-relay-bot/internal/storage"
	"order-relay-bot/internal/storage/redis"
	"order-relay-bot/internal/webhook"
	"order-relay-bot/internal/worker"
	"order-relay-bot/pkg/logger"
	"order-relay-bot/pkg/ozon"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// ENTRY POINT

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Инициализация логгера
	zapLogger, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	// Обработка сигналов завершения
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	// Инициализация PostgreSQL хранилища
	pgStorage, err := storage.NewPostgresStorage(ctx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to init PostgreSQL storage", zap.Error(err))
	}
	defer pgStorage.Close()

	// Состояние диалогов: Redis, если настроен, иначе память процесса
	var (
		states state_manager.Store
		seen   worker.SeenSet
	)
	if cfg.Redis.Enabled() {
		redisStorage := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.StateTTL)
		if err := redisStorage.Ping(ctx); err != nil {
			zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisStorage.Close()

		states, seen = redisStorage, redisStorage
		zapLogger.Info("Using Redis for conversation state",
			zap.String("addr", cfg.Redis.Addr),
			zap.Duration("ttl", cfg.StateTTL))
	} else {
		states, seen = state_manager.NewMemoryStore(), worker.NewMemorySeenSet()
		zapLogger.Info("Using in-memory conversation state")
	}

	// Telegram API
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		zapLogger.Fatal("Failed to create bot API", zap.Error(err))
	}
	botAPI.Debug = cfg.BotDebug

	zapLogger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	if cfg.AdminChatID == 0 {
		zapLogger.Warn("ADMIN_CHAT_ID is not set: admin commands and notifications are disabled")
	}

	notifier := bot.NewNotifier(botAPI, cfg.AdminChatID, zapLogger)
	ingestService := ingest.NewService(pgStorage, notifier, seen, zapLogger)

	deps := bot.Dependencies{
		API:          botAPI,
		Sender:       botAPI,
		Logger:       zapLogger,
		Conversation: state_manager.NewConversation(states),
		Store:        pgStorage,
		Notifier:     notifier,
		AdminChatID:  cfg.AdminChatID,
		ReportsDir:   cfg.ReportsDir,
	}

	// Ozon API: ручной запрос и периодический опрос
	var poller *worker.OzonPoller
	if cfg.Ozon.Enabled() {
		ozonClient := ozon.NewClient(cfg.Ozon.BaseURL, cfg.Ozon.ClientID, cfg.Ozon.APIKey, cfg.Ozon.RequestTimeout, zapLogger)
		deps.Ozon = ozonClient

		poller = worker.NewOzonPoller(ozonClient, ingestService, seen, cfg.Ozon.PollInterval, cfg.Ozon.PollLimit, zapLogger)

		// заказы, сохранённые до перезапуска, не должны прийти повторно
		known, err := pgStorage.ListMarketplaceOrderIDs(ctx)
		if err != nil {
			zapLogger.Fatal("Failed to load known Ozon orders", zap.Error(err))
		}
		if err := poller.Seed(ctx, known); err != nil {
			zapLogger.Fatal("Failed to seed Ozon poller", zap.Error(err))
		}
		poller.Start(ctx)
	} else {
		zapLogger.Info("Ozon credentials not set: polling disabled")
	}

	// HTTP-сервер для вебхука
	ozonWebhook := webhook.NewOzonHandler(ingestService, zapLogger)
	srv := server.New(cfg.ListenAddr(), server.NewRouter(ozonWebhook.Handle, zapLogger), zapLogger)
	if err := srv.Start(); err != nil {
		zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
	}

	// Запуск бота
	tgBot := bot.New(deps)
	botDone := make(chan error, 1)
	go func() {
		botDone <- tgBot.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		zapLogger.Info("Shutdown signal received")
	case err := <-srv.Errors():
		zapLogger.Error("HTTP server failed", zap.Error(err))
	case err := <-botDone:
		if err != nil {
			zapLogger.Error("Bot stopped with error", zap.Error(err))
		}
		botDone <- nil
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if poller != nil {
		poller.Stop()
	}
	<-botDone
	notifier.Wait()

	zapLogger.Info("Bot shutdown gracefully")
}
