package bot

import (
	"context"

	"order-relay-bot/internal/storage"
	"order-relay-bot/pkg/models"
	"order-relay-bot/pkg/ozon"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender delivers one outbound Telegram message or document.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type UpdatesSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order models.Order) (int64, error)
	ListRecentOrders(ctx context.Context, limit int) ([]models.Order, error)
}

type PostingsFetcher interface {
	ListPostings(ctx context.Context, req ozon.ListRequest) (*ozon.ListResponse, error)
}

var (
	_ Sender          = (*tgbotapi.BotAPI)(nil)
	_ UpdatesSource   = (*tgbotapi.BotAPI)(nil)
	_ PostingsFetcher = (*ozon.Client)(nil)
	_ OrderStore      = (*storage.PostgresStorage)(nil)
)
