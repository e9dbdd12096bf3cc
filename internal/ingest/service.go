package ingest

import (
	"context"
	"fmt"

	"order-relay-bot/pkg/models"

	"go.uber.org/zap"
)

type OrderWriter interface {
	CreateOrder(ctx context.Context, order models.Order) (int64, error)
}

type Notifier interface {
	Notify(text string)
}

// SeenSet remembers marketplace order ids. MarkSeen reports true only the
// first time a key is marked.
type SeenSet interface {
	MarkSeen(ctx context.Context, key string) (bool, error)
}

// Service records marketplace orders and tells the administrator about them.
type Service struct {
	store    OrderWriter
	notifier Notifier
	seen     SeenSet
	logger   *zap.Logger
}

// NewService builds the service. seen may be nil when nothing polls Ozon.
func NewService(store OrderWriter, notifier Notifier, seen SeenSet, logger *zap.Logger) *Service {
	return &Service{store: store, notifier: notifier, seen: seen, logger: logger}
}

// Ingest persists the order and always queues the notification, even when
// the write failed. The returned error is for logging only.
func (s *Service) Ingest(ctx context.Context, p Payload) (int64, error) {
	const operation = "ingest.Ingest"

	s.logger.Info("Marketplace order received",
		zap.String("order_id", p.OrderID),
		zap.String("buyer", p.BuyerName),
		zap.Int("items", p.ItemsCount))

	s.markSeen(ctx, p.OrderID)

	id, err := s.store.CreateOrder(ctx, p.Order())
	if err != nil {
		s.logger.Error("Failed to save marketplace order",
			zap.String("order_id", p.OrderID),
			zap.Error(err))
		err = fmt.Errorf("%s: %w", operation, err)
	}

	s.notifier.Notify(FormatNotification(p))
	return id, err
}

func (s *Service) markSeen(ctx context.Context, orderID string) {
	if s.seen == nil || orderID == Placeholder {
		return
	}
	if _, err := s.seen.MarkSeen(ctx, orderID); err != nil {
		s.logger.Warn("Failed to mark marketplace order as seen",
			zap.String("order_id", orderID),
			zap.Error(err))
	}
}
