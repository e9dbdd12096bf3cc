package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"order-relay-bot/internal/config"
	"order-relay-bot/pkg/models"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type PostgresStorage struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPostgresStorage(ctx context.Context, cfg config.Database, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	var db *sqlx.DB

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.Name))

	err := backoff.RetryNotify(
		func() error {
			conn, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			db = conn
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := RunMigrations(ctx, db.DB, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	logger.Info("Successfully connected to PostgreSQL")
	return NewWithDB(db, logger), nil
}

// NewWithDB wraps an already opened connection. Migrations are not run.
func NewWithDB(db *sqlx.DB, logger *zap.Logger) *PostgresStorage {
	return &PostgresStorage{db: db, logger: logger}
}

// CreateOrder inserts a new order and returns its id.
func (s *PostgresStorage) CreateOrder(ctx context.Context, order models.Order) (int64, error) {
	const query = `
        INSERT INTO orders (user_id, side_one, side_two, status, source)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `

	if order.Status == "" {
		order.Status = models.StatusPending
	}
	if order.Source == "" {
		order.Source = models.SourceTelegram
	}

	var orderID int64
	err := s.db.QueryRowxContext(ctx, query,
		order.UserID,
		order.SideOne,
		order.SideTwo,
		order.Status,
		order.Source,
	).Scan(&orderID)
	if err != nil {
		return 0, storeErr("create order", err)
	}

	s.logger.Debug("Order saved",
		zap.Int64("order_id", orderID),
		zap.String("status", string(order.Status)),
		zap.String("source", string(order.Source)))

	return orderID, nil
}

// ListRecentOrders returns at most limit orders, newest first.
func (s *PostgresStorage) ListRecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	const query = `
        SELECT id, user_id, side_one, side_two, status, source, created_at
        FROM orders
        ORDER BY created_at DESC, id DESC
        LIMIT $1
    `

	orders := make([]models.Order, 0)
	if limit <= 0 {
		return orders, nil
	}

	if err := s.db.SelectContext(ctx, &orders, query, limit); err != nil {
		return nil, storeErr("list recent orders", err)
	}
	if orders == nil {
		orders = make([]models.Order, 0)
	}

	return orders, nil
}

// marketplaceOrderPrefix is how ingest labels side_one of marketplace orders.
const marketplaceOrderPrefix = "OZON Order: "

// ListMarketplaceOrderIDs returns the marketplace order ids already stored.
func (s *PostgresStorage) ListMarketplaceOrderIDs(ctx context.Context) ([]string, error) {
	const query = `
        SELECT DISTINCT side_one
        FROM orders
        WHERE source = $1 AND side_one LIKE $2
    `

	var labels []string
	if err := s.db.SelectContext(ctx, &labels, query, models.SourceOzon, marketplaceOrderPrefix+"%"); err != nil {
		return nil, storeErr("list marketplace order ids", err)
	}

	ids := make([]string, 0, len(labels))
	for _, label := range labels {
		if id := strings.TrimPrefix(label, marketplaceOrderPrefix); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *PostgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
