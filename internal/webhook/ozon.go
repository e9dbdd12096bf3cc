package webhook

import (
	"context"
	"io"
	"net/http"
	"time"

	"order-relay-bot/internal/ingest"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	maxBodyBytes = 1 << 20

	// DefaultWriteTimeout bounds how long the acknowledgment waits on the store.
	DefaultWriteTimeout = 5 * time.Second
)

type Ingester interface {
	Ingest(ctx context.Context, p ingest.Payload) (int64, error)
}

// OzonHandler receives marketplace order notifications.
type OzonHandler struct {
	ingester     Ingester
	writeTimeout time.Duration
	logger       *zap.Logger
}

func NewOzonHandler(ingester Ingester, logger *zap.Logger) *OzonHandler {
	return &OzonHandler{
		ingester:     ingester,
		writeTimeout: DefaultWriteTimeout,
		logger:       logger,
	}
}

// Handle serves POST /webhook/ozon. The reply is always 200 "OK" so the
// marketplace stops redelivering; processing problems are only logged.
func (h *OzonHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		h.logger.Warn("Failed to read webhook body", zap.Error(err))
	}

	payload := ingest.ParsePayload(body)

	// the write outlives a disconnecting sender but not a stalled database
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), h.writeTimeout)
	defer cancel()

	if _, err := h.ingester.Ingest(ctx, payload); err != nil {
		h.logger.Error("Webhook order was not stored",
			zap.String("order_id", payload.OrderID),
			zap.Error(err))
	}

	c.String(http.StatusOK, "OK")
}
