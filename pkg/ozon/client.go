package ozon

// OZON SELLER API CLIENT

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api-seller.ozon.ru"

	postingListPath = "/v2/posting/fbs/list"
)

type Client struct {
	baseURL    string
	clientID   string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

type ListRequest struct {
	Dir    string `json:"dir"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

type Product struct {
	SKU      int64  `json:"sku"`
	Name     string `json:"name"`
	OfferID  string `json:"offer_id"`
	Quantity int    `json:"quantity"`
}

type Customer struct {
	Name string `json:"name"`
}

type Posting struct {
	PostingNumber string    `json:"posting_number"`
	OrderID       int64     `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	Status        string    `json:"status"`
	InProcessAt   string    `json:"in_process_at"`
	Products      []Product `json:"products"`
	Customer      *Customer `json:"customer"`
}

type ListResponse struct {
	Result []Posting `json:"result"`
}

// APIError is returned for any non-200 response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ozon api: unexpected status %d: %s", e.StatusCode, e.Body)
}

func NewClient(baseURL, clientID, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		clientID: clientID,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ListPostings fetches FBS postings.
func (c *Client) ListPostings(ctx context.Context, req ListRequest) (*ListResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+postingListPath,
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Client-Id", c.clientID)
	httpReq.Header.Set("Api-Key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("Ozon request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(data)))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var result ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &result, nil
}
