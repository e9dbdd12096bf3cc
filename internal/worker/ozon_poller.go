package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"order-relay-bot/internal/ingest"
	"order-relay-bot/internal/storage/redis"
	"order-relay-bot/pkg/ozon"

	"go.uber.org/zap"
)

type PostingsFetcher interface {
	ListPostings(ctx context.Context, req ozon.ListRequest) (*ozon.ListResponse, error)
}

type Ingester interface {
	Ingest(ctx context.Context, p ingest.Payload) (int64, error)
}

// SeenSet is shared with the ingest service so webhook orders are never
// picked up again by the poller.
type SeenSet = ingest.SeenSet

var (
	_ SeenSet = (*MemorySeenSet)(nil)
	_ SeenSet = (*redis.Storage)(nil)
)

// OzonPoller periodically pulls new postings from Ozon and feeds them into
// the same path as the webhook.
type OzonPoller struct {
	client   PostingsFetcher
	ingester Ingester
	seen     SeenSet
	interval time.Duration
	limit    int
	logger   *zap.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

func NewOzonPoller(client PostingsFetcher, ingester Ingester, seen SeenSet, interval time.Duration, limit int, logger *zap.Logger) *OzonPoller {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if limit <= 0 {
		limit = 10
	}
	return &OzonPoller{
		client:   client,
		ingester: ingester,
		seen:     seen,
		interval: interval,
		limit:    limit,
		logger:   logger,
	}
}

// Start launches the polling loop.
func (p *OzonPoller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.run(runCtx)

	p.logger.Info("Ozon poller started",
		zap.Duration("interval", p.interval),
		zap.Int("limit", p.limit))
}

// Stop cancels the loop and waits for the current poll to finish.
func (p *OzonPoller) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *OzonPoller) run(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.PollOnce(ctx); err != nil {
				p.logger.Error("Ozon poll failed", zap.Error(err))
			}
		}
	}
}

// maxPages caps one poll so a misbehaving API cannot keep it paging forever.
const maxPages = 100

// Seed marks already stored orders as seen without ingesting them, so a
// restart with an empty SeenSet does not replay old postings.
func (p *OzonPoller) Seed(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if _, err := p.seen.MarkSeen(ctx, key); err != nil {
			return fmt.Errorf("worker.Seed: %w", err)
		}
	}
	p.logger.Info("Ozon poller seeded", zap.Int("known_postings", len(keys)))
	return nil
}

// PollOnce walks every page of postings, oldest first, and ingests the
// unseen ones. It returns how many were ingested.
func (p *OzonPoller) PollOnce(ctx context.Context) (int, error) {
	p.logger.Debug("Checking Ozon for new postings")

	received, ingested := 0, 0
	for page := 0; page < maxPages; page++ {
		resp, err := p.client.ListPostings(ctx, ozon.ListRequest{
			Dir:    "asc",
			Limit:  p.limit,
			Offset: page * p.limit,
		})
		if err != nil {
			return ingested, err
		}

		received += len(resp.Result)
		ingested += p.ingestPage(ctx, resp.Result)

		if len(resp.Result) < p.limit {
			break
		}
	}

	p.logger.Debug("Ozon check finished",
		zap.Int("received", received),
		zap.Int("ingested", ingested))
	return ingested, nil
}

func (p *OzonPoller) ingestPage(ctx context.Context, postings []ozon.Posting) int {
	ingested := 0
	for _, posting := range postings {
		key := postingKey(posting)
		if key == "" {
			p.logger.Warn("Skipping posting without identifier")
			continue
		}

		fresh, err := p.seen.MarkSeen(ctx, key)
		if err != nil {
			p.logger.Error("Failed to check posting",
				zap.String("posting", key),
				zap.Error(err))
			continue
		}
		if !fresh {
			continue
		}

		if _, err := p.ingester.Ingest(ctx, ingest.FromPosting(posting)); err != nil {
			p.logger.Error("Failed to ingest posting",
				zap.String("posting", key),
				zap.Error(err))
		}
		ingested++
	}
	return ingested
}

func postingKey(p ozon.Posting) string {
	if p.PostingNumber != "" {
		return p.PostingNumber
	}
	if p.OrderID != 0 {
		return strconv.FormatInt(p.OrderID, 10)
	}
	return ""
}

// MemorySeenSet keeps seen postings for the life of the process.
type MemorySeenSet struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewMemorySeenSet() *MemorySeenSet {
	return &MemorySeenSet{keys: make(map[string]struct{})}
}

func (s *MemorySeenSet) MarkSeen(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[key]; ok {
		return false, nil
	}
	s.keys[key] = struct{}{}
	return true, nil
}
