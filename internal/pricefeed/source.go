package pricefeed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aman-zulfiqar/currency-swap/internal/catalog"
	"github.com/aman-zulfiqar/currency-swap/internal/storage"
	"github.com/sirupsen/logrus"
)

// Fetcher returns a fresh price table.
type Fetcher interface {
	GetPrices(ctx context.Context) (catalog.PriceTable, error)
}

// CachedSource serves the table stored in the cache and goes to the feed only when the
// cached copy is missing or older than MaxAge. A feed error falls back to the stale copy.
type CachedSource struct {
	Cache  storage.PriceCache
	Feed   Fetcher
	MaxAge time.Duration
	Logger *logrus.Logger

	mu sync.Mutex // serializes refreshes
}

func NewCachedSource(cache storage.PriceCache, feed Fetcher, maxAge time.Duration, logger *logrus.Logger) *CachedSource {
	if logger == nil {
		logger = logrus.New()
	}
	return &CachedSource{Cache: cache, Feed: feed, MaxAge: maxAge, Logger: logger}
}

func (s *CachedSource) GetPrices(ctx context.Context) (catalog.PriceTable, error) {
	cached, fresh := s.cached(ctx)
	if fresh {
		return cached, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// another caller may have refreshed while we waited
	if again, ok := s.cached(ctx); ok {
		return again, nil
	}

	prices, err := s.Feed.GetPrices(ctx)
	if err != nil {
		if len(cached) > 0 {
			s.Logger.WithError(err).Warn("price feed unavailable, serving cached prices")
			return cached, nil
		}
		return nil, fmt.Errorf("fetch prices: %w", err)
	}

	if err := s.Cache.SetPrices(ctx, prices); err != nil {
		s.Logger.WithError(err).Warn("failed to cache prices")
	}
	return prices, nil
}

func (s *CachedSource) cached(ctx context.Context) (catalog.PriceTable, bool) {
	prices, err := s.Cache.GetPrices(ctx)
	if err != nil {
		s.Logger.WithError(err).Warn("price cache read failed")
		return nil, false
	}
	if len(prices) == 0 {
		return nil, false
	}
	at, err := s.Cache.PricesUpdatedAt(ctx)
	if err != nil || at.IsZero() {
		return prices, false
	}
	return prices, s.MaxAge <= 0 || time.Since(at) <= s.MaxAge
}
