package pricefeed

import (
	"context"
	"math/rand"
	"time"

	"github.com/aman-zulfiqar/currency-swap/internal/catalog"
	"github.com/aman-zulfiqar/currency-swap/internal/constants"
	"github.com/aman-zulfiqar/currency-swap/internal/storage"
	"github.com/sirupsen/logrus"
)

// SyncTarget receives every refreshed table.
type SyncTarget interface {
	SetPrices(ctx context.Context, prices catalog.PriceTable) error
	storage.PricePublisher
}

// Syncer polls the feed and mirrors it into the cache.
type Syncer struct {
	Feed     Fetcher
	Target   SyncTarget
	Interval time.Duration
	// Fluctuate applies a random move of up to 1% to every non-stable price,
	// so the demo shows live-looking numbers between upstream updates.
	Fluctuate bool
	Rand      *rand.Rand
	Logger    *logrus.Logger
}

// SyncOnce fetches, stores and publishes one table.
func (s *Syncer) SyncOnce(ctx context.Context) (catalog.PriceTable, error) {
	prices, err := s.Feed.GetPrices(ctx)
	if err != nil {
		return nil, err
	}
	if s.Fluctuate {
		if s.Rand == nil {
			s.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		prices = prices.Fluctuate(s.Rand, constants.StableSymbols...)
	}

	if err := s.Target.SetPrices(ctx, prices); err != nil {
		return nil, err
	}
	if err := s.Target.PublishPrices(ctx, prices); err != nil {
		s.logger().WithError(err).Warn("pub/sub error")
	}
	return prices, nil
}

// Run syncs immediately and then every Interval until ctx is done. Failed rounds are
// logged and retried on the next tick.
func (s *Syncer) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		prices, err := s.SyncOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger().WithError(err).Warn("price sync failed")
		} else {
			s.logger().WithField("count", len(prices)).Info("prices synced")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Syncer) logger() *logrus.Logger {
	if s.Logger == nil {
		s.Logger = logrus.New()
	}
	return s.Logger
}
