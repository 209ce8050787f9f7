package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aman-zulfiqar/currency-swap/internal/catalog"
	"github.com/aman-zulfiqar/currency-swap/internal/constants"
	"github.com/aman-zulfiqar/currency-swap/internal/models"
	"github.com/redis/go-redis/v9"
)

// PublishSwap sends swap to the global channel and to its pair channel.
func (r *RedisCache) PublishSwap(ctx context.Context, swap *models.SwapRecord) error {
	data, err := json.Marshal(swap)
	if err != nil {
		return err
	}

	channels := []string{
		constants.PubSubChannelSwaps,
		constants.PubSubChannelPairPrefix + swap.Pair,
	}

	pipe := r.client.Pipeline()
	for _, channel := range channels {
		pipe.Publish(ctx, channel, data)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// PublishPrices announces a refreshed price table.
func (r *RedisCache) PublishPrices(ctx context.Context, prices catalog.PriceTable) error {
	data, err := json.Marshal(prices)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, constants.PubSubChannelPriceUpdate, data).Err()
}

// SubscribeSwaps streams swaps published on channel (or pattern, when it contains '*')
// until ctx is cancelled. Malformed payloads are logged and dropped.
func (r *RedisCache) SubscribeSwaps(ctx context.Context, channel string) (<-chan *models.SwapRecord, error) {
	var ps *redis.PubSub
	if strings.Contains(channel, "*") {
		ps = r.client.PSubscribe(ctx, channel)
	} else {
		ps = r.client.Subscribe(ctx, channel)
	}

	// Wait for confirmation so callers know the subscription is live.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	out := make(chan *models.SwapRecord)
	go func() {
		defer close(out)
		defer ps.Close()

		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var swap models.SwapRecord
				if err := json.Unmarshal([]byte(msg.Payload), &swap); err != nil {
					r.logger.WithError(err).WithField("channel", msg.Channel).Warn("error unmarshaling swap")
					continue
				}
				select {
				case out <- &swap:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
