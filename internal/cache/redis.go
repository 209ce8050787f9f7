package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aman-zulfiqar/currency-swap/internal/catalog"
	"github.com/aman-zulfiqar/currency-swap/internal/constants"
	"github.com/aman-zulfiqar/currency-swap/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisCache keeps the live price table and the recent swaps list, and fans swaps out
// over Pub/Sub.
type RedisCache struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewRedisCacheFromClient wraps an existing client. The caller owns the client.
func NewRedisCacheFromClient(client *redis.Client, logger *logrus.Logger) *RedisCache {
	if logger == nil {
		logger = logrus.New()
	}
	return &RedisCache{client: client, logger: logger}
}

// SetPrices replaces the stored table in one transaction; no partial updates are visible.
func (r *RedisCache) SetPrices(ctx context.Context, prices catalog.PriceTable) error {
	fields := make(map[string]any, len(prices))
	for sym, p := range prices {
		fields[sym] = strconv.FormatFloat(p, 'f', -1, 64)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, constants.RedisKeyPrices)
	if len(fields) > 0 {
		pipe.HSet(ctx, constants.RedisKeyPrices, fields)
	}
	pipe.Set(ctx, constants.RedisKeyPricesAt, time.Now().UTC().Format(time.RFC3339), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set prices: %w", err)
	}

	r.logger.WithField("count", len(prices)).Debug("price table replaced")
	return nil
}

func (r *RedisCache) GetPrices(ctx context.Context) (catalog.PriceTable, error) {
	vals, err := r.client.HGetAll(ctx, constants.RedisKeyPrices).Result()
	if err != nil {
		return nil, fmt.Errorf("get prices: %w", err)
	}

	out := make(catalog.PriceTable, len(vals))
	for sym, v := range vals {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p <= 0 {
			r.logger.WithField("token", sym).Warn("skipping malformed cached price")
			continue
		}
		out[sym] = p
	}
	return out, nil
}

// PricesUpdatedAt returns when the table was last replaced, or the zero time.
func (r *RedisCache) PricesUpdatedAt(ctx context.Context) (time.Time, error) {
	v, err := r.client.Get(ctx, constants.RedisKeyPricesAt).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("get prices timestamp: %w", err)
	}
	return time.Parse(time.RFC3339, v)
}

func (r *RedisCache) AddRecentSwap(ctx context.Context, swap *models.SwapRecord) error {
	b, err := json.Marshal(swap)
	if err != nil {
		return fmt.Errorf("marshal swap: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, constants.RedisKeyRecentSwaps, b)
	pipe.LTrim(ctx, constants.RedisKeyRecentSwaps, 0, constants.MaxRecentSwaps-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("add recent swap: %w", err)
	}
	return nil
}

func (r *RedisCache) GetRecentSwaps(ctx context.Context, limit int64) ([]*models.SwapRecord, error) {
	if limit <= 0 {
		return []*models.SwapRecord{}, nil
	}
	vals, err := r.client.LRange(ctx, constants.RedisKeyRecentSwaps, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("get recent swaps: %w", err)
	}

	out := make([]*models.SwapRecord, 0, len(vals))
	for _, v := range vals {
		var s models.SwapRecord
		if err := json.Unmarshal([]byte(v), &s); err != nil {
			r.logger.WithError(err).Warn("skipping malformed cached swap")
			continue
		}
		out = append(out, &s)
	}
	return out, nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
