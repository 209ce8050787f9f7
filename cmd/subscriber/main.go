package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/aman-zulfiqar/currency-swap/internal/cache"
	"github.com/aman-zulfiqar/currency-swap/internal/config"
	"github.com/aman-zulfiqar/currency-swap/internal/constants"
	"github.com/aman-zulfiqar/currency-swap/internal/format"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// subscriber logs every published swap. Use -channel to follow one pair
// (swaps:pair:ETH/USDC) or a pattern (swaps:pair:*).
func main() {
	channel := flag.String("channel", constants.PubSubChannelSwaps, "channel or pattern to follow")
	flag.Parse()

	boot := config.NewLogger("info")
	config.LoadDotEnv(boot)

	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rclient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rclient.Close()

	swaps, err := cache.NewRedisCacheFromClient(rclient, logger).SubscribeSwaps(ctx, *channel)
	if err != nil {
		logger.WithError(err).Fatal("failed to subscribe")
	}

	logger.WithField("channel", *channel).Info("subscriber running, press Ctrl+C to stop")

	for s := range swaps {
		logger.WithFields(logrus.Fields{
			"tx":    format.ShortHash(s.TxHash),
			"pair":  s.Pair,
			"in":    format.Quantity(s.AmountIn, 8) + " " + s.TokenIn,
			"out":   format.Quantity(s.AmountOut, 8) + " " + s.TokenOut,
			"value": format.CurrencyUSD(s.ValueUSD),
		}).Info("swap")
	}

	logger.Info("subscriber stopped")
}
