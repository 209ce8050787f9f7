package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/aman-zulfiqar/currency-swap/internal/cache"
	"github.com/aman-zulfiqar/currency-swap/internal/config"
	"github.com/aman-zulfiqar/currency-swap/internal/pricefeed"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// pricesync mirrors the public price list into Redis and announces every refresh
// on the prices:updates channel.
func main() {
	boot := config.NewLogger("info")
	config.LoadDotEnv(boot)

	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rclient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rclient.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}
	defer rclient.Close()

	syncer := &pricefeed.Syncer{
		Feed:      pricefeed.NewClient(cfg.PriceFeedURL, cfg.HTTPTimeout),
		Target:    cache.NewRedisCacheFromClient(rclient, logger),
		Interval:  cfg.PollInterval,
		Fluctuate: cfg.Fluctuate,
		Logger:    logger,
	}

	logger.WithFields(logrus.Fields{
		"url":       cfg.PriceFeedURL,
		"interval":  cfg.PollInterval.String(),
		"fluctuate": cfg.Fluctuate,
	}).Info("price sync starting")

	if err := syncer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Fatal("price sync stopped")
	}
	logger.Info("price sync stopped")
}
