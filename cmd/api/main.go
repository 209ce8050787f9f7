package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aman-zulfiqar/currency-swap/internal/cache"
	"github.com/aman-zulfiqar/currency-swap/internal/config"
	"github.com/aman-zulfiqar/currency-swap/internal/pricefeed"
	"github.com/aman-zulfiqar/currency-swap/internal/server"
	"github.com/aman-zulfiqar/currency-swap/internal/settings"
	"github.com/aman-zulfiqar/currency-swap/internal/storage"
	"github.com/aman-zulfiqar/currency-swap/internal/swap"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	// .env must be loaded before anything reads the environment
	boot := config.NewLogger("info")
	config.LoadDotEnv(boot)

	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	rclient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rclient.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}
	defer rclient.Close()

	redisCache := cache.NewRedisCacheFromClient(rclient, logger)

	settingsStore, err := settings.NewStore(rclient)
	if err != nil {
		logger.WithError(err).Fatal("failed to create settings store")
	}

	// Swap history is optional; without ClickHouse swaps are only kept in Redis
	var (
		history storage.SwapStore
		volume  storage.VolumeReader
	)
	if cfg.ClickHouseAddr != "" {
		ch, err := cache.NewClickHouseStore(ctx, cache.ClickHouseConfig{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
			Logger:   logger,
		})
		if err != nil {
			logger.WithError(err).Warn("clickhouse unavailable, swap history disabled")
		} else {
			defer ch.Close()
			history, volume = ch, ch
		}
	}

	feed := pricefeed.NewClient(cfg.PriceFeedURL, cfg.HTTPTimeout)
	prices := pricefeed.NewCachedSource(redisCache, feed, 2*cfg.PollInterval, logger)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	engine, err := swap.NewEngine(swap.EngineConfig{
		Prices:   prices,
		Balances: swap.NewMockBalances(rand.New(rand.NewSource(rng.Int63()))),
		Submitter: swap.NewSubmitter(swap.SubmitterConfig{
			FailureRate: cfg.SubmitFailureRate,
			MinDelay:    cfg.SubmitMinDelay,
			MaxDelay:    cfg.SubmitMaxDelay,
			Rand:        rand.New(rand.NewSource(rng.Int63())),
		}),
		Cache:  redisCache,
		Store:  history,
		Logger: logger,
		Rand:   rng,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create swap engine")
	}

	srv, err := server.NewServer(server.ServerDeps{
		Handlers: &server.Handlers{
			Engine:   engine,
			Recent:   redisCache,
			History:  volume,
			Settings: settingsStore,
			DevMode:  cfg.DevMode,
			Logger:   logger,
		},
		Config: server.ServerConfig{
			Addr:      cfg.APIAddr,
			DevMode:   cfg.DevMode,
			APIKey:    cfg.APIKey,
			SwapRate:  cfg.SwapRate,
			SwapBurst: cfg.SwapBurst,
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create http server")
	}

	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Warn("shutdown error")
		}
	}()

	logger.WithFields(logrus.Fields{
		"addr":       cfg.APIAddr,
		"price_feed": cfg.PriceFeedURL,
		"history":    history != nil,
	}).Info("api server starting")

	if err := srv.Start(); err != nil {
		logger.WithError(err).Fatal("api server failed")
	}

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer waitCancel()
	if err := srv.WaitClosed(waitCtx); err != nil {
		logger.WithError(err).Warn("server did not close in time")
	}
}
