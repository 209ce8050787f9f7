package swap

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/aman-zulfiqar/currency-swap/internal/catalog"
	"github.com/aman-zulfiqar/currency-swap/internal/models"
	"github.com/aman-zulfiqar/currency-swap/internal/quote"
	"github.com/aman-zulfiqar/currency-swap/internal/storage"
	"github.com/sirupsen/logrus"
)

// PriceSource provides the current price table.
type PriceSource interface {
	GetPrices(ctx context.Context) (catalog.PriceTable, error)
}

// StaticPrices serves a fixed table.
type StaticPrices catalog.PriceTable

func (s StaticPrices) GetPrices(context.Context) (catalog.PriceTable, error) {
	return catalog.PriceTable(s).Clone(), nil
}

// EngineConfig wires the engine's collaborators. Cache and Store are optional.
type EngineConfig struct {
	Assets    []catalog.Asset
	Prices    PriceSource
	Balances  BalanceSource
	Submitter *Submitter
	Cache     storage.SwapCache
	Store     storage.SwapStore
	Logger    *logrus.Logger
	Rand      *rand.Rand
}

// Engine quotes and submits swaps.
type Engine struct {
	assets    []catalog.Asset
	prices    PriceSource
	balances  BalanceSource
	submitter *Submitter
	cache     storage.SwapCache
	store     storage.SwapStore
	logger    *logrus.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Prices == nil {
		return nil, fmt.Errorf("price source is required")
	}
	if cfg.Balances == nil {
		return nil, fmt.Errorf("balance source is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Submitter == nil {
		sc := DefaultSubmitterConfig()
		sc.Rand = rand.New(rand.NewSource(cfg.Rand.Int63()))
		cfg.Submitter = NewSubmitter(sc)
	}
	if len(cfg.Assets) == 0 {
		cfg.Assets = catalog.DefaultAssets()
	}

	return &Engine{
		assets:    cfg.Assets,
		prices:    cfg.Prices,
		balances:  cfg.Balances,
		submitter: cfg.Submitter,
		cache:     cfg.Cache,
		store:     cfg.Store,
		logger:    cfg.Logger,
		rng:       cfg.Rand,
	}, nil
}

// Assets returns the configured catalog.
func (e *Engine) Assets() []catalog.Asset {
	return e.assets
}

// Tokens returns the priced catalog ranked by price, narrowed by query.
func (e *Engine) Tokens(ctx context.Context, query string) ([]catalog.Asset, catalog.PriceTable, error) {
	prices, err := e.prices.GetPrices(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load prices: %w", err)
	}
	ranked := catalog.RankCatalog(e.assets, prices)
	return catalog.FilterAssets(ranked, query), prices, nil
}

// Quote validates req and prices it. A missing price yields a zero quote and no error;
// check Quote.PriceUnavailable.
func (e *Engine) Quote(ctx context.Context, req Request) (quote.Quote, error) {
	if err := ValidateRequest(req, e.assets); err != nil {
		return quote.Quote{}, err
	}

	prices, err := e.prices.GetPrices(ctx)
	if err != nil {
		return quote.Quote{}, fmt.Errorf("load prices: %w", err)
	}

	e.mu.Lock()
	fee := quote.NetworkFeeUSD(e.rng)
	e.mu.Unlock()

	return quote.Build(quote.Input{
		SourceAmount:     req.Amount,
		SourcePrice:      prices.Price(req.From),
		DestinationPrice: prices.Price(req.To),
		SlippagePercent:  req.Settings.SlippagePercent,
		NetworkFeeUSD:    fee,
	}), nil
}

// CheckBalance applies the balance and minimum amount rules for the source token.
func (e *Engine) CheckBalance(ctx context.Context, symbol string, amount float64) error {
	bal, err := e.balances.Balance(ctx, symbol)
	if err != nil {
		return fmt.Errorf("load balance: %w", err)
	}
	return CheckAmount(symbol, amount, bal)
}

// Submit runs a swap end to end: validate, quote, apply rules, submit, record.
// Recording failures are logged and do not fail the swap.
func (e *Engine) Submit(ctx context.Context, req Request) (*Result, error) {
	q, err := e.Quote(ctx, req)
	if err != nil {
		return nil, err
	}
	if q.PriceUnavailable() {
		return nil, fmt.Errorf("%w for %s/%s", ErrPriceUnavailable, req.From, req.To)
	}
	if err := e.CheckBalance(ctx, req.From, req.Amount); err != nil {
		return nil, err
	}

	log := e.logger.WithFields(logrus.Fields{
		"pair":   models.PairName(req.From, req.To),
		"amount": req.Amount,
	})

	receipt, err := e.submitter.Submit(ctx)
	if err != nil {
		if errors.Is(err, ErrTransientFailure) {
			log.WithError(err).Warn("swap submission failed")
		}
		return nil, err
	}

	rec := &models.SwapRecord{
		ID:              receipt.ID,
		TxHash:          receipt.TxHash,
		Timestamp:       receipt.SubmittedAt,
		Pair:            models.PairName(req.From, req.To),
		TokenIn:         req.From,
		TokenOut:        req.To,
		AmountIn:        q.SourceAmount,
		AmountOut:       q.DestinationAmount,
		ValueUSD:        q.SourceUSD,
		Rate:            q.ExchangeRate,
		SlippagePercent: req.Settings.SlippagePercent,
		PriceImpact:     q.PriceImpactPercent,
		NetworkFeeUSD:   q.NetworkFeeUSD,
		DeadlineMinutes: req.Settings.DeadlineMinutes,
	}
	e.record(ctx, rec)

	log.WithFields(logrus.Fields{
		"id":      rec.ID,
		"tx_hash": rec.TxHash,
		"out":     rec.AmountOut,
	}).Info("swap submitted")

	return &Result{Receipt: *receipt, Quote: q, Record: rec}, nil
}

func (e *Engine) record(ctx context.Context, rec *models.SwapRecord) {
	if e.cache != nil {
		if err := e.cache.AddRecentSwap(ctx, rec); err != nil {
			e.logger.WithError(err).Warn("redis cache error")
		}
		if err := e.cache.PublishSwap(ctx, rec); err != nil {
			e.logger.WithError(err).Warn("pub/sub error")
		}
	}
	if e.store != nil {
		if err := e.store.InsertSwap(ctx, rec); err != nil {
			e.logger.WithError(err).Error("clickhouse error")
		}
	}
}

// TotalVolumeUSD returns the simulated 24h volume figure.
func (e *Engine) TotalVolumeUSD() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return quote.TotalVolumeUSD(e.rng)
}
