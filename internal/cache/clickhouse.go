package cache

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/aman-zulfiqar/currency-swap/internal/models"
	"github.com/sirupsen/logrus"
)

const createSwapHistory = `
	CREATE TABLE IF NOT EXISTS swap_history (
		id               String,
		tx_hash          String,
		timestamp        DateTime64(3, 'UTC'),
		pair             String,
		token_in         String,
		token_out        String,
		amount_in        Float64,
		amount_out       Float64,
		value_usd        Float64,
		rate             Float64,
		slippage_percent Float64,
		price_impact     Float64,
		network_fee_usd  Float64,
		deadline_minutes UInt32
	) ENGINE = MergeTree
	ORDER BY (pair, timestamp)
`

// ClickHouseConfig holds connection settings for the swap history store.
type ClickHouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
	Logger   *logrus.Logger
}

// ClickHouseStore persists executed swaps for later analysis.
type ClickHouseStore struct {
	conn   driver.Conn
	logger *logrus.Logger
}

func NewClickHouseStore(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseStore, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}
	if err := conn.Exec(ctx, createSwapHistory); err != nil {
		return nil, fmt.Errorf("failed to create swap_history: %w", err)
	}

	cfg.Logger.WithFields(logrus.Fields{
		"addr":     cfg.Addr,
		"database": cfg.Database,
	}).Info("connected to ClickHouse")

	return &ClickHouseStore{conn: conn, logger: cfg.Logger}, nil
}

func (c *ClickHouseStore) InsertSwap(ctx context.Context, swap *models.SwapRecord) error {
	query := `
		INSERT INTO swap_history (
			id, tx_hash, timestamp, pair, token_in, token_out,
			amount_in, amount_out, value_usd, rate,
			slippage_percent, price_impact, network_fee_usd, deadline_minutes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := c.conn.Exec(ctx, query,
		swap.ID,
		swap.TxHash,
		swap.Timestamp,
		swap.Pair,
		swap.TokenIn,
		swap.TokenOut,
		swap.AmountIn,
		swap.AmountOut,
		swap.ValueUSD,
		swap.Rate,
		swap.SlippagePercent,
		swap.PriceImpact,
		swap.NetworkFeeUSD,
		uint32(swap.DeadlineMinutes),
	)
	if err != nil {
		return fmt.Errorf("failed to insert swap: %w", err)
	}

	return nil
}

// VolumeByPair sums the USD value of recorded swaps per pair.
func (c *ClickHouseStore) VolumeByPair(ctx context.Context) (map[string]float64, error) {
	rows, err := c.conn.Query(ctx, `SELECT pair, sum(value_usd) FROM swap_history GROUP BY pair`)
	if err != nil {
		return nil, fmt.Errorf("failed to query volume: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var (
			pair string
			vol  float64
		)
		if err := rows.Scan(&pair, &vol); err != nil {
			return nil, fmt.Errorf("failed to scan volume row: %w", err)
		}
		out[pair] = vol
	}
	return out, rows.Err()
}

func (c *ClickHouseStore) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *ClickHouseStore) Close() error {
	return c.conn.Close()
}
