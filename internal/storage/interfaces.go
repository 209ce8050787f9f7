package storage

import (
	"context"
	"io"
	"time"

	"github.com/aman-zulfiqar/currency-swap/internal/catalog"
	"github.com/aman-zulfiqar/currency-swap/internal/models"
)

// PriceCache holds the current price table
type PriceCache interface {
	// SetPrices replaces the whole table
	SetPrices(ctx context.Context, prices catalog.PriceTable) error

	// GetPrices returns the whole table (empty when nothing was stored yet)
	GetPrices(ctx context.Context) (catalog.PriceTable, error)

	// PricesUpdatedAt returns when the table was last replaced (zero if never)
	PricesUpdatedAt(ctx context.Context) (time.Time, error)
}

// PricePublisher announces refreshed price tables
type PricePublisher interface {
	PublishPrices(ctx context.Context, prices catalog.PriceTable) error
}

// SwapCache defines the interface for caching swap data
type SwapCache interface {
	// AddRecentSwap adds a swap to the recent swaps list
	AddRecentSwap(ctx context.Context, swap *models.SwapRecord) error

	// GetRecentSwaps retrieves the most recent swaps
	GetRecentSwaps(ctx context.Context, limit int64) ([]*models.SwapRecord, error)

	// PublishSwap publishes a swap event to the Pub/Sub channels
	PublishSwap(ctx context.Context, swap *models.SwapRecord) error
}

// SwapStore defines the interface for persistent swap history
type SwapStore interface {
	// InsertSwap inserts a swap into the store
	InsertSwap(ctx context.Context, swap *models.SwapRecord) error

	// Ping checks if the store is reachable
	Ping(ctx context.Context) error

	// Close closes the store connection
	io.Closer
}

// VolumeReader aggregates recorded swap history
type VolumeReader interface {
	// VolumeByPair sums the USD value of recorded swaps per pair
	VolumeByPair(ctx context.Context) (map[string]float64, error)
}
