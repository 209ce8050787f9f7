package swap

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// BalanceSource looks up how much of a token the user holds.
type BalanceSource interface {
	Balance(ctx context.Context, symbol string) (float64, error)
}

type balanceRange struct{ base, span float64 }

var mockRanges = map[string]balanceRange{
	"ETH":  {1.5, 3},
	"USDC": {1000, 5000},
	"USDT": {800, 4000},
	"WBTC": {0.05, 0.2},
	"SWTH": {10000, 50000},
}

// MockBalances hands out a random balance per symbol. Each symbol's balance is drawn
// once and then stays fixed for the lifetime of the instance.
type MockBalances struct {
	mu       sync.Mutex
	rng      *rand.Rand
	balances map[string]float64
}

// NewMockBalances seeds from the clock when rng is nil.
func NewMockBalances(rng *rand.Rand) *MockBalances {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MockBalances{rng: rng, balances: make(map[string]float64)}
}

func (m *MockBalances) Balance(_ context.Context, symbol string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b, ok := m.balances[symbol]; ok {
		return b, nil
	}
	r, ok := mockRanges[symbol]
	if !ok {
		r = balanceRange{0, 1000}
	}
	b := r.base + m.rng.Float64()*r.span
	m.balances[symbol] = b
	return b, nil
}

// FixedBalances is a BalanceSource over a static map; unknown symbols hold nothing.
type FixedBalances map[string]float64

func (f FixedBalances) Balance(_ context.Context, symbol string) (float64, error) {
	return f[symbol], nil
}
