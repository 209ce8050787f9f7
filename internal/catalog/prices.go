package catalog

import (
	"maps"
	"math"
	"math/rand"
	"slices"
	"time"
)

// PriceEntry is one row of the upstream price feed.
type PriceEntry struct {
	Currency string    `json:"currency"`
	Date     time.Time `json:"date"`
	Price    float64   `json:"price"`
}

// PriceTable maps a symbol to its USD price. Every stored price is positive.
type PriceTable map[string]float64

// NewPriceTable builds a table from feed entries. Entries with an empty currency or a
// missing, non-positive or non-finite price are dropped. When a currency repeats, the
// later entry wins.
func NewPriceTable(entries []PriceEntry) PriceTable {
	t := make(PriceTable, len(entries))
	for _, e := range entries {
		if e.Currency == "" || !validPrice(e.Price) {
			continue
		}
		t[e.Currency] = e.Price
	}
	return t
}

// Price returns the USD price for symbol, or 0 when unknown.
func (t PriceTable) Price(symbol string) float64 {
	return t[symbol]
}

// Has reports whether symbol has a positive price.
func (t PriceTable) Has(symbol string) bool {
	return validPrice(t[symbol])
}

// Clone returns an independent copy.
func (t PriceTable) Clone() PriceTable {
	out := make(PriceTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Fluctuate returns a copy with every price moved by a random factor in [-1%, +1%),
// leaving pinned symbols untouched.
func (t PriceTable) Fluctuate(rng *rand.Rand, pinned ...string) PriceTable {
	skip := make(map[string]struct{}, len(pinned))
	for _, s := range pinned {
		skip[s] = struct{}{}
	}

	// draw in symbol order so a seeded rng gives every symbol the same move each run
	out := t.Clone()
	for _, sym := range slices.Sorted(maps.Keys(out)) {
		if _, ok := skip[sym]; ok {
			continue
		}
		out[sym] *= 1 + (rng.Float64()-0.5)*0.02
	}
	return out
}

func validPrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}
