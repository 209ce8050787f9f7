package quote

import (
	"math"
)

// Level buckets a price impact percentage for display.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Price impact model constants (percent).
const (
	impactBase    = 0.1
	impactPerUnit = 0.001
	impactCap     = 5.0
)

// DestinationAmount converts sourceAmount into the destination asset and applies the
// slippage haircut: (amount * srcPrice / dstPrice) * (1 - slippage/100).
//
// Zero or NaN amount/prices yield 0. Slippage is not bounded here; 100 gives 0 and
// anything above gives a negative amount.
func DestinationAmount(sourceAmount, sourcePrice, destinationPrice, slippagePercent float64) float64 {
	if isZero(sourceAmount) || isZero(sourcePrice) || isZero(destinationPrice) {
		return 0
	}
	usd := sourceAmount * sourcePrice
	raw := usd / destinationPrice
	return raw * (1 - slippagePercent/100)
}

// ExchangeRate is destination units per source unit, or 0 unless both amounts are positive.
func ExchangeRate(sourceAmount, destinationAmount float64) float64 {
	if !(sourceAmount > 0) || !(destinationAmount > 0) {
		return 0
	}
	return destinationAmount / sourceAmount
}

// PriceImpact is a synthetic, size-dependent percentage capped at 5. Display only.
func PriceImpact(sourceAmount float64) float64 {
	if !(sourceAmount > 0) {
		return 0
	}
	return math.Min(impactBase+sourceAmount*impactPerUnit, impactCap)
}

// ImpactLevel classifies an impact percentage.
func ImpactLevel(percent float64) Level {
	switch {
	case percent < 1:
		return LevelLow
	case percent < 3:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// Input is everything Build needs.
type Input struct {
	SourceAmount     float64
	SourcePrice      float64
	DestinationPrice float64
	SlippagePercent  float64
	NetworkFeeUSD    float64
}

// Quote is the derived view of one conversion. It is recomputed on every input change.
type Quote struct {
	SourceAmount       float64 `json:"source_amount"`
	DestinationAmount  float64 `json:"destination_amount"`
	SourceUSD          float64 `json:"source_usd"`
	DestinationUSD     float64 `json:"destination_usd"`
	ExchangeRate       float64 `json:"exchange_rate"`
	PriceImpactPercent float64 `json:"price_impact_percent"`
	ImpactLevel        Level   `json:"impact_level"`
	SlippagePercent    float64 `json:"slippage_percent"`
	NetworkFeeUSD      float64 `json:"network_fee_usd"`
}

// Build computes every figure of a quote from in.
func Build(in Input) Quote {
	dst := DestinationAmount(in.SourceAmount, in.SourcePrice, in.DestinationPrice, in.SlippagePercent)
	impact := PriceImpact(in.SourceAmount)

	q := Quote{
		SourceAmount:       in.SourceAmount,
		DestinationAmount:  dst,
		ExchangeRate:       ExchangeRate(in.SourceAmount, dst),
		PriceImpactPercent: impact,
		ImpactLevel:        ImpactLevel(impact),
		SlippagePercent:    in.SlippagePercent,
		NetworkFeeUSD:      in.NetworkFeeUSD,
	}
	if dst != 0 {
		q.SourceUSD = in.SourceAmount * in.SourcePrice
		q.DestinationUSD = dst * in.DestinationPrice
	}
	return q
}

// PriceUnavailable reports a zero conversion of a non-zero amount, which means one of
// the two prices was missing.
func (q Quote) PriceUnavailable() bool {
	return q.SourceAmount > 0 && q.DestinationAmount == 0 && q.SlippagePercent < 100
}

func isZero(v float64) bool {
	return v == 0 || math.IsNaN(v)
}
