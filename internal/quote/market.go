package quote

import "math/rand"

const (
	baseVolumeUSD  = 125_000_000
	baseNetworkFee = 2.50
	networkFeeSpan = 2.0
)

// NetworkFeeUSD returns a simulated network fee between $2.50 and $4.50.
func NetworkFeeUSD(rng *rand.Rand) float64 {
	return baseNetworkFee + rng.Float64()*networkFeeSpan
}

// TotalVolumeUSD returns a simulated 24h volume of $125M scaled by [0.8, 1.2).
func TotalVolumeUSD(rng *rand.Rand) float64 {
	return baseVolumeUSD * (0.8 + rng.Float64()*0.4)
}
