package constants

import "time"

// Redis keys
const (
	RedisKeyRecentSwaps = "swaps:recent"
	RedisKeyPrices      = "prices:table"
	RedisKeyPricesAt    = "prices:updated_at"
)

// Redis Pub/Sub channels
const (
	PubSubChannelSwaps       = "swaps:all"
	PubSubChannelPairPrefix  = "swaps:pair:"
	PubSubChannelPriceUpdate = "prices:updates"
)

// Limits
const (
	MaxRecentSwaps = 100
	MinSwapAmount  = 0.001
	MaxSwapAmount  = 1e15
)

// Swap settings
const (
	DefaultSlippagePercent = 0.5
	MaxSlippagePercent     = 50.0
	DefaultDeadline        = 20 // minutes
	MaxDeadline            = 3 * 24 * 60
)

// SlippagePresets are the one-click choices offered next to the custom field.
var SlippagePresets = []float64{0.1, 0.5, 1.0}

// Submission simulation
const (
	SubmitFailureRate = 0.1
	SubmitMinDelay    = 2 * time.Second
	SubmitMaxDelay    = 5 * time.Second
)

// Price feed
const (
	DefaultPriceFeedURL = "https://interview.switcheo.com/prices.json"
)

// StableSymbols keep their price during simulated ticks.
var StableSymbols = []string{"USDC", "USDT"}
