package models

import "time"

// SwapRecord is a completed (simulated) swap as stored in history and published to
// subscribers.
type SwapRecord struct {
	ID              string    `json:"id"`
	TxHash          string    `json:"tx_hash"`
	Timestamp       time.Time `json:"timestamp"`
	Pair            string    `json:"pair"` // e.g. "ETH/USDC"
	TokenIn         string    `json:"token_in"`
	TokenOut        string    `json:"token_out"`
	AmountIn        float64   `json:"amount_in"`
	AmountOut       float64   `json:"amount_out"`
	ValueUSD        float64   `json:"value_usd"`
	Rate            float64   `json:"rate"`
	SlippagePercent float64   `json:"slippage_percent"`
	PriceImpact     float64   `json:"price_impact"`
	NetworkFeeUSD   float64   `json:"network_fee_usd"`
	DeadlineMinutes int       `json:"deadline_minutes"`
}

// PairName joins two symbols the way pairs are keyed everywhere else.
func PairName(in, out string) string {
	return in + "/" + out
}
