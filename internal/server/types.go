package server

import (
	"github.com/aman-zulfiqar/currency-swap/internal/models"
	"github.com/aman-zulfiqar/currency-swap/internal/quote"
	"github.com/aman-zulfiqar/currency-swap/internal/swap"
)

// ErrorResponse represents a standardized error response format
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable error message
	Code    int    `json:"code"`              // HTTP status code
	Details any    `json:"details,omitempty"` // Additional error details (dev mode only)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK bool `json:"ok"` // Service health status
}

// TokenItem is one row of the token picker
type TokenItem struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Decimals     uint8   `json:"decimals"`
	Price        float64 `json:"price"`
	PriceDisplay string  `json:"price_display"`
}

// PriceResponse represents token price information
type PriceResponse struct {
	Token        string  `json:"token"`
	Price        float64 `json:"price"`
	PriceDisplay string  `json:"price_display"`
}

// QuoteDisplay holds the pre-formatted strings shown next to a quote
type QuoteDisplay struct {
	SourceAmount      string `json:"source_amount"`
	DestinationAmount string `json:"destination_amount"`
	SourceUSD         string `json:"source_usd"`
	DestinationUSD    string `json:"destination_usd"`
	Rate              string `json:"rate"` // "1 ETH = 1,980 USDC"
	PriceImpact       string `json:"price_impact"`
	NetworkFee        string `json:"network_fee"`
}

// QuoteResponse is returned by the quote endpoint
type QuoteResponse struct {
	From             string       `json:"from"`
	To               string       `json:"to"`
	Quote            quote.Quote  `json:"quote"`
	PriceUnavailable bool         `json:"price_unavailable"`
	Display          QuoteDisplay `json:"display"`
	// Warning carries a balance or minimum-amount message; quoting still succeeds
	Warning string `json:"warning,omitempty"`
}

// SwapRequest is the body of POST /v1/swaps
type SwapRequest struct {
	From            string   `json:"from"`
	To              string   `json:"to"`
	Amount          string   `json:"amount"`                     // Decimal text as typed
	SlippagePercent *float64 `json:"slippage_percent,omitempty"` // Falls back to session or default
	DeadlineMinutes *int     `json:"deadline_minutes,omitempty"` // Falls back to session or default
	Session         string   `json:"session,omitempty"`          // Optional settings session
}

// SwapResponse is returned for a successful swap
type SwapResponse struct {
	Receipt   swap.Receipt       `json:"receipt"`
	ShortHash string             `json:"short_hash"`
	Record    *models.SwapRecord `json:"record"`
	Display   QuoteDisplay       `json:"display"`
}

// VolumeResponse carries the simulated 24h volume and, when history is kept,
// the recorded USD volume per pair
type VolumeResponse struct {
	TotalVolumeUSD float64            `json:"total_volume_usd"`
	Display        string             `json:"display"`
	ByPair         map[string]float64 `json:"by_pair,omitempty"`
}

// SettingsRequest is the body of PUT /v1/settings/:session
type SettingsRequest struct {
	SlippagePercent float64 `json:"slippage_percent"`
	DeadlineMinutes int     `json:"deadline_minutes"`
}
