package main

import (
	"testing"

	"github.com/aman-zulfiqar/currency-swap/internal/catalog"
	"github.com/aman-zulfiqar/currency-swap/internal/swap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequests(t *testing.T) {
	assets := catalog.DefaultAssets()
	st := swap.DefaultSettings()
	one := func(from, to string) [][2]string { return [][2]string{{from, to}} }

	reqs, err := buildRequests(assets, one("ETH", "USDC"), false, 2, st)
	require.NoError(t, err)
	assert.Equal(t, []swap.Request{{From: "ETH", To: "USDC", Amount: 2, Settings: st}}, reqs)

	reqs, err = buildRequests(assets, one("ETH", "USDC"), true, 2, st)
	require.NoError(t, err)
	assert.Equal(t, "USDC", reqs[0].From)
	assert.Equal(t, "ETH", reqs[0].To)

	_, err = buildRequests(assets, one("ETH", "ETH"), false, 2, st)
	assert.ErrorIs(t, err, swap.ErrSameAsset)

	_, err = buildRequests(assets, one("ETH", "DOGE"), false, 2, st)
	assert.ErrorIs(t, err, swap.ErrUnknownAsset)

	_, err = buildRequests(assets, one("ETH", "USDC"), false, 2, swap.Settings{SlippagePercent: 75, DeadlineMinutes: 20})
	assert.ErrorIs(t, err, swap.ErrInvalidSlippage)
}

func TestBuildRequests_SelectionResetBetweenPairs(t *testing.T) {
	st := swap.Settings{SlippagePercent: 1, DeadlineMinutes: 45}

	// settings carry over, selections do not
	reqs, err := buildRequests(catalog.DefaultAssets(), [][2]string{{"ETH", "USDC"}, {"WBTC", "ETH"}}, false, 1.5, st)
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	assert.Equal(t, swap.Request{From: "ETH", To: "USDC", Amount: 1.5, Settings: st}, reqs[0])
	assert.Equal(t, swap.Request{From: "WBTC", To: "ETH", Amount: 1.5, Settings: st}, reqs[1])
}

func TestParsePairs(t *testing.T) {
	got, err := parsePairs("ETH:USDC, WBTC:ETH")
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"ETH", "USDC"}, {"WBTC", "ETH"}}, got)

	for _, bad := range []string{"ETH", "ETH:", ":USDC", "ETH:USDC,"} {
		_, err := parsePairs(bad)
		assert.Error(t, err, bad)
	}
}

func TestAmountFlagSanitized(t *testing.T) {
	v, err := swap.ParseAmount(swap.SanitizeAmount(" $1,234.5 "))
	require.NoError(t, err)
	assert.Equal(t, 1234.5, v)
}
