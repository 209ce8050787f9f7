package swap

import (
	"testing"

	"github.com/aman-zulfiqar/currency-swap/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ethAsset  = catalog.Asset{Symbol: "ETH", Name: "Ethereum", Decimals: 18}
	usdcAsset = catalog.Asset{Symbol: "USDC", Name: "USD Coin", Decimals: 6}
	usdtAsset = catalog.Asset{Symbol: "USDT", Name: "Tether USD", Decimals: 6}
)

func TestSide(t *testing.T) {
	assert.Equal(t, "from", SideFrom.String())
	assert.Equal(t, "to", SideTo.String())
	assert.Equal(t, SideTo, SideFrom.Other())
	assert.Equal(t, SideFrom, SideTo.Other())
}

func TestState_SelectIsPure(t *testing.T) {
	s0 := NewState()
	s1 := s0.Select(SideFrom, ethAsset)

	assert.Nil(t, s0.From, "original state untouched")
	require.NotNil(t, s1.From)
	assert.Equal(t, "ETH", s1.From.Symbol)
	assert.False(t, s1.Ready())

	s2 := s1.Select(SideTo, usdcAsset)
	assert.True(t, s2.Ready())
	assert.Nil(t, s1.To)
}

func TestState_SelectOtherSideFlips(t *testing.T) {
	s := NewState().Select(SideFrom, ethAsset).Select(SideTo, usdcAsset)
	s = s.Select(SideTo, ethAsset)

	assert.Equal(t, "USDC", s.From.Symbol)
	assert.Equal(t, "ETH", s.To.Symbol)
}

func TestState_SelectOtherSideMovesWhenEmpty(t *testing.T) {
	s := NewState().Select(SideFrom, ethAsset).Select(SideTo, ethAsset)
	assert.Nil(t, s.From)
	require.NotNil(t, s.To)
	assert.Equal(t, "ETH", s.To.Symbol)

	s = s.Select(SideFrom, ethAsset)
	require.NotNil(t, s.From)
	assert.Equal(t, "ETH", s.From.Symbol)
	assert.Nil(t, s.To)
}

func TestState_Flip(t *testing.T) {
	half := NewState().Select(SideFrom, ethAsset)
	assert.Equal(t, half, half.Flip(), "flip needs both sides")

	s := half.Select(SideTo, usdtAsset).Flip()
	assert.Equal(t, "USDT", s.From.Symbol)
	assert.Equal(t, "ETH", s.To.Symbol)
}

func TestState_WithSettingsAndReset(t *testing.T) {
	s := NewState().Select(SideFrom, ethAsset).Select(SideTo, usdcAsset)

	s2, err := s.WithSettings(Settings{SlippagePercent: 1, DeadlineMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, 1.0, s2.Settings.SlippagePercent)

	s3, err := s2.WithSettings(Settings{SlippagePercent: 101, DeadlineMinutes: 30})
	assert.ErrorIs(t, err, ErrInvalidSlippage)
	assert.Equal(t, s2, s3)

	r := s2.Reset()
	assert.False(t, r.Ready())
	assert.Equal(t, s2.Settings, r.Settings)
}

func TestState_Request(t *testing.T) {
	_, err := NewState().Request(1)
	assert.ErrorIs(t, err, ErrAssetRequired)

	req, err := NewState().Select(SideFrom, ethAsset).Select(SideTo, usdcAsset).Request(2)
	require.NoError(t, err)
	assert.Equal(t, Request{From: "ETH", To: "USDC", Amount: 2, Settings: DefaultSettings()}, req)
}

func TestSettings(t *testing.T) {
	assert.True(t, DefaultSettings().IsPreset())
	assert.False(t, Settings{SlippagePercent: 0.7, DeadlineMinutes: 20}.IsPreset())

	assert.NoError(t, Settings{SlippagePercent: 0, DeadlineMinutes: 1}.Validate())
	assert.NoError(t, Settings{SlippagePercent: 50, DeadlineMinutes: 4320}.Validate())
	assert.ErrorIs(t, Settings{SlippagePercent: -0.1, DeadlineMinutes: 20}.Validate(), ErrInvalidSlippage)
	assert.ErrorIs(t, Settings{SlippagePercent: 50.1, DeadlineMinutes: 20}.Validate(), ErrInvalidSlippage)
	assert.ErrorIs(t, Settings{SlippagePercent: 1, DeadlineMinutes: 4321}.Validate(), ErrInvalidDeadline)
}
