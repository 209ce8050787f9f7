package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aman-zulfiqar/currency-swap/internal/catalog"
	"github.com/aman-zulfiqar/currency-swap/internal/models"
	"github.com/aman-zulfiqar/currency-swap/internal/settings"
	"github.com/aman-zulfiqar/currency-swap/internal/swap"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

type memRecent struct {
	mu    sync.Mutex
	items []*models.SwapRecord
}

func (m *memRecent) AddRecentSwap(_ context.Context, s *models.SwapRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append([]*models.SwapRecord{s}, m.items...)
	return nil
}

func (m *memRecent) GetRecentSwaps(_ context.Context, limit int64) ([]*models.SwapRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if int64(len(m.items)) < limit {
		limit = int64(len(m.items))
	}
	return m.items[:limit], nil
}

func (m *memRecent) PublishSwap(context.Context, *models.SwapRecord) error { return nil }

type memSettings struct {
	mu    sync.Mutex
	saved map[string]*settings.Saved
}

func (m *memSettings) Get(_ context.Context, session string) (*settings.Saved, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.saved[session]
	if !ok {
		return nil, settings.ErrNotFound
	}
	return s, nil
}

func (m *memSettings) GetOrDefault(ctx context.Context, session string) (swap.Settings, error) {
	s, err := m.Get(ctx, session)
	if errors.Is(err, settings.ErrNotFound) {
		return swap.DefaultSettings(), nil
	}
	if err != nil {
		return swap.Settings{}, err
	}
	return s.Settings, nil
}

func (m *memSettings) Put(_ context.Context, session string, st swap.Settings) (*settings.Saved, error) {
	if err := settings.ValidateSession(session); err != nil {
		return nil, err
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := &settings.Saved{Session: session, Settings: st, UpdatedAt: time.Now().UTC()}
	m.saved[session] = out
	return out, nil
}

func (m *memSettings) Delete(_ context.Context, session string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saved, session)
	return nil
}

type testEnv struct {
	srv      *Server
	recent   *memRecent
	settings *memSettings
}

func setup(t *testing.T, failureRate float64) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	recent := &memRecent{}
	engine, err := swap.NewEngine(swap.EngineConfig{
		Assets: []catalog.Asset{
			{Symbol: "ETH", Name: "Ethereum", Decimals: 18},
			{Symbol: "USDC", Name: "USD Coin", Decimals: 6},
			{Symbol: "USDT", Name: "Tether", Decimals: 6},
			{Symbol: "bNEO", Name: "Binance NEO", Decimals: 8},
		},
		Prices:    swap.StaticPrices{"ETH": 2000, "USDC": 1, "bNEO": 7.5},
		Balances:  swap.FixedBalances{"ETH": 10, "USDC": 5000},
		Submitter: swap.NewSubmitter(swap.SubmitterConfig{FailureRate: failureRate, Rand: rand.New(rand.NewSource(1))}),
		Cache:     recent,
		Logger:    logger,
		Rand:      rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)

	st := &memSettings{saved: map[string]*settings.Saved{}}
	srv, err := NewServer(ServerDeps{
		Handlers: &Handlers{
			Engine:   engine,
			Recent:   recent,
			Settings: st,
			DevMode:  true,
			Logger:   logger,
		},
		Config: ServerConfig{APIKey: testAPIKey},
	})
	require.NoError(t, err)
	return &testEnv{srv: srv, recent: recent, settings: st}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	env := setup(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rec := httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[HealthResponse](t, rec).OK)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestAPIKeyRequired(t *testing.T) {
	env := setup(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/v1/tokens", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec := httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNotFound(t *testing.T) {
	env := setup(t, 0)

	rec := env.do(t, http.MethodGet, "/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", decode[ErrorResponse](t, rec).Error)
}

func TestTokens(t *testing.T) {
	env := setup(t, 0)

	rec := env.do(t, http.MethodGet, "/v1/tokens", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[struct {
		Items []TokenItem `json:"items"`
	}](t, rec)

	require.Len(t, out.Items, 3, "USDT has no price")
	assert.Equal(t, "ETH", out.Items[0].Symbol)
	assert.Equal(t, "bNEO", out.Items[1].Symbol)
	assert.Equal(t, "USDC", out.Items[2].Symbol)
	assert.Equal(t, "$2,000.00", out.Items[0].PriceDisplay)

	rec = env.do(t, http.MethodGet, "/v1/tokens?q=usd", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out = decode[struct {
		Items []TokenItem `json:"items"`
	}](t, rec)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "USDC", out.Items[0].Symbol)
}

func TestPrice(t *testing.T) {
	env := setup(t, 0)

	rec := env.do(t, http.MethodGet, "/v1/prices/eth", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[PriceResponse](t, rec)
	assert.Equal(t, "ETH", p.Token)
	assert.Equal(t, 2000.0, p.Price)

	rec = env.do(t, http.MethodGet, "/v1/prices/BNEO", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bNEO", decode[PriceResponse](t, rec).Token)

	rec = env.do(t, http.MethodGet, "/v1/prices/USDT", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuote(t *testing.T) {
	env := setup(t, 0)

	rec := env.do(t, http.MethodGet, "/v1/quote?from=ETH&to=USDC&amount=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	q := decode[QuoteResponse](t, rec)

	assert.InDelta(t, 3980, q.Quote.DestinationAmount, 1e-6)
	assert.Equal(t, 4000.0, q.Quote.SourceUSD)
	assert.False(t, q.PriceUnavailable)
	assert.Empty(t, q.Warning)
	assert.Equal(t, "~$4,000.00", q.Display.SourceUSD)
	assert.Equal(t, "0.10%", q.Display.PriceImpact)
	assert.Contains(t, q.Display.Rate, "1 ETH = ")
}

func TestQuote_Warnings(t *testing.T) {
	env := setup(t, 0)

	rec := env.do(t, http.MethodGet, "/v1/quote?from=ETH&to=USDC&amount=11", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Insufficient ETH balance", decode[QuoteResponse](t, rec).Warning)

	rec = env.do(t, http.MethodGet, "/v1/quote?from=ETH&to=USDT&amount=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	q := decode[QuoteResponse](t, rec)
	assert.True(t, q.PriceUnavailable)
	assert.Zero(t, q.Quote.DestinationAmount)
}

func TestQuote_BadInput(t *testing.T) {
	env := setup(t, 0)

	tests := []struct {
		name string
		path string
	}{
		{"bad amount", "/v1/quote?from=ETH&to=USDC&amount=1e5"},
		{"zero amount", "/v1/quote?from=ETH&to=USDC&amount=0"},
		{"amount above cap", "/v1/quote?from=ETH&to=USDC&amount=1" + strings.Repeat("0", 306)},
		{"amount out of float range", "/v1/quote?from=ETH&to=USDC&amount=1" + strings.Repeat("0", 400)},
		{"same asset", "/v1/quote?from=ETH&to=ETH&amount=1"},
		{"unknown asset", "/v1/quote?from=ETH&to=DOGE&amount=1"},
		{"missing asset", "/v1/quote?from=ETH&amount=1"},
		{"slippage too high", "/v1/quote?from=ETH&to=USDC&amount=1&slippage=60"},
		{"slippage not a number", "/v1/quote?from=ETH&to=USDC&amount=1&slippage=abc"},
		{"deadline zero", "/v1/quote?from=ETH&to=USDC&amount=1&deadline=0"},
		{"bad session", "/v1/quote?from=ETH&to=USDC&amount=1&session=x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, tt.path, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestQuote_SessionSettings(t *testing.T) {
	env := setup(t, 0)

	rec := env.do(t, http.MethodPut, "/v1/settings/session-1234", SettingsRequest{SlippagePercent: 1, DeadlineMinutes: 30})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/v1/quote?from=ETH&to=USDC&amount=2&session=session-1234", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	q := decode[QuoteResponse](t, rec)
	assert.InDelta(t, 3960, q.Quote.DestinationAmount, 1e-6)
	assert.Equal(t, 1.0, q.Quote.SlippagePercent)

	// explicit slippage wins over the session
	rec = env.do(t, http.MethodGet, "/v1/quote?from=ETH&to=USDC&amount=2&session=session-1234&slippage=0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4000.0, decode[QuoteResponse](t, rec).Quote.DestinationAmount)
}

func TestSubmitSwap(t *testing.T) {
	env := setup(t, 0)

	rec := env.do(t, http.MethodPost, "/v1/swaps", SwapRequest{From: "ETH", To: "USDC", Amount: "2"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode[SwapResponse](t, rec)

	assert.Len(t, out.Receipt.TxHash, 66)
	assert.Len(t, out.ShortHash, 23)
	require.NotNil(t, out.Record)
	assert.Equal(t, "ETH/USDC", out.Record.Pair)
	assert.InDelta(t, 3980, out.Record.AmountOut, 1e-6)
	assert.Equal(t, 20, out.Record.DeadlineMinutes)

	rec = env.do(t, http.MethodGet, "/v1/swaps/recent?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	recent := decode[struct {
		Items []*models.SwapRecord `json:"items"`
	}](t, rec)
	require.Len(t, recent.Items, 1)
	assert.Equal(t, out.Receipt.ID, recent.Items[0].ID)
}

func TestSubmitSwap_Rules(t *testing.T) {
	env := setup(t, 0)

	rec := env.do(t, http.MethodPost, "/v1/swaps", SwapRequest{From: "ETH", To: "USDC", Amount: "11"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Insufficient ETH balance", decode[ErrorResponse](t, rec).Error)

	rec = env.do(t, http.MethodPost, "/v1/swaps", SwapRequest{From: "ETH", To: "USDC", Amount: "0.0001"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Minimum amount is 0.001 ETH", decode[ErrorResponse](t, rec).Error)

	rec = env.do(t, http.MethodPost, "/v1/swaps", SwapRequest{From: "ETH", To: "USDT", Amount: "1"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/swaps", SwapRequest{From: "ETH", To: "USDC", Amount: "abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/swaps", SwapRequest{From: "ETH", To: "USDC", Amount: "1" + strings.Repeat("0", 306)})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Error, "amount is too large")

	assert.Empty(t, env.recent.items)
}

func TestSubmitSwap_TransientFailure(t *testing.T) {
	env := setup(t, 1)

	rec := env.do(t, http.MethodPost, "/v1/swaps", SwapRequest{From: "ETH", To: "USDC", Amount: "1"})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, swap.FailureMessage, decode[ErrorResponse](t, rec).Error)
	assert.Empty(t, env.recent.items)
}

func TestSubmitSwap_RateLimited(t *testing.T) {
	env := setup(t, 1)

	codes := map[int]int{}
	for i := 0; i < 8; i++ {
		rec := env.do(t, http.MethodPost, "/v1/swaps", SwapRequest{From: "ETH", To: "USDC", Amount: "1"})
		codes[rec.Code]++
	}
	assert.Positive(t, codes[http.StatusTooManyRequests])
}

func TestRecentSwaps_Limit(t *testing.T) {
	env := setup(t, 0)

	for _, q := range []string{"0", "101", "abc"} {
		rec := env.do(t, http.MethodGet, "/v1/swaps/recent?limit="+q, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
	rec := env.do(t, http.MethodGet, "/v1/swaps/recent", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSettingsCRUD(t *testing.T) {
	env := setup(t, 0)
	const path = "/v1/settings/abcdefgh"

	rec := env.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[struct {
		Settings swap.Settings `json:"settings"`
		Preset   bool          `json:"preset"`
	}](t, rec)
	assert.Equal(t, swap.DefaultSettings(), got.Settings)
	assert.True(t, got.Preset)

	rec = env.do(t, http.MethodPut, path, SettingsRequest{SlippagePercent: 2.5, DeadlineMinutes: 45})
	require.Equal(t, http.StatusOK, rec.Code)
	saved := decode[settings.Saved](t, rec)
	assert.Equal(t, 2.5, saved.Settings.SlippagePercent)

	rec = env.do(t, http.MethodGet, path, nil)
	got = decode[struct {
		Settings swap.Settings `json:"settings"`
		Preset   bool          `json:"preset"`
	}](t, rec)
	assert.Equal(t, swap.Settings{SlippagePercent: 2.5, DeadlineMinutes: 45}, got.Settings)
	assert.False(t, got.Preset)

	rec = env.do(t, http.MethodPut, path, SettingsRequest{SlippagePercent: 51, DeadlineMinutes: 45})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, http.MethodPut, path, SettingsRequest{SlippagePercent: 1, DeadlineMinutes: 5000})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, env.settings.saved)

	rec = env.do(t, http.MethodGet, "/v1/settings/bad", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVolume(t *testing.T) {
	env := setup(t, 0)

	rec := env.do(t, http.MethodGet, "/v1/stats/volume", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[VolumeResponse](t, rec)
	assert.GreaterOrEqual(t, v.TotalVolumeUSD, 100_000_000.0)
	assert.LessOrEqual(t, v.TotalVolumeUSD, 150_000_000.0)
	assert.Contains(t, v.Display, "$")
}

type stubVolume map[string]float64

func (s stubVolume) VolumeByPair(context.Context) (map[string]float64, error) {
	return s, nil
}

func TestVolume_ByPair(t *testing.T) {
	env := setup(t, 0)
	env.srv.handlers.History = stubVolume{"ETH/USDC": 4000}

	rec := env.do(t, http.MethodGet, "/v1/stats/volume", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]float64{"ETH/USDC": 4000}, decode[VolumeResponse](t, rec).ByPair)
}
