package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aman-zulfiqar/currency-swap/internal/catalog"
	"github.com/aman-zulfiqar/currency-swap/internal/constants"
	"github.com/aman-zulfiqar/currency-swap/internal/format"
	"github.com/aman-zulfiqar/currency-swap/internal/quote"
	"github.com/aman-zulfiqar/currency-swap/internal/settings"
	"github.com/aman-zulfiqar/currency-swap/internal/storage"
	"github.com/aman-zulfiqar/currency-swap/internal/swap"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// SettingsStore persists per-session swap settings
type SettingsStore interface {
	Get(ctx context.Context, session string) (*settings.Saved, error)
	GetOrDefault(ctx context.Context, session string) (swap.Settings, error)
	Put(ctx context.Context, session string, st swap.Settings) (*settings.Saved, error)
	Delete(ctx context.Context, session string) error
}

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Engine   *swap.Engine         // Quote and swap engine
	Recent   storage.SwapCache    // Recent swaps (optional)
	History  storage.VolumeReader // Recorded volume per pair (optional)
	Settings SettingsStore        // Per-session settings (optional)
	DevMode  bool                 // Enable detailed error responses in development
	Logger   *logrus.Logger       // Structured logger
}

// err returns a standardized JSON error response
// In dev mode, includes additional error details for debugging
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// withTimeout creates a context with timeout, defaulting to 10 seconds if duration <= 0
func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// swapErr maps engine errors onto HTTP responses
func (h *Handlers) swapErr(c echo.Context, err error) error {
	var rv *swap.RuleViolation
	switch {
	case errors.As(err, &rv):
		// Rule violations are user-facing and always carry their message
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   rv.Message,
			Code:    http.StatusUnprocessableEntity,
			Details: map[string]any{"rule": rv.Rule},
		})
	case errors.Is(err, swap.ErrInvalidAmountFormat),
		errors.Is(err, swap.ErrAssetRequired),
		errors.Is(err, swap.ErrSameAsset),
		errors.Is(err, swap.ErrUnknownAsset),
		errors.Is(err, swap.ErrInvalidAmount),
		errors.Is(err, swap.ErrAmountTooLarge),
		errors.Is(err, swap.ErrInvalidSlippage),
		errors.Is(err, swap.ErrInvalidDeadline),
		errors.Is(err, settings.ErrInvalidSession):
		return h.err(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, swap.ErrPriceUnavailable):
		return h.err(c, http.StatusUnprocessableEntity, "price unavailable", map[string]any{"err": err.Error()})
	case errors.Is(err, swap.ErrTransientFailure):
		return h.err(c, http.StatusServiceUnavailable, swap.FailureMessage, nil)
	case errors.Is(err, context.DeadlineExceeded):
		return h.err(c, http.StatusGatewayTimeout, "request timed out", nil)
	default:
		h.Logger.WithError(err).Error("swap request failed")
		return h.err(c, http.StatusInternalServerError, "internal error", map[string]any{"err": err.Error()})
	}
}

// resolveSettings layers explicit overrides over the session's saved settings
func (h *Handlers) resolveSettings(ctx context.Context, session string, slippage *float64, deadline *int) (swap.Settings, error) {
	st := swap.DefaultSettings()
	if session != "" {
		if err := settings.ValidateSession(session); err != nil {
			return st, err
		}
		if h.Settings != nil {
			saved, err := h.Settings.GetOrDefault(ctx, session)
			if err != nil {
				return st, err
			}
			st = saved
		}
	}
	if slippage != nil {
		st.SlippagePercent = *slippage
	}
	if deadline != nil {
		st.DeadlineMinutes = *deadline
	}
	return st, nil
}

func (h *Handlers) display(from, to string, q quote.Quote) QuoteDisplay {
	assets := h.Engine.Assets()
	fromAsset, _ := catalog.Lookup(assets, from)
	toAsset, _ := catalog.Lookup(assets, to)

	d := QuoteDisplay{
		SourceAmount:      format.Quantity(q.SourceAmount, int(fromAsset.Decimals)),
		DestinationAmount: format.Quantity(q.DestinationAmount, int(toAsset.Decimals)),
		SourceUSD:         "~" + format.CurrencyUSD(q.SourceUSD),
		DestinationUSD:    "~" + format.CurrencyUSD(q.DestinationUSD),
		PriceImpact:       fmt.Sprintf("%.2f%%", q.PriceImpactPercent),
		NetworkFee:        format.CurrencyUSD(q.NetworkFeeUSD),
	}
	if q.ExchangeRate > 0 {
		d.Rate = fmt.Sprintf("1 %s = %s %s", from, format.Quantity(q.ExchangeRate, 6), to)
	}
	return d
}

// normalizeToken accepts a symbol in any case; mixed-case symbols (bNEO) match exactly first
func (h *Handlers) normalizeToken(token string) string {
	token = strings.TrimSpace(token)
	if _, ok := catalog.Lookup(h.Engine.Assets(), token); ok {
		return token
	}
	for _, a := range h.Engine.Assets() {
		if strings.EqualFold(a.Symbol, token) {
			return a.Symbol
		}
	}
	return strings.ToUpper(token)
}

// Health returns a simple health check endpoint
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true})
}

// Tokens returns the priced catalog ordered by price, filtered by the optional q parameter
func (h *Handlers) Tokens(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	assets, prices, err := h.Engine.Tokens(ctx, c.QueryParam("q"))
	if err != nil {
		return h.err(c, http.StatusBadGateway, "failed to load prices", map[string]any{"err": err.Error()})
	}

	items := make([]TokenItem, 0, len(assets))
	for _, a := range assets {
		p := prices.Price(a.Symbol)
		items = append(items, TokenItem{
			Symbol:       a.Symbol,
			Name:         a.Name,
			Decimals:     a.Decimals,
			Price:        p,
			PriceDisplay: format.CurrencyUSD(p),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Price returns the current price for a given token symbol
func (h *Handlers) Price(c echo.Context) error {
	token := h.normalizeToken(c.Param("token"))
	if token == "" {
		return h.err(c, http.StatusBadRequest, "invalid token", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	_, prices, err := h.Engine.Tokens(ctx, "")
	if err != nil {
		return h.err(c, http.StatusBadGateway, "failed to load prices", map[string]any{"err": err.Error()})
	}
	if !prices.Has(token) {
		return h.err(c, http.StatusNotFound, "price not found", map[string]any{"token": token})
	}
	p := prices.Price(token)
	return c.JSON(http.StatusOK, PriceResponse{Token: token, Price: p, PriceDisplay: format.CurrencyUSD(p)})
}

// Quote prices a swap without submitting it
// Accepts from, to, amount and optional slippage, deadline and session query parameters
func (h *Handlers) Quote(c echo.Context) error {
	from := h.normalizeToken(c.QueryParam("from"))
	to := h.normalizeToken(c.QueryParam("to"))

	amount, err := swap.ParseAmount(c.QueryParam("amount"))
	if err != nil {
		return h.swapErr(c, err)
	}

	var slippage *float64
	if v := strings.TrimSpace(c.QueryParam("slippage")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid slippage", map[string]any{"slippage": "must be a number"})
		}
		slippage = &f
	}
	var deadline *int
	if v := strings.TrimSpace(c.QueryParam("deadline")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid deadline", map[string]any{"deadline": "must be an integer"})
		}
		deadline = &n
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	st, err := h.resolveSettings(ctx, strings.TrimSpace(c.QueryParam("session")), slippage, deadline)
	if err != nil {
		return h.swapErr(c, err)
	}

	req := swap.Request{From: from, To: to, Amount: amount, Settings: st}
	q, err := h.Engine.Quote(ctx, req)
	if err != nil {
		return h.swapErr(c, err)
	}

	resp := QuoteResponse{
		From:             from,
		To:               to,
		Quote:            q,
		PriceUnavailable: q.PriceUnavailable(),
		Display:          h.display(from, to, q),
	}
	var rv *swap.RuleViolation
	if err := h.Engine.CheckBalance(ctx, from, amount); errors.As(err, &rv) {
		resp.Warning = rv.Message
	}
	return c.JSON(http.StatusOK, resp)
}

// SubmitSwap validates, quotes and submits a swap
// Returns 422 for business-rule violations and 503 for simulated network failures
func (h *Handlers) SubmitSwap(c echo.Context) error {
	var req SwapRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}

	amount, err := swap.ParseAmount(req.Amount)
	if err != nil {
		return h.swapErr(c, err)
	}

	// Submission includes the simulated network delay
	ctx, cancel := h.withTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	st, err := h.resolveSettings(ctx, strings.TrimSpace(req.Session), req.SlippagePercent, req.DeadlineMinutes)
	if err != nil {
		return h.swapErr(c, err)
	}

	from, to := h.normalizeToken(req.From), h.normalizeToken(req.To)
	res, err := h.Engine.Submit(ctx, swap.Request{From: from, To: to, Amount: amount, Settings: st})
	if err != nil {
		return h.swapErr(c, err)
	}

	return c.JSON(http.StatusOK, SwapResponse{
		Receipt:   res.Receipt,
		ShortHash: format.ShortHash(res.Receipt.TxHash),
		Record:    res.Record,
		Display:   h.display(from, to, res.Quote),
	})
}

// RecentSwaps returns the most recent swaps with optional limit parameter
// Accepts limit query parameter (default: 20, range: 1-100)
func (h *Handlers) RecentSwaps(c echo.Context) error {
	if h.Recent == nil {
		return h.err(c, http.StatusServiceUnavailable, "swap history is not configured", nil)
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "must be an integer"})
		}
		limit = n
	}
	if limit < 1 || limit > 100 {
		return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "min 1 max 100"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Recent.GetRecentSwaps(ctx, int64(limit))
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to get swaps", nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Volume returns the simulated 24h trading volume
func (h *Handlers) Volume(c echo.Context) error {
	v := h.Engine.TotalVolumeUSD()
	resp := VolumeResponse{TotalVolumeUSD: v, Display: format.CurrencyUSD(v)}

	if h.History != nil {
		ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		byPair, err := h.History.VolumeByPair(ctx)
		if err != nil {
			h.Logger.WithError(err).Warn("failed to read swap volume")
		} else {
			resp.ByPair = byPair
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// SettingsGet returns the saved settings for a session, or the defaults
func (h *Handlers) SettingsGet(c echo.Context) error {
	session := c.Param("session")
	if err := settings.ValidateSession(session); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid session", map[string]any{"session": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	st, err := h.resolveSettings(ctx, session, nil, nil)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to get settings", nil)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"session":  session,
		"settings": st,
		"preset":   st.IsPreset(),
		"presets":  constants.SlippagePresets,
	})
}

// SettingsPut stores slippage and deadline for a session
func (h *Handlers) SettingsPut(c echo.Context) error {
	if h.Settings == nil {
		return h.err(c, http.StatusServiceUnavailable, "settings store is not configured", nil)
	}
	session := c.Param("session")
	if err := settings.ValidateSession(session); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid session", map[string]any{"session": "invalid format"})
	}
	var req SettingsRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Settings.Put(ctx, session, swap.Settings{SlippagePercent: req.SlippagePercent, DeadlineMinutes: req.DeadlineMinutes})
	if err != nil {
		if errors.Is(err, swap.ErrInvalidSlippage) || errors.Is(err, swap.ErrInvalidDeadline) {
			return h.err(c, http.StatusBadRequest, err.Error(), nil)
		}
		return h.err(c, http.StatusInternalServerError, "failed to save settings", nil)
	}
	return c.JSON(http.StatusOK, out)
}

// SettingsDelete removes a session's settings
// Returns 204 No Content on successful deletion
func (h *Handlers) SettingsDelete(c echo.Context) error {
	if h.Settings == nil {
		return h.err(c, http.StatusServiceUnavailable, "settings store is not configured", nil)
	}
	session := c.Param("session")
	if err := settings.ValidateSession(session); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid session", map[string]any{"session": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	if err := h.Settings.Delete(ctx, session); err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to delete settings", nil)
	}
	return c.NoContent(http.StatusNoContent)
}
