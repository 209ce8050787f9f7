package swap

import (
	"errors"
	"fmt"
	"time"

	"github.com/aman-zulfiqar/currency-swap/internal/constants"
	"github.com/aman-zulfiqar/currency-swap/internal/models"
	"github.com/aman-zulfiqar/currency-swap/internal/quote"
)

// Side selects one half of the swap form.
type Side int

const (
	SideFrom Side = iota
	SideTo
)

func (s Side) String() string {
	switch s {
	case SideFrom:
		return "from"
	case SideTo:
		return "to"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == SideFrom {
		return SideTo
	}
	return SideFrom
}

// Settings are the user-tunable swap parameters.
type Settings struct {
	SlippagePercent float64 `json:"slippage_percent"`
	DeadlineMinutes int     `json:"deadline_minutes"`
}

func DefaultSettings() Settings {
	return Settings{
		SlippagePercent: constants.DefaultSlippagePercent,
		DeadlineMinutes: constants.DefaultDeadline,
	}
}

// Validate rejects slippage outside [0, 50] and deadlines outside [1, 4320] minutes.
// Out-of-range slippage is refused rather than clamped.
func (s Settings) Validate() error {
	if !(s.SlippagePercent >= 0 && s.SlippagePercent <= constants.MaxSlippagePercent) {
		return fmt.Errorf("%w: %v (allowed 0-%v)", ErrInvalidSlippage, s.SlippagePercent, constants.MaxSlippagePercent)
	}
	if s.DeadlineMinutes < 1 || s.DeadlineMinutes > constants.MaxDeadline {
		return fmt.Errorf("%w: %d (allowed 1-%d)", ErrInvalidDeadline, s.DeadlineMinutes, constants.MaxDeadline)
	}
	return nil
}

// IsPreset reports whether the slippage is one of the one-click presets.
func (s Settings) IsPreset() bool {
	for _, p := range constants.SlippagePresets {
		if s.SlippagePercent == p {
			return true
		}
	}
	return false
}

// Request is a swap the user wants to make.
type Request struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Amount   float64  `json:"amount"`
	Settings Settings `json:"settings"`
}

// Receipt identifies an accepted submission.
type Receipt struct {
	ID          string    `json:"id"`
	TxHash      string    `json:"tx_hash"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Result is returned for a successful swap.
type Result struct {
	Receipt Receipt            `json:"receipt"`
	Quote   quote.Quote        `json:"quote"`
	Record  *models.SwapRecord `json:"record"`
}

var (
	ErrInvalidAmountFormat = errors.New("amount must be a plain decimal number")
	ErrAssetRequired       = errors.New("both tokens must be selected")
	ErrSameAsset           = errors.New("source and destination tokens must differ")
	ErrUnknownAsset        = errors.New("unknown token")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrAmountTooLarge      = errors.New("amount is too large")
	ErrInvalidSlippage     = errors.New("invalid slippage tolerance")
	ErrInvalidDeadline     = errors.New("invalid transaction deadline")
	ErrPriceUnavailable    = errors.New("price unavailable")
	ErrTransientFailure    = errors.New("simulated network error")
)

// FailureMessage is shown to the user after a transient submission failure.
const FailureMessage = "Swap failed. Please try again."

// Rule names of business-rule violations.
const (
	RuleInsufficientBalance = "insufficient_balance"
	RuleMinimumAmount       = "minimum_amount"
)

// RuleViolation is a business rule that blocks submission but not quoting.
type RuleViolation struct {
	Rule    string
	Message string
}

func (e *RuleViolation) Error() string {
	return e.Message
}
