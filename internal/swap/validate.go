package swap

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/aman-zulfiqar/currency-swap/internal/catalog"
	"github.com/aman-zulfiqar/currency-swap/internal/constants"
	"github.com/aman-zulfiqar/currency-swap/internal/format"
)

var (
	amountRe    = regexp.MustCompile(`^\d*\.?\d*$`)
	nonAmountRe = regexp.MustCompile(`[^0-9.]`)
)

// ValidAmountFormat reports whether v is digits with at most one decimal point.
func ValidAmountFormat(v string) bool {
	return amountRe.MatchString(v)
}

// SanitizeAmount drops every character that is not a digit or a dot.
func SanitizeAmount(v string) string {
	return nonAmountRe.ReplaceAllString(v, "")
}

// ParseAmount turns amount text into a number. Blank input is 0.
func ParseAmount(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if !ValidAmountFormat(v) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmountFormat, v)
	}
	if v == "" || v == "." {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmountFormat, v)
	}
	return f, nil
}

// ValidateRequest checks the shape of req against the catalog. It does not look at
// balances or prices.
func ValidateRequest(req Request, assets []catalog.Asset) error {
	if req.From == "" || req.To == "" {
		return ErrAssetRequired
	}
	if req.From == req.To {
		return ErrSameAsset
	}
	if _, ok := catalog.Lookup(assets, req.From); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, req.From)
	}
	if _, ok := catalog.Lookup(assets, req.To); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, req.To)
	}
	if !(req.Amount > 0) {
		return ErrInvalidAmount
	}
	if req.Amount > constants.MaxSwapAmount {
		return fmt.Errorf("%w: maximum is %s", ErrAmountTooLarge, format.Quantity(constants.MaxSwapAmount, 0))
	}
	return req.Settings.Validate()
}

// CheckAmount applies the balance and minimum-size rules for a swap of amount symbol.
func CheckAmount(symbol string, amount, balance float64) error {
	if amount > balance {
		return &RuleViolation{
			Rule:    RuleInsufficientBalance,
			Message: fmt.Sprintf("Insufficient %s balance", symbol),
		}
	}
	if amount < constants.MinSwapAmount {
		return &RuleViolation{
			Rule:    RuleMinimumAmount,
			Message: fmt.Sprintf("Minimum amount is %s %s", format.Quantity(constants.MinSwapAmount, 6), symbol),
		}
	}
	return nil
}
