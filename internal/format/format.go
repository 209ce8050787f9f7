// Package format renders amounts for display. Nothing here feeds back into calculations.
package format

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const zeroUSD = "$0.00"

var tag = language.AmericanEnglish

// CurrencyUSD formats amount as US dollars with grouping. Amounts of at least one dollar
// get two decimals; smaller amounts keep up to six so sub-cent prices stay readable.
// Zero and non-finite values render as "$0.00".
func CurrencyUSD(amount float64) string {
	if amount == 0 || !finite(amount) {
		return zeroUSD
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	maxFrac := 2
	if amount < 1 {
		maxFrac = 6
	}
	rounded := round(amount, maxFrac)

	p := message.NewPrinter(tag)
	return sign + "$" + p.Sprint(number.Decimal(rounded,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(maxFrac),
	))
}

// Quantity formats a token amount. Dust below 0.001 is shown with up to eight decimals.
// Otherwise the number of decimals is min(maxDecimals, 6 below 1, 4 below 100, else 2),
// trailing zeros are dropped and thousands are grouped. Zero and non-finite values render as "0".
func Quantity(n float64, maxDecimals int) string {
	if n == 0 || !finite(n) {
		return "0"
	}

	if n > 0 && n < 0.001 {
		s := decimal.NewFromFloat(n).StringFixed(8)
		s = strings.TrimRight(s, "0")
		return strings.TrimSuffix(s, ".")
	}

	decimals := 2
	switch {
	case n < 1:
		decimals = 6
	case n < 100:
		decimals = 4
	}
	if maxDecimals < decimals {
		decimals = maxDecimals
	}
	if decimals < 0 {
		decimals = 0
	}

	p := message.NewPrinter(tag)
	return p.Sprint(number.Decimal(round(n, decimals), number.MaxFractionDigits(decimals)))
}

// ShortHash abbreviates a transaction hash to its first and last ten characters.
func ShortHash(hash string) string {
	if len(hash) <= 23 {
		return hash
	}
	return hash[:10] + "..." + hash[len(hash)-10:]
}

// decimal.NewFromFloat panics on NaN and ±Inf.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// round rounds half away from zero, matching how the amounts were shown in the browser.
func round(v float64, places int) float64 {
	return decimal.NewFromFloat(v).Round(int32(places)).InexactFloat64()
}
