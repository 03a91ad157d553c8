package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Epsilon is the cent-level tolerance used by every "is this balanced" check.
var Epsilon = decimal.New(1, -2) // 0.01

// Amount parse failures. None of them abort batch processing; callers skip
// the offending line and count it.
var (
	ErrEmptyAmount       = errors.New("amount is empty")
	ErrInvalidAmount     = errors.New("amount is not a number")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
)

// Round2 rounds a monetary value to 2 decimal places, half away from zero.
// Every addition/subtraction result in the engine goes through this so
// amounts never drift beyond cent precision.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ParseAmount turns free-text monetary input into an exact 2-decimal amount.
//
// Collection files and manual inputs arrive with mixed locale conventions
// ("1.234,56", "1,234.56", "1234,56"). The rule: when both separators are
// present, whichever occurs later in the string is the decimal point and the
// other is a thousands mark, removed wholesale. A lone comma is a decimal
// point. A lone dot stays as-is.
func ParseAmount(raw string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, ch := range raw {
		if (ch >= '0' && ch <= '9') || ch == ',' || ch == '.' || ch == '-' {
			b.WriteRune(ch)
		}
	}
	s := b.String()
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrNonPositiveAmount
	}

	return Round2(d), nil
}
