package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits kept for amounts and balances.
const AmountScale = 2

// NormalizeAmount canonicalizes free-form numeric text.
//
// Every character other than an ASCII digit or '.' is dropped. The first '.'
// separates the integer part, and every digit after any '.' belongs to the
// fraction, which is truncated (never rounded) to AmountScale digits. The
// result is empty when the input holds no digits. NormalizeAmount is
// idempotent.
func NormalizeAmount(raw string) string {
	var whole, frac strings.Builder
	seenPoint := false

	for _, r := range raw {
		switch {
		case r == '.':
			seenPoint = true
		case r >= '0' && r <= '9':
			if seenPoint {
				if frac.Len() < AmountScale {
					frac.WriteRune(r)
				}
			} else {
				whole.WriteRune(r)
			}
		}
	}

	switch {
	case frac.Len() == 0:
		return whole.String()
	case whole.Len() == 0:
		return "0." + frac.String()
	default:
		return whole.String() + "." + frac.String()
	}
}

// ParseAmount normalizes raw and parses it as a non-negative decimal.
// An input without digits is a missing amount, not zero.
func ParseAmount(raw string) (decimal.Decimal, error) {
	normalized := NormalizeAmount(raw)
	if normalized == "" {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "amount is required"}
	}

	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "not a number"}
	}

	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}

// NumericAmount converts a number literal such as "1e3" or "1.5E+2" to
// plain decimal text that NormalizeAmount keeps intact. Negative numbers are
// rejected here because NormalizeAmount drops the sign.
func NumericAmount(literal string) (string, error) {
	d, err := decimal.NewFromString(literal)
	if err != nil {
		return "", &ValidationError{Field: "amount", Reason: "not a number"}
	}
	if d.IsNegative() {
		return "", &ValidationError{Field: "amount", Reason: "amount cannot be negative"}
	}
	return d.String(), nil
}

// FormatAmount renders d with exactly two fractional digits.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountScale)
}
