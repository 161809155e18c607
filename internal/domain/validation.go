package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxParticularsLength = 255
	MaxCommentsLength    = 1024
	MaxAmount            = "999999999999.99" // NUMERIC(14,2)
)

var maxAmount = decimal.RequireFromString(MaxAmount)

// ValidateDate requires a set date.
func ValidateDate(d Date) error {
	if d.IsZero() {
		return &ValidationError{Field: "date", Reason: "date is required"}
	}
	return nil
}

// ValidateParticulars requires a non-blank label of bounded length.
func ValidateParticulars(s string) error {
	if strings.TrimSpace(s) == "" {
		return &ValidationError{Field: "particulars", Reason: "particulars cannot be empty"}
	}
	if utf8.RuneCountInString(s) > MaxParticularsLength {
		return &ValidationError{
			Field:  "particulars",
			Reason: fmt.Sprintf("exceeds %d characters", MaxParticularsLength),
		}
	}
	return nil
}

// ValidateComments bounds the optional comments text.
func ValidateComments(s string) error {
	if utf8.RuneCountInString(s) > MaxCommentsLength {
		return &ValidationError{
			Field:  "comments",
			Reason: fmt.Sprintf("exceeds %d characters", MaxCommentsLength),
		}
	}
	return nil
}

// ValidateEntryType requires Credit or Debit.
func ValidateEntryType(t EntryType) error {
	if !t.Valid() {
		return &ValidationError{Field: "type", Reason: "must be Credit or Debit"}
	}
	return nil
}

// ValidateAmount requires a non-negative amount no larger than MaxAmount
// with at most two fractional digits.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return &ValidationError{Field: "amount", Reason: "amount cannot be negative"}
	}
	if amount.GreaterThan(maxAmount) {
		return &ValidationError{Field: "amount", Reason: "maximum amount is " + MaxAmount}
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return &ValidationError{Field: "amount", Reason: "at most two fractional digits"}
	}
	return nil
}
