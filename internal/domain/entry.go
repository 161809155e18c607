package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// EntryType is the direction of an entry.
type EntryType string

const (
	EntryTypeCredit EntryType = "Credit"
	EntryTypeDebit  EntryType = "Debit"
)

// ParseEntryType parses "credit" or "debit" in any letter case.
func ParseEntryType(s string) (EntryType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "credit":
		return EntryTypeCredit, nil
	case "debit":
		return EntryTypeDebit, nil
	default:
		return "", &ValidationError{Field: "type", Reason: "must be Credit or Debit"}
	}
}

// Valid reports whether t is Credit or Debit.
func (t EntryType) Valid() bool {
	return t == EntryTypeCredit || t == EntryTypeDebit
}

// Entry represents a single ledger line.
type Entry struct {
	ID          string
	Date        Date
	Particulars string
	Type        EntryType
	Comments    string
	Amount      decimal.Decimal
	// Balance is engine-computed; invalid until first reconciled.
	Balance decimal.NullDecimal
}

// SignedAmount returns +Amount for credits and -Amount for debits.
func (e Entry) SignedAmount() decimal.Decimal {
	if e.Type == EntryTypeDebit {
		return e.Amount.Neg()
	}
	return e.Amount
}

// NewEntry is the insert payload. The store assigns the ID, and Balance is
// left for reconciliation.
type NewEntry struct {
	Date        Date
	Particulars string
	Type        EntryType
	Comments    string
	Amount      decimal.Decimal
}

// Validate checks the required fields of a new entry.
func (n NewEntry) Validate() error {
	if err := ValidateDate(n.Date); err != nil {
		return err
	}
	if err := ValidateParticulars(n.Particulars); err != nil {
		return err
	}
	if err := ValidateEntryType(n.Type); err != nil {
		return err
	}
	if err := ValidateComments(n.Comments); err != nil {
		return err
	}
	return ValidateAmount(n.Amount)
}

// EntryFields is a partial field set for update-by-id. Nil fields are left
// untouched by the store.
type EntryFields struct {
	Date        *Date
	Particulars *string
	Type        *EntryType
	Comments    *string
	Amount      *decimal.Decimal
	Balance     *decimal.Decimal
}

// IsEmpty reports whether no field is set.
func (f EntryFields) IsEmpty() bool {
	return f.Date == nil && f.Particulars == nil && f.Type == nil &&
		f.Comments == nil && f.Amount == nil && f.Balance == nil
}

// Validate checks every present field. Balance is not checked here.
func (f EntryFields) Validate() error {
	if f.Date != nil {
		if err := ValidateDate(*f.Date); err != nil {
			return err
		}
	}
	if f.Particulars != nil {
		if err := ValidateParticulars(*f.Particulars); err != nil {
			return err
		}
	}
	if f.Type != nil {
		if err := ValidateEntryType(*f.Type); err != nil {
			return err
		}
	}
	if f.Comments != nil {
		if err := ValidateComments(*f.Comments); err != nil {
			return err
		}
	}
	if f.Amount != nil {
		return ValidateAmount(*f.Amount)
	}
	return nil
}

// BalanceUpdate is one row of a reconciliation write set.
type BalanceUpdate struct {
	ID      string
	Balance decimal.Decimal
}
