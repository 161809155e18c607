package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// Amount is free-form amount input. It accepts a JSON string ("$1,250.5")
// or a JSON number. Numbers are converted to plain decimal text here; string
// normalization happens in the use case.
type Amount string

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a string or a number: %w", err)
	}
	plain, err := domain.NumericAmount(n.String())
	if err != nil {
		return err
	}
	*a = Amount(plain)
	return nil
}

// CreateEntryRequest represents a request to create an entry.
type CreateEntryRequest struct {
	Date        string `json:"date"`
	Particulars string `json:"particulars"`
	Type        string `json:"type,omitempty"`
	Comments    string `json:"comments,omitempty"`
	Amount      Amount `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEntryRequest) ToUseCaseInput() usecase.AddEntryInput {
	return usecase.AddEntryInput{
		Date:        r.Date,
		Particulars: r.Particulars,
		Type:        r.Type,
		Comments:    r.Comments,
		Amount:      string(r.Amount),
	}
}

// UpdateEntryRequest represents a partial edit. Absent fields are unchanged.
// There is no balance field; balances are written by reconciliation only.
type UpdateEntryRequest struct {
	Date        *string `json:"date,omitempty"`
	Particulars *string `json:"particulars,omitempty"`
	Type        *string `json:"type,omitempty"`
	Comments    *string `json:"comments,omitempty"`
	Amount      *Amount `json:"amount,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateEntryRequest) ToUseCaseInput() usecase.UpdateEntryInput {
	in := usecase.UpdateEntryInput{
		Date:        r.Date,
		Particulars: r.Particulars,
		Type:        r.Type,
		Comments:    r.Comments,
	}
	if r.Amount != nil {
		amount := string(*r.Amount)
		in.Amount = &amount
	}
	return in
}
