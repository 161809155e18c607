package dto

import (
	"time"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// EntryResponse represents an entry in API responses. Money is rendered with
// two fraction digits; Balance is null until the entry is reconciled.
type EntryResponse struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Particulars string  `json:"particulars"`
	Type        string  `json:"type"`
	Comments    string  `json:"comments"`
	Amount      string  `json:"amount"`
	Balance     *string `json:"balance"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e domain.Entry) *EntryResponse {
	resp := &EntryResponse{
		ID:          e.ID,
		Date:        e.Date.String(),
		Particulars: e.Particulars,
		Type:        string(e.Type),
		Comments:    e.Comments,
		Amount:      domain.FormatAmount(e.Amount),
	}
	if e.Balance.Valid {
		balance := domain.FormatAmount(e.Balance.Decimal)
		resp.Balance = &balance
	}
	return resp
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse represents a filtered listing.
type ListEntriesResponse struct {
	Entries      []*EntryResponse `json:"entries"`
	Total        int              `json:"total"`
	Source       string           `json:"source"`
	ReconciledAt *time.Time       `json:"reconciled_at,omitempty"`
}

// ReconciliationResponse describes one reconciliation pass.
type ReconciliationResponse struct {
	Complete       bool      `json:"complete"`
	Updated        []string  `json:"updated"`
	Failed         []string  `json:"failed,omitempty"`
	Entries        int       `json:"entries"`
	ClosingBalance string    `json:"closing_balance"`
	CompletedAt    time.Time `json:"completed_at"`
	Error          string    `json:"error,omitempty"`
}

// ReconciliationFromResult converts a pass result. err is the pass error, if any.
func ReconciliationFromResult(r *usecase.ReconciliationResult, err error) *ReconciliationResponse {
	if r == nil {
		return nil
	}
	resp := &ReconciliationResponse{
		Complete:       err == nil,
		Updated:        r.Updated,
		Failed:         r.Failed,
		Entries:        len(r.Entries),
		ClosingBalance: domain.FormatAmount(r.ClosingBalance),
		CompletedAt:    r.CompletedAt,
	}
	if resp.Updated == nil {
		resp.Updated = []string{}
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// MutationResponse is returned by create and update.
type MutationResponse struct {
	Entry          *EntryResponse          `json:"entry"`
	Reconciliation *ReconciliationResponse `json:"reconciliation,omitempty"`
}

// SummaryResponse totals a filtered view.
type SummaryResponse struct {
	Count          int        `json:"count"`
	TotalCredits   string     `json:"total_credits"`
	TotalDebits    string     `json:"total_debits"`
	Net            string     `json:"net"`
	ClosingBalance string     `json:"closing_balance"`
	ReconciledAt   *time.Time `json:"reconciled_at,omitempty"`
}

// SummaryFromDomain converts a domain summary.
func SummaryFromDomain(s domain.Summary) *SummaryResponse {
	return &SummaryResponse{
		Count:          s.Count,
		TotalCredits:   domain.FormatAmount(s.TotalCredits),
		TotalDebits:    domain.FormatAmount(s.TotalDebits),
		Net:            domain.FormatAmount(s.Net),
		ClosingBalance: domain.FormatAmount(s.ClosingBalance),
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}
