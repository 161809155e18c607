package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// List sources.
const (
	SourceView  = "view"
	SourceStore = "store"
)

// EntryService is the entry use case as seen by the HTTP layer.
type EntryService interface {
	AddEntry(ctx context.Context, input usecase.AddEntryInput) (*usecase.MutationResult, error)
	UpdateEntry(ctx context.Context, id string, input usecase.UpdateEntryInput) (*usecase.MutationResult, error)
	DeleteEntry(ctx context.Context, id string) (*usecase.ReconciliationResult, error)
	Reload(ctx context.Context) (*usecase.ReconciliationResult, error)
	Entries(filter domain.Filter) []domain.Entry
	QueryEntries(ctx context.Context, filter domain.Filter) ([]domain.Entry, error)
	Summary(filter domain.Filter) domain.Summary
	ReconciledAt() time.Time
}

// EntryHandler handles entry-related HTTP requests.
type EntryHandler struct {
	entries EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entries EntryService) *EntryHandler {
	return &EntryHandler{entries: entries}
}

// Create handles POST /entries.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}

	result, err := h.entries.AddEntry(r.Context(), req.ToUseCaseInput())
	if !h.writeMutation(w, http.StatusCreated, result, err) {
		writeDomainError(w, "failed to create entry", err)
	}
}

// Update handles PATCH /entries/{id}. Balance is not an accepted field.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	var req dto.UpdateEntryRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}

	result, err := h.entries.UpdateEntry(r.Context(), id, req.ToUseCaseInput())
	if !h.writeMutation(w, http.StatusOK, result, err) {
		writeDomainError(w, "failed to update entry", err)
	}
}

// Delete handles DELETE /entries/{id}.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	result, err := h.entries.DeleteEntry(r.Context(), id)
	if err != nil && !errors.Is(err, domain.ErrReconciliationIncomplete) {
		writeDomainError(w, "failed to delete entry", err)
		return
	}

	writeJSON(w, http.StatusOK, reconciliationOrIncomplete(result, err))
}

// List handles GET /entries. source=view (default) filters the reconciled
// view in memory; source=store pushes the filter down to the store.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeDomainError(w, "invalid filter", err)
		return
	}

	source := r.URL.Query().Get("source")
	if source == "" {
		source = SourceView
	}

	resp := dto.ListEntriesResponse{Source: source}
	switch source {
	case SourceView:
		resp.Entries = dto.EntriesFromDomain(h.entries.Entries(filter))
		resp.ReconciledAt = h.reconciledAt()
	case SourceStore:
		entries, err := h.entries.QueryEntries(r.Context(), filter)
		if err != nil {
			writeDomainError(w, "failed to list entries", err)
			return
		}
		resp.Entries = dto.EntriesFromDomain(entries)
	default:
		writeError(w, http.StatusBadRequest, "invalid source", "source must be view or store")
		return
	}
	resp.Total = len(resp.Entries)

	writeJSON(w, http.StatusOK, resp)
}

// Reconcile handles POST /entries/reconcile: a full reload and pass.
func (h *EntryHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	result, err := h.entries.Reload(r.Context())
	if result == nil {
		writeDomainError(w, "reconciliation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromResult(result, err))
}

// Summary handles GET /summary over the filtered view.
func (h *EntryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeDomainError(w, "invalid filter", err)
		return
	}

	resp := dto.SummaryFromDomain(h.entries.Summary(filter))
	resp.ReconciledAt = h.reconciledAt()
	writeJSON(w, http.StatusOK, resp)
}

// writeMutation writes a stored mutation, complete or not. It reports false
// when the mutation itself failed and nothing was written.
func (h *EntryHandler) writeMutation(w http.ResponseWriter, status int, result *usecase.MutationResult, err error) bool {
	if err != nil && !errors.Is(err, domain.ErrReconciliationIncomplete) {
		return false
	}
	if result == nil {
		return false
	}

	resp := dto.MutationResponse{
		Reconciliation: reconciliationOrIncomplete(result.Reconciliation, err),
	}
	if result.Entry != nil {
		resp.Entry = dto.EntryFromDomain(*result.Entry)
	}
	writeJSON(w, status, resp)
	return true
}

func (h *EntryHandler) reconciledAt() *time.Time {
	at := h.entries.ReconciledAt()
	if at.IsZero() {
		return nil
	}
	return &at
}

// reconciliationOrIncomplete reports a pass that never produced a result,
// such as a failed reload, as incomplete.
func reconciliationOrIncomplete(result *usecase.ReconciliationResult, err error) *dto.ReconciliationResponse {
	if result == nil {
		resp := &dto.ReconciliationResponse{Updated: []string{}}
		if err != nil {
			resp.Error = err.Error()
		}
		resp.Complete = err == nil
		return resp
	}
	return dto.ReconciliationFromResult(result, err)
}
