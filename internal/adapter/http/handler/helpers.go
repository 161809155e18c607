package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps err to a status and writes it, naming the rejected
// field for validation errors.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	resp := dto.ErrorResponse{
		Error:   message,
		Message: err.Error(),
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Field = verr.Field
	}
	writeJSON(w, mapDomainError(err), resp)
}

// writeDecodeError reports a body that failed to decode. Amount values
// rejected while decoding keep their field name.
func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrValidation) {
		writeDomainError(w, "invalid request body", err)
		return
	}
	writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	var storeErr *domain.StoreError
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.As(err, &storeErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// parseFilter reads the from, to, type and search query parameters.
func parseFilter(r *http.Request) (domain.Filter, error) {
	q := r.URL.Query()
	var f domain.Filter

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		d, err := domain.ParseDate(v)
		if err != nil {
			return f, &domain.ValidationError{Field: "from", Reason: err.Error()}
		}
		f.DateFrom = d
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		d, err := domain.ParseDate(v)
		if err != nil {
			return f, &domain.ValidationError{Field: "to", Reason: err.Error()}
		}
		f.DateTo = d
	}
	if v := strings.TrimSpace(q.Get("type")); v != "" {
		t, err := domain.ParseEntryType(v)
		if err != nil {
			return f, err
		}
		f.Type = t
	}
	f.ParticularsContains = q.Get("search")

	return f, nil
}
