package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/cashbook/internal/adapter/http/dto"
)

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler()
	rr := httptest.NewRecorder()

	h.Liveness(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	h := NewHealthHandler(Check{Name: "sqlite", Ping: ok}, Check{Name: "redis", Ping: ok})
	rr := httptest.NewRecorder()

	h.Readiness(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["sqlite"] != "ok" || body["redis"] != "ok" {
		t.Fatalf("expected every check reported, got %v", body)
	}
}

func TestHealthHandler_ReadinessFailure(t *testing.T) {
	called := false
	h := NewHealthHandler(
		Check{Name: "postgres", Ping: func(context.Context) error { return errors.New("connection refused") }},
		Check{Name: "redis", Ping: func(context.Context) error { called = true; return nil }},
	)
	rr := httptest.NewRecorder()

	h.Readiness(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	var resp dto.ErrorResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp.Error != "postgres unhealthy" {
		t.Fatalf("unexpected error response %+v", resp)
	}
	if called {
		t.Fatal("expected checks after the first failure to be skipped")
	}
}
