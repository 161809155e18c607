package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iho/cashbook/internal/adapter/http/dto"
)

// apiClient talks to the Cashbook HTTP API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func (c *apiClient) configure(baseURL string, timeout time.Duration) {
	c.baseURL = strings.TrimRight(baseURL, "/")
	c.http = &http.Client{Timeout: timeout}
}

// apiError is a non-2xx API response.
type apiError struct {
	Status int
	Body   dto.ErrorResponse
}

func (e *apiError) Error() string {
	msg := fmt.Sprintf("%s (status %d)", e.Body.Error, e.Status)
	if e.Body.Message != "" {
		msg += ": " + e.Body.Message
	}
	return msg
}

// do sends body as JSON and decodes a 2xx response into out when out is non-nil.
func (c *apiClient) do(ctx context.Context, method, path string, query url.Values, headers map[string]string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode}
		if json.Unmarshal(raw, &apiErr.Body) != nil || apiErr.Body.Error == "" {
			apiErr.Body.Error = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *apiClient) listEntries(ctx context.Context, query url.Values) (*dto.ListEntriesResponse, error) {
	var resp dto.ListEntriesResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/entries", query, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) createEntry(ctx context.Context, req dto.CreateEntryRequest, idempotencyKey string) (*dto.MutationResponse, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}
	var resp dto.MutationResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/entries", nil, headers, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) updateEntry(ctx context.Context, id string, req dto.UpdateEntryRequest) (*dto.MutationResponse, error) {
	var resp dto.MutationResponse
	if err := c.do(ctx, http.MethodPatch, "/api/v1/entries/"+url.PathEscape(id), nil, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) deleteEntry(ctx context.Context, id string) (*dto.ReconciliationResponse, error) {
	var resp dto.ReconciliationResponse
	if err := c.do(ctx, http.MethodDelete, "/api/v1/entries/"+url.PathEscape(id), nil, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) reconcile(ctx context.Context) (*dto.ReconciliationResponse, error) {
	var resp dto.ReconciliationResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/entries/reconcile", nil, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) summary(ctx context.Context, query url.Values) (*dto.SummaryResponse, error) {
	var resp dto.SummaryResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/summary", query, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
