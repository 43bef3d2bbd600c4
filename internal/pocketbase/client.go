// Package pocketbase is a typed HTTP client for the hosted BaaS collection
// API that stores the community's durable data. Only the operations the
// server consumes are implemented: password auth and collection CRUD.
package pocketbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultTimeout = 30 * time.Second

	// perPage is the page size used when walking a full list.
	perPage = 200
)

// TokenStore holds the auth token between calls. It is an explicit,
// injected port; the client has no ambient global auth state.
type TokenStore interface {
	Token() string
	SetToken(token string)
}

// MemoryTokenStore keeps the token in process memory.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

// Token returns the stored token, or "" when unauthenticated.
func (s *MemoryTokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken replaces the stored token.
func (s *MemoryTokenStore) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// ClientConfig holds client settings.
type ClientConfig struct {
	// BaseURL is the BaaS instance root, e.g. "https://data.example.com".
	BaseURL string
	// Tokens holds the auth token between calls. Defaults to an in-memory store.
	Tokens TokenStore
	// Timeout applies to each request. Defaults to 30 seconds.
	Timeout time.Duration
}

// Client is the BaaS API client.
type Client struct {
	baseURL    string
	tokens     TokenStore
	httpClient *http.Client
}

// NewClient creates a new client with the given configuration.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("base URL %q must be a valid http(s) URL", cfg.BaseURL)
	}

	tokens := cfg.Tokens
	if tokens == nil {
		tokens = &MemoryTokenStore{}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// AuthResponse is the result of a password authentication.
type AuthResponse struct {
	Token  string          `json:"token"`
	Record json.RawMessage `json:"record"`
}

// AuthWithPassword authenticates against the given auth collection and
// stores the returned token for subsequent calls.
func (c *Client) AuthWithPassword(ctx context.Context, collection, identity, password string) (*AuthResponse, error) {
	body := map[string]string{
		"identity": identity,
		"password": password,
	}

	var auth AuthResponse
	path := fmt.Sprintf("/api/collections/%s/auth-with-password", url.PathEscape(collection))
	if err := c.do(ctx, http.MethodPost, path, nil, body, &auth); err != nil {
		return nil, err
	}

	c.tokens.SetToken(auth.Token)
	return &auth, nil
}

// Create inserts a record into the collection. When out is non-nil the
// created record is decoded into it.
func (c *Client) Create(ctx context.Context, collection string, record, out any) error {
	path := fmt.Sprintf("/api/collections/%s/records", url.PathEscape(collection))
	return c.do(ctx, http.MethodPost, path, nil, record, out)
}

// GetOne fetches a single record by id.
func (c *Client) GetOne(ctx context.Context, collection, id string, out any) error {
	path := fmt.Sprintf("/api/collections/%s/records/%s", url.PathEscape(collection), url.PathEscape(id))
	return c.do(ctx, http.MethodGet, path, nil, nil, out)
}

// Update patches a record by id. When out is non-nil the updated record is
// decoded into it.
func (c *Client) Update(ctx context.Context, collection, id string, record, out any) error {
	path := fmt.Sprintf("/api/collections/%s/records/%s", url.PathEscape(collection), url.PathEscape(id))
	return c.do(ctx, http.MethodPatch, path, nil, record, out)
}

// Delete removes a record by id.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	path := fmt.Sprintf("/api/collections/%s/records/%s", url.PathEscape(collection), url.PathEscape(id))
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// ListQuery narrows a list request.
type ListQuery struct {
	Filter string
	Sort   string
}

// listResponse is one page of a paginated list.
type listResponse struct {
	Page       int               `json:"page"`
	PerPage    int               `json:"perPage"`
	TotalItems int               `json:"totalItems"`
	TotalPages int               `json:"totalPages"`
	Items      []json.RawMessage `json:"items"`
}

// GetFullList walks every page of the collection and returns all matching
// records as raw JSON. Use DecodeItems to convert them to a concrete type.
func (c *Client) GetFullList(ctx context.Context, collection string, q ListQuery) ([]json.RawMessage, error) {
	var items []json.RawMessage

	path := fmt.Sprintf("/api/collections/%s/records", url.PathEscape(collection))
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("perPage", strconv.Itoa(perPage))
		if q.Filter != "" {
			params.Set("filter", q.Filter)
		}
		if q.Sort != "" {
			params.Set("sort", q.Sort)
		}

		var resp listResponse
		if err := c.do(ctx, http.MethodGet, path, params, nil, &resp); err != nil {
			return nil, err
		}

		items = append(items, resp.Items...)
		if page >= resp.TotalPages || len(resp.Items) == 0 {
			break
		}
	}

	return items, nil
}

// Count returns the number of records matching the filter without fetching
// them all.
func (c *Client) Count(ctx context.Context, collection, filter string) (int, error) {
	params := url.Values{}
	params.Set("page", "1")
	params.Set("perPage", "1")
	if filter != "" {
		params.Set("filter", filter)
	}

	var resp listResponse
	path := fmt.Sprintf("/api/collections/%s/records", url.PathEscape(collection))
	if err := c.do(ctx, http.MethodGet, path, params, nil, &resp); err != nil {
		return 0, err
	}

	return resp.TotalItems, nil
}

// DecodeItems converts raw list items into a concrete record type.
func DecodeItems[T any](items []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(items))
	for i, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, fmt.Errorf("failed to decode item %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// do issues one request and decodes the response into out.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, errorMessage(raw))
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// errorMessage extracts the message field from an error body.
func errorMessage(raw []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}

	msg := strings.TrimSpace(string(raw))
	if len(msg) > 256 {
		msg = msg[:256] + "... (truncated)"
	}
	return msg
}
