// Package llm calls an OpenAI-compatible chat-completions API to generate
// lessons and tutoring replies.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultModel       = "gpt-4o-mini"
	defaultTemperature = 0.7

	// maxResponseSize caps how much of the provider response is read.
	maxResponseSize = 1 << 20 // 1MB
)

// Config holds client settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Client issues chat-completion requests. Exactly one outbound call is made
// per invocation; there is no retry and no backoff. No per-request deadline
// is set beyond the caller's context, so a hung upstream call blocks until
// the caller gives up.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the configured provider. An empty API key
// is allowed; Complete fails with ErrNoAPIKey until one is configured.
func NewClient(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Configured reports whether a provider credential is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Model returns the model name requests are issued with.
func (c *Client) Model() string {
	return c.model
}

// Complete sends the messages to the provider and returns the first
// choice's content and usage. It fails with ErrNoAPIKey when no credential
// is configured and with *UpstreamError on a non-success status or error
// envelope.
func (c *Client) Complete(ctx context.Context, messages []Message) (*Completion, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: defaultTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read completion response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(body),
		}
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("undecodable response envelope: %v", err),
		}
	}

	if cr.Error != nil {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    cr.Error.Message,
		}
	}

	if len(cr.Choices) == 0 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    "response contained no choices",
		}
	}

	model := cr.Model
	if model == "" {
		model = c.model
	}

	return &Completion{
		Content: cr.Choices[0].Message.Content,
		Model:   model,
		Usage:   cr.Usage,
	}, nil
}

// upstreamMessage extracts a human-readable message from an error body,
// falling back to a truncated raw body.
func upstreamMessage(body []byte) string {
	var envelope struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > 256 {
		msg = msg[:256] + "... (truncated)"
	}
	return msg
}
