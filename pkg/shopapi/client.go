package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// maxResponseSize is the maximum allowed response body size (10MB)
const maxResponseSize = 10 * 1024 * 1024

// TokenSource supplies the current access token; an empty string means the
// request goes out without an Authorization header.
type TokenSource interface {
	Token() string
}

// Config holds shop API configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource
	// OnUnauthorized runs after an authenticated request is rejected with
	// 401/403. The console wires it to the session store's Clear.
	OnUnauthorized func()
	Debug          bool
}

// Client is the shop REST API client. It attaches the bearer token, speaks
// JSON and normalizes every failure into *APIError.
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a new shop API client.
func NewClient(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Request performs an authenticated call. body may be nil; result may be nil
// when the response is not needed.
func (c *Client) Request(ctx context.Context, method, path string, body, result any) error {
	return c.doRequest(ctx, method, path, body, result, true)
}

// doRequest performs the HTTP call and decodes the JSON response into result.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any, authenticated bool) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	url := c.config.BaseURL + path

	// Debug logging for development
	if c.config.Debug {
		ev := log.Debug().Str("method", method).Str("endpoint", url)
		if payload != nil {
			ev = ev.RawJSON("request", sanitizeForLog(payload))
		}
		ev.Msg("[SHOPAPI] Outgoing request")
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated && c.config.Tokens != nil {
		if token := c.config.Tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("request aborted: %w", ctx.Err())
		}
		return networkError(err)
	}
	defer resp.Body.Close()

	// Limit response body size to prevent OOM
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return networkError(fmt.Errorf("failed to read response: %w", err))
	}

	if c.config.Debug {
		ev := log.Debug().Str("endpoint", path).Int("status_code", resp.StatusCode)
		if json.Valid(respBody) {
			ev = ev.RawJSON("response", sanitizeForLog(respBody))
		}
		ev.Msg("[SHOPAPI] Incoming response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := statusError(resp.StatusCode, respBody)
		if apiErr.Kind == KindUnauthorized && authenticated && c.config.OnUnauthorized != nil {
			log.Warn().Str("endpoint", path).Int("status_code", resp.StatusCode).Msg("shop API rejected session")
			c.config.OnUnauthorized()
		}
		return apiErr
	}

	if result == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return &APIError{
			Kind:    KindServer,
			Status:  resp.StatusCode,
			Message: "unreadable response from shop API",
			Err:     fmt.Errorf("failed to decode response: %w", err),
		}
	}
	return nil
}

// sanitizeForLog masks credentials in a JSON payload before it is logged.
func sanitizeForLog(data []byte) []byte {
	var obj any
	if err := json.Unmarshal(data, &obj); err != nil {
		return []byte(`{"_error": "failed to parse for sanitization"}`)
	}
	sanitizeValue(obj)
	sanitized, err := json.Marshal(obj)
	if err != nil {
		return []byte(`{"_error": "failed to marshal sanitized data"}`)
	}
	return sanitized
}

var sensitiveFields = []string{"password", "token", "access", "refresh", "secret"}

func sanitizeValue(v any) {
	switch t := v.(type) {
	case map[string]any:
		for key, value := range t {
			keyLower := strings.ToLower(key)
			masked := false
			for _, s := range sensitiveFields {
				if strings.Contains(keyLower, s) {
					t[key] = "***MASKED***"
					masked = true
					break
				}
			}
			if !masked {
				sanitizeValue(value)
			}
		}
	case []any:
		for _, item := range t {
			sanitizeValue(item)
		}
	}
}
