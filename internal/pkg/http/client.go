package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/piresc/ordertrack/internal/pkg/circuitbreaker"
	nrpkg "github.com/piresc/ordertrack/internal/pkg/newrelic"
)

// DefaultTimeout for HTTP requests
const DefaultTimeout = 10 * time.Second

// Config configures a Client
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Breaker is optional; 5xx responses and transport errors count as failures
	Breaker *circuitbreaker.CircuitBreaker
}

// Client is a JSON HTTP client for collaborator services
type Client struct {
	baseURL    string
	httpClient *nethttp.Client
	breaker    *circuitbreaker.CircuitBreaker
}

// NewClient creates a new HTTP client
func NewClient(config Config) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &nethttp.Client{Timeout: timeout},
		breaker:    config.Breaker,
	}
}

// HTTPError is returned for non-2xx responses
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

// IsServerError reports whether err is a 5xx HTTPError
func IsServerError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode >= nethttp.StatusInternalServerError
}

// GetJSON issues GET baseURL+path?query and decodes the JSON body into out
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, headers map[string]string, out interface{}) error {
	if c.breaker == nil {
		return c.getJSON(ctx, path, query, headers, out)
	}

	var clientErr error
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		err := c.getJSON(ctx, path, query, headers, out)
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode < nethttp.StatusInternalServerError {
			// 4xx is the caller's problem, not the collaborator's
			clientErr = err
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}
	return clientErr
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, headers map[string]string, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := nrpkg.InstrumentHTTPRequest(ctx, req, func() (*nethttp.Response, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
