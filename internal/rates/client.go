// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rates provides the HTTP client for a Frankfurter-compatible
// exchange rate service.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/jeranaias/fxrun/internal/currency"
)

// maxBodyBytes caps every response body.
const maxBodyBytes = 1 << 20

//go:generate go run go.uber.org/mock/mockgen -destination ratesmock/mock_source.go -package ratesmock . Source

// Source is what the converter needs from a rate service.
type Source interface {
	// Currencies returns every supported code mapped to its display name.
	Currencies(ctx context.Context) (map[string]string, error)

	// Latest returns the service's value for converting amount of from into
	// to. Depending on the service this is the total or the unit rate.
	Latest(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

// =============================================================================
// ERROR TYPES
// =============================================================================

var (
	// ErrListUnavailable wraps every Currencies failure.
	ErrListUnavailable = errors.New("currencies unavailable")

	// ErrConversionFailed wraps every Latest failure.
	ErrConversionFailed = errors.New("conversion failed")
)

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeTransport
	ErrTypeTimeout
	ErrTypeStatus
	ErrTypeDecode
	ErrTypeMissingRate
	ErrTypeEmptyList
	ErrTypeInvalidRequest
)

func (t ErrorType) String() string {
	switch t {
	case ErrTypeTransport:
		return "transport"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeStatus:
		return "status"
	case ErrTypeDecode:
		return "decode"
	case ErrTypeMissingRate:
		return "missing_rate"
	case ErrTypeEmptyList:
		return "empty_list"
	case ErrTypeInvalidRequest:
		return "invalid_request"
	}
	return "unknown"
}

// ClientError represents an error from the rate client.
// errors.Is matches it against ErrListUnavailable or ErrConversionFailed
// depending on which call failed.
type ClientError struct {
	Kind      error
	Type      ErrorType
	Message   string
	Status    int
	RequestID string
	Cause     error
}

func (e *ClientError) Error() string {
	msg := e.Kind.Error() + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for the failed call.
func (e *ClientError) Is(target error) bool {
	return target == e.Kind
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the rate client.
type ClientConfig struct {
	// BaseURL is the service root (default: https://api.frankfurter.app)
	BaseURL string

	// Timeout bounds each request (default: 10s)
	Timeout time.Duration

	// RateLimit is requests per second allowed by the client (default: 5)
	RateLimit float64

	// Burst is the limiter bucket size (default: 5)
	Burst int

	// UserAgent is sent with every request
	UserAgent string

	Logger *slog.Logger
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   "https://api.frankfurter.app",
		Timeout:   10 * time.Second,
		RateLimit: 5,
		Burst:     5,
		UserAgent: "fxrun",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the rate service. Safe for concurrent use.
//
// Example:
//
//	client := rates.NewClient()
//	names, err := client.Currencies(ctx)
//	total, err := client.Latest(ctx, decimal.NewFromInt(100), "USD", "EUR")
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

var _ Source = (*Client)(nil)

// NewClient creates a client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client, filling zero values with defaults.
func NewClientWithConfig(config *ClientConfig) *Client {
	defaults := DefaultConfig()
	if config == nil {
		config = defaults
	}
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.RateLimit <= 0 {
		config.RateLimit = defaults.RateLimit
	}
	if config.Burst <= 0 {
		config.Burst = defaults.Burst
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(config.RateLimit), config.Burst),
		logger:     logger,
	}
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Currencies implements Source.
func (c *Client) Currencies(ctx context.Context) (map[string]string, error) {
	var raw map[string]string
	if err := c.get(ctx, ErrListUnavailable, "/currencies", nil, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, &ClientError{Kind: ErrListUnavailable, Type: ErrTypeEmptyList, Message: "service returned no currencies"}
	}

	names := make(map[string]string, len(raw))
	for code, name := range raw {
		if code = currency.Normalize(code); code != "" {
			names[code] = name
		}
	}
	return names, nil
}

type latestResponse struct {
	Amount decimal.Decimal            `json:"amount"`
	Base   string                     `json:"base"`
	Date   string                     `json:"date"`
	Rates  map[string]decimal.Decimal `json:"rates"`
}

// Latest implements Source.
func (c *Client) Latest(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from, to = currency.Normalize(from), currency.Normalize(to)
	req := currency.Request{Amount: amount, From: from, To: to}
	if err := req.Validate(); err != nil {
		return decimal.Zero, &ClientError{Kind: ErrConversionFailed, Type: ErrTypeInvalidRequest, Message: "invalid request", Cause: err}
	}

	q := url.Values{}
	q.Set("amount", amount.String())
	q.Set("from", from)
	q.Set("to", to)

	var resp latestResponse
	if err := c.get(ctx, ErrConversionFailed, "/latest", q, &resp); err != nil {
		return decimal.Zero, err
	}
	value, ok := resp.Rates[to]
	if !ok {
		return decimal.Zero, &ClientError{Kind: ErrConversionFailed, Type: ErrTypeMissingRate, Message: fmt.Sprintf("no rate for %s in response", to)}
	}
	return value, nil
}

// get performs one rate-limited GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, kind error, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &ClientError{Kind: kind, Type: classify(err), Message: "rate limiter", Cause: err}
	}

	endpoint := c.config.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &ClientError{Kind: kind, Type: ErrTypeInvalidRequest, Message: "failed to create request", Cause: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("RATES_REQUEST_FAILED", "request_id", requestID, "path", path, "error", err)
		return &ClientError{Kind: kind, Type: classify(err), Message: "request failed", RequestID: requestID, Cause: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("RATES_REQUEST",
		"request_id", requestID,
		"path", path,
		"query", query.Encode(),
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	body := io.LimitReader(resp.Body, maxBodyBytes)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(body, 512))
		return &ClientError{
			Kind:      kind,
			Type:      ErrTypeStatus,
			Message:   fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
			Status:    resp.StatusCode,
			RequestID: requestID,
		}
	}

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return &ClientError{Kind: kind, Type: ErrTypeDecode, Message: "failed to decode response", Status: resp.StatusCode, RequestID: requestID, Cause: err}
	}
	return nil
}

// classify maps a transport error onto an ErrorType.
func classify(err error) ErrorType {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTypeTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTypeTimeout
	}
	return ErrTypeTransport
}
