// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

/*
client.go - Data API worker client

Client Features:
  - POST JSON with x-api-key authentication
  - Client-side rate limiting (golang.org/x/time/rate)
  - Circuit breaker protection (sony/gobreaker)
  - HTTP 429 handling with exponential backoff and Retry-After
  - Envelope decoding where "data" may itself be a JSON-encoded string
*/

//nolint:staticcheck // File documentation, not package doc
package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/dcsdash/internal/config"
	"github.com/tomtom215/dcsdash/internal/logging"
	"github.com/tomtom215/dcsdash/internal/metrics"
	"github.com/tomtom215/dcsdash/internal/models"
)

// ErrUnavailable wraps every failure to obtain a usable upstream response.
var ErrUnavailable = errors.New("data API unavailable")

const (
	metaPath   = "/meta"
	hourlyPath = "/dcs-hourly"

	// maxErrorBodySize limits how much of an error body is read for diagnostics
	maxErrorBodySize = 64 * 1024
)

// envelope is the worker response shape. Data is either a JSON array or a
// string holding one.
type envelope struct {
	Success *bool           `json:"success,omitempty"`
	Msg     string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

// MetaResult is the decoded /meta response.
type MetaResult struct {
	Message string
	Tags    []models.Tag
}

// HourlyResult is the decoded /dcs-hourly response.
type HourlyResult struct {
	Message string
	Rows    []models.Row
}

// hourlyPayload omits tag_names when empty so the worker returns all tags.
type hourlyPayload struct {
	ExecFromDT string   `json:"exec_from_dt"`
	ExecToDT   string   `json:"exec_to_dt"`
	TagNames   []string `json:"tag_names,omitempty"`
}

// Client talks to the data API worker.
//
// Thread Safety: All methods are safe for concurrent use.
type Client struct {
	baseURL        string
	apiKey         string
	client         *http.Client
	limiter        *rate.Limiter
	breaker        *breaker
	maxRetries     int
	retryBaseDelay time.Duration
}

// New creates a client from configuration.
func New(cfg *config.DataAPIConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.URL, "/"),
		apiKey:         cfg.APIKey,
		client:         &http.Client{Timeout: timeout},
		limiter:        rate.NewLimiter(limit, burst),
		breaker:        newBreaker("data-api"),
		maxRetries:     3,
		retryBaseDelay: time.Second,
	}
}

// Meta fetches the tag metadata list.
func (c *Client) Meta(ctx context.Context) (*MetaResult, error) {
	env, err := c.call(ctx, "meta", metaPath, struct{}{})
	if err != nil {
		return nil, err
	}
	var tags []models.Tag
	if err := decodeData(env.Data, &tags); err != nil {
		return nil, fmt.Errorf("%w: decode meta: %v", ErrUnavailable, err)
	}
	return &MetaResult{Message: messageOrOK(env.Msg), Tags: tags}, nil
}

// Hourly fetches wide hourly rows for a date range.
func (c *Client) Hourly(ctx context.Context, req models.DataRequest) (*HourlyResult, error) {
	payload := hourlyPayload{ExecFromDT: req.ExecFromDT, ExecToDT: req.ExecToDT}
	if len(req.TagNames) > 0 {
		payload.TagNames = req.TagNames
	}

	env, err := c.call(ctx, "hourly", hourlyPath, payload)
	if err != nil {
		return nil, err
	}
	var rows []models.Row
	if err := decodeData(env.Data, &rows); err != nil {
		return nil, fmt.Errorf("%w: decode hourly: %v", ErrUnavailable, err)
	}
	return &HourlyResult{Message: messageOrOK(env.Msg), Rows: rows}, nil
}

// FetchRows returns only the rows of Hourly.
func (c *Client) FetchRows(ctx context.Context, req models.DataRequest) ([]models.Row, error) {
	res, err := c.Hourly(ctx, req)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// call runs one upstream operation through the breaker and records metrics.
func (c *Client) call(ctx context.Context, op, path string, body any) (*envelope, error) {
	start := time.Now()
	env, err := execute(c.breaker, func() (*envelope, error) {
		return c.post(ctx, path, body)
	})

	outcome := "success"
	switch {
	case err == nil:
	case isRejected(err):
		outcome = "rejected"
	default:
		outcome = "error"
	}
	metrics.RecordUpstreamRequest(op, outcome, time.Since(start))

	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("operation", op).Dur("duration", time.Since(start)).Msg("data API request failed")
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	return env, nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	resp, err := c.doRequestWithRateLimit(ctx, c.baseURL+path, payload)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(readBodyForError(resp.Body))))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Success != nil && !*env.Success {
		return nil, fmt.Errorf("worker reported failure: %s", env.Msg)
	}
	return &env, nil
}

// doRequestWithRateLimit waits on the local limiter, then posts. HTTP 429
// responses are retried with exponential backoff, honoring Retry-After.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string, payload []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// decodeData decodes an envelope data field that may be a JSON value or a
// string containing JSON. Null and missing data decode to the zero value.
func decodeData(raw json.RawMessage, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return err
		}
		inner = strings.TrimSpace(inner)
		if inner == "" || inner == "null" {
			return nil
		}
		raw = json.RawMessage(inner)
	}
	return json.Unmarshal(raw, out)
}

func messageOrOK(msg string) string {
	if msg == "" {
		return "ok"
	}
	return msg
}

func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	return body
}

// BreakerState reports the circuit breaker state: closed, half-open or open.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}
