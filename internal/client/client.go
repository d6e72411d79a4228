// Package client calls the mock embedding service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"embedding-mock/internal/embedapi"
	"embedding-mock/internal/embeddings"
	"embedding-mock/internal/retry"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultRetries   = 2
	defaultBackoff   = 200 * time.Millisecond
	defaultDimension = 1024
	maxErrorBody     = 4096
)

var (
	// ErrBlankText is returned before any call when the text is empty or whitespace.
	ErrBlankText = errors.New("text for embedding must not be blank")
	// ErrMissingEmbedding is returned when a 2xx response has no embedding field.
	ErrMissingEmbedding = errors.New("embedding response missing 'embedding' field")
)

// Request is the body sent to POST /embed.
type Request = embedapi.Request

// StatusError is a non-2xx response without a decodable validation payload.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("embedding service returned %d: %s", e.StatusCode, e.Body)
}

// ValidationError is a 422 response with the rejected fields.
type ValidationError struct {
	Detail []embedapi.FieldError
}

func (e *ValidationError) Error() string {
	fields := make([]string, len(e.Detail))
	for i, d := range e.Detail {
		fields[i] = fmt.Sprintf("%s (%s)", strings.Join(d.Loc, "."), d.Type)
	}
	return "embedding request rejected: " + strings.Join(fields, ", ")
}

// Client talks to one embedding service instance.
type Client struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
	retries  int
	backoff  time.Duration
	dim      int
	log      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetries sets how many times a failed attempt is retried and the base backoff.
func WithRetries(n int, base time.Duration) Option {
	return func(c *Client) {
		c.retries = n
		c.backoff = base
	}
}

// WithDimension sets the expected vector length.
func WithDimension(n int) Option {
	return func(c *Client) { c.dim = n }
}

// WithLogger sets the logger used for retries and dimension warnings.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		endpoint: strings.TrimRight(baseURL, "/") + "/embed",
		http:     http.DefaultClient,
		timeout:  defaultTimeout,
		retries:  defaultRetries,
		backoff:  defaultBackoff,
		dim:      defaultDimension,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retries < 0 {
		c.retries = 0
	}
	return c, nil
}

// Embed requests a vector for req.Text. Transport errors and 5xx responses are
// retried with exponential backoff; 4xx responses are not.
func (c *Client) Embed(ctx context.Context, req Request) (embeddings.Vector, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrBlankText
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			delay := retry.ExponentialBackoff(attempt-1, c.backoff)
			c.log.Warn("retrying embedding request", "attempt", attempt, "delay", delay, "err", lastErr)
			if err := retry.Wait(ctx, delay); err != nil {
				return nil, err
			}
		}
		vec, err := c.do(ctx, body)
		if err == nil {
			if len(vec) != c.dim {
				c.log.Warn("embedding dimension mismatch", "expected", c.dim, "got", len(vec))
			}
			return vec, nil
		}
		if !retryable(err) || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("embedding failed after %d attempts: %w", c.retries+1, lastErr)
}

func (c *Client) do(ctx context.Context, body []byte) (embeddings.Vector, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call embedding service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if resp.StatusCode == http.StatusUnprocessableEntity {
			var payload embedapi.ValidationResponse
			if err := json.Unmarshal(msg, &payload); err == nil {
				return nil, &ValidationError{Detail: payload.Detail}
			}
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var payload struct {
		Embedding *embeddings.Vector `json:"embedding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if payload.Embedding == nil {
		return nil, ErrMissingEmbedding
	}
	return *payload.Embedding, nil
}

// retryable reports whether err came from transport or a 5xx response.
func retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) || errors.Is(err, ErrMissingEmbedding) {
		return false
	}
	return true
}
