// ABOUTME: HTTP client for the CRM REST backend
// ABOUTME: Sends JSON requests, unwraps the {success, data, error, pagination} envelope
package api

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

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/harperreed/rolodex/logging"
	"github.com/harperreed/rolodex/models"
)

const (
	// DefaultTimeout is the per-request ceiling when none is configured.
	DefaultTimeout = 10 * time.Second

	apiPrefix       = "/api"
	maxResponseSize = 4 << 20

	// RequestIDHeader carries a per-request ULID for correlating logs.
	RequestIDHeader = "X-Request-ID"
)

// Client talks to the backend. It never retries; callers decide.
type Client struct {
	baseURL string
	http    *http.Client
	log     *log.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request ceiling.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.log = logging.OrDiscard(l)
	}
}

// NewClient creates a client for the backend at baseURL (e.g. http://localhost:3001).
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend origin the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type envelope struct {
	Success    bool               `json:"success"`
	Data       json.RawMessage    `json:"data"`
	Error      *Error             `json:"error,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

func (c *Client) endpoint(path string, params url.Values) string {
	u := c.baseURL + apiPrefix + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// do performs one request and returns the decoded envelope of a successful
// response. Every failure comes back as *Error.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, params), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	requestID := ulid.Make().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "request_id", requestID, "err", err)
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, networkError(err)
	}

	c.log.Debug("request", "method", method, "path", path, "status", resp.StatusCode,
		"duration", time.Since(start).Round(time.Millisecond), "request_id", requestID)

	if len(bytes.TrimSpace(payload)) == 0 {
		if resp.StatusCode < 400 {
			return &envelope{Success: true}, nil
		}
		return nil, serverError(resp.StatusCode, nil)
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		if resp.StatusCode >= 400 {
			return nil, serverError(resp.StatusCode, nil)
		}
		return nil, invalidResponse(resp.StatusCode, fmt.Sprintf("expected JSON envelope: %v", err))
	}

	if !env.Success || resp.StatusCode >= 400 {
		return nil, serverError(resp.StatusCode, env.Error)
	}
	return &env, nil
}

// get fetches path and decodes the envelope data into T.
func get[T any](ctx context.Context, c *Client, path string, params url.Values) (T, *models.Pagination, error) {
	var out T
	env, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return out, nil, err
	}
	if err := decodeData(env, &out); err != nil {
		return out, nil, err
	}
	return out, env.Pagination, nil
}

// send issues a write and decodes the envelope data into T.
func send[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var out T
	env, err := c.do(ctx, method, path, nil, body)
	if err != nil {
		return out, err
	}
	if err := decodeData(env, &out); err != nil {
		return out, err
	}
	return out, nil
}

func decodeData(env *envelope, out any) error {
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return invalidResponse(http.StatusOK, fmt.Sprintf("unexpected data shape: %v", err))
	}
	return nil
}

func escape(id string) string {
	return url.PathEscape(id)
}
