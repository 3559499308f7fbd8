// Package client talks to the remote registration service: the customer
// lookup used to prefill the form and the register endpoint that receives
// completed submissions.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"regform/internal/logging"
	"regform/internal/registration"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidPhone is returned by Lookup for an empty phone number.
var ErrInvalidPhone = errors.New("client: phone number is empty")

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Op         string // "lookup" or "register"
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Op, e.StatusCode, e.Body)
}

// maxErrorBody caps how much of an error response is kept in StatusError.
const maxErrorBody = 512

// Options configures a Client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// HTTPClient replaces the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client is safe for concurrent use. The base URL may be swapped at runtime
// after a config reload.
type Client struct {
	mu        sync.RWMutex
	baseURL   string
	userAgent string
	http      *http.Client
	log       *zap.Logger
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: opts.UserAgent,
		http:      hc,
		log:       logging.Get(logging.CategoryLookup),
	}
}

// BaseURL returns the current service root.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL points subsequent requests at a new service root.
func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	c.baseURL = strings.TrimRight(baseURL, "/")
	c.mu.Unlock()
}

// RegisterEndpoint is the URL Register posts to.
func (c *Client) RegisterEndpoint() string {
	return c.BaseURL() + "/register"
}

// Lookup fetches the customer record stored for phone. Any JSON object is
// accepted; the caller decides which keys it understands.
func (c *Client) Lookup(ctx context.Context, phone string) (registration.Record, error) {
	if phone == "" {
		return nil, ErrInvalidPhone
	}
	endpoint := c.BaseURL() + "/customer/" + url.PathEscape(phone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	c.setUserAgent(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug("Lookup response",
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError("lookup", resp)
	}

	var rec registration.Record
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode lookup response: %w", err)
	}
	if rec == nil {
		// A JSON null decodes without error.
		return nil, fmt.Errorf("failed to decode lookup response: not an object")
	}
	return rec, nil
}

// Register posts payload to the register endpoint with requestID in the
// X-Request-ID header; an empty requestID gets a fresh one. A non-2xx
// answer is a *StatusError.
func (c *Client) Register(ctx context.Context, requestID string, payload registration.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal registration: %w", err)
	}

	if requestID == "" {
		requestID = uuid.NewString()
	}
	endpoint := c.RegisterEndpoint()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create register request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	c.setUserAgent(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("register request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError("register", resp)
	}
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) setUserAgent(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}

func statusError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(b)),
	}
}
