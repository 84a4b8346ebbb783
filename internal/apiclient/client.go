// Package apiclient is the HTTP client for the registration API's creation
// endpoints. It is the transport behind the via-endpoint migration path,
// where every write goes through the public API instead of straight to the
// store.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tngss/attendee-sync/internal/domain"
	"github.com/tngss/attendee-sync/internal/pkg/httpretry"
)

// Result classifies a creation attempt.
type Result string

const (
	ResultCreated  Result = "created"
	ResultConflict Result = "conflict" // pass already exists; a resume hit
)

// Client talks to the registration API.
type Client struct {
	baseURL string
	token   string
	http    httpretry.HTTPDoer
}

// New builds a client with the standard retry policy and request timeout.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = httpretry.DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpretry.NewRetryClient(&http.Client{Timeout: timeout}, 3),
	}
}

// NewWithDoer is for tests that need to substitute the transport.
func NewWithDoer(baseURL, token string, doer httpretry.HTTPDoer) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), token: token, http: doer}
}

// CreatePass posts one attendee to /attendee-passes/create. A 409 is a
// successful outcome for migration purposes: the pass is already there.
func (c *Client) CreatePass(ctx context.Context, a *domain.Attendee) (Result, error) {
	body, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("marshaling attendee %s: %w", a.PassID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/attendee-passes/create", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("posting pass %s: %w", a.PassID, err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusCreated:
		return ResultCreated, nil
	case http.StatusConflict:
		return ResultConflict, nil
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("pass %s rejected with status %d: %s",
			a.PassID, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
}

// Health probes the API's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}
