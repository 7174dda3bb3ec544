package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frankint/battleship-cli/internal/model"
)

// Credentials is the Basic authorization pair attached to every protected
// request. Token is the pre-encoded base64(username:password) handle; the
// raw password is never retained.
type Credentials struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Header returns the Authorization header value for the credential
func (c Credentials) Header() string {
	return "Basic " + c.Token
}

// Client is an HTTP client for the battleship server API
type Client struct {
	baseURL    string
	creds      *Credentials
	httpClient *http.Client
	logger     *slog.Logger

	// onAuthFailure is invoked whenever any protected request comes back
	// unauthenticated, so the session can be reset no matter which
	// component issued the call.
	onAuthFailure func()
}

// NewClient creates a new API client
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetCredentials updates the credential attached to protected requests.
// Pass nil to clear.
func (c *Client) SetCredentials(creds *Credentials) {
	c.creds = creds
}

// Credentials returns the currently attached credential, or nil
func (c *Client) Credentials() *Credentials {
	return c.creds
}

// OnAuthFailure registers the hook run when a request is rejected as
// unauthenticated
func (c *Client) OnAuthFailure(fn func()) {
	c.onAuthFailure = fn
}

// Do performs an HTTP request and decodes a JSON response into result.
// A non-2xx status yields an error; 401/403 map to
// model.ErrUnauthenticated and trigger the auth-failure hook.
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	respBody, err := c.DoRaw(ctx, method, path, body)
	if err != nil {
		return err
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// DoRaw performs an HTTP request and returns the raw response body. Some
// endpoints answer with plain text rather than JSON.
func (c *Client) DoRaw(ctx context.Context, method, path string, body any) ([]byte, error) {
	url := c.baseURL + path
	requestID := uuid.NewString()

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	if c.creds != nil {
		req.Header.Set("Authorization", c.creds.Header())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.logger.Warn("request rejected as unauthenticated",
			slog.String("request_id", requestID),
			slog.String("method", method),
			slog.String("path", path),
		)
		if c.onAuthFailure != nil {
			c.onAuthFailure()
		}
		return nil, model.ErrUnauthenticated
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn("request failed",
			slog.String("request_id", requestID),
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)
		return nil, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	return respBody, nil
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.Do(ctx, http.MethodGet, path, nil, result)
}

// Post performs a POST request
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPost, path, body, result)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// StatusError is a non-2xx response that is not an auth rejection. Body
// holds the raw response text, which the server uses for human-readable
// detail on some endpoints.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}
