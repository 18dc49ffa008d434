package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/linea-it/pzserver-desktop/internal/logging"
)

// Timeouts. Most calls carry no client-side timeout and rely on the
// transport; sign-in and file transfers are the exceptions.
const (
	SignInTimeout   = 5 * time.Second
	TransferTimeout = 120 * time.Second
)

// Credential is the bearer token attached to outgoing requests
type Credential struct {
	Token string
}

// CredentialProvider yields the current credential, if one exists. It is
// consulted on every request so a token issued after the client was built is
// picked up without mutating the client.
type CredentialProvider func() (Credential, bool)

// Client is the configured gateway to the backend
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialProvider
	log     zerolog.Logger
}

// New creates a gateway client for the given base URL
func New(baseURL string, creds CredentialProvider) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		creds:   creds,
		log:     logging.Logger().With().Str("component", "api").Logger(),
	}
}

// BaseURL returns the configured backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetBaseURL points the client at another backend. Requests already in
// flight keep the URL they were built with.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// newRequest builds a request with default headers, a request id, and the
// bearer token when a credential is available
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if id, err := uuid.NewV7(); err == nil {
		req.Header.Set("X-Request-ID", id.String())
	}

	if c.creds != nil {
		if cred, ok := c.creds(); ok && cred.Token != "" {
			req.Header.Set("Authorization", "Bearer "+cred.Token)
		}
	}

	return req, nil
}

// do executes the request, maps non-2xx responses to *APIError, and decodes
// a JSON body into out when out is non-nil
func (c *Client) do(req *http.Request, out any, timeout time.Duration) error {
	body, _, err := c.doRaw(req, timeout)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// doRaw executes the request and returns the raw body and headers
func (c *Client) doRaw(req *http.Request, timeout time.Duration) ([]byte, http.Header, error) {
	if timeout > 0 {
		ctx, cancel := context.WithTimeout(req.Context(), timeout)
		defer cancel()
		req = req.WithContext(ctx)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", req.Method).Str("path", req.URL.Path).Msg("request failed")
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}

	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, nil, parseAPIError(resp.StatusCode, body)
	}

	return body, resp.Header, nil
}
