// Package hcaptcha is a client for the hCaptcha siteverify endpoint, the
// human-verification collaborator behind the pipeline's challenge stage.
package hcaptcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/formworks/formgate/internal/core/ports"
)

const defaultBaseURL = "https://api.hcaptcha.com"

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom base URL for the verification API.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client implements ports.ChallengeVerifier against the hCaptcha API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a verification client. The default transport refuses
// connections to private address space.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Transport: safeTransport,
			Timeout:   10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Verify posts the secret and caller token to siteverify and decodes the
// verdict. A non-2xx response is an error, not a failed challenge.
func (c *Client) Verify(ctx context.Context, secret, token string) (*ports.ChallengeResult, error) {
	form := url.Values{
		"secret":   {secret},
		"response": {token},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/siteverify", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("siteverify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("siteverify returned status %d", resp.StatusCode)
	}

	var result ports.ChallengeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode siteverify response: %w", err)
	}

	return &result, nil
}

var _ ports.ChallengeVerifier = (*Client)(nil)
