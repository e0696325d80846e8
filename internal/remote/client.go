// Package remote talks to the collaborating HTTP backend: it forwards JSON
// imports and relays chat questions.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	userAgent      = "github.com/theirongolddev/cxdash/1.0"
)

var (
	// ErrNotConfigured indicates the endpoint URL for a call is empty.
	ErrNotConfigured = errors.New("remote: endpoint not configured")
	// ErrUnexpectedStatus indicates a non-2xx response.
	ErrUnexpectedStatus = errors.New("remote: unexpected status")
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	ImportURL string
	ChatURL   string
	Timeout   time.Duration
	HTTP      *http.Client
}

// Client posts to the import and chat endpoints. Every call is bounded by
// the configured timeout on top of the caller's context.
type Client struct {
	importURL string
	chatURL   string
	timeout   time.Duration
	http      *http.Client
}

// NewClient creates a client from opts.
func NewClient(opts Options) *Client {
	c := &Client{
		importURL: opts.ImportURL,
		chatURL:   opts.ChatURL,
		timeout:   opts.Timeout,
		http:      opts.HTTP,
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c
}

// CanForward reports whether an import URL is configured.
func (c *Client) CanForward() bool { return c.importURL != "" }

// ForwardProjects posts an imported JSON array verbatim. The response body
// is drained and ignored.
func (c *Client) ForwardProjects(ctx context.Context, raw json.RawMessage) error {
	if c.importURL == "" {
		return ErrNotConfigured
	}
	_, err := c.post(ctx, c.importURL, raw)
	return err
}

// Ask sends question to the chat endpoint and returns the answer text.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	if c.chatURL == "" {
		return "", ErrNotConfigured
	}
	payload, err := json.Marshal(ChatRequest{Question: question})
	if err != nil {
		return "", fmt.Errorf("remote: encoding question: %w", err)
	}
	body, err := c.post(ctx, c.chatURL, payload)
	if err != nil {
		return "", err
	}
	var resp ChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("remote: parsing chat reply: %w", err)
	}
	return resp.Answer, nil
}

// post sends a JSON body and returns the response body.
func (c *Client) post(ctx context.Context, url string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("remote: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	//nolint:gosec // URL comes from user configuration
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("remote: reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return body, nil
}
