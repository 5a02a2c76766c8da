// Package rest implements core.Store over the articles HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/folio/pkg/core"
)

// Config holds the configuration for the REST client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration // zero means no deadline
	Logger     *slog.Logger
}

// Client implements core.Store against a remote articles endpoint.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *slog.Logger
}

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.Code, e.Body)
}

// NewClient creates a client for the API rooted at cfg.BaseURL.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{base: base, http: hc, logger: logger}, nil
}

// List implements core.Store (GET /articles).
func (c *Client) List(ctx context.Context) ([]core.Metadata, error) {
	body, err := c.do(ctx, http.MethodGet, c.base.JoinPath("articles"), nil)
	if err != nil {
		return nil, err
	}

	var rows []core.Metadata
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("malformed article list: %w", err)
	}
	return rows, nil
}

// Create implements core.Store (POST /articles).
func (c *Client) Create(ctx context.Context, fields core.Metadata) (core.Ack, error) {
	return c.write(ctx, http.MethodPost, c.base.JoinPath("articles"), fields)
}

// Update implements core.Store (PUT /articles/{id}).
func (c *Client) Update(ctx context.Context, id string, fields core.Metadata) (core.Ack, error) {
	ack, err := c.write(ctx, http.MethodPut, c.base.JoinPath("articles", id), fields)
	if err != nil {
		return core.Ack{}, err
	}
	if ack.ID == "" {
		ack.ID = id
	}
	return ack, nil
}

// Delete implements core.Store (DELETE /articles/{id}).
func (c *Client) Delete(ctx context.Context, id string) (core.Ack, error) {
	ack, err := c.write(ctx, http.MethodDelete, c.base.JoinPath("articles", id), nil)
	if err != nil {
		return core.Ack{}, err
	}
	if ack.ID == "" {
		ack.ID = id
	}
	return ack, nil
}

// Truncate implements core.Store (DELETE /articles).
func (c *Client) Truncate(ctx context.Context) (core.Ack, error) {
	return c.write(ctx, http.MethodDelete, c.base.JoinPath("articles"), nil)
}

func (c *Client) write(ctx context.Context, method string, u *url.URL, fields core.Metadata) (core.Ack, error) {
	var payload []byte
	if fields != nil {
		data, err := json.Marshal(fields)
		if err != nil {
			return core.Ack{}, fmt.Errorf("encode article: %w", err)
		}
		payload = data
	}

	body, err := c.do(ctx, method, u, payload)
	if err != nil {
		return core.Ack{}, err
	}
	return parseAck(body), nil
}

// parseAck accepts a JSON acknowledgement or a plain text one.
func parseAck(body []byte) core.Ack {
	var raw struct {
		ID      json.RawMessage `json:"article_id"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		var text string
		if json.Unmarshal(body, &text) == nil {
			return core.Ack{Message: text}
		}
		return core.Ack{Message: strings.TrimSpace(string(body))}
	}

	ack := core.Ack{Message: raw.Message}
	if len(raw.ID) > 0 {
		var s string
		if json.Unmarshal(raw.ID, &s) == nil {
			ack.ID = s
		} else {
			var n json.Number
			if json.Unmarshal(raw.ID, &n) == nil {
				ack.ID = n.String()
			}
		}
	}
	return ack
}

func (c *Client) do(ctx context.Context, method string, u *url.URL, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, u.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, u.Path, err)
	}
	c.logger.Debug("request done", "method", method, "url", u.String(), "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := &StatusError{Method: method, URL: u.Path, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		if resp.StatusCode == http.StatusNotFound && method != http.MethodGet {
			return nil, fmt.Errorf("%w: %w", core.ErrNotFound, err)
		}
		return nil, err
	}
	return body, nil
}

// ClientState exposes internal state for observability.
type ClientState struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	return ClientState{BaseURL: c.base.String(), Timeout: c.http.Timeout}
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "rest"
}

var _ core.Store = (*Client)(nil)
var _ introspection.Introspectable = (*Client)(nil)
var _ introspection.Component = (*Client)(nil)
