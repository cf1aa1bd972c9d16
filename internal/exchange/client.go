package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Rorical/BooklyDesk/internal/logging"
	"github.com/Rorical/BooklyDesk/internal/models"
)

const (
	DefaultEndpoint  = "http://localhost:8000/chat"
	DefaultSessionID = "web-session"

	maxErrorBody = 512
)

// Client talks to the support assistant service over HTTP. It makes exactly one
// attempt per exchange and imposes no timeout of its own.
type Client struct {
	endpoint   string
	sessionID  string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(endpoint, sessionID string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	c := &Client{
		endpoint:   endpoint,
		sessionID:  sessionID,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Endpoint() string  { return c.endpoint }
func (c *Client) SessionID() string { return c.sessionID }

// Exchange sends the transcript and maps the reply into an assistant turn.
func (c *Client) Exchange(ctx context.Context, turns []models.Turn) (models.Turn, error) {
	payload, err := json.Marshal(BuildRequest(c.sessionID, turns))
	if err != nil {
		return models.Turn{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return models.Turn{}, &TransportError{Endpoint: c.endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Turn{}, &TransportError{Endpoint: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Turn{}, &TransportError{Endpoint: c.endpoint, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.Turn{}, &StatusError{
			Endpoint:   c.endpoint,
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(body)), maxErrorBody),
		}
	}

	turn, err := ParseResponse(body)
	if err != nil {
		return models.Turn{}, err
	}
	if turn.Action == models.ActionCallTool && turn.ToolName == "" {
		logging.Warn("call_tool reply without tool_name", "endpoint", c.endpoint)
	}
	return turn, nil
}

// HealthURL is the service's health probe next to the chat endpoint.
func (c *Client) HealthURL() (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", err
	}
	u.Path = "/health"
	u.RawQuery = ""
	return u.String(), nil
}

// Ping checks that the service answers its health probe.
func (c *Client) Ping(ctx context.Context) error {
	healthURL, err := c.HealthURL()
	if err != nil {
		return &TransportError{Endpoint: c.endpoint, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return &TransportError{Endpoint: healthURL, Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Endpoint: healthURL, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Endpoint: healthURL, StatusCode: resp.StatusCode}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
