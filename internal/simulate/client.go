// Package simulate drives simulated visitors through a running quiz service
// over its HTTP API. It exists to load-test the service and to sanity-check
// the flow end to end from outside the process.
package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a thin JSON client for the quiz API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// snapshot mirrors the session view returned by the API.
type snapshot struct {
	ID             string `json:"id"`
	Phase          string `json:"phase"`
	Progress       int    `json:"progress"`
	ActiveQuestion *struct {
		ID             string `json:"id"`
		Kind           string `json:"kind"`
		SelectionCount int    `json:"selection_count"`
		Options        []struct {
			ID string `json:"id"`
		} `json:"options"`
	} `json:"active_question"`
	Selection []string `json:"selection"`
	Complete  bool     `json:"complete"`
}

type selectResult struct {
	Selection   []string `json:"selection"`
	Complete    bool     `json:"complete"`
	Rejected    bool     `json:"rejected"`
	Reason      string   `json:"reason"`
	AutoAdvance bool     `json:"auto_advance"`
}

type resultPayload struct {
	Undefined bool `json:"undefined"`
	Result    *struct {
		PrimaryStyle struct {
			Category   string `json:"category"`
			Percentage int    `json:"percentage"`
		} `json:"primary_style"`
		TotalPoints int `json:"total_points"`
	} `json:"result"`
}

type styleCount struct {
	Rank     int    `json:"rank"`
	Category string `json:"category"`
	Sessions int    `json:"sessions"`
}

// Health verifies the service answers on /healthz.
func (c *Client) Health(ctx context.Context) error {
	var out json.RawMessage
	return c.do(ctx, http.MethodGet, "/healthz", nil, &out)
}

// CreateSession starts a session for userName.
func (c *Client) CreateSession(ctx context.Context, userName string) (snapshot, error) {
	var snap snapshot
	err := c.do(ctx, http.MethodPost, "/sessions", map[string]string{"user_name": userName}, &snap)
	return snap, err
}

// Session reads the current session view.
func (c *Client) Session(ctx context.Context, id string) (snapshot, error) {
	var snap snapshot
	err := c.do(ctx, http.MethodGet, "/sessions/"+id, nil, &snap)
	return snap, err
}

// Select toggles an option on the session's active question.
func (c *Client) Select(ctx context.Context, id, questionID, optionID string) (selectResult, error) {
	var res selectResult
	err := c.do(ctx, http.MethodPost, "/sessions/"+id+"/selections",
		map[string]string{"question_id": questionID, "option_id": optionID}, &res)
	return res, err
}

// Next advances the session.
func (c *Client) Next(ctx context.Context, id string) (snapshot, error) {
	var snap snapshot
	err := c.do(ctx, http.MethodPost, "/sessions/"+id+"/next", nil, &snap)
	return snap, err
}

// Confirm acknowledges the main transition.
func (c *Client) Confirm(ctx context.Context, id string) (snapshot, error) {
	var snap snapshot
	err := c.do(ctx, http.MethodPost, "/sessions/"+id+"/confirm", nil, &snap)
	return snap, err
}

// SeeResult finishes the session.
func (c *Client) SeeResult(ctx context.Context, id string) (resultPayload, error) {
	var res resultPayload
	err := c.do(ctx, http.MethodPost, "/sessions/"+id+"/result", nil, &res)
	return res, err
}

// TopStyles reads the aggregate style ranking.
func (c *Client) TopStyles(ctx context.Context, n int) ([]styleCount, error) {
	var counts []styleCount
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/styles/top?limit=%d", n), nil, &counts)
	return counts, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
