// Package ipc is the HTTP client the CLI uses to talk to a running lacquerd.
package ipc

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
	"time"

	"lacquer/internal/api"
	"lacquer/internal/config"
)

// Client talks to the daemon's HTTP API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client from configuration.
func NewClient(cfg *config.Config) *Client {
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	return &Client{
		baseURL: "http://" + bind,
		token:   strings.TrimSpace(cfg.Paths.APIToken),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// StatusError is returned when the daemon answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("daemon returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("daemon returned %d", e.StatusCode)
}

// IsNotRunning reports whether err looks like an unreachable daemon rather
// than a daemon-side failure.
func IsNotRunning(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *StatusError
	return !errors.As(err, &statusErr)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("daemon unreachable at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &StatusError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Status fetches the daemon runtime status.
func (c *Client) Status(ctx context.Context) (api.DaemonStatus, error) {
	var status api.DaemonStatus
	err := c.do(ctx, http.MethodGet, "/api/status", nil, &status)
	return status, err
}

// StartSession opens a new capture session.
func (c *Client) StartSession(ctx context.Context, req api.StartSessionRequest) (api.Session, error) {
	var resp api.SessionResponse
	err := c.do(ctx, http.MethodPost, "/api/sessions", req, &resp)
	return resp.Session, err
}

// AddFrame attaches an evidence frame to a session.
func (c *Client) AddFrame(ctx context.Context, sessionID string, req api.AddFrameRequest) (api.Frame, error) {
	var resp api.FrameResponse
	err := c.do(ctx, http.MethodPost, "/api/sessions/"+url.PathEscape(sessionID)+"/frames", req, &resp)
	return resp.Frame, err
}

// Finalize re-evaluates a session's evidence.
func (c *Client) Finalize(ctx context.Context, sessionID string) (api.SessionDetail, error) {
	var detail api.SessionDetail
	err := c.do(ctx, http.MethodPost, "/api/sessions/"+url.PathEscape(sessionID)+"/finalize", nil, &detail)
	return detail, err
}

// Answer responds to a session's open question.
func (c *Client) Answer(ctx context.Context, sessionID string, req api.AnswerRequest) (api.SessionDetail, error) {
	var detail api.SessionDetail
	err := c.do(ctx, http.MethodPost, "/api/sessions/"+url.PathEscape(sessionID)+"/answer", req, &detail)
	return detail, err
}

// Describe fetches a session's full projection.
func (c *Client) Describe(ctx context.Context, sessionID string) (api.SessionDetail, error) {
	var detail api.SessionDetail
	err := c.do(ctx, http.MethodGet, "/api/sessions/"+url.PathEscape(sessionID), nil, &detail)
	return detail, err
}

// Cancel abandons a session.
func (c *Client) Cancel(ctx context.Context, sessionID string) (api.Session, error) {
	var resp api.SessionResponse
	err := c.do(ctx, http.MethodPost, "/api/sessions/"+url.PathEscape(sessionID)+"/cancel", nil, &resp)
	return resp.Session, err
}

// Inventory lists a user's collection.
func (c *Client) Inventory(ctx context.Context, userID string) ([]api.InventoryItem, error) {
	path := "/api/inventory"
	if strings.TrimSpace(userID) != "" {
		path += "?user=" + url.QueryEscape(userID)
	}
	var resp api.InventoryListResponse
	err := c.do(ctx, http.MethodGet, path, nil, &resp)
	return resp.Items, err
}

// SearchCatalog runs a fuzzy shade search.
func (c *Client) SearchCatalog(ctx context.Context, query, brand string) ([]api.Candidate, error) {
	values := url.Values{"q": {query}}
	if strings.TrimSpace(brand) != "" {
		values.Set("brand", brand)
	}
	var resp api.SearchResponse
	err := c.do(ctx, http.MethodGet, "/api/catalog/search?"+values.Encode(), nil, &resp)
	return resp.Candidates, err
}
