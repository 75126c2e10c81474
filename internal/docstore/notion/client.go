// Package notion is the docstore adapter for the Notion REST API.
package notion

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

	"github.com/propmaint/backend/internal/docstore"
	"github.com/propmaint/backend/internal/logger"
)

const (
	DefaultBaseURL = "https://api.notion.com"
	APIVersion     = "2022-06-28"
	pageSize       = 100
)

// Client implements docstore.Store against Notion databases.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration

	// MaxAttempts bounds retries of idempotent reads.
	MaxAttempts int
	// Backoff is the wait before the second attempt; it doubles after that.
	Backoff time.Duration
}

var _ docstore.Store = (*Client)(nil)

func New(apiKey string) *Client {
	return &Client{
		BaseURL:     DefaultBaseURL,
		APIKey:      apiKey,
		Timeout:     15 * time.Second,
		HTTPClient:  &http.Client{Timeout: 15 * time.Second},
		MaxAttempts: 3,
		Backoff:     300 * time.Millisecond,
	}
}

type queryRequest struct {
	Sorts       []docstore.Sort `json:"sorts,omitempty"`
	StartCursor string          `json:"start_cursor,omitempty"`
	PageSize    int             `json:"page_size"`
}

type queryResponse struct {
	Results    []docstore.Page `json:"results"`
	HasMore    bool            `json:"has_more"`
	NextCursor string          `json:"next_cursor"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Query follows next_cursor until the database is exhausted.
func (c *Client) Query(ctx context.Context, collectionID string, sorts ...docstore.Sort) ([]docstore.Page, error) {
	endpoint := fmt.Sprintf("v1/databases/%s/query", url.PathEscape(collectionID))
	pages := make([]docstore.Page, 0)
	cursor := ""
	for {
		var resp queryResponse
		req := queryRequest{Sorts: sorts, StartCursor: cursor, PageSize: pageSize}
		if err := c.read(ctx, "query", http.MethodPost, endpoint, req, &resp); err != nil {
			return nil, err
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}

func (c *Client) Retrieve(ctx context.Context, id string) (*docstore.Page, error) {
	var page docstore.Page
	if err := c.read(ctx, "retrieve", http.MethodGet, "v1/pages/"+url.PathEscape(id), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Create(ctx context.Context, collectionID string, props docstore.Properties) (*docstore.Page, error) {
	body := map[string]any{
		"parent":     docstore.Parent{DatabaseID: collectionID},
		"properties": props,
	}
	var page docstore.Page
	if err := c.do(ctx, "create", http.MethodPost, "v1/pages", body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Update sends props as one PATCH; Notion applies it atomically.
func (c *Client) Update(ctx context.Context, id string, props docstore.Properties) (*docstore.Page, error) {
	body := map[string]any{"properties": props}
	var page docstore.Page
	if err := c.do(ctx, "update", http.MethodPatch, "v1/pages/"+url.PathEscape(id), body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Ping checks the integration token against the users/me endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", http.MethodGet, "v1/users/me", nil, nil)
}

// read retries transient failures of idempotent calls with exponential
// backoff. Writes go through do directly and are never retried.
func (c *Client) read(ctx context.Context, op, method, endpoint string, body, out any) error {
	attempts := c.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	wait := c.Backoff
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = c.do(ctx, op, method, endpoint, body, out)
		if err == nil || !retryable(err) || attempt == attempts {
			return err
		}
		logger.WithStore("notion", op).WithField("attempt", attempt).Warnf("retrying after error: %v", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return err
}

func retryable(err error) bool {
	var up *docstore.UpstreamError
	if !errors.As(err, &up) {
		return false
	}
	return up.StatusCode == 0 || up.StatusCode == http.StatusTooManyRequests || up.StatusCode >= 500
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, body, out any) error {
	target := c.base() + "/" + strings.TrimLeft(endpoint, "/")

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, target, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Notion-Version", APIVersion)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &docstore.UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	logger.WithStore("notion", op).WithFields(map[string]interface{}{
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("notion call")

	if resp.StatusCode == http.StatusNotFound {
		return docstore.ErrNotFound
	}
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr apiError
		msg := strings.TrimSpace(string(b))
		if json.Unmarshal(b, &apiErr) == nil && apiErr.Message != "" {
			msg = apiErr.Code + ": " + apiErr.Message
		}
		return &docstore.UpstreamError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &docstore.UpstreamError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

// httpClient never writes to c, which is shared by concurrent queries.
func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: c.Timeout}
}

func (c *Client) base() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(c.BaseURL, "/")
}
