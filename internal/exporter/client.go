// Package exporter is the HTTP client for a read-only health metrics
// exporter (e.g. a self-hosted health-auto-export server).
package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Sample is one raw data point returned by the exporter.
type Sample struct {
	Timestamp time.Time `json:"ts"`
	Value     float64   `json:"value"`
}

// Series is the exporter's response for a single metric query.
type Series struct {
	Name    string   `json:"name"`
	Unit    string   `json:"unit"`
	Samples []Sample `json:"samples"`
}

type permissionsResponse struct {
	Permissions map[string]string `json:"permissions"`
}

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// Metrics queries one metric's samples over [start, end).
func (c *Client) Metrics(ctx context.Context, name string, start, end time.Time) (*Series, error) {
	q := url.Values{}
	q.Set("start", start.Format(time.RFC3339))
	q.Set("end", end.Format(time.RFC3339))

	var series Series
	if err := c.get(ctx, "/v1/metrics/"+url.PathEscape(name)+"?"+q.Encode(), &series); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", name, err)
	}
	if series.Name == "" {
		series.Name = name
	}
	return &series, nil
}

// Permissions returns the exporter's per-category sharing state,
// keyed by category name with values "authorized", "denied", or
// "not_determined".
func (c *Client) Permissions(ctx context.Context) (map[string]string, error) {
	var resp permissionsResponse
	if err := c.get(ctx, "/v1/permissions", &resp); err != nil {
		return nil, fmt.Errorf("fetching permissions: %w", err)
	}
	return resp.Permissions, nil
}

// DashboardURL is the exporter's web UI, for opening in a browser.
func (c *Client) DashboardURL() string {
	return c.baseURL
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("exporter error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("exporter %d: %s", resp.StatusCode, string(b))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
