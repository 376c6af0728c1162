// Package remote is the dashboard's HTTP client for the analytics and tool endpoints.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jobdash-engine/internal/domain"
)

const (
	AnalyticsPath = "/api/analytics"
	ToolPath      = "/api/mcp/tool"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Code, e.Body)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Limiter *HostLimiter
	Token   string
}

type Options struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	Token         string
}

func New(o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	if o.RatePerSecond <= 0 {
		o.RatePerSecond = 2
	}
	if o.Burst <= 0 {
		o.Burst = 1
	}
	return &Client{
		BaseURL: strings.TrimRight(o.BaseURL, "/"),
		HTTP:    &http.Client{Timeout: o.Timeout},
		Limiter: NewHostLimiter(o.RatePerSecond, o.Burst),
		Token:   o.Token,
	}
}

// FetchAnalytics returns the raw analytics fields. Numbers decode as json.Number.
func (c *Client) FetchAnalytics(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, AnalyticsPath, nil, func(r io.Reader) error {
		dec := json.NewDecoder(r)
		dec.UseNumber()
		return dec.Decode(&out)
	}); err != nil {
		return nil, fmt.Errorf("fetch analytics: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// CallTool posts {tool, arguments} and returns the raw JSON result.
func (c *Client) CallTool(ctx context.Context, tool string, args any) (json.RawMessage, error) {
	rawArgs, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode %s arguments: %w", tool, err)
	}
	body, err := json.Marshal(domain.ToolRequest{Tool: tool, Arguments: rawArgs})
	if err != nil {
		return nil, err
	}

	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, ToolPath, body, func(r io.Reader) error {
		return json.NewDecoder(r).Decode(&out)
	}); err != nil {
		return nil, fmt.Errorf("call %s: %w", tool, err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, decode func(io.Reader) error) error {
	u := c.BaseURL + path
	if err := c.Limiter.Wait(ctx, u); err != nil {
		return err
	}

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if err := decode(resp.Body); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
