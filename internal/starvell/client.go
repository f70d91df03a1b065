package starvell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://starvell.com"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36"
)

// Credentials carries the session state an upstream call needs. The session
// cookie is rotated externally, so callers re-read it for every poll cycle.
type Credentials struct {
	Session string
	SID     string
}

type Client struct {
	http    *http.Client
	baseURL string
}

func NewClient() *Client {
	return &Client{
		http:    &http.Client{Timeout: 20 * time.Second},
		baseURL: defaultBaseURL,
	}
}

// NewClientWithBaseURL exists for tests against a local server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

func (c *Client) do(ctx context.Context, method, path, referer string, creds Credentials, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %v", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("accept-language", "ru,en;q=0.9")
	req.Header.Set("user-agent", userAgent)
	if body != nil {
		req.Header.Set("content-type", "application/json")
		req.Header.Set("origin", c.baseURL)
	}
	if referer != "" {
		req.Header.Set("referer", referer)
	}
	req.AddCookie(&http.Cookie{Name: "session", Value: creds.Session})
	if creds.SID != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: creds.SID})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %v", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, creds Credentials, out any) error {
	return c.do(ctx, http.MethodGet, path, "", creds, nil, out)
}
