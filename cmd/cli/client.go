package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type client struct {
	base string
	key  string
	http *http.Client
}

func newClient(base, key string, timeout time.Duration) *client {
	return &client{
		base: strings.TrimRight(base, "/"),
		key:  key,
		http: &http.Client{Timeout: timeout},
	}
}

type historyResult struct {
	Data []*string `json:"data"`
	Mode string    `json:"mode"`
}

type siteEntry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (c *client) check(ctx context.Context, site string) (bool, error) {
	body, err := json.Marshal(map[string]string{"url": site})
	if err != nil {
		return false, err
	}
	var out struct {
		IsAvailable bool `json:"isAvailable"`
	}
	err = c.do(ctx, http.MethodPost, "/api/check", bytes.NewReader(body), &out)
	return out.IsAvailable, err
}

func (c *client) history(ctx context.Context, site, mode string) (historyResult, error) {
	q := url.Values{"url": {site}, "mode": {mode}}
	var out historyResult
	err := c.do(ctx, http.MethodGet, "/api/check?"+q.Encode(), nil, &out)
	return out, err
}

func (c *client) sites(ctx context.Context) ([]siteEntry, error) {
	var out struct {
		Sites []siteEntry `json:"sites"`
	}
	err := c.do(ctx, http.MethodGet, "/api/sites", nil, &out)
	return out.Sites, err
}

func (c *client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("contacting API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return fmt.Errorf("API returned %d: %s", resp.StatusCode, e.Error)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
