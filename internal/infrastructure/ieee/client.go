package ieee

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"JournalFeed/internal/ports"
)

const (
	// DefaultBaseURL is the public IEEE Xplore origin.
	DefaultBaseURL = "https://ieeexplore.ieee.org"
	// PageSize is the fixed number of TOC rows requested; larger issues are truncated.
	PageSize = 100

	defaultUserAgent = "JournalFeed/1.0"
)

// Client talks to the IEEE Xplore REST and page endpoints, replaying session cookies.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	cookies   ports.CookieContext
	logger    *slog.Logger
}

var (
	_ ports.MetadataResolver = (*Client)(nil)
	_ ports.TOCFetcher       = (*Client)(nil)
	_ ports.DetailFetcher    = (*Client)(nil)
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient wires an HTTP client and the shared cookie context.
func NewClient(cookies ports.CookieContext, opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		http:      client,
		cookies:   cookies,
		logger:    opts.Logger,
	}
}

// BaseURL returns the platform origin the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// IssueLink is the canonical most-recent-issue page of a journal.
func (c *Client) IssueLink(journalID string) string {
	return fmt.Sprintf("%s/xpl/mostRecentIssue.jsp?punumber=%s", c.baseURL, journalID)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	return c.doJSON(ctx, http.MethodGet, endpoint, nil, v)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.doJSON(ctx, http.MethodPost, endpoint, body, v)
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, body []byte, v any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := c.newRequest(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) getText(ctx context.Context, endpoint string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(raw), nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.cookies != nil {
		if cookie := c.cookies.Header(c.baseURL); cookie != "" {
			req.Header.Set("Cookie", cookie)
		}
	}
	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	c.debug("platform request", "method", req.Method, "url", req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", req.URL.Path, err)
	}

	if c.cookies != nil {
		c.cookies.Absorb(resp)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("platform returned %s for %s: %s", resp.Status, req.URL.Path, strings.TrimSpace(string(payload)))
	}

	return resp, nil
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
