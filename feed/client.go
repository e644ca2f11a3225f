package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"

	"github.com/davideustache-creator/BigBrother/domain"
)

// DefaultURL is the public GitHub events endpoint.
const DefaultURL = "https://api.github.com/events"

const defaultTimeout = 15 * time.Second

// Client polls the public GitHub events feed. It is not safe for concurrent
// use: the ingestion loop is single-threaded and the ETag/poll-interval state
// rides along between calls.
type Client struct {
	url     string
	token   string
	http    *http.Client
	etag    string
	minPoll time.Duration
}

// New returns a feed client authenticated with the given personal access
// token.
func New(url, token string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url:   url,
		token: token,
		http:  &http.Client{Timeout: timeout},
	}
}

// FetchBatch retrieves the next batch of raw events. A 304 Not Modified
// response (conditional request against the previous ETag) yields an empty
// batch, not an error. Any other non-2xx status is a transport error.
func (c *Client) FetchBatch(ctx context.Context) ([]domain.RawEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("feed: build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	if c.etag != "" {
		req.Header.Set("If-None-Match", c.etag)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}
	defer resp.Body.Close()

	// GitHub asks pollers to slow down via X-Poll-Interval (seconds).
	if v := resp.Header.Get("X-Poll-Interval"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.minPoll = time.Duration(secs) * time.Second
		}
	}

	if resp.StatusCode == http.StatusNotModified {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("feed: unexpected status %s", resp.Status)
	}
	c.etag = resp.Header.Get("ETag")

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("feed: read body: %w", err)
	}
	var events []domain.RawEvent
	if err := sonic.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("feed: decode body: %w", err)
	}
	return events, nil
}

// MinPollInterval reports the server-requested minimum delay between polls,
// zero when the server has not asked for one.
func (c *Client) MinPollInterval() time.Duration {
	return c.minPoll
}
