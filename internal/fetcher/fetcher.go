package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/net/html/charset"

	"github.com/sitereap/sitereap/internal/config"
)

// Client fetches single pages over HTTP(S) with bounded retry.
//
// Design decision: The Client owns its http.Client rather than requiring
// one from the caller because there is no proxy layer to configure
// externally; tests that need a custom transport inject one via
// WithHTTPClient.
type Client struct {
	// httpClient performs the actual requests. Its Timeout is the
	// per-request timeout; no timeout governs a whole crawl.
	httpClient *http.Client

	// retries is the number of retries after a failed attempt.
	retries int

	// retryWait is the fixed backoff between attempts.
	retryWait time.Duration

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// userAgent pins all requests to a fixed identity when non-empty.
	// Empty means a random identity per request.
	userAgent string

	// sites supplies per-host extra headers and cookies.
	sites *config.File

	// logger records retry attempts and failures.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRetries sets the number of retries after a failed attempt.
// 0 disables retries; the initial attempt is always made.
func WithRetries(retries int) Option {
	return func(c *Client) {
		c.retries = retries
	}
}

// WithRetryWait sets the fixed backoff between attempts.
func WithRetryWait(wait time.Duration) Option {
	return func(c *Client) {
		c.retryWait = wait
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// WithUserAgent pins every request to the given User-Agent instead of
// drawing a random identity per request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithSiteConfigs supplies per-host extra headers and cookies.
func WithSiteConfigs(sites *config.File) Option {
	return func(c *Client) {
		c.sites = sites
	}
}

// WithLogger sets the logger for retry and failure events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying http.Client.
// Intended for tests that need a custom transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a fetch client with the default retry budget and timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: config.DefaultTimeout,
			Transport: &http.Transport{
				DialContext:         (&net.Dialer{Timeout: config.DefaultTimeout, KeepAlive: 30 * time.Second}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		retries:     config.DefaultRetries,
		retryWait:   config.DefaultRetryWait,
		maxBodySize: config.DefaultMaxBodySize,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch performs a GET request against rawURL and returns the response body.
//
// Any network failure or non-2xx status consumes one attempt; remaining
// attempts are retried after a fixed backoff. When the budget is exhausted,
// the last error is returned wrapped. Fetch failures are expected during a
// crawl and must be treated by callers as "skip this URL", never as fatal.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	attempts := c.retries + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := c.fetchOnce(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt < attempts {
			c.logger.Debug("fetch failed, retrying",
				"url", rawURL,
				"attempt", attempt,
				"remaining", attempts-attempt,
				"error", err,
			)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.retryWait):
			}
		}
	}

	return "", fmt.Errorf("fetch %s failed after %d attempts: %w", rawURL, attempts, lastErr)
}

// fetchOnce performs a single GET attempt.
func (c *Client) fetchOnce(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	ua := c.userAgent
	if ua == "" {
		ua = randomUserAgent()
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	// Setting Accept-Encoding manually disables the transport's transparent
	// gzip handling, so all three encodings are decoded below.
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	c.applySiteConfig(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Drain so the connection can be reused across retries.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return c.readBody(resp)
}

// applySiteConfig sets per-host extra headers and cookie from the config file.
func (c *Client) applySiteConfig(req *http.Request) {
	if c.sites == nil {
		return
	}

	site := c.sites.GetSiteConfig(req.URL.Hostname())
	for k, v := range site.Headers {
		req.Header.Set(k, v)
	}
	if site.Cookie != "" {
		req.Header.Set("Cookie", site.Cookie)
	}
}

// readBody decodes and reads the response body, enforcing the size limit
// and normalizing the character set to UTF-8.
func (c *Client) readBody(resp *http.Response) (string, error) {
	reader := io.Reader(resp.Body)

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("gzip decode: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	}

	decoded, err := charset.NewReader(reader, resp.Header.Get("Content-Type"))
	if err != nil {
		// Charset detection failures are not fatal; fall back to raw bytes.
		decoded = reader
	}

	limited := io.LimitReader(decoded, c.maxBodySize+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > c.maxBodySize {
		return "", fmt.Errorf("response body exceeds limit of %d bytes", c.maxBodySize)
	}

	return string(body), nil
}
