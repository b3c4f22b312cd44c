// internal/fetch/client.go

// Package fetch retrieves product pages over HTTP with rate limiting,
// user-agent rotation and retry, and parses them into goquery documents.
package fetch

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/dechora/itemscout/internal/utils"
)

// ClientConfig defines configuration options for the fetch client.
type ClientConfig struct {
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	UserAgents    []string
	Headers       map[string]string
	Cookies       map[string]string
	RateLimit     float64 // requests per second
	RateBurst     int
}

// Client is an HTTP fetcher for product pages. Requests carry browser-like
// headers and configured cookies, and responses are parsed as HTML.
type Client struct {
	httpClient    *http.Client
	userAgents    []string
	currentUA     int
	uaMutex       sync.Mutex
	rateLimiter   *rate.Limiter
	retryAttempts int
	retryDelay    time.Duration
	headers       map[string]string
	cookies       map[string]string
}

// NewClient creates a fetch client with the specified configuration.
func NewClient(config ClientConfig) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RetryAttempts == 0 {
		config.RetryAttempts = 2
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2.0
	}
	if config.RateBurst == 0 {
		config.RateBurst = 5
	}
	if len(config.UserAgents) == 0 {
		config.UserAgents = defaultUserAgents()
	}

	// Cookie jar so session cookies set by the site ride along on the
	// product page request, matching a credentialed browser fetch.
	jar, _ := cookiejar.New(nil)

	httpClient := &http.Client{
		Timeout: config.Timeout,
		Jar:     jar,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &Client{
		httpClient:    httpClient,
		userAgents:    config.UserAgents,
		rateLimiter:   rate.NewLimiter(rate.Limit(config.RateLimit), config.RateBurst),
		retryAttempts: config.RetryAttempts,
		retryDelay:    config.RetryDelay,
		headers:       config.Headers,
		cookies:       config.Cookies,
	}
}

// Fetch retrieves targetURL and parses the response as an HTML document.
// Non-2xx responses and transport errors yield FETCH_FAILED; unparsable
// bodies yield PARSE_FAILED.
func (c *Client) Fetch(ctx context.Context, targetURL string) (*goquery.Document, error) {
	if _, err := url.Parse(targetURL); err != nil {
		return nil, utils.WrapError(err, utils.ErrCodeFetchFailed, "invalid URL")
	}

	resp, err := c.get(ctx, targetURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrCodeParseFailed, "failed to parse HTML").
			WithContext("url", targetURL)
	}
	return doc, nil
}

// get performs the GET with rate limiting and retry on transient failures.
func (c *Client) get(ctx context.Context, targetURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retryAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, utils.WrapError(err, utils.ErrCodeRateLimited, "rate limiter wait aborted")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
		if err != nil {
			return nil, utils.WrapError(err, utils.ErrCodeFetchFailed, "failed to create request")
		}
		c.setRequestHeaders(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = utils.WrapError(err, utils.ErrCodeFetchFailed,
				fmt.Sprintf("request failed (attempt %d/%d)", attempt+1, c.retryAttempts+1)).
				WithRetryable(true)
			if attempt < c.retryAttempts {
				c.waitForRetry(ctx, attempt)
				continue
			}
			break
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = utils.NewErrorf(utils.ErrCodeFetchFailed, "HTTP %d: %s (attempt %d/%d)",
			resp.StatusCode, resp.Status, attempt+1, c.retryAttempts+1).
			WithContext("status_code", resp.StatusCode).
			WithRetryable(shouldRetryStatusCode(resp.StatusCode))

		if !shouldRetryStatusCode(resp.StatusCode) {
			break
		}
		if attempt < c.retryAttempts {
			c.waitForRetry(ctx, attempt)
		}
	}

	return nil, lastErr
}

// setRequestHeaders configures request headers including user agent rotation.
func (c *Client) setRequestHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.nextUserAgent())

	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	for name, value := range c.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
}

// nextUserAgent returns the next user agent in rotation.
func (c *Client) nextUserAgent() string {
	c.uaMutex.Lock()
	defer c.uaMutex.Unlock()

	if len(c.userAgents) == 0 {
		return "itemscout/1.0"
	}
	ua := c.userAgents[c.currentUA]
	c.currentUA = (c.currentUA + 1) % len(c.userAgents)
	return ua
}

// waitForRetry sleeps with exponential backoff and jitter, honoring ctx.
func (c *Client) waitForRetry(ctx context.Context, attempt int) {
	delay := c.retryDelay * time.Duration(1<<uint(attempt))
	delay += time.Duration(rand.Int63n(int64(delay/2) + 1))
	if delay > 15*time.Second {
		delay = 15 * time.Second
	}

	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}

// shouldRetryStatusCode reports whether a status code warrants a retry.
func shouldRetryStatusCode(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// defaultUserAgents returns a set of realistic user agent strings.
func defaultUserAgents() []string {
	return []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/119.0",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	}
}

// ParseDocument parses raw HTML into a goquery document. Shared by the CLI
// and server for pages that arrive as bytes rather than over the client.
func ParseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrCodeParseFailed, "failed to parse HTML")
	}
	return doc, nil
}
