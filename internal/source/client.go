package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/minhtran99/jobflow/internal/model"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/144.0.0.0 Safari/537.36"

// hostLimiter rate-limits per hostname so detail-page bursts inside one
// listing page can't hammer a board. The per-source minimum spacing between
// pages is enforced separately by the ratelimit decorator.
type hostLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
	b  int
}

func newHostLimiter(reqPerSec float64, burst int) *hostLimiter {
	return &hostLimiter{
		m: make(map[string]*rate.Limiter),
		r: rate.Limit(reqPerSec),
		b: burst,
	}
}

func (hl *hostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if lim, ok := hl.m[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(hl.r, hl.b)
	hl.m[host] = lim
	return lim
}

func (hl *hostLimiter) waitURL(ctx context.Context, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return hl.limiterFor("_").Wait(ctx)
	}
	return hl.limiterFor(u.Host).Wait(ctx)
}

// Client is the HTTP client shared by all source fetchers. It sets a
// browser-like User-Agent, applies the per-host ceiling, and converts
// HTTP failures into the error taxonomy the retry layer understands.
type Client struct {
	hc        *http.Client
	hosts     *hostLimiter
	userAgent string
}

// NewClient creates a client with the given request timeout and per-host
// request ceiling.
func NewClient(timeout time.Duration, reqPerSec float64, burst int) *Client {
	return &Client{
		hc:        &http.Client{Timeout: timeout},
		hosts:     newHostLimiter(reqPerSec, burst),
		userAgent: defaultUserAgent,
	}
}

// GetDocument fetches rawURL and parses the response body as HTML.
func (c *Client) GetDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if err := c.hosts.waitURL(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("host limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "vi-VN,vi;q=0.9,en-US;q=0.8")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	return doc, nil
}

// classifyStatus maps a non-2xx response onto the error taxonomy:
// 429 carries Retry-After, 401/403 are fatal for the source (blocked or
// misconfigured auth), everything else >= 400 is a plain HTTPError that the
// retry layer decides on.
func classifyStatus(resp *http.Response) error {
	code := resp.StatusCode
	if code < 400 {
		return nil
	}

	httpErr := &model.HTTPError{
		StatusCode: code,
		Err:        fmt.Errorf("%s", resp.Request.URL),
	}
	if code == http.StatusTooManyRequests {
		httpErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
		return httpErr
	}
	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		return &model.FatalError{Err: httpErr}
	}
	return httpErr
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
