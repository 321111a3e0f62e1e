// Package fetcher downloads server-rendered product pages the way a desktop
// browser would request them.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/setupscatalog/linkengine/internal/domain"
	"github.com/setupscatalog/linkengine/internal/urlutil"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout        = 10 * time.Second
	defaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	defaultAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
	defaultAcceptLanguage = "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7"
	defaultMaxBodyBytes   = 5 << 20
	defaultMaxRedirects   = 10
	defaultPerHostRPS     = 2.0
	defaultPerHostBurst   = 4

	limiterIdleTTL = 10 * time.Minute
	maxLimiters    = 1024
)

// Config holds the fetcher settings
type Config struct {
	Timeout        time.Duration
	UserAgent      string
	AcceptLanguage string
	MaxBodyBytes   int64
	MaxRedirects   int
	PerHostRPS     float64
	PerHostBurst   int
}

// Client fetches product pages with a fixed deadline and per-host politeness
// limits.
type Client struct {
	httpClient     *http.Client
	timeout        time.Duration
	userAgent      string
	acceptLanguage string
	maxBodyBytes   int64
	perHostRPS     rate.Limit
	perHostBurst   int
	logger         logrus.FieldLogger

	mu          sync.Mutex
	limiters    map[string]*hostLimiter
	maxLimiters int
	now         func() time.Time
}

type hostLimiter struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// NewClient creates a new page fetcher
func NewClient(config Config, logger logrus.FieldLogger) *Client {
	c := &Client{
		timeout:        config.Timeout,
		userAgent:      config.UserAgent,
		acceptLanguage: config.AcceptLanguage,
		maxBodyBytes:   config.MaxBodyBytes,
		perHostRPS:     rate.Limit(config.PerHostRPS),
		perHostBurst:   config.PerHostBurst,
		logger:         logger.WithField("component", "fetcher"),
		limiters:       make(map[string]*hostLimiter),
		maxLimiters:    maxLimiters,
		now:            time.Now,
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	if c.acceptLanguage == "" {
		c.acceptLanguage = defaultAcceptLanguage
	}
	if c.maxBodyBytes <= 0 {
		c.maxBodyBytes = defaultMaxBodyBytes
	}
	if c.perHostRPS <= 0 {
		c.perHostRPS = defaultPerHostRPS
	}
	if c.perHostBurst <= 0 {
		c.perHostBurst = defaultPerHostBurst
	}

	maxRedirects := config.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = defaultMaxRedirects
	}

	c.httpClient = &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	return c
}

// Fetch downloads rawURL. The fetch deadline applies on top of ctx, and its
// expiry is reported as domain.ErrFetchTimeout. Non-2xx responses return a
// *domain.StatusError; empty or non-HTML bodies return
// domain.ErrEmptyOrInvalidBody.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*domain.FetchedPage, error) {
	if !urlutil.IsValidURL(rawURL) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidURL, rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	host := urlutil.Hostname(rawURL)
	if err := c.limiterFor(host).Wait(ctx); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
		}
		// the limiter refuses waits that would outlive the deadline
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchTimeout, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	c.setBrowserHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		mapped := c.mapTransportError(ctx, err)
		c.logger.WithError(err).WithField("host", host).Debug("request failed")
		return nil, mapped
	}
	defer resp.Body.Close()

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	log := c.logger.WithFields(logrus.Fields{
		"host":        host,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain a little so the connection can be reused
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		log.Debug("non-success response")
		return nil, &domain.StatusError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTMLContentType(contentType) {
		log.WithField("content_type", contentType).Debug("non-HTML response")
		return nil, fmt.Errorf("%w: content type %q", domain.ErrEmptyOrInvalidBody, contentType)
	}

	body, err := c.readBody(resp.Body, contentType)
	if err != nil {
		return nil, c.mapTransportError(ctx, err)
	}
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: empty body", domain.ErrEmptyOrInvalidBody)
	}

	log.WithField("bytes", len(body)).Debug("page fetched")

	return &domain.FetchedPage{
		URL:         rawURL,
		FinalURL:    finalURL,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}, nil
}

func (c *Client) setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", defaultAccept)
	req.Header.Set("Accept-Language", c.acceptLanguage)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

// readBody reads at most maxBodyBytes and converts the page to UTF-8. Bodies
// that are already valid UTF-8 are kept unless a charset was declared in the
// Content-Type header.
func (c *Client) readBody(r io.Reader, contentType string) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, c.maxBodyBytes))
	if err != nil {
		return "", err
	}

	enc, name, certain := charset.DetermineEncoding(raw, contentType)
	if name == "utf-8" || (!certain && utf8.Valid(raw)) {
		return string(raw), nil
	}

	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		c.logger.WithError(err).WithField("charset", name).Debug("charset conversion failed")
		return string(raw), nil
	}
	return string(decoded), nil
}

// limiterFor returns the politeness limiter of a host, creating it on first use
func (c *Client) limiterFor(host string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if entry, ok := c.limiters[host]; ok {
		entry.lastUsed = now
		return entry.limiter
	}

	if len(c.limiters) >= c.maxLimiters {
		c.evictLimiters(now)
	}
	entry := &hostLimiter{limiter: rate.NewLimiter(c.perHostRPS, c.perHostBurst), lastUsed: now}
	c.limiters[host] = entry
	return entry.limiter
}

// evictLimiters drops limiters idle for longer than limiterIdleTTL. When every
// host is recent, the least recently used one goes. Callers hold c.mu.
func (c *Client) evictLimiters(now time.Time) {
	var oldestHost string
	var oldest time.Time
	for host, entry := range c.limiters {
		if now.Sub(entry.lastUsed) > limiterIdleTTL {
			delete(c.limiters, host)
			continue
		}
		if oldestHost == "" || entry.lastUsed.Before(oldest) {
			oldestHost, oldest = host, entry.lastUsed
		}
	}
	if len(c.limiters) >= c.maxLimiters && oldestHost != "" {
		delete(c.limiters, oldestHost)
	}
}

// mapTransportError separates deadline expiry from other I/O failures
func (c *Client) mapTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrFetchTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", domain.ErrFetchTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
}

// isHTMLContentType accepts HTML and XHTML. A missing header is accepted and
// left to the body checks.
func isHTMLContentType(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "html")
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
