package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/reliverse/relparse/internal/config"
	"golang.org/x/net/proxy"
)

// DefaultBackoff is the initial pause before a retry. The n-th retry waits
// n times this long.
const DefaultBackoff = 200 * time.Millisecond

// maxRedirects bounds redirect chains.
const maxRedirects = 10

// Client fetches pages with a fixed User-Agent, a per-attempt timeout and a
// bounded number of retries.
type Client struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	retries    int
	backoff    time.Duration
	proxyURL   string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout sets the timeout of each attempt, body read included.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRetries sets how many extra attempts follow a 5xx response or a
// transport error.
func WithRetries(n int) Option {
	return func(c *Client) {
		c.retries = n
	}
}

// WithBackoff sets the initial retry pause.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.backoff = d
	}
}

// WithProxy routes requests through a proxy given as a URL, for example
// socks5://127.0.0.1:9050 or http://proxy:3128. Empty means the
// environment's proxy settings.
func WithProxy(rawURL string) Option {
	return func(c *Client) {
		c.proxyURL = rawURL
	}
}

// WithLogger sets the logger used for retry messages.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// FromConfig returns the options matching cfg.
func FromConfig(cfg config.HTTPConfig) []Option {
	return []Option{
		WithUserAgent(cfg.UserAgent),
		WithTimeout(cfg.Timeout),
		WithRetries(cfg.Retries),
		WithProxy(cfg.Proxy),
	}
}

// New creates a Client.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		userAgent: config.DefaultUserAgent,
		timeout:   config.DefaultTimeout,
		retries:   config.DefaultRetries,
		backoff:   DefaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	transport, err := newTransport(c.proxyURL)
	if err != nil {
		return nil, err
	}

	c.httpClient = &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
	return c, nil
}

func newTransport(proxyURL string) (*http.Transport, error) {
	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("unexpected default transport %T", http.DefaultTransport)
	}
	transport = transport.Clone()
	if proxyURL == "" {
		return transport, nil
	}

	u, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(u)
	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		transport.DialContext = dialContext(dialer)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProxy, u.Scheme)
	}
	return transport, nil
}

func dialContext(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(network, addr)
	}
}

// Get fetches rawURL. A 2xx response is returned open for the caller to
// close. 5xx responses and transport errors are retried with a linearly
// growing pause; other statuses are final. After the last attempt the
// failure is returned as *StatusError or *Error.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	for attempt := 0; ; attempt++ {
		resp, err := c.httpClient.Do(req)
		switch {
		case err != nil:
			if ctx.Err() != nil || attempt >= c.retries {
				return nil, &Error{URL: rawURL, Err: err}
			}
			c.logger.Debug("retrying after transport error",
				"url", rawURL, "attempt", attempt+1, "error", err)
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil
		default:
			discard(resp)
			if resp.StatusCode < http.StatusInternalServerError || attempt >= c.retries {
				return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
			}
			c.logger.Debug("retrying after server error",
				"url", rawURL, "attempt", attempt+1, "status", resp.StatusCode)
		}

		if err := sleep(ctx, c.backoff*time.Duration(attempt+1)); err != nil {
			return nil, &Error{URL: rawURL, Err: err}
		}
	}
}

// discard drains and closes a body so the connection can be reused.
func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
