package npm

import (
	"net/http"
	"strings"
	"time"
)

// DefaultRegistryURL is the public npm registry.
const DefaultRegistryURL = "https://registry.npmjs.org"

const (
	defaultRetries   = 5
	defaultBackoff   = 500 * time.Millisecond
	defaultUserAgent = "publish-registry"
)

// Client reads package metadata from an npm registry.
type Client struct {
	httpClient  *http.Client
	registryURL string
	retries     int
	backoff     time.Duration
	userAgent   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithRegistryURL points the client at a different registry or mirror.
func WithRegistryURL(url string) Option {
	return func(cl *Client) {
		cl.registryURL = strings.TrimRight(url, "/")
	}
}

// WithRetries sets how many times a transient failure is retried when a
// request asks for retries.
func WithRetries(n int) Option {
	return func(cl *Client) {
		cl.retries = n
	}
}

// WithBackoff sets the delay before the first retry. Each further retry
// doubles it.
func WithBackoff(d time.Duration) Option {
	return func(cl *Client) {
		cl.backoff = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// New creates a Client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient:  http.DefaultClient,
		registryURL: DefaultRegistryURL,
		retries:     defaultRetries,
		backoff:     defaultBackoff,
		userAgent:   defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegistryURL returns the registry base URL without a trailing slash.
func (c *Client) RegistryURL() string {
	return c.registryURL
}

// PackageURL returns the registry document URL for an escaped package name.
func (c *Client) PackageURL(escapedName string) string {
	return c.registryURL + "/" + escapedName
}
