package fetch

import (
	"net/http"
	"strings"
	"time"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithDir reads resources from a local directory.
func WithDir(dir string) Option {
	return func(c *Client) {
		if dir != "" {
			c.dir = dir
		}
	}
}

// WithStaticBaseURL fetches resources over HTTP from base/<name>.
func WithStaticBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.resolver = StaticResolver(base)
		}
	}
}

// WithProxy fetches resources through the access-controlled proxy at base,
// sending token as a bearer credential.
func WithProxy(base, token string) Option {
	return func(c *Client) {
		if base == "" {
			return
		}
		c.resolver = ProxyResolver(base)
		c.proxyPrefix = strings.TrimRight(base, "/") + proxyPath
		c.token = token
	}
}

// WithResolver sets a custom resolver. No credentials are attached.
func WithResolver(r Resolver) Option {
	return func(c *Client) {
		if r != nil {
			c.resolver = r
			c.proxyPrefix = ""
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxBodyBytes caps the size of an HTTP response body. Larger bodies
// fail with ErrTooLarge instead of being truncated.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}
