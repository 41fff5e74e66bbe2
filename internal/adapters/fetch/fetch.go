// Package fetch retrieves named resources from a static location or an
// access-controlled proxy.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/monitor/pkg/logger"
)

const (
	defaultTimeout = 15 * time.Second
	proxyPath      = "/api/data/"
	defaultMaxBody = 64 << 20
)

// Fetcher retrieves the raw payload of a named resource.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// Resolver maps a resource name to the URL it is fetched from.
type Resolver func(name string) string

// ProxyResolver resolves names to base/api/data/<name>, with every reserved
// character of the name escaped.
func ProxyResolver(base string) Resolver {
	base = strings.TrimRight(base, "/")
	return func(name string) string {
		return base + proxyPath + escapeComponent(name)
	}
}

// StaticResolver resolves names to base/<name>, escaping each path segment.
func StaticResolver(base string) Resolver {
	base = strings.TrimRight(base, "/")
	return func(name string) string {
		segs := strings.Split(strings.TrimLeft(name, "/"), "/")
		for i, s := range segs {
			segs[i] = url.PathEscape(s)
		}
		return base + "/" + strings.Join(segs, "/")
	}
}

func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Client implements Fetcher over HTTP or a local directory.
type Client struct {
	http     *http.Client
	timeout  time.Duration
	maxBody  int64
	resolver Resolver
	dir      string

	// proxy credentials are only sent to URLs under proxyPrefix.
	proxyPrefix string
	token       string

	log logger.Logger
}

// New constructs a Client. Without a resolver it reads from the data
// directory (default ".").
func New(opts ...Option) *Client {
	c := &Client{
		timeout: defaultTimeout,
		maxBody: defaultMaxBody,
		dir:     ".",
		log:     logger.Named("fetch"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c
}

// Mode names the delivery mode in use.
func (c *Client) Mode() string {
	switch {
	case c.proxyPrefix != "":
		return "proxy"
	case c.resolver != nil:
		return "static-http"
	}
	return "directory"
}

// Fetch implements Fetcher.
func (c *Client) Fetch(ctx context.Context, name string) ([]byte, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if c.resolver == nil {
		return c.readFile(name)
	}
	return c.get(ctx, name, c.resolver(name))
}

func (c *Client) get(ctx context.Context, name, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %s: %w", ErrTransport, name, err)
	}
	if c.token != "" && c.proxyPrefix != "" && strings.HasPrefix(target, c.proxyPrefix) {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTransport, name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Resource: name, URL: target, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrTransport, name, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: %s: %w (limit %d bytes)", ErrTransport, name, ErrTooLarge, c.maxBody)
	}
	c.log.Debug(ctx, "resource fetched",
		logger.String("resource", name),
		logger.Int("bytes", len(body)),
		logger.Duration("took", time.Since(start)))
	return body, nil
}

func (c *Client) readFile(name string) ([]byte, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(name))
	path := filepath.Join(c.dir, clean)
	b, err := os.ReadFile(path)
	if err == nil {
		return b, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil, &StatusError{Resource: name, URL: path, StatusCode: http.StatusNotFound}
	}
	return nil, fmt.Errorf("%w: read %s: %w", ErrTransport, name, err)
}
