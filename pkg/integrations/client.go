package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/legalscan/pkg/cache"
	"github.com/matzehuels/legalscan/pkg/httputil"
	"github.com/matzehuels/legalscan/pkg/observability"
)

// maxTextSize caps bodies read by GetText; license pages are small.
const maxTextSize = 4 << 20

// Client provides shared HTTP functionality for the index, repository
// and license-text lookups. It handles caching, retry logic, and
// common request headers.
type Client struct {
	pool    *Pool
	http    *http.Client // overrides the pool when set
	cache   cache.Cache
	ttl     time.Duration
	headers map[string]string
}

// NewClient creates a Client drawing connections from pool. A nil cache
// disables caching. Headers are applied to all requests made through
// this client; pass nil if none are needed.
func NewClient(pool *Pool, c cache.Cache, ttl time.Duration, headers map[string]string) *Client {
	if pool == nil {
		pool = NewPool(PoolOptions{})
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{pool: pool, cache: c, ttl: ttl, headers: headers}
}

// Cached retrieves v from the cache under key, or executes fetch with
// retries and caches the result. If refresh is true the cache is
// bypassed. fetch populates v; on success v is stored as JSON.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	hooks, kind := observability.Cache(), keyType(key)
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			if json.Unmarshal(data, v) == nil {
				hooks.OnCacheHit(ctx, kind)
				return nil
			}
		}
		hooks.OnCacheMiss(ctx, kind)
	}
	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			hooks.OnCacheSet(ctx, kind, len(data))
		}
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// GetText performs an HTTP GET request and returns the response body as a string.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	body, err := c.doRequest(ctx, url, nil)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(io.LimitReader(body, maxTextSize))
	if err != nil {
		return "", httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	return string(data), nil
}

// Download streams url into dest. The body goes to a temporary file in
// dest's directory that is renamed into place once complete, so an
// interrupted download never leaves a truncated artifact behind.
func (c *Client) Download(ctx context.Context, url, dest string) error {
	return httputil.RetryWithBackoff(ctx, func() error {
		body, err := c.doRequest(ctx, url, nil)
		if err != nil {
			return err
		}
		defer body.Close()

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
		if err != nil {
			return err
		}
		if _, err := io.Copy(tmp, body); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmp.Name())
			return err
		}
		return os.Rename(tmp.Name(), dest)
	})
}

func (c *Client) client(rawURL string) *http.Client {
	if c.http != nil {
		return c.http
	}
	return c.pool.ClientForURL(rawURL)
}

func (c *Client) doRequest(ctx context.Context, rawURL string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	host, path := hostPath(rawURL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.client(rawURL).Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return ErrNotFound
	case httputil.RetryableStatus(code):
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// keyType is the namespace of a cache key, the part before the first colon.
func keyType(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}

func hostPath(rawURL string) (string, string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", rawURL
	}
	return u.Host, u.Path
}
