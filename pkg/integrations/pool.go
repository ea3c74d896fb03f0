package integrations

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Default transport timeouts. A timeout fails one lookup, never the run.
const (
	DefaultConnectTimeout = time.Second
	DefaultReadTimeout    = 3 * time.Second
)

// PoolOptions configures the clients a [Pool] hands out.
type PoolOptions struct {
	// ConnectTimeout bounds dialing a host.
	ConnectTimeout time.Duration
	// ReadTimeout bounds waiting for response headers.
	ReadTimeout time.Duration
	// InsecureTLS disables certificate verification. Artifact mirrors
	// behind corporate proxies often present self-signed chains.
	InsecureTLS bool
}

// Pool hands out one *http.Client per host, created on first use.
// The owner closes it at the end of a run.
type Pool struct {
	opts PoolOptions

	mu      sync.Mutex
	clients map[string]*http.Client
}

// NewPool returns an empty pool. Zero timeouts take the defaults.
func NewPool(opts PoolOptions) *Pool {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	return &Pool{opts: opts, clients: make(map[string]*http.Client)}
}

// ClientFor returns the client for host, creating it if needed.
func (p *Pool) ClientFor(host string) *http.Client {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.clients[host]; ok {
		return c
	}
	c := &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: p.opts.ConnectTimeout}).DialContext,
			TLSHandshakeTimeout:   p.opts.ConnectTimeout + p.opts.ReadTimeout,
			ResponseHeaderTimeout: p.opts.ReadTimeout,
			TLSClientConfig:       &tls.Config{InsecureSkipVerify: p.opts.InsecureTLS},
			MaxIdleConnsPerHost:   4,
			IdleConnTimeout:       30 * time.Second,
		},
	}
	p.clients[host] = c
	return c
}

// ClientForURL returns the client for the host of rawURL.
func (p *Pool) ClientForURL(rawURL string) *http.Client {
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return p.ClientFor(host)
}

// Len returns the number of hosts with a client.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients)
}

// Close drops idle connections of every client and empties the pool.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for host, c := range p.clients {
		c.CloseIdleConnections()
		delete(p.clients, host)
	}
}
