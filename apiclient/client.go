// Package apiclient is the typed REST client for the practice API. Every call
// goes through Request, which attaches the bearer token and turns non-2xx
// responses into *APIError values.
package apiclient

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ariebrainware/psych-practice/tokenstore"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:3001/api"

// Client talks to the practice API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	store   tokenstore.Store
	log     zerolog.Logger
	limiter *rate.Limiter

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenStore sets the persisted storage the token is read from at
// construction and mirrored to on SetToken and ClearToken.
func WithTokenStore(s tokenstore.Store) Option {
	return func(c *Client) {
		if s != nil {
			c.store = s
		}
	}
}

// WithLogger sets the logger used for per-request debug logs.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithRateLimit throttles outgoing requests to rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New creates a client for baseURL, falling back to DefaultBaseURL when it is
// empty. The token is loaded once from the token store.
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   tokenstore.NewMemory(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tok, err := c.store.Load(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("could not load persisted token")
	}
	c.token = tok
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Token returns the bearer token currently attached to requests.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken attaches token to every following request and persists it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	if err := c.store.Save(context.Background(), token); err != nil {
		c.log.Warn().Err(err).Msg("could not persist token")
	}
}

// ClearToken stops sending a bearer token and removes the persisted copy.
func (c *Client) ClearToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()

	if err := c.store.Clear(context.Background()); err != nil {
		c.log.Warn().Err(err).Msg("could not clear persisted token")
	}
}
