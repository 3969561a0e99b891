package search

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

// Options configures a new Client.
type Options struct {
	Timeout   time.Duration
	Endpoints Endpoints
	Log       zerolog.Logger
	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

// Client is a single search session. Each client keeps its own cookie jar,
// so replacing a client that started getting rate-limited starts a fresh
// session with the providers.
type Client struct {
	id        xid.ID
	createdAt time.Time
	http      *http.Client
	endpoints Endpoints
	registry  *Registry
	log       zerolog.Logger
}

// NewClient creates a new search session.
func NewClient(opts Options) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	endpoints := opts.Endpoints.withDefaults()
	registry := NewRegistry()
	registerBackends(registry, endpoints)

	clientID := xid.New()
	return &Client{
		id:        clientID,
		createdAt: time.Now(),
		http: &http.Client{
			Timeout:   timeout,
			Jar:       jar,
			Transport: opts.Transport,
		},
		endpoints: endpoints,
		registry:  registry,
		log:       opts.Log.With().Str("search_client", clientID.String()).Logger(),
	}, nil
}

// ID returns the unique id of this session.
func (c *Client) ID() string {
	return c.id.String()
}

// CreatedAt returns when the session was created.
func (c *Client) CreatedAt() time.Time {
	return c.createdAt
}
