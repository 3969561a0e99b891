// Package searchbot implements the search, suggest and gsuggest chat commands
// on top of a periodically replaced search client.
package searchbot

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/beeper/search-bot/pkg/autocomplete"
	"github.com/beeper/search-bot/pkg/search"
)

// ErrHolderClosed is returned once the holder has been torn down.
var ErrHolderClosed = errors.New("search client holder is shut down")

// Searcher is the part of search.Client the commands use.
type Searcher interface {
	Text(ctx context.Context, params search.TextParams) ([]search.TextResult, error)
	Suggestions(ctx context.Context, query string, region search.Region) ([]search.Suggestion, error)
}

// Autocompleter fetches autocomplete suggestions for gsuggest.
type Autocompleter interface {
	Complete(ctx context.Context, query, language string) (autocomplete.Suggestions, error)
}

// ClientFactory creates a fresh search client.
type ClientFactory func() (Searcher, error)

type heldClient struct {
	Searcher
}

// ClientHolder owns the single live search client. Readers grab the current
// client once per invocation; refreshes swap in a new one without touching
// the client that in-flight readers already hold.
type ClientHolder struct {
	factory ClientFactory
	log     zerolog.Logger

	current atomic.Pointer[heldClient]
	closed  atomic.Bool
}

// NewClientHolder creates an empty holder. Call Initialize to create the first client.
func NewClientHolder(factory ClientFactory, log zerolog.Logger) *ClientHolder {
	return &ClientHolder{factory: factory, log: log}
}

// Initialize creates a new client and stores it, replacing any previous one.
func (h *ClientHolder) Initialize() error {
	if h.closed.Load() {
		return ErrHolderClosed
	}
	client, err := h.factory()
	if err != nil {
		return fmt.Errorf("failed to create search client: %w", err)
	}
	if client == nil {
		return errors.New("search client factory returned nil")
	}
	h.current.Store(&heldClient{Searcher: client})
	if h.closed.Load() {
		h.current.Store(nil)
		return ErrHolderClosed
	}
	evt := h.log.Debug()
	if identified, ok := client.(interface{ ID() string }); ok {
		evt.Str("search_client", identified.ID())
	}
	evt.Msg("Refreshed search client")
	return nil
}

// RefreshAfterFailure replaces the client after the provider signalled a
// rate limit or timeout. Errors are logged, not returned.
func (h *ClientHolder) RefreshAfterFailure(reason string) {
	h.log.Debug().Str("reason", reason).Msg("Refreshing search client to try to recover")
	if err := h.Initialize(); err != nil {
		h.log.Err(err).Msg("Failed to refresh search client")
	}
}

// Teardown drops the client. Further Acquire calls fail.
func (h *ClientHolder) Teardown() {
	h.closed.Store(true)
	h.current.Store(nil)
}

// Current returns the live client, or nil if there is none.
func (h *ClientHolder) Current() Searcher {
	held := h.current.Load()
	if held == nil {
		return nil
	}
	return held.Searcher
}

// Acquire returns the live client, creating one if none exists yet.
func (h *ClientHolder) Acquire() (Searcher, error) {
	if client := h.Current(); client != nil {
		return client, nil
	}
	if err := h.Initialize(); err != nil {
		return nil, err
	}
	if client := h.Current(); client != nil {
		return client, nil
	}
	return nil, ErrHolderClosed
}
