package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Text runs a text search, trying each backend in order until one returns results.
func (c *Client) Text(ctx context.Context, params TextParams) ([]TextResult, error) {
	if strings.TrimSpace(params.Query) == "" {
		return nil, fmt.Errorf("missing query")
	}
	params = normalizeParams(params)
	backends, unknown := c.registry.Resolve(params.Backends)
	if len(unknown) > 0 {
		c.log.Warn().Strs("backends", unknown).Strs("available", c.registry.Names()).Msg("Skipping unknown search backends")
	}
	if len(backends) == 0 {
		return nil, ErrNoBackends
	}

	var lastErr, ratelimitErr, timeoutErr error
	for _, backend := range backends {
		name := backend.Name()
		results, err := backend.Text(ctx, c.http, params)
		if err != nil {
			c.log.Warn().Err(err).Str("backend", name).Msg("Search backend failed")
			lastErr = err
			switch {
			case IsRatelimit(err) && ratelimitErr == nil:
				ratelimitErr = err
			case IsTimeout(err) && timeoutErr == nil:
				timeoutErr = err
			}
			continue
		}
		if len(results) == 0 {
			continue
		}
		if len(results) > params.MaxResults {
			results = results[:params.MaxResults]
		}
		return results, nil
	}
	switch {
	case ratelimitErr != nil:
		return nil, ratelimitErr
	case timeoutErr != nil:
		return nil, timeoutErr
	case lastErr != nil && ctx.Err() != nil:
		return nil, errors.Join(ctx.Err(), lastErr)
	case lastErr != nil:
		return nil, lastErr
	}
	return []TextResult{}, nil
}

func normalizeParams(params TextParams) TextParams {
	params.Query = strings.TrimSpace(params.Query)
	if params.MaxResults <= 0 {
		params.MaxResults = DefaultMaxResults
	}
	if params.MaxResults > MaxResultsLimit {
		params.MaxResults = MaxResultsLimit
	}
	if strings.TrimSpace(string(params.Region)) == "" {
		params.Region = DefaultRegion
	}
	params.SafeSearch = ParseSafeSearch(string(params.SafeSearch))
	return params
}
