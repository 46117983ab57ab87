// Package source assembles track source providers from configuration.
package source

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/quizbox/blindtest/internal/domain/track"
)

// Provider wraps a track source with its display metadata.
type Provider struct {
	Source      Resolver
	DisplayName string
}

// Resolver resolves a free-text song query to a track.
type Resolver interface {
	Resolve(ctx context.Context, query string) (*track.Track, error)
}

// Chain tries providers in order until one resolves the query.
type Chain struct {
	providers []Provider
}

// NewChain creates a provider chain.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Resolve resolves the query through the chain. A provider failure is
// logged and the next provider is tried; the error of the last provider
// is returned when all fail.
func (c *Chain) Resolve(ctx context.Context, query string) (*track.Track, error) {
	if len(c.providers) == 0 {
		return nil, errors.New("no track source providers configured")
	}

	var lastErr error
	for _, p := range c.providers {
		t, err := p.Source.Resolve(ctx, query)
		if err != nil {
			zlog.Debug().Msgf("provider miss: provider=%s query=%q err=%v", p.DisplayName, query, err)
			lastErr = err
			continue
		}
		zlog.Debug().Msgf("provider hit: provider=%s query=%q track=%q", p.DisplayName, query, t.Title)
		return t, nil
	}
	return nil, errors.Wrapf(lastErr, "all providers failed for %q", query)
}
