package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const providerCheckTimeout = 10 * time.Second

// provider is an external API client that can verify its credentials.
type provider interface {
	Name() string
	IsConfigured() bool
	Test(ctx context.Context) error
}

// checkProviders tests every configured provider and returns the names of those that
// failed. Failures are logged and do not stop startup.
func checkProviders(ctx context.Context, providers []provider, logger zerolog.Logger) []string {
	var failed []string
	for _, p := range providers {
		if !p.IsConfigured() {
			continue
		}

		testCtx, cancel := context.WithTimeout(ctx, providerCheckTimeout)
		err := p.Test(testCtx)
		cancel()

		if err != nil {
			logger.Warn().Err(err).Str("provider", p.Name()).Msg("Provider connectivity check failed")
			failed = append(failed, p.Name())
			continue
		}
		logger.Info().Str("provider", p.Name()).Msg("Provider reachable")
	}
	return failed
}
