package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/agenthands/metasearch/internal/config"
	"github.com/agenthands/metasearch/internal/logging"
)

var ErrNoAdapters = errors.New("no search providers configured")

// NewAdapters builds every enabled provider in fixed order (Exa, Google,
// YouTube), each wrapped in Resilient. Providers that are enabled but lack
// credentials are skipped with a warning so one missing key does not take the
// service down.
func NewAdapters(ctx context.Context, cfg *config.Config, logger logging.Logger) ([]Adapter, error) {
	type entry struct {
		name  string
		pcfg  config.ProviderConfig
		build func() (Adapter, error)
	}

	p := cfg.Providers
	entries := []entry{
		{"exa", p.Exa, func() (Adapter, error) {
			return NewExaAdapter(p.Exa.APIKey, p.Exa.BaseURL)
		}},
		{"google", p.Google, func() (Adapter, error) {
			return NewGoogleAdapter(ctx, p.Google.APIKey, p.Google.CX, endpointOption(p.Google.BaseURL)...)
		}},
		{"youtube", p.YouTube, func() (Adapter, error) {
			return NewYouTubeAdapter(ctx, p.YouTube.APIKey, endpointOption(p.YouTube.BaseURL)...)
		}},
	}

	var adapters []Adapter
	for _, e := range entries {
		if !e.pcfg.Enabled {
			logger.WithField("provider", e.name).Debug("provider disabled")
			continue
		}
		a, err := e.build()
		if err != nil {
			logger.WithField("provider", e.name).WithError(err).Warn("skipping provider")
			continue
		}
		adapters = append(adapters, NewResilient(a, ResilienceConfig{
			Timeout:       cfg.Search.ProviderTimeout.Duration,
			MaxRetries:    e.pcfg.MaxRetries,
			RatePerSecond: e.pcfg.RatePerSecond,
			Burst:         e.pcfg.Burst,
		}))
		logger.WithField("provider", e.name).Info("provider enabled")
	}

	if len(adapters) == 0 {
		return nil, fmt.Errorf("%w: set provider api keys in config or environment", ErrNoAdapters)
	}
	return adapters, nil
}
