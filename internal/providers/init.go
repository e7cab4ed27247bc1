// Package providers initializes and registers the concrete upstream
// providers with a provider registry.
package providers

import (
	"github.com/rs/zerolog"

	"github.com/seenimoa/cleanmind/internal/config"
	"github.com/seenimoa/cleanmind/internal/provider"
	"github.com/seenimoa/cleanmind/internal/providers/coingecko"
)

// RegisterAllTo creates every available provider from cfg and registers it
// with reg. CoinGecko works without a key, so it is always registered.
func RegisterAllTo(reg *provider.Registry, cfg *config.Config, logger zerolog.Logger) error {
	client := coingecko.NewClient(coingecko.OptionsFromConfig(cfg.CoinGecko, logger))
	cg := coingecko.New(client)

	creds := map[string]string{}
	if cfg.CoinGecko.APIKey != "" {
		creds["api_key"] = cfg.CoinGecko.APIKey
	}
	if err := cg.Init(creds); err != nil {
		return err
	}
	return reg.Register(cg)
}
