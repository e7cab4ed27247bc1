// Package coingecko implements the CoinGecko market-data provider.
// CoinGecko offers global market, asset, exchange and NFT data via a REST
// API. A demo or pro key is optional; without one the public tier applies.
//
// Docs: https://docs.coingecko.com/reference/introduction
package coingecko

import (
	"context"
	"fmt"

	"github.com/seenimoa/cleanmind/internal/provider"
)

const (
	providerName     = "coingecko"
	defaultBaseURL   = "https://api.coingecko.com/api/v3"
	defaultUserAgent = "clean-mind-crypto/1.0.0"
	credAPIKey       = "api_key"
)

// Provider implements provider.Provider for CoinGecko.
type Provider struct {
	provider.BaseProvider
	client *Client
}

// New creates a CoinGecko provider using client and registers one fetcher
// per endpoint.
func New(client *Client) *Provider {
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"CoinGecko - crypto market, exchange and NFT data",
			"https://www.coingecko.com",
			[]provider.ProviderCredential{
				{
					Name:        credAPIKey,
					Description: "CoinGecko demo or pro API key",
					Required:    false,
					EnvVar:      "CLEANMIND_COINGECKO_API_KEY",
				},
			},
		),
		client: client,
	}

	for _, ep := range endpoints {
		p.RegisterFetcher(newFetcher(ep, client))
	}
	return p
}

// Ping checks connectivity to CoinGecko.
func (p *Provider) Ping(ctx context.Context) error {
	if _, _, err := p.client.Get(ctx, "/ping", nil, false); err != nil {
		return fmt.Errorf("coingecko ping: %w", err)
	}
	return nil
}
