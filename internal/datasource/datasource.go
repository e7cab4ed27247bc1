// Package datasource is the single point through which the page views read
// market data. Every method calls the gateway and, on any failure, logs a
// warning and returns deterministic fallback data marked as such.
package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/seenimoa/cleanmind/internal/config"
	"github.com/seenimoa/cleanmind/internal/infra"
	"github.com/seenimoa/cleanmind/pkg/models"
)

// Client reads market data from the gateway.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// New creates a client for the gateway mounted at baseURL,
// e.g. http://127.0.0.1:8080/api/coingecko.
func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "datasource").Logger(),
	}
}

// NewFromConfig creates a client for the gateway named by cfg.
func NewFromConfig(cfg *config.Config, logger zerolog.Logger) *Client {
	return New(cfg.GatewayURL(), time.Duration(cfg.Dashboard.TimeoutSec)*time.Second, logger)
}

// BaseURL returns the gateway base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// getJSON fetches path from the gateway and decodes the body into dest.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dest any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	body, err := infra.DoGet(ctx, c.http, u, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// load runs one gateway query and falls back on any error.
func load[T any](ctx context.Context, c *Client, what, path string, query url.Values, fb func() T) Result[T] {
	var v T
	if err := c.getJSON(ctx, path, query, &v); err != nil {
		c.logger.Warn().Err(err).Str("query", what).Msg("falling back to sample data")
		return fallback(fb(), err)
	}
	return live(v)
}

// TestConnection calls the gateway heartbeat. Data is true only when the
// call succeeded.
func (c *Client) TestConnection(ctx context.Context) Result[bool] {
	var pong map[string]any
	if err := c.getJSON(ctx, "/ping", nil, &pong); err != nil {
		c.logger.Error().Err(err).Msg("connection test failed")
		return fallback(false, err)
	}
	c.logger.Debug().Interface("response", pong).Msg("connection test succeeded")
	return live(true)
}

// GetGlobalData returns the global market snapshot.
func (c *Client) GetGlobalData(ctx context.Context) Result[models.GlobalSnapshot] {
	return load(ctx, c, "global", "/global", nil, FallbackGlobal)
}

// GetTrending returns the trending assets.
func (c *Client) GetTrending(ctx context.Context) Result[models.TrendingData] {
	return load(ctx, c, "trending", "/trending", nil, FallbackTrending)
}

// GetTopCryptos returns one page of the ranked asset list with percentage
// fields normalized.
func (c *Client) GetTopCryptos(ctx context.Context, page, perPage int) Result[[]models.MarketAsset] {
	q := url.Values{
		"page":    {strconv.Itoa(page)},
		"perPage": {strconv.Itoa(perPage)},
	}
	res := load(ctx, c, "top-cryptos", "/top-cryptos", q, func() []rawAsset { return nil })
	if res.IsFallback() {
		return fallback(FallbackAssets(), res.Cause)
	}
	return live(normalizeAssets(res.Data))
}

// rawAsset is an asset row as the upstream may send it, with the
// currency-suffixed percentage fields some responses use instead.
type rawAsset struct {
	models.MarketAsset
	Pct24hInCurrency *float64 `json:"price_change_percentage_24h_in_currency"`
	Pct7dInCurrency  *float64 `json:"price_change_percentage_7d_in_currency"`
	Pct30dInCurrency *float64 `json:"price_change_percentage_30d_in_currency"`
}

// normalizeAssets fills each plain percentage field from its
// _in_currency counterpart when the plain one is missing.
func normalizeAssets(raw []rawAsset) []models.MarketAsset {
	out := make([]models.MarketAsset, len(raw))
	for i, r := range raw {
		a := r.MarketAsset
		a.PriceChangePct24h = coalesce(a.PriceChangePct24h, r.Pct24hInCurrency)
		a.PriceChangePct7d = coalesce(a.PriceChangePct7d, r.Pct7dInCurrency)
		a.PriceChangePct30d = coalesce(a.PriceChangePct30d, r.Pct30dInCurrency)
		out[i] = a
	}
	return out
}

func coalesce(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

// GetCryptoDetails returns the detail document of one asset.
func (c *Client) GetCryptoDetails(ctx context.Context, id string) Result[models.CoinDetail] {
	return load(ctx, c, "coin", "/coin/"+url.PathEscape(id), nil, func() models.CoinDetail {
		return FallbackCoinDetail(id)
	})
}

// GetMarketChart returns price, market-cap and volume series. days is a
// whole number of days or "max".
func (c *Client) GetMarketChart(ctx context.Context, id, days, vsCurrency string) Result[models.ChartSeries] {
	if days == "" {
		days = "7"
	}
	if vsCurrency == "" {
		vsCurrency = "usd"
	}
	q := url.Values{"id": {id}, "vs_currency": {vsCurrency}, "days": {days}}
	return load(ctx, c, "market-chart", "/market-chart", q, FallbackChart)
}

// SearchCryptos searches assets by name or symbol.
func (c *Client) SearchCryptos(ctx context.Context, query string) Result[models.SearchResults] {
	q := url.Values{"query": {query}}
	return load(ctx, c, "search", "/search", q, func() models.SearchResults {
		return FallbackSearch(query)
	})
}

// SimplePriceOptions selects the fields of a simple-price query.
type SimplePriceOptions struct {
	VsCurrencies         []string
	IncludeMarketCap     bool
	Include24hVol        bool
	Include24hChange     bool
	IncludeLastUpdatedAt bool
}

// DefaultSimplePriceOptions quotes in USD with every optional field.
func DefaultSimplePriceOptions() SimplePriceOptions {
	return SimplePriceOptions{
		VsCurrencies:         []string{"usd"},
		IncludeMarketCap:     true,
		Include24hVol:        true,
		Include24hChange:     true,
		IncludeLastUpdatedAt: true,
	}
}

// GetSimplePrice returns prices for ids.
func (c *Client) GetSimplePrice(ctx context.Context, ids []string, opts SimplePriceOptions) Result[models.SimplePrices] {
	vs := opts.VsCurrencies
	if len(vs) == 0 {
		vs = []string{"usd"}
	}
	q := url.Values{
		"ids":                     {strings.Join(ids, ",")},
		"vs_currencies":           {strings.Join(vs, ",")},
		"include_market_cap":      {strconv.FormatBool(opts.IncludeMarketCap)},
		"include_24hr_vol":        {strconv.FormatBool(opts.Include24hVol)},
		"include_24hr_change":     {strconv.FormatBool(opts.Include24hChange)},
		"include_last_updated_at": {strconv.FormatBool(opts.IncludeLastUpdatedAt)},
	}
	return load(ctx, c, "simple-price", "/simple-price", q, func() models.SimplePrices {
		return FallbackSimplePrice(ids, opts)
	})
}

// GetSupportedCurrencies returns the quote currencies the upstream accepts.
func (c *Client) GetSupportedCurrencies(ctx context.Context) Result[[]string] {
	return load(ctx, c, "supported-currencies", "/supported-currencies", nil, FallbackCurrencies)
}

// GetCoinList returns the full asset identifier list.
func (c *Client) GetCoinList(ctx context.Context) Result[[]models.CoinRef] {
	return load(ctx, c, "coin-list", "/coin-list", nil, FallbackCoinList)
}

// GetExchanges returns one page of the exchange directory.
func (c *Client) GetExchanges(ctx context.Context, page, perPage int) Result[[]models.ExchangeInfo] {
	q := url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}
	return load(ctx, c, "exchanges", "/exchanges", q, func() []models.ExchangeInfo {
		return []models.ExchangeInfo{}
	})
}

// GetNFTCollections returns one page of NFT collections in order.
func (c *Client) GetNFTCollections(ctx context.Context, page, perPage int, order string) Result[[]models.NFTCollectionSummary] {
	if order == "" {
		order = "market_cap_usd_desc"
	}
	q := url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
		"order":    {order},
	}
	return load(ctx, c, "nfts", "/nfts", q, func() []models.NFTCollectionSummary {
		return []models.NFTCollectionSummary{}
	})
}

// GetNFTCollectionDetails returns one NFT collection, or nil Data when the
// gateway fails.
func (c *Client) GetNFTCollectionDetails(ctx context.Context, id string) Result[*models.NFTCollectionDetail] {
	return load(ctx, c, "nft", "/nfts/"+url.PathEscape(id), nil, nilNFT)
}

// GetNFTByContract returns the NFT collection at a contract address.
func (c *Client) GetNFTByContract(ctx context.Context, platform, address string) Result[*models.NFTCollectionDetail] {
	path := "/nfts/contract/" + url.PathEscape(platform) + "/" + url.PathEscape(address)
	return load(ctx, c, "nft-contract", path, nil, nilNFT)
}

func nilNFT() *models.NFTCollectionDetail { return nil }
