package coingecko

import (
	"context"
	"net/url"

	"github.com/seenimoa/cleanmind/internal/provider"
)

// endpoint describes how one resource maps onto an upstream request.
type endpoint struct {
	resource provider.Resource
	desc     string
	required []string
	optional []string
	defaults map[string]string
	inQuery  []string // required params sent as query rather than path
	nft      bool
	fixed    url.Values // query values sent on every request
	path     func(p provider.QueryParams) string
}

func staticPath(path string) func(provider.QueryParams) string {
	return func(provider.QueryParams) string { return path }
}

var endpoints = []endpoint{
	// --- Market ---
	{
		resource: provider.ResourceGlobal,
		desc:     "Global market snapshot",
		path:     staticPath("/global"),
	},
	{
		resource: provider.ResourceTrending,
		desc:     "Trending assets and exchanges",
		path:     staticPath("/search/trending"),
	},
	{
		resource: provider.ResourcePing,
		desc:     "Upstream heartbeat",
		path:     staticPath("/ping"),
	},
	{
		resource: provider.ResourceSupportedCurrencies,
		desc:     "Supported quote currencies",
		path:     staticPath("/simple/supported_vs_currencies"),
	},

	// --- Assets ---
	{
		resource: provider.ResourceCoinList,
		desc:     "Full asset identifier list",
		path:     staticPath("/coins/list"),
	},
	{
		resource: provider.ResourceCoinDetail,
		desc:     "Single asset detail",
		required: []string{provider.ParamID},
		path: func(p provider.QueryParams) string {
			return "/coins/" + url.PathEscape(p[provider.ParamID])
		},
	},
	{
		resource: provider.ResourceMarkets,
		desc:     "Ranked asset list by market cap",
		optional: []string{provider.ParamPage, provider.ParamPerPage},
		defaults: map[string]string{provider.ParamPage: "1", provider.ParamPerPage: "100"},
		fixed: url.Values{
			"vs_currency":             {"usd"},
			"order":                   {"market_cap_desc"},
			"sparkline":               {"false"},
			"price_change_percentage": {"1h,24h,7d,30d"},
		},
		path: staticPath("/coins/markets"),
	},
	{
		resource: provider.ResourceSearch,
		desc:     "Asset search",
		required: []string{provider.ParamQuery},
		inQuery:  []string{provider.ParamQuery},
		path:     staticPath("/search"),
	},
	{
		resource: provider.ResourceSimplePrice,
		desc:     "Simple price for a set of assets",
		required: []string{provider.ParamIDs},
		inQuery:  []string{provider.ParamIDs},
		optional: []string{
			provider.ParamVsCurrencies,
			provider.ParamIncludeMarketCap,
			provider.ParamInclude24hVol,
			provider.ParamInclude24hChange,
			provider.ParamIncludeLastUpdate,
		},
		defaults: map[string]string{provider.ParamVsCurrencies: "usd"},
		path:     staticPath("/simple/price"),
	},
	{
		resource: provider.ResourceMarketChart,
		desc:     "Price, market cap and volume series",
		required: []string{provider.ParamID},
		optional: []string{provider.ParamVsCurrency, provider.ParamDays},
		defaults: map[string]string{provider.ParamVsCurrency: "usd", provider.ParamDays: "7"},
		path: func(p provider.QueryParams) string {
			return "/coins/" + url.PathEscape(p[provider.ParamID]) + "/market_chart"
		},
	},

	// --- Exchanges ---
	{
		resource: provider.ResourceExchanges,
		desc:     "Exchange directory",
		optional: []string{provider.ParamPage, provider.ParamPerPage},
		defaults: map[string]string{provider.ParamPage: "1", provider.ParamPerPage: "20"},
		path:     staticPath("/exchanges"),
	},

	// --- NFT ---
	{
		resource: provider.ResourceNFTList,
		desc:     "NFT collection list",
		optional: []string{provider.ParamPage, provider.ParamPerPage, provider.ParamOrder},
		defaults: map[string]string{
			provider.ParamPage:    "1",
			provider.ParamPerPage: "20",
			provider.ParamOrder:   "market_cap_usd_desc",
		},
		nft:  true,
		path: staticPath("/nfts/list"),
	},
	{
		resource: provider.ResourceNFTDetail,
		desc:     "NFT collection detail",
		required: []string{provider.ParamID},
		nft:      true,
		path: func(p provider.QueryParams) string {
			return "/nfts/" + url.PathEscape(p[provider.ParamID])
		},
	},
	{
		resource: provider.ResourceNFTByContract,
		desc:     "NFT collection detail by contract address",
		required: []string{provider.ParamPlatform, provider.ParamAddress},
		nft:      true,
		path: func(p provider.QueryParams) string {
			return "/nfts/" + url.PathEscape(p[provider.ParamPlatform]) +
				"/contract/" + url.PathEscape(p[provider.ParamAddress])
		},
	},
}

// fetcher serves one endpoint.
type fetcher struct {
	provider.BaseFetcher
	ep     endpoint
	client *Client
}

func newFetcher(ep endpoint, client *Client) *fetcher {
	return &fetcher{
		BaseFetcher: provider.NewBaseFetcher(ep.resource, ep.desc, ep.required, ep.optional, ep.defaults),
		ep:          ep,
		client:      client,
	}
}

// Fetch builds the upstream request from params and returns the body verbatim.
func (f *fetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	params = f.WithDefaults(params)

	body, attempts, err := f.client.Get(ctx, f.ep.path(params), f.ep.query(params), f.ep.nft)
	if err != nil {
		return nil, err
	}
	return &provider.FetchResult{
		Body:      body,
		Attempts:  attempts,
		FetchedAt: f.client.clock.Now(),
	}, nil
}

// query merges the fixed values, the required params the upstream expects
// in the query string, and every non-empty optional param.
func (ep endpoint) query(params provider.QueryParams) url.Values {
	q := make(url.Values, len(ep.fixed)+len(params))
	for k, v := range ep.fixed {
		q[k] = v
	}
	for _, k := range ep.inQuery {
		q.Set(k, params[k])
	}
	for _, k := range ep.optional {
		if v := params[k]; v != "" {
			q.Set(k, v)
		}
	}
	return q
}
