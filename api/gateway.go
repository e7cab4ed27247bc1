package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/seenimoa/cleanmind/internal/provider"
)

// gatewayRoute maps one gateway path to a resource and its fixed error
// messages.
type gatewayRoute struct {
	pattern    string
	resource   provider.Resource
	pathParams []string
	missingMsg string // 400 body when a required parameter is absent
	failMsg    string // 500 body for every other failure
	aliases    map[string]string
}

var gatewayRoutes = []gatewayRoute{
	{pattern: "/global", resource: provider.ResourceGlobal,
		failMsg: "Failed to fetch global market data"},
	{pattern: "/trending", resource: provider.ResourceTrending,
		failMsg: "Failed to fetch trending data"},
	{pattern: "/ping", resource: provider.ResourcePing,
		failMsg: "Failed to connect to CoinGecko API"},
	{pattern: "/coin-list", resource: provider.ResourceCoinList,
		failMsg: "Failed to fetch coin list"},
	{pattern: "/coin/{id}", resource: provider.ResourceCoinDetail, pathParams: []string{provider.ParamID},
		missingMsg: "Missing id", failMsg: "Failed to fetch coin details"},
	{pattern: "/top-cryptos", resource: provider.ResourceMarkets,
		failMsg: "Failed to fetch top cryptos data", aliases: map[string]string{"perPage": provider.ParamPerPage}},
	{pattern: "/search", resource: provider.ResourceSearch,
		missingMsg: "Missing query", failMsg: "Failed to search cryptos"},
	{pattern: "/simple-price", resource: provider.ResourceSimplePrice,
		missingMsg: "Missing ids", failMsg: "Failed to fetch simple price"},
	{pattern: "/supported-currencies", resource: provider.ResourceSupportedCurrencies,
		failMsg: "Failed to fetch supported currencies"},
	{pattern: "/market-chart", resource: provider.ResourceMarketChart,
		missingMsg: "Missing id", failMsg: "Failed to fetch market chart"},
	{pattern: "/exchanges", resource: provider.ResourceExchanges,
		failMsg: "Failed to fetch exchanges"},
	{pattern: "/nfts", resource: provider.ResourceNFTList,
		failMsg: "Failed to fetch NFTs data"},
	{pattern: "/nfts/contract/{platform}/{address}", resource: provider.ResourceNFTByContract,
		pathParams: []string{provider.ParamPlatform, provider.ParamAddress},
		missingMsg: "Missing platform or contract address", failMsg: "Failed to fetch NFT collection by contract"},
	{pattern: "/nfts/{id}", resource: provider.ResourceNFTDetail, pathParams: []string{provider.ParamID},
		missingMsg: "Missing NFT collection ID", failMsg: "Failed to fetch NFT collection details"},
}

// gatewayError is the body of a failed gateway request.
type gatewayError struct {
	Error string `json:"error"`
}

func (s *Server) mountGateway(r chi.Router) {
	for _, rt := range gatewayRoutes {
		r.Get(rt.pattern, s.gatewayHandler(rt))
		if rt.resource == provider.ResourceCoinDetail {
			// A bare detail path has no id and answers with the missing-id error.
			r.Get("/coin", s.gatewayHandler(rt))
		}
	}
}

// gatewayHandler forwards one request to the registry and writes the
// upstream body verbatim.
func (s *Server) gatewayHandler(rt gatewayRoute) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := provider.QueryParams{}
		for key, vals := range r.URL.Query() {
			if len(vals) == 0 || vals[0] == "" {
				continue
			}
			if alias, ok := rt.aliases[key]; ok {
				key = alias
			}
			params[key] = vals[0]
		}
		for _, name := range rt.pathParams {
			if v := chi.URLParam(r, name); v != "" {
				params[name] = v
			}
		}

		res, err := s.registry.Fetch(r.Context(), rt.resource, params)
		if err != nil {
			var missing *provider.ErrMissingParam
			if errors.As(err, &missing) && rt.missingMsg != "" {
				s.logger.Debug().Str("resource", string(rt.resource)).Str("param", missing.Param).Msg("missing parameter")
				s.writeJSON(w, http.StatusBadRequest, gatewayError{Error: rt.missingMsg})
				return
			}
			s.logger.Error().Err(err).Str("resource", string(rt.resource)).Msg("gateway fetch failed")
			s.writeJSON(w, http.StatusInternalServerError, gatewayError{Error: rt.failMsg})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(res.Body); err != nil {
			s.logger.Debug().Err(err).Msg("client went away")
		}
	}
}
