// Package models defines the market-data and client-local types shared by
// the gateway, the data-access layer and the page views.
package models

// MarketAsset is one row of the ranked asset list.
// Nullable upstream numbers are pointers.
type MarketAsset struct {
	ID                         string   `json:"id"`
	Symbol                     string   `json:"symbol"`
	Name                       string   `json:"name"`
	Image                      string   `json:"image"`
	CurrentPrice               *float64 `json:"current_price"`
	MarketCap                  *float64 `json:"market_cap"`
	MarketCapRank              *int     `json:"market_cap_rank"`
	FullyDilutedValuation      *float64 `json:"fully_diluted_valuation"`
	TotalVolume                *float64 `json:"total_volume"`
	High24h                    *float64 `json:"high_24h"`
	Low24h                     *float64 `json:"low_24h"`
	PriceChange24h             *float64 `json:"price_change_24h"`
	PriceChangePct1hInCurrency *float64 `json:"price_change_percentage_1h_in_currency"`
	PriceChangePct24h          *float64 `json:"price_change_percentage_24h"`
	PriceChangePct7d           *float64 `json:"price_change_percentage_7d"`
	PriceChangePct30d          *float64 `json:"price_change_percentage_30d"`
	MarketCapChange24h         *float64 `json:"market_cap_change_24h"`
	MarketCapChangePct24h      *float64 `json:"market_cap_change_percentage_24h"`
	CirculatingSupply          *float64 `json:"circulating_supply"`
	TotalSupply                *float64 `json:"total_supply"`
	MaxSupply                  *float64 `json:"max_supply"`
	ATH                        *float64 `json:"ath"`
	ATHChangePct               *float64 `json:"ath_change_percentage"`
	ATHDate                    string   `json:"ath_date"`
	ATL                        *float64 `json:"atl"`
	ATLChangePct               *float64 `json:"atl_change_percentage"`
	ATLDate                    string   `json:"atl_date"`
	ROI                        *ROI     `json:"roi"`
	LastUpdated                string   `json:"last_updated"`
}

// ROI is the return-on-investment block of an asset.
type ROI struct {
	Times      float64 `json:"times"`
	Currency   string  `json:"currency"`
	Percentage float64 `json:"percentage"`
}

// Rank returns the market-cap rank, or 0 when unranked.
func (a MarketAsset) Rank() int {
	if a.MarketCapRank == nil {
		return 0
	}
	return *a.MarketCapRank
}

// GlobalSnapshot is the aggregate market summary.
type GlobalSnapshot struct {
	Data GlobalData `json:"data"`
}

// GlobalData holds the aggregate figures, keyed by currency code where
// the upstream reports several.
type GlobalData struct {
	ActiveCryptocurrencies          int                `json:"active_cryptocurrencies"`
	UpcomingICOs                    int                `json:"upcoming_icos"`
	OngoingICOs                     int                `json:"ongoing_icos"`
	EndedICOs                       int                `json:"ended_icos"`
	Markets                         int                `json:"markets"`
	TotalMarketCap                  map[string]float64 `json:"total_market_cap"`
	TotalVolume                     map[string]float64 `json:"total_volume"`
	MarketCapPercentage             map[string]float64 `json:"market_cap_percentage"`
	MarketCapChangePercentage24hUSD float64            `json:"market_cap_change_percentage_24h_usd"`
	UpdatedAt                       int64              `json:"updated_at"`
}

// TrendingData lists the currently trending assets and exchanges.
type TrendingData struct {
	Coins     []TrendingCoinEntry `json:"coins"`
	Exchanges []TrendingExchange  `json:"exchanges"`
}

// TrendingCoinEntry wraps a trending coin the way the upstream nests it.
type TrendingCoinEntry struct {
	Item TrendingCoin `json:"item"`
}

// TrendingCoin is one trending asset.
type TrendingCoin struct {
	ID            string  `json:"id"`
	CoinID        int     `json:"coin_id"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	MarketCapRank int     `json:"market_cap_rank"`
	Thumb         string  `json:"thumb"`
	Small         string  `json:"small"`
	Large         string  `json:"large"`
	Slug          string  `json:"slug"`
	PriceBTC      float64 `json:"price_btc"`
	Score         int     `json:"score"`
}

// TrendingExchange is one trending exchange.
type TrendingExchange struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Thumb string `json:"thumb"`
	Large string `json:"large"`
}

// ExchangeInfo describes a trading venue.
type ExchangeInfo struct {
	ID                          string   `json:"id"`
	Name                        string   `json:"name"`
	YearEstablished             *int     `json:"year_established"`
	Country                     string   `json:"country"`
	Description                 string   `json:"description"`
	URL                         string   `json:"url"`
	Image                       string   `json:"image"`
	HasTradingIncentive         bool     `json:"has_trading_incentive"`
	Centralized                 bool     `json:"centralized"`
	TrustScore                  int      `json:"trust_score"`
	TrustScoreRank              int      `json:"trust_score_rank"`
	TradeVolume24hBTC           *float64 `json:"trade_volume_24h_btc"`
	TradeVolume24hBTCNormalized *float64 `json:"trade_volume_24h_btc_normalized"`
	PublicInterestScore         float64  `json:"public_interest_score"`
}

// ChartPoint is a [epoch-ms, value] pair.
type ChartPoint [2]float64

// Time returns the point's epoch-millisecond timestamp.
func (p ChartPoint) Time() int64 { return int64(p[0]) }

// Value returns the point's value.
func (p ChartPoint) Value() float64 { return p[1] }

// ChartSeries holds aligned price, market-cap and volume series.
type ChartSeries struct {
	Prices       []ChartPoint `json:"prices"`
	MarketCaps   []ChartPoint `json:"market_caps"`
	TotalVolumes []ChartPoint `json:"total_volumes"`
}

// CoinRef is one entry of the full identifier list.
type CoinRef struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// SearchResults is the search response; only coins are modelled.
type SearchResults struct {
	Coins []SearchCoin `json:"coins"`
}

// SearchCoin is one coin hit of a search.
type SearchCoin struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	MarketCapRank *int   `json:"market_cap_rank"`
	Thumb         string `json:"thumb"`
	Large         string `json:"large"`
}

// SimplePrices maps asset id → field → value, e.g.
// {"bitcoin": {"usd": 45000, "usd_market_cap": 9e11}}.
type SimplePrices map[string]map[string]float64

// CoinDetail is the subset of the asset detail payload the views read.
// The gateway itself forwards the full upstream document.
type CoinDetail struct {
	ID            string            `json:"id"`
	Symbol        string            `json:"symbol"`
	Name          string            `json:"name"`
	Image         CoinImage         `json:"image"`
	MarketCapRank *int              `json:"market_cap_rank"`
	Description   map[string]string `json:"description,omitempty"`
	MarketData    *CoinMarketData   `json:"market_data,omitempty"`
	LastUpdated   string            `json:"last_updated"`
}

// CoinImage holds the image variants of an asset.
type CoinImage struct {
	Thumb string `json:"thumb"`
	Small string `json:"small"`
	Large string `json:"large"`
}

// CoinMarketData is the per-currency market block of an asset detail.
type CoinMarketData struct {
	CurrentPrice             map[string]float64 `json:"current_price"`
	MarketCap                map[string]float64 `json:"market_cap"`
	TotalVolume              map[string]float64 `json:"total_volume"`
	PriceChangePercentage24h *float64           `json:"price_change_percentage_24h"`
}

// Ptr returns a pointer to v, for building nullable fields.
func Ptr[T any](v T) *T { return &v }
