package datasource

import (
	"strings"

	"github.com/seenimoa/cleanmind/pkg/models"
)

// Fallback values returned when the gateway cannot serve a query. Every
// function builds a fresh value so callers may mutate what they get.

const (
	fallbackUpdatedAt = 1700000000
	fallbackChartNow  = 1700000000000
	dayMillis         = 24 * 60 * 60 * 1000
	fallbackLastSeen  = "2024-11-15T10:00:00.000Z"
)

// FallbackGlobal returns the substitute global snapshot.
func FallbackGlobal() models.GlobalSnapshot {
	return models.GlobalSnapshot{
		Data: models.GlobalData{
			ActiveCryptocurrencies:          10000,
			UpcomingICOs:                    0,
			OngoingICOs:                     0,
			EndedICOs:                       0,
			Markets:                         800,
			TotalMarketCap:                  map[string]float64{"usd": 2.5e12},
			TotalVolume:                     map[string]float64{"usd": 1e11},
			MarketCapPercentage:             map[string]float64{"btc": 45.2, "eth": 18.5},
			MarketCapChangePercentage24hUSD: 2.5,
			UpdatedAt:                       fallbackUpdatedAt,
		},
	}
}

// FallbackTrending returns the substitute trending list.
func FallbackTrending() models.TrendingData {
	return models.TrendingData{
		Coins: []models.TrendingCoinEntry{
			{Item: models.TrendingCoin{
				ID:            "bitcoin",
				CoinID:        1,
				Name:          "Bitcoin",
				Symbol:        "btc",
				MarketCapRank: 1,
				Thumb:         "https://assets.coingecko.com/coins/images/1/thumb/bitcoin.png",
				Small:         "https://assets.coingecko.com/coins/images/1/small/bitcoin.png",
				Large:         "https://assets.coingecko.com/coins/images/1/large/bitcoin.png",
				Slug:          "bitcoin",
				PriceBTC:      1,
				Score:         0,
			}},
			{Item: models.TrendingCoin{
				ID:            "ethereum",
				CoinID:        2,
				Name:          "Ethereum",
				Symbol:        "eth",
				MarketCapRank: 2,
				Thumb:         "https://assets.coingecko.com/coins/images/279/thumb/ethereum.png",
				Small:         "https://assets.coingecko.com/coins/images/279/small/ethereum.png",
				Large:         "https://assets.coingecko.com/coins/images/279/large/ethereum.png",
				Slug:          "ethereum",
				PriceBTC:      0.067,
				Score:         0,
			}},
		},
		Exchanges: []models.TrendingExchange{},
	}
}

// FallbackAssets returns the substitute ranked asset list.
func FallbackAssets() []models.MarketAsset {
	return []models.MarketAsset{
		{
			ID:                    "bitcoin",
			Symbol:                "btc",
			Name:                  "Bitcoin",
			Image:                 "https://assets.coingecko.com/coins/images/1/large/bitcoin.png",
			CurrentPrice:          models.Ptr(45000.0),
			MarketCap:             models.Ptr(9e11),
			MarketCapRank:         models.Ptr(1),
			FullyDilutedValuation: models.Ptr(9.45e11),
			TotalVolume:           models.Ptr(2.5e10),
			High24h:               models.Ptr(46000.0),
			Low24h:                models.Ptr(44000.0),
			PriceChange24h:        models.Ptr(1000.0),
			PriceChangePct24h:     models.Ptr(2.27),
			PriceChangePct7d:      models.Ptr(5.2),
			PriceChangePct30d:     models.Ptr(12.5),
			MarketCapChange24h:    models.Ptr(2e10),
			MarketCapChangePct24h: models.Ptr(2.27),
			CirculatingSupply:     models.Ptr(2e7),
			TotalSupply:           models.Ptr(2.1e7),
			MaxSupply:             models.Ptr(2.1e7),
			ATH:                   models.Ptr(69000.0),
			ATHChangePct:          models.Ptr(-34.78),
			ATHDate:               "2021-11-10T14:24:11.849Z",
			ATL:                   models.Ptr(67.81),
			ATLChangePct:          models.Ptr(66263.12),
			ATLDate:               "2013-07-06T00:00:00.000Z",
			ROI:                   nil,
			LastUpdated:           fallbackLastSeen,
		},
		{
			ID:                    "ethereum",
			Symbol:                "eth",
			Name:                  "Ethereum",
			Image:                 "https://assets.coingecko.com/coins/images/279/large/ethereum.png",
			CurrentPrice:          models.Ptr(3000.0),
			MarketCap:             models.Ptr(3.6e11),
			MarketCapRank:         models.Ptr(2),
			FullyDilutedValuation: models.Ptr(3.6e11),
			TotalVolume:           models.Ptr(1.5e10),
			High24h:               models.Ptr(3100.0),
			Low24h:                models.Ptr(2900.0),
			PriceChange24h:        models.Ptr(50.0),
			PriceChangePct24h:     models.Ptr(1.69),
			PriceChangePct7d:      models.Ptr(3.2),
			PriceChangePct30d:     models.Ptr(8.5),
			MarketCapChange24h:    models.Ptr(6e9),
			MarketCapChangePct24h: models.Ptr(1.69),
			CirculatingSupply:     models.Ptr(1.2e8),
			TotalSupply:           models.Ptr(1.2e8),
			MaxSupply:             nil,
			ATH:                   models.Ptr(4800.0),
			ATHChangePct:          models.Ptr(-37.5),
			ATHDate:               "2021-11-10T14:24:11.849Z",
			ATL:                   models.Ptr(0.432979),
			ATLChangePct:          models.Ptr(692461.12),
			ATLDate:               "2015-10-20T00:00:00.000Z",
			ROI:                   &models.ROI{Times: 50, Currency: "btc", Percentage: 5000},
			LastUpdated:           fallbackLastSeen,
		},
	}
}

// FallbackChart returns the substitute eight-day series.
func FallbackChart() models.ChartSeries {
	prices := []float64{42000, 43500, 42800, 44200, 43800, 44500, 44000, 45000}
	caps := []float64{8e11, 8.3e11, 8.2e11, 8.5e11, 8.4e11, 8.6e11, 8.5e11, 9e11}
	volumes := []float64{2e10, 2.2e10, 1.8e10, 2.5e10, 2.1e10, 2.3e10, 2e10, 2.5e10}
	return models.ChartSeries{
		Prices:       dailySeries(prices),
		MarketCaps:   dailySeries(caps),
		TotalVolumes: dailySeries(volumes),
	}
}

// dailySeries stamps values one day apart, the last one at fallbackChartNow.
func dailySeries(values []float64) []models.ChartPoint {
	out := make([]models.ChartPoint, len(values))
	last := len(values) - 1
	for i, v := range values {
		ts := fallbackChartNow - int64(last-i)*dayMillis
		out[i] = models.ChartPoint{float64(ts), v}
	}
	return out
}

// FallbackCurrencies returns the substitute quote-currency list.
func FallbackCurrencies() []string {
	return []string{"usd", "eur", "gbp", "jpy", "btc", "eth"}
}

// FallbackCoinList returns identifiers of the fallback assets.
func FallbackCoinList() []models.CoinRef {
	assets := FallbackAssets()
	out := make([]models.CoinRef, len(assets))
	for i, a := range assets {
		out[i] = models.CoinRef{ID: a.ID, Symbol: a.Symbol, Name: a.Name}
	}
	return out
}

// FallbackSearch filters the fallback assets by name or symbol.
func FallbackSearch(query string) models.SearchResults {
	q := strings.ToLower(query)
	res := models.SearchResults{Coins: []models.SearchCoin{}}
	for _, a := range FallbackAssets() {
		if !strings.Contains(strings.ToLower(a.Name), q) && !strings.Contains(strings.ToLower(a.Symbol), q) {
			continue
		}
		res.Coins = append(res.Coins, models.SearchCoin{
			ID:            a.ID,
			Name:          a.Name,
			Symbol:        a.Symbol,
			MarketCapRank: a.MarketCapRank,
			Thumb:         a.Image,
			Large:         a.Image,
		})
	}
	return res
}

// FallbackSimplePrice prices the requested ids that exist in the fallback
// assets; unknown ids are left out.
func FallbackSimplePrice(ids []string, opts SimplePriceOptions) models.SimplePrices {
	out := models.SimplePrices{}
	assets := FallbackAssets()
	for _, id := range ids {
		for _, a := range assets {
			if a.ID != id {
				continue
			}
			fields := map[string]float64{"usd": *a.CurrentPrice}
			if opts.IncludeMarketCap {
				fields["usd_market_cap"] = *a.MarketCap
			}
			if opts.Include24hVol {
				fields["usd_24h_vol"] = *a.TotalVolume
			}
			if opts.Include24hChange {
				fields["usd_24h_change"] = *a.PriceChangePct24h
			}
			if opts.IncludeLastUpdatedAt {
				fields["last_updated_at"] = fallbackUpdatedAt
			}
			out[id] = fields
		}
	}
	return out
}

// FallbackCoinDetail returns the fallback asset matching id, or the first
// one when none matches.
func FallbackCoinDetail(id string) models.CoinDetail {
	assets := FallbackAssets()
	a := assets[0]
	for _, cand := range assets {
		if cand.ID == id {
			a = cand
			break
		}
	}
	return models.CoinDetail{
		ID:            a.ID,
		Symbol:        a.Symbol,
		Name:          a.Name,
		Image:         models.CoinImage{Thumb: a.Image, Small: a.Image, Large: a.Image},
		MarketCapRank: a.MarketCapRank,
		MarketData: &models.CoinMarketData{
			CurrentPrice:             map[string]float64{"usd": *a.CurrentPrice},
			MarketCap:                map[string]float64{"usd": *a.MarketCap},
			TotalVolume:              map[string]float64{"usd": *a.TotalVolume},
			PriceChangePercentage24h: a.PriceChangePct24h,
		},
		LastUpdated: a.LastUpdated,
	}
}
