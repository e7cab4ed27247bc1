package dashboard

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/seenimoa/cleanmind/internal/datasource"
	"github.com/seenimoa/cleanmind/pkg/models"
	"github.com/seenimoa/cleanmind/pkg/utils"
)

// maxCurrencyBreakdown bounds the per-currency market cap list.
const maxCurrencyBreakdown = 8

// GlobalSummary is the global snapshot formatted for display.
type GlobalSummary struct {
	TotalMarketCap   string       `json:"total_market_cap"`
	TotalVolume      string       `json:"total_volume"`
	MarketCapChange  string       `json:"market_cap_change_24h"`
	ChangeTrend      utils.Change `json:"change_trend"`
	BTCDominance     string       `json:"btc_dominance"`
	ETHDominance     string       `json:"eth_dominance"`
	ActiveCurrencies int          `json:"active_cryptocurrencies"`
	Markets          int          `json:"markets"`
	UpdatedAt        string       `json:"updated_at,omitempty"`
}

// NewGlobalSummary formats the USD figures of g.
func NewGlobalSummary(g models.GlobalData) GlobalSummary {
	s := GlobalSummary{
		TotalMarketCap:   usdFigure(g.TotalMarketCap),
		TotalVolume:      usdFigure(g.TotalVolume),
		MarketCapChange:  utils.FormatPercentage(g.MarketCapChangePercentage24hUSD),
		ChangeTrend:      utils.ClassifyChange(g.MarketCapChangePercentage24hUSD),
		BTCDominance:     dominance(g.MarketCapPercentage, "btc"),
		ETHDominance:     dominance(g.MarketCapPercentage, "eth"),
		ActiveCurrencies: g.ActiveCryptocurrencies,
		Markets:          g.Markets,
	}
	if g.UpdatedAt > 0 {
		s.UpdatedAt = utils.FormatRelativeTime(g.UpdatedAt * 1000)
	}
	return s
}

func usdFigure(m map[string]float64) string {
	v, ok := m["usd"]
	if !ok {
		return utils.NotAvailable
	}
	return "$" + utils.FormatCompact(v)
}

func dominance(m map[string]float64, code string) string {
	v, ok := m[code]
	if !ok {
		return utils.NotAvailable
	}
	return strings.TrimPrefix(utils.FormatPercentage(v), "+")
}

// CurrencyFigure is one currency's total market cap.
type CurrencyFigure struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

// CurrencyBreakdown lists the market cap in every currency except USD,
// ordered by currency code and truncated to eight entries.
func CurrencyBreakdown(g models.GlobalData) []CurrencyFigure {
	codes := make([]string, 0, len(g.TotalMarketCap))
	for code := range g.TotalMarketCap {
		if code != "usd" {
			codes = append(codes, code)
		}
	}
	slices.Sort(codes)
	if len(codes) > maxCurrencyBreakdown {
		codes = codes[:maxCurrencyBreakdown]
	}
	out := make([]CurrencyFigure, len(codes))
	for i, code := range codes {
		out[i] = CurrencyFigure{
			Currency: strings.ToUpper(code),
			Value:    utils.FormatCompact(g.TotalMarketCap[code]),
		}
	}
	return out
}

// GlobalPage is the derived state of the global market page.
type GlobalPage struct {
	State      LoadState          `json:"state"`
	Error      string             `json:"error,omitempty"`
	Source     datasource.Source  `json:"source"`
	Summary    GlobalSummary      `json:"summary"`
	Dominance  map[string]float64 `json:"dominance"`
	Currencies []CurrencyFigure   `json:"currencies"`
	FetchedAt  time.Time          `json:"fetched_at"`
}

// GlobalView is the global market page.
type GlobalView struct {
	src    Source
	status Status

	mu       sync.Mutex
	snapshot models.GlobalSnapshot
	source   datasource.Source
}

// NewGlobalView creates an idle view.
func NewGlobalView(src Source) *GlobalView {
	return &GlobalView{src: src}
}

// Load fetches the snapshot.
func (v *GlobalView) Load(ctx context.Context) {
	v.status.Begin()
	res := v.src.GetGlobalData(ctx)
	v.mu.Lock()
	v.snapshot = res.Data
	v.source = res.Source
	v.mu.Unlock()
	v.status.Finish(nil)
}

// Page derives the rendered page.
func (v *GlobalView) Page() GlobalPage {
	v.mu.Lock()
	g := v.snapshot.Data
	out := GlobalPage{Source: v.source}
	v.mu.Unlock()

	out.Summary = NewGlobalSummary(g)
	out.Dominance = g.MarketCapPercentage
	out.Currencies = CurrencyBreakdown(g)
	out.State, out.Error = v.status.State()
	out.FetchedAt = v.status.UpdatedAt()
	return out
}
