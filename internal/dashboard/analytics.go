package dashboard

import (
	"cmp"
	"context"
	"math"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/cleanmind/internal/datasource"
	"github.com/seenimoa/cleanmind/pkg/models"
	"github.com/seenimoa/cleanmind/pkg/utils"
)

const (
	analyticsAssets     = 10
	analyticsChangeBars = 8
)

// MarketCapBar is one bar of the market cap chart, in billions of USD.
type MarketCapBar struct {
	Name      string  `json:"name"`
	MarketCap float64 `json:"market_cap"`
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
}

// DominanceSlice is one slice of the dominance pie.
type DominanceSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ChangeBar is one bar of the 24h change chart.
type ChangeBar struct {
	Name   string       `json:"name"`
	Change float64      `json:"change"`
	Trend  utils.Change `json:"trend"`
}

// Analytics is the derived content of the analytics page.
type Analytics struct {
	MarketCapBars []MarketCapBar               `json:"market_cap_bars"`
	Dominance     []DominanceSlice             `json:"dominance"`
	ChangeBars    []ChangeBar                  `json:"change_bars"`
	TopMovers     []MarketRow                  `json:"top_movers"`
	Global        GlobalSummary                `json:"global"`
	Sources       map[string]datasource.Source `json:"sources"`
}

// BuildAnalytics derives the charts from the global snapshot and the
// top assets.
func BuildAnalytics(global models.GlobalData, assets []models.MarketAsset) Analytics {
	top := assets[:min(len(assets), analyticsAssets)]

	out := Analytics{
		MarketCapBars: make([]MarketCapBar, len(top)),
		ChangeBars:    make([]ChangeBar, 0, analyticsChangeBars),
		Dominance:     DominanceSlices(global.MarketCapPercentage),
		Global:        NewGlobalSummary(global),
	}
	for i, a := range top {
		out.MarketCapBars[i] = MarketCapBar{
			Name:      strings.ToUpper(a.Symbol),
			MarketCap: orZero(a.MarketCap) / 1e9,
			Price:     orZero(a.CurrentPrice),
			Change:    orZero(a.PriceChangePct24h),
		}
	}

	for _, a := range top[:min(len(top), analyticsChangeBars)] {
		c := orZero(a.PriceChangePct24h)
		out.ChangeBars = append(out.ChangeBars, ChangeBar{
			Name:   strings.ToUpper(a.Symbol),
			Change: c,
			Trend:  utils.ClassifyChange(c),
		})
	}

	movers := slices.Clone(top)
	slices.SortStableFunc(movers, func(a, b models.MarketAsset) int {
		return cmp.Compare(orZero(b.PriceChangePct24h), orZero(a.PriceChangePct24h))
	})
	out.TopMovers = make([]MarketRow, len(movers))
	for i, a := range movers {
		out.TopMovers[i] = NewMarketRow(a)
	}
	return out
}

// DominanceSlices splits the market into Bitcoin, Ethereum and Others.
// Others is never negative.
func DominanceSlices(pct map[string]float64) []DominanceSlice {
	btc, eth := pct["btc"], pct["eth"]
	return []DominanceSlice{
		{Name: "Bitcoin", Value: btc},
		{Name: "Ethereum", Value: eth},
		{Name: "Others", Value: math.Max(0, 100-btc-eth)},
	}
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// AnalyticsView loads and caches the analytics page.
type AnalyticsView struct {
	src    Source
	status Status

	mu   sync.Mutex
	last *Analytics
}

// NewAnalyticsView creates an idle view.
func NewAnalyticsView(src Source) *AnalyticsView {
	return &AnalyticsView{src: src}
}

// Load fetches the global snapshot and the top ten assets concurrently.
func (v *AnalyticsView) Load(ctx context.Context) (*Analytics, error) {
	v.status.Begin()

	var (
		global datasource.Result[models.GlobalSnapshot]
		assets datasource.Result[[]models.MarketAsset]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		global = v.src.GetGlobalData(gctx)
		return nil
	})
	g.Go(func() error {
		assets = v.src.GetTopCryptos(gctx, 1, analyticsAssets)
		return nil
	})
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		v.status.Finish(err)
		return nil, err
	}

	a := BuildAnalytics(global.Data.Data, assets.Data)
	a.Sources = map[string]datasource.Source{
		"global": global.Source,
		"assets": assets.Source,
	}
	v.mu.Lock()
	v.last = &a
	v.mu.Unlock()
	v.status.Finish(nil)
	return &a, nil
}

// Last returns the most recent analytics, or nil before the first load.
func (v *AnalyticsView) Last() *Analytics {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.last
}

// State reports the view's load state.
func (v *AnalyticsView) State() (LoadState, string) { return v.status.State() }
