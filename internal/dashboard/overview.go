package dashboard

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/cleanmind/internal/datasource"
	"github.com/seenimoa/cleanmind/pkg/models"
)

// Banner texts shown above the dashboard.
const (
	BannerConnected    = "Successfully connected to CoinGecko API. Showing real-time cryptocurrency data."
	BannerDisconnected = "Unable to connect to CoinGecko API. Showing sample data for demonstration purposes."
)

const (
	overviewAssets    = 20
	overviewExchanges = 15
	overviewTrending  = 10
)

// Overview is the landing dashboard: connectivity banner, global summary,
// trending assets, top assets and top exchanges.
type Overview struct {
	Connected bool                         `json:"connected"`
	Banner    string                       `json:"banner"`
	Global    GlobalSummary                `json:"global"`
	Trending  []models.TrendingCoin        `json:"trending"`
	TopAssets []MarketRow                  `json:"top_assets"`
	Exchanges []ExchangeRow                `json:"exchanges"`
	Sources   map[string]datasource.Source `json:"sources"`
	FetchedAt time.Time                    `json:"fetched_at"`
}

// LoadOverview checks connectivity and loads every dashboard section
// concurrently. It fails only when ctx is cancelled.
func LoadOverview(ctx context.Context, src Source) (*Overview, error) {
	ov := &Overview{Sources: make(map[string]datasource.Source, 4)}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res := src.TestConnection(gctx)
		mu.Lock()
		ov.Connected = res.Data && !res.IsFallback()
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		res := src.GetGlobalData(gctx)
		summary := NewGlobalSummary(res.Data.Data)
		mu.Lock()
		ov.Global = summary
		ov.Sources["global"] = res.Source
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		res := src.GetTrending(gctx)
		coins := make([]models.TrendingCoin, 0, overviewTrending)
		for _, c := range res.Data.Coins {
			if len(coins) == overviewTrending {
				break
			}
			coins = append(coins, c.Item)
		}
		mu.Lock()
		ov.Trending = coins
		ov.Sources["trending"] = res.Source
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		res := src.GetTopCryptos(gctx, 1, overviewAssets)
		rows := make([]MarketRow, len(res.Data))
		for i, a := range res.Data {
			rows[i] = NewMarketRow(a)
		}
		mu.Lock()
		ov.TopAssets = rows
		ov.Sources["assets"] = res.Source
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		res := src.GetExchanges(gctx, 1, DefaultPageSize)
		n := min(len(res.Data), overviewExchanges)
		rows := make([]ExchangeRow, n)
		for i := range n {
			rows[i] = NewExchangeRow(i+1, res.Data[i])
		}
		mu.Lock()
		ov.Exchanges = rows
		ov.Sources["exchanges"] = res.Source
		mu.Unlock()
		return nil
	})

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ov.Banner = BannerDisconnected
	if ov.Connected {
		ov.Banner = BannerConnected
	}
	ov.FetchedAt = time.Now()
	return ov, nil
}

// OverviewView caches the last loaded overview with its load state.
type OverviewView struct {
	src    Source
	status Status

	mu   sync.Mutex
	last *Overview
}

// NewOverviewView creates an idle view.
func NewOverviewView(src Source) *OverviewView {
	return &OverviewView{src: src}
}

// Load refreshes the overview.
func (v *OverviewView) Load(ctx context.Context) (*Overview, error) {
	v.status.Begin()
	ov, err := LoadOverview(ctx, v.src)
	v.status.Finish(err)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	v.last = ov
	v.mu.Unlock()
	return ov, nil
}

// Last returns the most recent overview, or nil before the first load.
func (v *OverviewView) Last() *Overview {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.last
}

// State reports the view's load state.
func (v *OverviewView) State() (LoadState, string) { return v.status.State() }
