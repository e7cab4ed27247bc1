package dashboard

import (
	"context"
	"slices"
	"testing"

	"github.com/seenimoa/cleanmind/internal/datasource"
	"github.com/seenimoa/cleanmind/pkg/models"
)

func sampleGlobal() models.GlobalSnapshot {
	return models.GlobalSnapshot{Data: models.GlobalData{
		ActiveCryptocurrencies:          10000,
		Markets:                         800,
		TotalMarketCap:                  map[string]float64{"usd": 2.5e12, "eur": 2.3e12, "btc": 3.8e7},
		TotalVolume:                     map[string]float64{"usd": 1e11},
		MarketCapPercentage:             map[string]float64{"btc": 45.2, "eth": 18.5},
		MarketCapChangePercentage24hUSD: -1.25,
	}}
}

// ════════════════════════════════════════════════════════════════════
// Overview
// ════════════════════════════════════════════════════════════════════

func TestLoadOverview(t *testing.T) {
	trending := models.TrendingData{}
	for i := range 12 {
		trending.Coins = append(trending.Coins, models.TrendingCoinEntry{Item: models.TrendingCoin{Score: i}})
	}
	exchanges := make([]models.ExchangeInfo, 20)
	src := &fakeSource{
		connected: true,
		global:    sampleGlobal(),
		trending:  trending,
		assets:    sampleAssets(),
		exchanges: exchanges,
	}

	ov, err := LoadOverview(context.Background(), src)
	if err != nil {
		t.Fatalf("LoadOverview: %v", err)
	}
	if !ov.Connected || ov.Banner != BannerConnected {
		t.Errorf("connected=%v banner=%q", ov.Connected, ov.Banner)
	}
	if len(ov.Trending) != 10 || ov.Trending[9].Score != 9 {
		t.Errorf("expected the first 10 trending coins, got %d", len(ov.Trending))
	}
	if len(ov.TopAssets) != 4 || len(ov.Exchanges) != 15 {
		t.Errorf("assets=%d exchanges=%d", len(ov.TopAssets), len(ov.Exchanges))
	}
	if ov.Global.TotalMarketCap != "$2.50T" || ov.Global.BTCDominance != "45.20%" {
		t.Errorf("unexpected global summary: %+v", ov.Global)
	}
	for _, k := range []string{"global", "trending", "assets", "exchanges"} {
		if ov.Sources[k] != datasource.SourceLive {
			t.Errorf("source[%s] = %q", k, ov.Sources[k])
		}
	}

	calls := src.Calls()
	slices.Sort(calls)
	want := []string{"exchanges 1 20", "global", "ping", "top 1 20", "trending"}
	if !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestLoadOverviewDisconnected(t *testing.T) {
	ov, err := LoadOverview(context.Background(), &fakeSource{})
	if err != nil {
		t.Fatalf("LoadOverview: %v", err)
	}
	if ov.Connected || ov.Banner != BannerDisconnected {
		t.Errorf("connected=%v banner=%q", ov.Connected, ov.Banner)
	}
	if ov.Trending == nil || ov.TopAssets == nil || ov.Exchanges == nil {
		t.Error("empty sections should be empty slices")
	}
}

func TestOverviewViewCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := NewOverviewView(&fakeSource{})
	if _, err := v.Load(ctx); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
	if st, _ := v.State(); st != StateError {
		t.Errorf("state = %s, want error", st)
	}
	if v.Last() != nil {
		t.Error("a failed load should not replace the overview")
	}
}

// ════════════════════════════════════════════════════════════════════
// Analytics
// ════════════════════════════════════════════════════════════════════

func TestBuildAnalytics(t *testing.T) {
	a := BuildAnalytics(sampleGlobal().Data, sampleAssets())

	if len(a.MarketCapBars) != 4 {
		t.Fatalf("bars = %d", len(a.MarketCapBars))
	}
	if b := a.MarketCapBars[0]; b.Name != "BTC" || b.MarketCap != 1200 || b.Price != 65000 || b.Change != 2.5 {
		t.Errorf("unexpected first bar: %+v", b)
	}

	btc, eth := 45.2, 18.5
	wantDom := []DominanceSlice{{"Bitcoin", btc}, {"Ethereum", eth}, {"Others", 100 - btc - eth}}
	if !slices.Equal(a.Dominance, wantDom) {
		t.Errorf("Dominance = %v, want %v", a.Dominance, wantDom)
	}

	if len(a.ChangeBars) != 4 || a.ChangeBars[2].Change != 0 {
		t.Errorf("missing change should chart as 0: %+v", a.ChangeBars)
	}

	var movers []string
	for _, r := range a.TopMovers {
		movers = append(movers, r.ID)
	}
	if !slices.Equal(movers, []string{"cardano", "bitcoin", "solana", "ethereum"}) {
		t.Errorf("TopMovers = %v", movers)
	}
}

func TestBuildAnalyticsLimits(t *testing.T) {
	var assets []models.MarketAsset
	for range 12 {
		assets = append(assets, sampleAssets()...)
	}
	a := BuildAnalytics(models.GlobalData{}, assets)
	if len(a.MarketCapBars) != 10 || len(a.ChangeBars) != 8 || len(a.TopMovers) != 10 {
		t.Errorf("bars=%d change=%d movers=%d", len(a.MarketCapBars), len(a.ChangeBars), len(a.TopMovers))
	}
}

func TestDominanceOthersNeverNegative(t *testing.T) {
	d := DominanceSlices(map[string]float64{"btc": 70, "eth": 40})
	if d[2].Value != 0 {
		t.Errorf("Others = %v, want 0", d[2].Value)
	}
}

func TestAnalyticsViewLoad(t *testing.T) {
	src := &fakeSource{global: sampleGlobal(), assets: sampleAssets()}
	v := NewAnalyticsView(src)
	a, err := v.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.Sources["global"] != datasource.SourceLive || v.Last() != a {
		t.Errorf("unexpected analytics: %+v", a.Sources)
	}
	calls := src.Calls()
	slices.Sort(calls)
	if !slices.Equal(calls, []string{"global", "top 1 10"}) {
		t.Errorf("calls = %v", calls)
	}
}

// ════════════════════════════════════════════════════════════════════
// Charts
// ════════════════════════════════════════════════════════════════════

func TestJoinSeries(t *testing.T) {
	s := models.ChartSeries{
		Prices:       []models.ChartPoint{{1000, 10}, {2000, 12}, {3000, 9}},
		TotalVolumes: []models.ChartPoint{{1000, 500}, {3000, 700}, {4000, 1}},
	}
	points := JoinSeries(s)
	if len(points) != 3 {
		t.Fatalf("points = %d", len(points))
	}
	vols := []float64{points[0].Volume, points[1].Volume, points[2].Volume}
	if !slices.Equal(vols, []float64{500, 0, 700}) {
		t.Errorf("volumes = %v", vols)
	}
	if points[0].Time != "1970-01-01T00:00:01Z" {
		t.Errorf("Time = %q", points[0].Time)
	}

	st := Stats(points)
	if st.Points != 3 || st.MinPrice != "$9.00" || st.MaxPrice != "$12.00" || st.Change != "-10.00%" {
		t.Errorf("Stats = %+v", st)
	}
	if points[2].SMA != nil || points[2].EMA != nil {
		t.Error("overlays should be absent before a full window")
	}
	if empty := Stats(nil); empty.MinPrice != "N/A" || empty.Change != "N/A" || empty.Points != 0 {
		t.Errorf("empty Stats = %+v", empty)
	}
}

func TestJoinSeriesOverlays(t *testing.T) {
	var s models.ChartSeries
	for i := range 20 {
		s.Prices = append(s.Prices, models.ChartPoint{float64(i * 1000), float64(i + 1)})
	}
	points := JoinSeries(s)
	if points[5].SMA != nil || points[6].SMA == nil || *points[6].SMA != 4 {
		t.Errorf("SMA at 6 = %v, want 4 (mean of 1..7)", points[6].SMA)
	}
	if points[12].EMA != nil || points[13].EMA == nil || *points[13].EMA != 7.5 {
		t.Errorf("EMA at 13 = %v, want the 14-sample seed 7.5", points[13].EMA)
	}
}

func TestChartViewLoad(t *testing.T) {
	src := &fakeSource{series: models.ChartSeries{Prices: []models.ChartPoint{{1, 2}}}}
	v := NewChartView(src)
	ctx := context.Background()

	if err := v.Load(ctx, "", ""); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := v.Load(ctx, " Solana ", "max"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := v.Load(ctx, "", "14"); err == nil {
		t.Error("unsupported range should fail")
	}
	want := []string{"chart bitcoin 7 usd", "chart solana max usd"}
	if got := src.Calls(); !slices.Equal(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
	if p := v.Page(); p.CoinID != "solana" || p.Days != "max" || p.Stats.Points != 1 {
		t.Errorf("page = %+v", p)
	}
	if len(ChartCoins()) != 6 {
		t.Errorf("ChartCoins = %d", len(ChartCoins()))
	}
}

// ════════════════════════════════════════════════════════════════════
// Search and global
// ════════════════════════════════════════════════════════════════════

func TestSearchViewBlankQuery(t *testing.T) {
	src := &fakeSource{search: models.SearchResults{Coins: []models.SearchCoin{{ID: "bitcoin"}}}}
	v := NewSearchView(src)
	ctx := context.Background()

	if p := v.Search(ctx, "   "); len(p.Results) != 0 || p.Results == nil {
		t.Errorf("blank query should give empty results, got %+v", p.Results)
	}
	if len(src.Calls()) != 0 {
		t.Fatalf("blank query should not fetch, calls = %v", src.Calls())
	}

	p := v.Search(ctx, " bit ")
	if len(p.Results) != 1 || p.Query != "bit" || p.State != StateLoaded {
		t.Errorf("unexpected page: %+v", p)
	}
	if got := src.Calls(); !slices.Equal(got, []string{"search bit"}) {
		t.Errorf("calls = %v", got)
	}
}

func TestCurrencyBreakdown(t *testing.T) {
	g := models.GlobalData{TotalMarketCap: map[string]float64{"usd": 1}}
	for _, c := range []string{"eur", "gbp", "jpy", "btc", "eth", "cad", "aud", "inr", "krw", "cny"} {
		g.TotalMarketCap[c] = 2e12
	}
	got := CurrencyBreakdown(g)
	if len(got) != 8 {
		t.Fatalf("len = %d, want 8", len(got))
	}
	var codes []string
	for _, f := range got {
		codes = append(codes, f.Currency)
	}
	if !slices.Equal(codes, []string{"AUD", "BTC", "CAD", "CNY", "ETH", "EUR", "GBP", "INR"}) {
		t.Errorf("codes = %v", codes)
	}
	if got[0].Value != "2.00T" {
		t.Errorf("Value = %q", got[0].Value)
	}
}

func TestGlobalViewPage(t *testing.T) {
	v := NewGlobalView(&fakeSource{global: sampleGlobal()})
	v.Load(context.Background())
	p := v.Page()
	if p.Summary.MarketCapChange != "-1.25%" || p.Summary.ETHDominance != "18.50%" || p.Summary.TotalVolume != "$100.00B" {
		t.Errorf("summary = %+v", p.Summary)
	}
	if len(p.Currencies) != 2 || p.Currencies[0].Currency != "BTC" {
		t.Errorf("currencies = %+v", p.Currencies)
	}
	if p.State != StateLoaded || p.FetchedAt.IsZero() {
		t.Errorf("state = %s", p.State)
	}
}
