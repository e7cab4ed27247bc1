package datasource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// requestLog records the gateway requests a test made.
type requestLog struct {
	mu   sync.Mutex
	reqs []*http.Request
}

func (l *requestLog) query(i int) url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reqs[i].URL.Query()
}

// gateway serves canned bodies per path; unknown paths get a 500.
func gateway(t *testing.T, routes map[string]string) (*Client, *requestLog) {
	t.Helper()
	seen := &requestLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.mu.Lock()
		seen.reqs = append(seen.reqs, r)
		seen.mu.Unlock()
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"Failed"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, zerolog.Nop()), seen
}

func failing(t *testing.T) *Client {
	c, _ := gateway(t, nil)
	return c
}

// ════════════════════════════════════════════════════════════════════
// Live results
// ════════════════════════════════════════════════════════════════════

func TestGetGlobalDataLive(t *testing.T) {
	c, _ := gateway(t, map[string]string{
		"/global": `{"data":{"active_cryptocurrencies":12000,"markets":950,"total_market_cap":{"usd":3e12},"market_cap_percentage":{"btc":50.1}}}`,
	})
	res := c.GetGlobalData(context.Background())
	if res.IsFallback() {
		t.Fatalf("expected live data, cause: %v", res.Cause)
	}
	if res.Data.Data.ActiveCryptocurrencies != 12000 || res.Data.Data.TotalMarketCap["usd"] != 3e12 {
		t.Errorf("unexpected data: %+v", res.Data)
	}
}

func TestGetTopCryptosNormalizesPercentages(t *testing.T) {
	c, seen := gateway(t, map[string]string{
		"/top-cryptos": `[
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":65000,
			 "price_change_percentage_24h":1.5,
			 "price_change_percentage_24h_in_currency":9.9,
			 "price_change_percentage_7d_in_currency":4.2,
			 "price_change_percentage_1h_in_currency":0.3},
			{"id":"solana","symbol":"sol","name":"Solana","current_price":80}
		]`,
	})

	res := c.GetTopCryptos(context.Background(), 2, 20)
	if res.IsFallback() {
		t.Fatalf("expected live data, cause: %v", res.Cause)
	}
	if len(res.Data) != 2 {
		t.Fatalf("got %d assets, want 2", len(res.Data))
	}

	btc := res.Data[0]
	if btc.PriceChangePct24h == nil || *btc.PriceChangePct24h != 1.5 {
		t.Errorf("24h should keep the plain field, got %v", btc.PriceChangePct24h)
	}
	if btc.PriceChangePct7d == nil || *btc.PriceChangePct7d != 4.2 {
		t.Errorf("7d should come from _in_currency, got %v", btc.PriceChangePct7d)
	}
	if btc.PriceChangePct30d != nil {
		t.Errorf("30d should be nil, got %v", *btc.PriceChangePct30d)
	}
	if btc.PriceChangePct1hInCurrency == nil || *btc.PriceChangePct1hInCurrency != 0.3 {
		t.Errorf("1h = %v", btc.PriceChangePct1hInCurrency)
	}
	if res.Data[1].PriceChangePct24h != nil {
		t.Error("missing percentages should stay nil")
	}

	q := seen.query(0)
	if q.Get("page") != "2" || q.Get("perPage") != "20" {
		t.Errorf("query = %v", q)
	}
}

func TestGetMarketChartDefaults(t *testing.T) {
	c, seen := gateway(t, map[string]string{
		"/market-chart": `{"prices":[[1,2]],"market_caps":[[1,3]],"total_volumes":[[1,4]]}`,
	})
	res := c.GetMarketChart(context.Background(), "bitcoin", "", "")
	if res.IsFallback() {
		t.Fatalf("expected live data, cause: %v", res.Cause)
	}
	if res.Data.Prices[0].Value() != 2 {
		t.Errorf("prices = %v", res.Data.Prices)
	}
	q := seen.query(0)
	if q.Get("id") != "bitcoin" || q.Get("days") != "7" || q.Get("vs_currency") != "usd" {
		t.Errorf("query = %v", q)
	}
}

func TestGetNFTPathsAndQuery(t *testing.T) {
	c, seen := gateway(t, map[string]string{
		"/nfts":                          `[{"id":"pudgy-penguins","name":"Pudgy Penguins","symbol":"PPG"}]`,
		"/nfts/pudgy-penguins":           `{"id":"pudgy-penguins","name":"Pudgy Penguins"}`,
		"/nfts/contract/ethereum/0xabc": `{"id":"by-contract"}`,
	})
	ctx := context.Background()

	list := c.GetNFTCollections(ctx, 1, 20, "")
	if list.IsFallback() || len(list.Data) != 1 {
		t.Fatalf("list = %+v", list)
	}
	if seen.query(0).Get("order") != "market_cap_usd_desc" {
		t.Errorf("default order not sent: %v", seen.query(0))
	}

	detail := c.GetNFTCollectionDetails(ctx, "pudgy-penguins")
	if detail.IsFallback() || detail.Data == nil || detail.Data.Name != "Pudgy Penguins" {
		t.Fatalf("detail = %+v", detail)
	}

	byContract := c.GetNFTByContract(ctx, "ethereum", "0xabc")
	if byContract.IsFallback() || byContract.Data.ID != "by-contract" {
		t.Fatalf("by contract = %+v", byContract)
	}
}

func TestTestConnection(t *testing.T) {
	c, _ := gateway(t, map[string]string{"/ping": `{"gecko_says":"(V3) To the Moon!"}`})
	if res := c.TestConnection(context.Background()); !res.Data || res.IsFallback() {
		t.Errorf("expected successful connection check, got %+v", res)
	}

	res := failing(t).TestConnection(context.Background())
	if res.Data || !res.IsFallback() || res.Cause == nil {
		t.Errorf("expected failed connection check, got %+v", res)
	}
}

// ════════════════════════════════════════════════════════════════════
// Fallback results
// ════════════════════════════════════════════════════════════════════

func TestFallbackOnEveryQuery(t *testing.T) {
	c := failing(t)
	ctx := context.Background()

	checks := []struct {
		name string
		res  interface {
			IsFallback() bool
			CauseText() string
		}
	}{
		{"global", c.GetGlobalData(ctx)},
		{"trending", c.GetTrending(ctx)},
		{"top-cryptos", c.GetTopCryptos(ctx, 1, 20)},
		{"coin", c.GetCryptoDetails(ctx, "ethereum")},
		{"market-chart", c.GetMarketChart(ctx, "bitcoin", "30", "usd")},
		{"search", c.SearchCryptos(ctx, "eth")},
		{"simple-price", c.GetSimplePrice(ctx, []string{"bitcoin"}, DefaultSimplePriceOptions())},
		{"supported-currencies", c.GetSupportedCurrencies(ctx)},
		{"coin-list", c.GetCoinList(ctx)},
		{"exchanges", c.GetExchanges(ctx, 1, 20)},
		{"nfts", c.GetNFTCollections(ctx, 1, 20, "")},
		{"nft", c.GetNFTCollectionDetails(ctx, "x")},
		{"nft-contract", c.GetNFTByContract(ctx, "ethereum", "0x0")},
	}
	for _, tt := range checks {
		if !tt.res.IsFallback() {
			t.Errorf("%s: expected fallback", tt.name)
		}
		if tt.res.CauseText() == "" {
			t.Errorf("%s: fallback without cause", tt.name)
		}
	}
}

func TestTopCryptosFallbackMatchesSampleList(t *testing.T) {
	res := failing(t).GetTopCryptos(context.Background(), 1, 100)
	if !res.IsFallback() {
		t.Fatal("expected fallback")
	}
	if !reflect.DeepEqual(res.Data, FallbackAssets()) {
		t.Errorf("fallback list differs from the sample list")
	}
	if res.Data[0].ID != "bitcoin" || *res.Data[0].CurrentPrice != 45000 {
		t.Errorf("unexpected first asset: %+v", res.Data[0])
	}
	if res.Data[1].MaxSupply != nil || res.Data[1].ROI == nil {
		t.Errorf("ethereum sample should have nil max supply and an ROI")
	}
}

func TestMalformedBodyFallsBack(t *testing.T) {
	c, _ := gateway(t, map[string]string{"/global": `not json`})
	res := c.GetGlobalData(context.Background())
	if !res.IsFallback() {
		t.Fatal("expected fallback on malformed body")
	}
	if res.Data.Data.Markets != 800 {
		t.Errorf("markets = %d, want 800", res.Data.Data.Markets)
	}
}

func TestFallbackGlobalValues(t *testing.T) {
	g := FallbackGlobal().Data
	if g.ActiveCryptocurrencies != 10000 || g.Markets != 800 || g.UpdatedAt != 1700000000 {
		t.Errorf("unexpected counts: %+v", g)
	}
	if g.TotalMarketCap["usd"] != 2.5e12 || g.TotalVolume["usd"] != 1e11 {
		t.Errorf("unexpected totals: %+v", g)
	}
	if g.MarketCapPercentage["btc"] != 45.2 || g.MarketCapPercentage["eth"] != 18.5 {
		t.Errorf("unexpected dominance: %+v", g.MarketCapPercentage)
	}
}

func TestFallbackChartTimestamps(t *testing.T) {
	chart := FallbackChart()
	if len(chart.Prices) != 8 || len(chart.MarketCaps) != 8 || len(chart.TotalVolumes) != 8 {
		t.Fatalf("expected 8 points per series")
	}
	if chart.Prices[7].Time() != 1700000000000 {
		t.Errorf("last timestamp = %d", chart.Prices[7].Time())
	}
	if chart.Prices[0].Time() != 1700000000000-7*86400000 {
		t.Errorf("first timestamp = %d", chart.Prices[0].Time())
	}
	if chart.Prices[0].Value() != 42000 || chart.Prices[7].Value() != 45000 {
		t.Errorf("prices = %v", chart.Prices)
	}
}

func TestFallbackSearch(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"BIT", []string{"bitcoin"}},
		{"eth", []string{"ethereum"}},
		{"", []string{"bitcoin", "ethereum"}},
		{"doge", nil},
	}
	for _, tt := range tests {
		res := FallbackSearch(tt.query)
		var got []string
		for _, c := range res.Coins {
			got = append(got, c.ID)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("FallbackSearch(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
	if FallbackSearch("btc").Coins[0].Thumb != FallbackAssets()[0].Image {
		t.Error("thumb should be the asset image")
	}
}

func TestFallbackSimplePrice(t *testing.T) {
	all := FallbackSimplePrice([]string{"bitcoin", "dogecoin"}, DefaultSimplePriceOptions())
	if len(all) != 1 {
		t.Fatalf("only known ids should be priced, got %v", all)
	}
	btc := all["bitcoin"]
	want := map[string]float64{
		"usd":             45000,
		"usd_market_cap":  9e11,
		"usd_24h_vol":     2.5e10,
		"usd_24h_change":  2.27,
		"last_updated_at": 1700000000,
	}
	if !reflect.DeepEqual(btc, want) {
		t.Errorf("bitcoin = %v, want %v", btc, want)
	}

	bare := FallbackSimplePrice([]string{"ethereum"}, SimplePriceOptions{})
	if !reflect.DeepEqual(bare["ethereum"], map[string]float64{"usd": 3000}) {
		t.Errorf("flags off should leave only usd, got %v", bare["ethereum"])
	}
}

func TestFallbackCoinDetail(t *testing.T) {
	if d := FallbackCoinDetail("ethereum"); d.ID != "ethereum" {
		t.Errorf("got %s, want ethereum", d.ID)
	}
	d := FallbackCoinDetail("unknown-coin")
	if d.ID != "bitcoin" {
		t.Errorf("unknown id should fall back to bitcoin, got %s", d.ID)
	}
	if d.MarketData.CurrentPrice["usd"] != 45000 {
		t.Errorf("price = %v", d.MarketData.CurrentPrice)
	}
}

func TestFallbackValuesAreIndependent(t *testing.T) {
	a := FallbackAssets()
	*a[0].CurrentPrice = 1
	if *FallbackAssets()[0].CurrentPrice != 45000 {
		t.Error("mutating one fallback value leaked into the next")
	}
}

func TestResultJSON(t *testing.T) {
	res := fallback(FallbackCurrencies(), context.DeadlineExceeded)
	b, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Data   []string `json:"data"`
		Source string   `json:"source"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Source != "fallback" || len(decoded.Data) != 6 {
		t.Errorf("decoded = %+v", decoded)
	}
}
