package coingecko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/seenimoa/cleanmind/internal/config"
	"github.com/seenimoa/cleanmind/internal/infra"
	"github.com/seenimoa/cleanmind/internal/provider"
)

var epoch = time.Date(2024, 11, 15, 10, 0, 0, 0, time.UTC)

// recorder is an upstream stub that remembers every request it served.
type recorder struct {
	mu       sync.Mutex
	requests []*http.Request
}

func (r *recorder) add(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
}

func (r *recorder) last() *http.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.requests) == 0 {
		return nil
	}
	return r.requests[len(r.requests)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func newTestProvider(t *testing.T, handler http.HandlerFunc, opts Options) (*Provider, *recorder, *infra.FakeClock) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	clock := infra.NewFakeClock(epoch)
	opts.BaseURL = srv.URL
	opts.Clock = clock
	opts.Logger = zerolog.Nop()
	return New(NewClient(opts)), rec, clock
}

func okJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func fetch(t *testing.T, p *Provider, res provider.Resource, params provider.QueryParams) (*provider.FetchResult, error) {
	t.Helper()
	reg := provider.NewRegistry()
	if err := reg.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return reg.Fetch(context.Background(), res, params)
}

func TestProviderInfo(t *testing.T) {
	p := New(NewClient(Options{}))
	info := p.Info()
	if info.Name != "coingecko" {
		t.Errorf("expected name coingecko, got %s", info.Name)
	}
	if len(info.Credentials) != 1 || info.Credentials[0].Required {
		t.Errorf("expected one optional credential, got %+v", info.Credentials)
	}
}

func TestProviderSupportsEveryResource(t *testing.T) {
	p := New(NewClient(Options{}))
	for _, res := range provider.AllResources() {
		if p.Fetcher(res) == nil {
			t.Errorf("no fetcher for %s", res)
		}
	}
	if got, want := len(p.SupportedResources()), len(provider.AllResources()); got != want {
		t.Errorf("SupportedResources = %d, want %d", got, want)
	}
}

func TestFetchBuildsUpstreamRequest(t *testing.T) {
	tests := []struct {
		name      string
		res       provider.Resource
		params    provider.QueryParams
		wantPath  string
		wantQuery url.Values
	}{
		{
			name:     "global",
			res:      provider.ResourceGlobal,
			wantPath: "/global",
		},
		{
			name:     "trending",
			res:      provider.ResourceTrending,
			wantPath: "/search/trending",
		},
		{
			name:     "supported currencies",
			res:      provider.ResourceSupportedCurrencies,
			wantPath: "/simple/supported_vs_currencies",
		},
		{
			name:     "coin list",
			res:      provider.ResourceCoinList,
			wantPath: "/coins/list",
		},
		{
			name:     "coin detail",
			res:      provider.ResourceCoinDetail,
			params:   provider.QueryParams{"id": "bitcoin"},
			wantPath: "/coins/bitcoin",
		},
		{
			name:     "markets defaults",
			res:      provider.ResourceMarkets,
			wantPath: "/coins/markets",
			wantQuery: url.Values{
				"vs_currency":             {"usd"},
				"order":                   {"market_cap_desc"},
				"per_page":                {"100"},
				"page":                    {"1"},
				"sparkline":               {"false"},
				"price_change_percentage": {"1h,24h,7d,30d"},
			},
		},
		{
			name:     "markets page two",
			res:      provider.ResourceMarkets,
			params:   provider.QueryParams{"page": "2", "per_page": "20"},
			wantPath: "/coins/markets",
			wantQuery: url.Values{
				"vs_currency":             {"usd"},
				"order":                   {"market_cap_desc"},
				"per_page":                {"20"},
				"page":                    {"2"},
				"sparkline":               {"false"},
				"price_change_percentage": {"1h,24h,7d,30d"},
			},
		},
		{
			name:      "search",
			res:       provider.ResourceSearch,
			params:    provider.QueryParams{"query": "bit coin"},
			wantPath:  "/search",
			wantQuery: url.Values{"query": {"bit coin"}},
		},
		{
			name:     "simple price with flags",
			res:      provider.ResourceSimplePrice,
			params:   provider.QueryParams{"ids": "bitcoin,ethereum", "include_market_cap": "true"},
			wantPath: "/simple/price",
			wantQuery: url.Values{
				"ids":                {"bitcoin,ethereum"},
				"vs_currencies":      {"usd"},
				"include_market_cap": {"true"},
			},
		},
		{
			name:      "market chart max",
			res:       provider.ResourceMarketChart,
			params:    provider.QueryParams{"id": "ethereum", "days": "max"},
			wantPath:  "/coins/ethereum/market_chart",
			wantQuery: url.Values{"vs_currency": {"usd"}, "days": {"max"}},
		},
		{
			name:      "market chart default days",
			res:       provider.ResourceMarketChart,
			params:    provider.QueryParams{"id": "ethereum"},
			wantPath:  "/coins/ethereum/market_chart",
			wantQuery: url.Values{"vs_currency": {"usd"}, "days": {"7"}},
		},
		{
			name:      "exchanges",
			res:       provider.ResourceExchanges,
			params:    provider.QueryParams{"page": "3"},
			wantPath:  "/exchanges",
			wantQuery: url.Values{"page": {"3"}, "per_page": {"20"}},
		},
		{
			name:      "nft list",
			res:       provider.ResourceNFTList,
			wantPath:  "/nfts/list",
			wantQuery: url.Values{"page": {"1"}, "per_page": {"20"}, "order": {"market_cap_usd_desc"}},
		},
		{
			name:     "nft detail",
			res:      provider.ResourceNFTDetail,
			params:   provider.QueryParams{"id": "pudgy-penguins"},
			wantPath: "/nfts/pudgy-penguins",
		},
		{
			name:     "nft by contract",
			res:      provider.ResourceNFTByContract,
			params:   provider.QueryParams{"platform": "ethereum", "address": "0xabc"},
			wantPath: "/nfts/ethereum/contract/0xabc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, rec, _ := newTestProvider(t, okJSON(`{}`), Options{})
			if _, err := fetch(t, p, tt.res, tt.params); err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			req := rec.last()
			if req.URL.Path != tt.wantPath {
				t.Errorf("path = %s, want %s", req.URL.Path, tt.wantPath)
			}
			got := req.URL.Query()
			if len(got) != len(tt.wantQuery) {
				t.Errorf("query = %v, want %v", got, tt.wantQuery)
			}
			for k, v := range tt.wantQuery {
				if got.Get(k) != v[0] {
					t.Errorf("query %s = %q, want %q", k, got.Get(k), v[0])
				}
			}
		})
	}
}

func TestFetchReturnsBodyVerbatim(t *testing.T) {
	body := `{"data":{"active_cryptocurrencies":12345,"markets":901}}`
	p, _, _ := newTestProvider(t, okJSON(body), Options{})

	res, err := fetch(t, p, provider.ResourceGlobal, nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(res.Body) != body {
		t.Errorf("body = %s, want %s", res.Body, body)
	}
	if res.Provider != "coingecko" || res.Resource != provider.ResourceGlobal {
		t.Errorf("unexpected metadata: %+v", res)
	}
	if res.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", res.Attempts)
	}
}

func TestFetchSendsHeaders(t *testing.T) {
	tests := []struct {
		keyType    string
		wantHeader string
	}{
		{"demo", "x-cg-demo-api-key"},
		{"pro", "x-cg-pro-api-key"},
	}
	for _, tt := range tests {
		t.Run(tt.keyType, func(t *testing.T) {
			p, rec, _ := newTestProvider(t, okJSON(`{}`), Options{APIKey: "secret", KeyType: tt.keyType})
			if _, err := fetch(t, p, provider.ResourceNFTList, nil); err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			req := rec.last()
			if req.Header.Get(tt.wantHeader) != "secret" {
				t.Errorf("%s header missing", tt.wantHeader)
			}
			if req.Header.Get("User-Agent") != "clean-mind-crypto/1.0.0" {
				t.Errorf("User-Agent = %q", req.Header.Get("User-Agent"))
			}
			if req.Header.Get("Accept") != "application/json" {
				t.Errorf("Accept = %q", req.Header.Get("Accept"))
			}
		})
	}
}

func TestFetchMissingParamMakesNoCall(t *testing.T) {
	p, rec, _ := newTestProvider(t, okJSON(`{}`), Options{})

	_, err := fetch(t, p, provider.ResourceNFTByContract, provider.QueryParams{"platform": "ethereum"})
	var missing *provider.ErrMissingParam
	if !errors.As(err, &missing) || missing.Param != "address" {
		t.Fatalf("expected missing address, got %v", err)
	}
	if rec.count() != 0 {
		t.Errorf("upstream called %d times, want 0", rec.count())
	}
}

func TestNFTCallsArePaced(t *testing.T) {
	p, rec, clock := newTestProvider(t, okJSON(`[]`), Options{})

	if _, err := fetch(t, p, provider.ResourceNFTList, nil); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := fetch(t, p, provider.ResourceNFTDetail, provider.QueryParams{"id": "x"}); err != nil {
		t.Fatalf("second: %v", err)
	}

	sleeps := clock.Sleeps()
	if len(sleeps) != 1 || sleeps[0] != time.Second {
		t.Errorf("sleeps = %v, want [1s]", sleeps)
	}
	if rec.count() != 2 {
		t.Errorf("upstream calls = %d, want 2", rec.count())
	}
}

func TestNonNFTCallsAreNotPaced(t *testing.T) {
	p, _, clock := newTestProvider(t, okJSON(`{}`), Options{})
	for i := 0; i < 3; i++ {
		if _, err := fetch(t, p, provider.ResourceGlobal, nil); err != nil {
			t.Fatalf("Fetch %d: %v", i, err)
		}
	}
	if len(clock.Sleeps()) != 0 {
		t.Errorf("global calls should not wait, got %v", clock.Sleeps())
	}
}

func TestNFTRateLimitRetriesOnce(t *testing.T) {
	var hits atomic.Int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"id":"pudgy-penguins"}`))
	}
	p, _, clock := newTestProvider(t, handler, Options{})

	res, err := fetch(t, p, provider.ResourceNFTDetail, provider.QueryParams{"id": "pudgy-penguins"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(res.Body) != `{"id":"pudgy-penguins"}` {
		t.Errorf("body = %s", res.Body)
	}
	if res.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", res.Attempts)
	}
	sleeps := clock.Sleeps()
	if len(sleeps) != 1 || sleeps[0] != 5*time.Second {
		t.Errorf("sleeps = %v, want [5s]", sleeps)
	}
}

func TestNFTSecondRateLimitFails(t *testing.T) {
	var hits atomic.Int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}
	p, _, _ := newTestProvider(t, handler, Options{})

	_, err := fetch(t, p, provider.ResourceNFTDetail, provider.QueryParams{"id": "x"})
	if infra.StatusCode(err) != http.StatusTooManyRequests {
		t.Fatalf("expected 429 error, got %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("upstream calls = %d, want 2", hits.Load())
	}
}

func TestRateLimitOutsideNFTNotRetried(t *testing.T) {
	var hits atomic.Int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}
	p, _, _ := newTestProvider(t, handler, Options{})

	if _, err := fetch(t, p, provider.ResourceMarkets, nil); err == nil {
		t.Fatal("expected error")
	}
	if hits.Load() != 1 {
		t.Errorf("upstream calls = %d, want 1", hits.Load())
	}
}

func TestTransportFailureRetriedOnce(t *testing.T) {
	var hits atomic.Int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Error("response writer cannot hijack")
				return
			}
			conn, _, err := hj.Hijack()
			if err == nil {
				conn.Close()
			}
			return
		}
		_, _ = w.Write([]byte(`{"gecko_says":"(V3) To the Moon!"}`))
	}
	p, _, _ := newTestProvider(t, handler, Options{})

	res, err := fetch(t, p, provider.ResourcePing, nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", res.Attempts)
	}
}

func TestMalformedBodyIsError(t *testing.T) {
	p, _, _ := newTestProvider(t, okJSON(`<html>oops</html>`), Options{})
	_, err := fetch(t, p, provider.ResourceGlobal, nil)
	if !errors.Is(err, infra.ErrMalformedBody) {
		t.Errorf("expected ErrMalformedBody, got %v", err)
	}
}

func TestPing(t *testing.T) {
	p, rec, _ := newTestProvider(t, okJSON(`{"gecko_says":"(V3) To the Moon!"}`), Options{})
	if err := p.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if rec.last().URL.Path != "/ping" {
		t.Errorf("path = %s", rec.last().URL.Path)
	}
}

func TestNewClientRetryDefaults(t *testing.T) {
	tests := []struct {
		name          string
		opts          Options
		wantTransport int
		wantNFT       int
	}{
		{"zero options retry once", Options{}, 2, 2},
		{"negative disables", Options{TransportRetries: -1, NFTRateLimitRetries: -1}, 1, 1},
		{"explicit counts", Options{TransportRetries: 3, NFTRateLimitRetries: 2}, 4, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.opts)
			if c.transport.MaxAttempts != tt.wantTransport {
				t.Errorf("transport attempts = %d, want %d", c.transport.MaxAttempts, tt.wantTransport)
			}
			if c.nftPolicy.MaxAttempts != tt.wantNFT {
				t.Errorf("nft attempts = %d, want %d", c.nftPolicy.MaxAttempts, tt.wantNFT)
			}
		})
	}
}

func TestOptionsFromConfigZeroRetriesDisables(t *testing.T) {
	cfg := config.Default().CoinGecko
	cfg.TransportRetries = 0
	cfg.NFTRateLimitRetry = 0
	c := NewClient(OptionsFromConfig(cfg, zerolog.Nop()))
	if c.transport.MaxAttempts != 1 || c.nftPolicy.MaxAttempts != 1 {
		t.Errorf("attempts = %d/%d, want 1/1", c.transport.MaxAttempts, c.nftPolicy.MaxAttempts)
	}

	c = NewClient(OptionsFromConfig(config.Default().CoinGecko, zerolog.Nop()))
	if c.transport.MaxAttempts != 2 || c.nftPolicy.MaxAttempts != 2 {
		t.Errorf("default attempts = %d/%d, want 2/2", c.transport.MaxAttempts, c.nftPolicy.MaxAttempts)
	}
}

func TestNFTRateLimitRetryWithZeroOptions(t *testing.T) {
	var hits atomic.Int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		okJSON(`[]`)(w, r)
	}
	p, _, _ := newTestProvider(t, handler, Options{})
	res, err := fetch(t, p, provider.ResourceNFTList, provider.QueryParams{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", res.Attempts)
	}
}
