package coingecko

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/seenimoa/cleanmind/internal/config"
	"github.com/seenimoa/cleanmind/internal/infra"
)

const (
	headerDemoKey = "x-cg-demo-api-key"
	headerProKey  = "x-cg-pro-api-key"
)

// Options configures a Client. Zero durations fall back to the defaults
// below; a nil Clock means the system clock. A zero retry count means one
// retry and a negative count disables retries.
type Options struct {
	BaseURL             string
	APIKey              string
	KeyType             string // "demo" or "pro"
	UserAgent           string
	Timeout             time.Duration
	TransportRetries    int
	NFTMinInterval      time.Duration
	NFTRetryWait        time.Duration
	NFTRateLimitRetries int
	HTTPClient          *http.Client
	Clock               infra.Clock
	Logger              zerolog.Logger
}

// OptionsFromConfig maps the coingecko config section onto Options.
func OptionsFromConfig(cfg config.CoinGeckoConfig, logger zerolog.Logger) Options {
	return Options{
		BaseURL:             cfg.BaseURL,
		APIKey:              cfg.APIKey,
		KeyType:             cfg.KeyType,
		UserAgent:           cfg.UserAgent,
		Timeout:             cfg.Timeout(),
		TransportRetries:    explicitRetries(cfg.TransportRetries),
		NFTMinInterval:      cfg.NFTMinInterval(),
		NFTRetryWait:        cfg.NFTRetryWait(),
		NFTRateLimitRetries: explicitRetries(cfg.NFTRateLimitRetry),
		Logger:              logger,
	}
}

// explicitRetries maps a configured count, where zero means none, onto
// the Options convention.
func explicitRetries(n int) int {
	if n == 0 {
		return -1
	}
	return n
}

// retryCount applies the Options retry convention.
func retryCount(n int) int {
	switch {
	case n == 0:
		return 1
	case n < 0:
		return 0
	}
	return n
}

// Client performs outbound calls to the upstream API. Every call goes
// through the transport retry policy; NFT calls are additionally spaced by
// a shared pacer and repeated after a wait when rate limited.
type Client struct {
	baseURL   string
	headers   map[string]string
	http      *http.Client
	clock     infra.Clock
	transport infra.RetryPolicy
	nftPolicy infra.RetryPolicy
	nftPacer  *infra.Pacer
	logger    zerolog.Logger
}

// NewClient creates a client from opts.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.NFTMinInterval <= 0 {
		opts.NFTMinInterval = time.Second
	}
	if opts.NFTRetryWait <= 0 {
		opts.NFTRetryWait = 5 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = infra.SystemClock{}
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	headers := map[string]string{"User-Agent": opts.UserAgent}
	if opts.APIKey != "" {
		if strings.EqualFold(opts.KeyType, "pro") {
			headers[headerProKey] = opts.APIKey
		} else {
			headers[headerDemoKey] = opts.APIKey
		}
	}

	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		headers:   headers,
		http:      hc,
		clock:     opts.Clock,
		transport: infra.TransportRetry(retryCount(opts.TransportRetries)),
		nftPolicy: infra.StatusRetry(retryCount(opts.NFTRateLimitRetries), opts.NFTRetryWait, http.StatusTooManyRequests),
		nftPacer:  infra.NewPacer(opts.NFTMinInterval, opts.Clock),
		logger:    opts.Logger,
	}
}

// Get fetches path with query and returns the JSON body and the number of
// outbound requests made.
func (c *Client) Get(ctx context.Context, path string, query url.Values, nft bool) ([]byte, int, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	attempts := 0
	dispatch := func(ctx context.Context) ([]byte, error) {
		if nft {
			if err := c.nftPacer.Wait(ctx); err != nil {
				return nil, err
			}
		}
		attempts++
		return infra.DoGet(ctx, c.http, u, c.headers)
	}
	withTransport := func(ctx context.Context) ([]byte, error) {
		body, _, err := infra.Retry(ctx, c.clock, c.transport, dispatch)
		return body, err
	}

	if !nft {
		body, err := withTransport(ctx)
		return body, attempts, err
	}

	body, _, err := infra.Retry(ctx, c.clock, c.nftPolicy, func(ctx context.Context) ([]byte, error) {
		body, err := withTransport(ctx)
		if infra.StatusCode(err) == http.StatusTooManyRequests {
			c.logger.Warn().Str("path", path).Msg("rate limited, waiting before retry")
		}
		return body, err
	})
	return body, attempts, err
}
