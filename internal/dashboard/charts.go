package dashboard

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/seenimoa/cleanmind/internal/analysis/technical"
	"github.com/seenimoa/cleanmind/internal/datasource"
	"github.com/seenimoa/cleanmind/pkg/models"
	"github.com/seenimoa/cleanmind/pkg/utils"
)

// ChartCoin is an asset offered by the chart picker.
type ChartCoin struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
}

// ChartCoins lists the assets the chart page offers.
func ChartCoins() []ChartCoin {
	return []ChartCoin{
		{ID: "bitcoin", Symbol: "BTC"},
		{ID: "ethereum", Symbol: "ETH"},
		{ID: "solana", Symbol: "SOL"},
		{ID: "cardano", Symbol: "ADA"},
		{ID: "polkadot", Symbol: "DOT"},
		{ID: "chainlink", Symbol: "LINK"},
	}
}

// ChartRanges lists the accepted day ranges.
var ChartRanges = []string{"1", "7", "30", "90", "365", "max"}

const defaultChartRange = "7"

// Moving-average overlay windows, in samples.
const (
	smaPeriod = 7
	emaPeriod = 14
)

// ValidChartRange reports whether days is one of ChartRanges.
func ValidChartRange(days string) bool {
	return slices.Contains(ChartRanges, days)
}

// PricePoint is one chart sample: the price and the volume reported at the
// same timestamp, plus the moving-average overlays once they are warm.
type PricePoint struct {
	Timestamp int64    `json:"timestamp"`
	Time      string   `json:"time"`
	Price     float64  `json:"price"`
	Volume    float64  `json:"volume"`
	SMA       *float64 `json:"sma,omitempty"`
	EMA       *float64 `json:"ema,omitempty"`
}

// JoinSeries pairs every price sample with the volume at the identical
// timestamp, or zero when the volume series has none.
func JoinSeries(s models.ChartSeries) []PricePoint {
	volumes := make(map[int64]float64, len(s.TotalVolumes))
	for _, v := range s.TotalVolumes {
		volumes[v.Time()] = v.Value()
	}
	prices := make([]float64, len(s.Prices))
	for i, p := range s.Prices {
		prices[i] = p.Value()
	}
	sma := technical.Overlay{Period: smaPeriod, Values: technical.SMA(prices, smaPeriod)}
	ema := technical.Overlay{Period: emaPeriod, Values: technical.EMA(prices, emaPeriod)}

	out := make([]PricePoint, len(s.Prices))
	for i, p := range s.Prices {
		out[i] = PricePoint{
			Timestamp: p.Time(),
			Time:      time.UnixMilli(p.Time()).UTC().Format(time.RFC3339),
			Price:     prices[i],
			Volume:    volumes[p.Time()],
			SMA:       sma.At(i),
			EMA:       ema.At(i),
		}
	}
	return out
}

// ChartStats summarizes a price series.
type ChartStats struct {
	Points   int    `json:"points"`
	MinPrice string `json:"min_price"`
	MaxPrice string `json:"max_price"`
	Change   string `json:"change"` // first to last sample
}

// Stats returns the point count, price extremes and period change of points.
func Stats(points []PricePoint) ChartStats {
	st := ChartStats{
		Points:   len(points),
		MinPrice: utils.NotAvailable,
		MaxPrice: utils.NotAvailable,
		Change:   utils.NotAvailable,
	}
	if len(points) == 0 {
		return st
	}
	prices := make([]float64, len(points))
	for i, p := range points {
		prices[i] = p.Price
	}
	st.MinPrice = utils.FormatCurrency(slices.Min(prices), "USD")
	st.MaxPrice = utils.FormatCurrency(slices.Max(prices), "USD")
	if pct, ok := technical.ChangePercent(prices); ok {
		st.Change = utils.FormatPercentage(pct)
	}
	return st
}

// ChartPage is the derived state of the chart page.
type ChartPage struct {
	CoinID string            `json:"coin_id"`
	Days   string            `json:"days"`
	State  LoadState         `json:"state"`
	Error  string            `json:"error,omitempty"`
	Source datasource.Source `json:"source"`
	Stats  ChartStats        `json:"stats"`
	Points []PricePoint      `json:"points"`
}

// ChartView is the price/volume chart of one asset.
type ChartView struct {
	src    Source
	status Status

	mu     sync.Mutex
	coinID string
	days   string
	series models.ChartSeries
	source datasource.Source
}

// NewChartView starts on bitcoin over seven days.
func NewChartView(src Source) *ChartView {
	return &ChartView{src: src, coinID: "bitcoin", days: defaultChartRange}
}

// Load fetches the USD series of coinID over days. Empty arguments keep the
// current selection.
func (v *ChartView) Load(ctx context.Context, coinID, days string) error {
	if days != "" && !ValidChartRange(days) {
		return fmt.Errorf("unsupported range %q", days)
	}
	coinID = utils.NormalizeCoinID(coinID)
	v.mu.Lock()
	if coinID != "" {
		v.coinID = coinID
	}
	if days != "" {
		v.days = days
	}
	coinID, days = v.coinID, v.days
	v.mu.Unlock()

	v.status.Begin()
	res := v.src.GetMarketChart(ctx, coinID, days, "usd")
	v.mu.Lock()
	v.series = res.Data
	v.source = res.Source
	v.mu.Unlock()
	v.status.Finish(nil)
	return nil
}

// Page derives the joined points and their stats.
func (v *ChartView) Page() ChartPage {
	v.mu.Lock()
	out := ChartPage{CoinID: v.coinID, Days: v.days, Source: v.source}
	series := v.series
	v.mu.Unlock()

	out.Points = JoinSeries(series)
	out.Stats = Stats(out.Points)
	out.State, out.Error = v.status.State()
	return out
}
