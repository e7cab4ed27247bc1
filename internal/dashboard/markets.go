package dashboard

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/seenimoa/cleanmind/internal/datasource"
	"github.com/seenimoa/cleanmind/pkg/models"
	"github.com/seenimoa/cleanmind/pkg/utils"
)

// The upstream free tier ranks roughly 5000 assets.
const (
	marketsTotalEstimate = 5000
	marketsMaxPages      = 250
)

// MarketSortKey is a sortable markets column.
type MarketSortKey string

const (
	SortMarketCap MarketSortKey = "market_cap"
	SortPrice     MarketSortKey = "price"
	SortVolume    MarketSortKey = "volume"
	SortChange    MarketSortKey = "change"
)

// ParseMarketSortKey validates a sort key.
func ParseMarketSortKey(s string) (MarketSortKey, error) {
	switch k := MarketSortKey(s); k {
	case SortMarketCap, SortPrice, SortVolume, SortChange:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// sortValue returns the column value; missing numbers sort as zero.
func (k MarketSortKey) sortValue(a models.MarketAsset) float64 {
	var v *float64
	switch k {
	case SortPrice:
		v = a.CurrentPrice
	case SortVolume:
		v = a.TotalVolume
	case SortChange:
		v = a.PriceChangePct24h
	default:
		v = a.MarketCap
	}
	if v == nil {
		return 0
	}
	return *v
}

// MarketRow is one rendered markets row.
type MarketRow struct {
	ID         string             `json:"id"`
	Rank       int                `json:"rank"`
	Name       string             `json:"name"`
	Symbol     string             `json:"symbol"`
	Image      string             `json:"image"`
	Price      string             `json:"price"`
	Change1h   string             `json:"change_1h"`
	Change24h  string             `json:"change_24h"`
	Change7d   string             `json:"change_7d"`
	Trend      utils.Change       `json:"trend"`
	TrendClass string             `json:"trend_class"`
	MarketCap  string             `json:"market_cap"`
	Volume     string             `json:"volume"`
	Asset      models.MarketAsset `json:"asset"`
}

// NewMarketRow formats an asset for display.
func NewMarketRow(a models.MarketAsset) MarketRow {
	trend := utils.ClassifyChangePtr(a.PriceChangePct24h)
	return MarketRow{
		ID:         a.ID,
		Rank:       a.Rank(),
		Name:       a.Name,
		Symbol:     strings.ToUpper(a.Symbol),
		Image:      a.Image,
		Price:      utils.FormatCurrencyPtr(a.CurrentPrice, "USD"),
		Change1h:   utils.FormatPercentagePtr(a.PriceChangePct1hInCurrency),
		Change24h:  utils.FormatPercentagePtr(a.PriceChangePct24h),
		Change7d:   utils.FormatPercentagePtr(a.PriceChangePct7d),
		Trend:      trend,
		TrendClass: trend.Class(),
		MarketCap:  dollarCompact(a.MarketCap),
		Volume:     dollarCompact(a.TotalVolume),
		Asset:      a,
	}
}

// dollarCompact renders "$1.20T"-style figures.
func dollarCompact(v *float64) string {
	s := utils.FormatCompactPtr(v)
	if s == utils.NotAvailable {
		return s
	}
	return "$" + s
}

// MarketsPage is the derived state of the markets view.
type MarketsPage struct {
	Paginator
	Nav           PageNav                  `json:"nav"`
	TotalEstimate int                      `json:"total_estimate"`
	Query         string                   `json:"query"`
	Sort          SortState[MarketSortKey] `json:"sort"`
	State         LoadState                `json:"state"`
	Error         string                   `json:"error,omitempty"`
	Source        datasource.Source        `json:"source"`
	Rows          []MarketRow              `json:"rows"`
}

// MarketsView is the paged, filterable, sortable asset list.
type MarketsView struct {
	src    Source
	status Status

	mu     sync.Mutex
	pager  Paginator
	sort   SortState[MarketSortKey]
	query  string
	assets []models.MarketAsset
	source datasource.Source
}

// NewMarketsView creates the view sorted by market cap, descending.
func NewMarketsView(src Source, perPage int) *MarketsView {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	return &MarketsView{
		src:   src,
		pager: NewPaginator(perPage, EstimatePages(marketsTotalEstimate, perPage, marketsMaxPages)),
		sort:  SortState[MarketSortKey]{Key: SortMarketCap, Order: Descending},
	}
}

// Load fetches page and replaces the held assets wholesale. An
// out-of-range page is rejected and the current page kept.
func (v *MarketsView) Load(ctx context.Context, page int) error {
	v.mu.Lock()
	if page != v.pager.Page && !v.pager.GoTo(page) {
		v.mu.Unlock()
		return fmt.Errorf("page %d out of range [1, %d]", page, v.pager.TotalPages)
	}
	page, perPage := v.pager.Page, v.pager.PerPage
	v.mu.Unlock()

	v.status.Begin()
	res := v.src.GetTopCryptos(ctx, page, perPage)

	v.mu.Lock()
	v.assets = res.Data
	v.source = res.Source
	v.mu.Unlock()
	v.status.Finish(nil)
	return nil
}

// SetQuery sets the name/symbol filter.
func (v *MarketsView) SetQuery(q string) {
	v.mu.Lock()
	v.query = strings.TrimSpace(q)
	v.mu.Unlock()
}

// ToggleSort applies a sort-button press.
func (v *MarketsView) ToggleSort(key MarketSortKey) {
	v.mu.Lock()
	v.sort.Toggle(key)
	v.mu.Unlock()
}

// SetSort sets the sort column and direction explicitly.
func (v *MarketsView) SetSort(key MarketSortKey, order SortOrder) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sort.Key = key
	if order == Ascending || order == Descending {
		v.sort.Order = order
	}
}

// Page derives the filtered, sorted rows of the loaded page.
func (v *MarketsView) Page() MarketsPage {
	v.mu.Lock()
	assets := FilterByText(v.assets, v.query, func(a models.MarketAsset) (string, string) {
		return a.Name, a.Symbol
	})
	out := MarketsPage{
		Paginator:     v.pager,
		Nav:           v.pager.Nav(),
		TotalEstimate: marketsTotalEstimate,
		Query:         v.query,
		Sort:          v.sort,
		Source:        v.source,
	}
	v.mu.Unlock()

	SortAssets(assets, out.Sort)
	out.Rows = make([]MarketRow, len(assets))
	for i, a := range assets {
		out.Rows[i] = NewMarketRow(a)
	}
	out.State, out.Error = v.status.State()
	return out
}

// SortAssets sorts assets in place by s. Ties keep their input order.
func SortAssets(assets []models.MarketAsset, s SortState[MarketSortKey]) {
	slices.SortStableFunc(assets, func(a, b models.MarketAsset) int {
		av, bv := s.Key.sortValue(a), s.Key.sortValue(b)
		if s.Order == Ascending {
			return cmp.Compare(av, bv)
		}
		return cmp.Compare(bv, av)
	})
}
