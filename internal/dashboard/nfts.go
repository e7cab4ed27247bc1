package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/cleanmind/internal/datasource"
	"github.com/seenimoa/cleanmind/pkg/models"
	"github.com/seenimoa/cleanmind/pkg/utils"
)

// The upstream lists about a thousand collections.
const (
	nftTotalEstimate = 1000
	nftMaxPages      = 50
)

// NFTOrder is a server-side ordering of the collection list.
type NFTOrder string

const (
	NFTOrderMarketCapDesc  NFTOrder = "market_cap_usd_desc"
	NFTOrderMarketCapAsc   NFTOrder = "market_cap_usd_asc"
	NFTOrderFloorPriceDesc NFTOrder = "floor_price_usd_desc"
	NFTOrderFloorPriceAsc  NFTOrder = "floor_price_usd_asc"
	NFTOrderVolumeDesc     NFTOrder = "volume_24h_desc"
	NFTOrderVolumeAsc      NFTOrder = "volume_24h_asc"
	NFTOrderOwnersDesc     NFTOrder = "number_of_owners_desc"
	NFTOrderOwnersAsc      NFTOrder = "number_of_owners_asc"
)

// NFTOrders lists every accepted ordering, default first.
func NFTOrders() []NFTOrder {
	return []NFTOrder{
		NFTOrderMarketCapDesc, NFTOrderMarketCapAsc,
		NFTOrderFloorPriceDesc, NFTOrderFloorPriceAsc,
		NFTOrderVolumeDesc, NFTOrderVolumeAsc,
		NFTOrderOwnersDesc, NFTOrderOwnersAsc,
	}
}

// ParseNFTOrder validates an ordering; empty means the default.
func ParseNFTOrder(s string) (NFTOrder, error) {
	if s == "" {
		return NFTOrderMarketCapDesc, nil
	}
	for _, o := range NFTOrders() {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown nft order %q", s)
}

// NFTPage is the derived state of the collection list.
type NFTPage struct {
	Paginator
	Nav      PageNav                       `json:"nav"`
	Query    string                        `json:"query"`
	Order    NFTOrder                      `json:"order"`
	State    LoadState                     `json:"state"`
	Error    string                        `json:"error,omitempty"`
	Source   datasource.Source             `json:"source"`
	Items    []models.NFTCollectionSummary `json:"items"`
	Selected *NFTDetail                    `json:"selected,omitempty"`
}

// NFTView is the paged NFT collection list with a selected detail.
type NFTView struct {
	src          Source
	status       Status
	detailStatus Status

	mu          sync.Mutex
	pager       Paginator
	order       NFTOrder
	query       string
	collections []models.NFTCollectionSummary
	source      datasource.Source
	detail      *NFTDetail
}

// NewNFTView creates the view on page 1 in the default order.
func NewNFTView(src Source, perPage int) *NFTView {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	return &NFTView{
		src:   src,
		pager: NewPaginator(perPage, EstimatePages(nftTotalEstimate, perPage, nftMaxPages)),
		order: NFTOrderMarketCapDesc,
	}
}

// SetOrder changes the ordering and returns to page 1. The caller reloads.
func (v *NFTView) SetOrder(o NFTOrder) {
	v.mu.Lock()
	if o != v.order {
		v.order = o
		v.pager.Page = 1
	}
	v.mu.Unlock()
}

// SetQuery sets the name/symbol filter.
func (v *NFTView) SetQuery(q string) {
	v.mu.Lock()
	v.query = strings.TrimSpace(q)
	v.mu.Unlock()
}

// Load fetches page in the current order.
func (v *NFTView) Load(ctx context.Context, page int) error {
	v.mu.Lock()
	if page != v.pager.Page && !v.pager.GoTo(page) {
		v.mu.Unlock()
		return fmt.Errorf("page %d out of range [1, %d]", page, v.pager.TotalPages)
	}
	page, perPage, order := v.pager.Page, v.pager.PerPage, v.order
	v.mu.Unlock()

	v.status.Begin()
	res := v.src.GetNFTCollections(ctx, page, perPage, string(order))

	v.mu.Lock()
	v.collections = res.Data
	v.source = res.Source
	v.mu.Unlock()
	v.status.Finish(nil)
	return nil
}

// Page derives the filtered list and the selected collection.
func (v *NFTView) Page() NFTPage {
	v.mu.Lock()
	out := NFTPage{
		Paginator: v.pager,
		Nav:       v.pager.Nav(),
		Query:     v.query,
		Order:     v.order,
		Source:    v.source,
		Items: FilterByText(v.collections, v.query, func(c models.NFTCollectionSummary) (string, string) {
			return c.Name, c.Symbol
		}),
	}
	v.mu.Unlock()
	out.Selected = v.Detail()
	out.State, out.Error = v.status.State()
	return out
}

// ErrNFTNotFound is returned by Select when no detail could be loaded.
var ErrNFTNotFound = errors.New("nft collection not found")

// Select loads the detail of collection id.
func (v *NFTView) Select(ctx context.Context, id string) (*NFTDetail, error) {
	v.detailStatus.Begin()
	res := v.src.GetNFTCollectionDetails(ctx, id)
	if res.Data == nil {
		err := fmt.Errorf("%w: %s", ErrNFTNotFound, id)
		v.mu.Lock()
		v.detail = nil
		v.mu.Unlock()
		v.detailStatus.Finish(err)
		return nil, err
	}
	d := NewNFTDetail(*res.Data)
	v.mu.Lock()
	v.detail = &d
	v.mu.Unlock()
	v.detailStatus.Finish(nil)
	return &d, nil
}

// Detail returns the selected collection, if any.
func (v *NFTView) Detail() *NFTDetail {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.detail
}

// NFTDetail is a collection detail formatted for display.
type NFTDetail struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Symbol          string          `json:"symbol"`
	Image           string          `json:"image"`
	Platform        string          `json:"platform"`
	ContractAddress string          `json:"contract_address"`
	Description     string          `json:"description"`
	FloorPrice      string          `json:"floor_price"`
	FloorPriceUSD   string          `json:"floor_price_usd"`
	FloorChange24h  string          `json:"floor_change_24h"`
	FloorTrend      utils.Change    `json:"floor_trend"`
	MarketCapUSD    string          `json:"market_cap_usd"`
	Volume24hUSD    string          `json:"volume_24h_usd"`
	Owners          string          `json:"owners"`
	TotalSupply     string          `json:"total_supply"`
	Sales24h        string          `json:"sales_24h"`
	Links           models.NFTLinks `json:"links"`
}

// NewNFTDetail formats d. The description arrives as HTML and is reduced
// to its text.
func NewNFTDetail(d models.NFTCollectionDetail) NFTDetail {
	out := NFTDetail{
		ID:              d.ID,
		Name:            d.Name,
		Symbol:          strings.ToUpper(d.Symbol),
		Image:           d.Image.Large,
		Platform:        d.AssetPlatformID,
		ContractAddress: d.ContractAddress,
		Description:     StripHTML(d.Description),
		FloorPriceUSD:   utils.FormatCurrencyPtr(d.FloorPrice.USD, "USD"),
		FloorChange24h:  utils.FormatPercentagePtr(d.FloorPriceInUSD24hPercentageChange),
		FloorTrend:      utils.ClassifyChangePtr(d.FloorPriceInUSD24hPercentageChange),
		MarketCapUSD:    usdVolume(d.MarketCap.USD),
		Volume24hUSD:    usdVolume(d.Volume24h.USD),
		Owners:          wholeNumber(d.NumberOfUniqueAddresses),
		TotalSupply:     wholeNumber(d.TotalSupply),
		Sales24h:        wholeNumber(d.OneDaySales),
		Links:           d.Links,
	}
	if out.Image == "" {
		out.Image = d.Image.Small
	}
	out.FloorPrice = utils.NotAvailable
	if d.FloorPrice.NativeCurrency != nil {
		unit := strings.ToUpper(d.NativeCurrencySymbol)
		if unit == "" {
			unit = strings.ToUpper(d.NativeCurrency)
		}
		out.FloorPrice = strings.TrimSpace(fmt.Sprintf("%.4g %s", *d.FloorPrice.NativeCurrency, unit))
	}
	return out
}

func usdVolume(v *float64) string {
	if v == nil {
		return utils.NotAvailable
	}
	return utils.FormatVolumeUSD(*v)
}

func wholeNumber(v *float64) string {
	if v == nil {
		return utils.NotAvailable
	}
	return fmt.Sprintf("%.0f", *v)
}

// StripHTML returns the text content of an HTML fragment with runs of
// whitespace collapsed. Input that fails to parse is returned trimmed.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
