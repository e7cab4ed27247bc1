package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/seenimoa/cleanmind/internal/datasource"
	"github.com/seenimoa/cleanmind/pkg/models"
	"github.com/seenimoa/cleanmind/pkg/utils"
)

const (
	exchangesTotalEstimate = 5000
	exchangesMaxPages      = 250
)

// ExchangeRow is one rendered exchange row.
type ExchangeRow struct {
	Position        int    `json:"position"`
	ID              string `json:"id"`
	Name            string `json:"name"`
	Image           string `json:"image"`
	Country         string `json:"country,omitempty"`
	YearEstablished int    `json:"year_established,omitempty"`
	Description     string `json:"description,omitempty"`
	TrustScore      int    `json:"trust_score"`
	TrustLabel      string `json:"trust_label"`
	TrustRank       string `json:"trust_rank"`
	Volume24hBTC    string `json:"volume_24h_btc"`
	NormalizedBTC   string `json:"volume_24h_btc_normalized"`
	InterestScore   string `json:"interest_score,omitempty"`
	URL             string `json:"url,omitempty"`
}

// NewExchangeRow formats e for display at position.
func NewExchangeRow(position int, e models.ExchangeInfo) ExchangeRow {
	row := ExchangeRow{
		Position:    position,
		ID:          e.ID,
		Name:        e.Name,
		Image:       e.Image,
		Country:     e.Country,
		Description: e.Description,
		TrustScore:  e.TrustScore,
		TrustLabel:  utils.TrustScoreLabel(e.TrustScore),
		TrustRank:   utils.NotAvailable,
		URL:         e.URL,
	}
	if e.YearEstablished != nil {
		row.YearEstablished = *e.YearEstablished
	}
	if e.TrustScoreRank > 0 {
		row.TrustRank = fmt.Sprintf("#%d", e.TrustScoreRank)
	}
	row.Volume24hBTC = btcAmount(e.TradeVolume24hBTC)
	row.NormalizedBTC = btcAmount(e.TradeVolume24hBTCNormalized)
	if e.PublicInterestScore > 0 {
		row.InterestScore = fmt.Sprintf("%.1f", e.PublicInterestScore)
	}
	return row
}

// btcAmount renders a BTC volume with two decimals; missing is zero.
func btcAmount(v *float64) string {
	vol := 0.0
	if v != nil {
		vol = *v
	}
	return fmt.Sprintf("%.2f BTC", vol)
}

// ExchangesPage is the derived state of the exchanges view.
type ExchangesPage struct {
	Paginator
	Nav    PageNav           `json:"nav"`
	State  LoadState         `json:"state"`
	Error  string            `json:"error,omitempty"`
	Source datasource.Source `json:"source"`
	Rows   []ExchangeRow     `json:"rows"`
}

// ExchangesView is the paged exchange directory.
type ExchangesView struct {
	src    Source
	status Status

	mu        sync.Mutex
	pager     Paginator
	exchanges []models.ExchangeInfo
	source    datasource.Source
}

// NewExchangesView creates the view on page 1.
func NewExchangesView(src Source, perPage int) *ExchangesView {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	return &ExchangesView{
		src:   src,
		pager: NewPaginator(perPage, EstimatePages(exchangesTotalEstimate, perPage, exchangesMaxPages)),
	}
}

// Load fetches page, replacing the held list.
func (v *ExchangesView) Load(ctx context.Context, page int) error {
	v.mu.Lock()
	if page != v.pager.Page && !v.pager.GoTo(page) {
		v.mu.Unlock()
		return fmt.Errorf("page %d out of range [1, %d]", page, v.pager.TotalPages)
	}
	page, perPage := v.pager.Page, v.pager.PerPage
	v.mu.Unlock()

	v.status.Begin()
	res := v.src.GetExchanges(ctx, page, perPage)

	v.mu.Lock()
	v.exchanges = res.Data
	v.source = res.Source
	v.mu.Unlock()
	v.status.Finish(nil)
	return nil
}

// Page derives the rendered rows.
func (v *ExchangesView) Page() ExchangesPage {
	v.mu.Lock()
	out := ExchangesPage{Paginator: v.pager, Nav: v.pager.Nav(), Source: v.source}
	exchanges := v.exchanges
	v.mu.Unlock()

	out.Rows = make([]ExchangeRow, len(exchanges))
	for i, e := range exchanges {
		out.Rows[i] = NewExchangeRow(out.Offset()+i+1, e)
	}
	out.State, out.Error = v.status.State()
	return out
}
