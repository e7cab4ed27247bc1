// Package dashboard holds the page view-models: each one loads its data
// through the data-access layer, keeps its own filter, sort and page state,
// and derives the rows a page renders.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/seenimoa/cleanmind/internal/datasource"
	"github.com/seenimoa/cleanmind/pkg/models"
	"github.com/seenimoa/cleanmind/pkg/utils"
)

// DefaultPageSize is the number of rows per page on every paged view.
const DefaultPageSize = 20

// Source is the data-access surface the views read from.
// *datasource.Client implements it.
type Source interface {
	TestConnection(ctx context.Context) datasource.Result[bool]
	GetGlobalData(ctx context.Context) datasource.Result[models.GlobalSnapshot]
	GetTrending(ctx context.Context) datasource.Result[models.TrendingData]
	GetTopCryptos(ctx context.Context, page, perPage int) datasource.Result[[]models.MarketAsset]
	GetMarketChart(ctx context.Context, id, days, vsCurrency string) datasource.Result[models.ChartSeries]
	SearchCryptos(ctx context.Context, query string) datasource.Result[models.SearchResults]
	GetExchanges(ctx context.Context, page, perPage int) datasource.Result[[]models.ExchangeInfo]
	GetNFTCollections(ctx context.Context, page, perPage int, order string) datasource.Result[[]models.NFTCollectionSummary]
	GetNFTCollectionDetails(ctx context.Context, id string) datasource.Result[*models.NFTCollectionDetail]
}

// ── Load state ──

// LoadState is the per-view fetch lifecycle.
type LoadState string

const (
	StateIdle    LoadState = "idle"
	StateLoading LoadState = "loading"
	StateLoaded  LoadState = "loaded"
	StateError   LoadState = "error"
)

// Status tracks one view's LoadState. Every fetch starts with Begin, which
// clears the previous error.
type Status struct {
	mu        sync.RWMutex
	state     LoadState
	err       string
	updatedAt time.Time
}

// Begin marks a fetch as started.
func (s *Status) Begin() {
	s.mu.Lock()
	s.state = StateLoading
	s.err = ""
	s.mu.Unlock()
}

// Finish marks the fetch as done, failed when err is non-nil.
func (s *Status) Finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatedAt = time.Now()
	if err != nil {
		s.state = StateError
		s.err = err.Error()
		return
	}
	s.state = StateLoaded
}

// State returns the current state and the last error message.
func (s *Status) State() (LoadState, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == "" {
		return StateIdle, ""
	}
	return s.state, s.err
}

// UpdatedAt returns when the last fetch finished.
func (s *Status) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// ── Sorting ──

// SortOrder is ascending or descending.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// SortState is a sort column and direction.
type SortState[K ~string] struct {
	Key   K         `json:"key"`
	Order SortOrder `json:"order"`
}

// Toggle flips the direction when key is already the sort column;
// otherwise it switches to key, descending.
func (s *SortState[K]) Toggle(key K) {
	if s.Key == key {
		if s.Order == Ascending {
			s.Order = Descending
		} else {
			s.Order = Ascending
		}
		return
	}
	s.Key = key
	s.Order = Descending
}

// ── Pagination ──

// Paginator tracks the current page of a paged view.
type Paginator struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

// EstimatePages returns ceil(total/perPage) capped at maxPages.
func EstimatePages(total, perPage, maxPages int) int {
	if perPage <= 0 {
		return 0
	}
	pages := (total + perPage - 1) / perPage
	return min(maxPages, pages)
}

// NewPaginator starts at page 1.
func NewPaginator(perPage, totalPages int) Paginator {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	return Paginator{Page: 1, PerPage: perPage, TotalPages: totalPages}
}

// HasPrev reports whether a previous page exists.
func (p Paginator) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p Paginator) HasNext() bool { return p.Page < p.TotalPages }

// GoTo moves to page n when it is within [1, TotalPages].
func (p *Paginator) GoTo(n int) bool {
	if n < 1 || n > p.TotalPages {
		return false
	}
	p.Page = n
	return true
}

// PageNav names the neighbouring pages; zero means there is none.
type PageNav struct {
	Prev int `json:"prev_page,omitempty"`
	Next int `json:"next_page,omitempty"`
}

// Nav returns the neighbouring pages of the current page.
func (p Paginator) Nav() PageNav {
	var n PageNav
	if p.HasPrev() {
		n.Prev = p.Page - 1
	}
	if p.HasNext() {
		n.Next = p.Page + 1
	}
	return n
}

// Offset returns the zero-based index of the page's first row.
func (p Paginator) Offset() int { return (p.Page - 1) * p.PerPage }

// ── Filtering ──

// FilterByText keeps the items whose name or symbol contains query,
// ignoring case. An empty query keeps everything.
func FilterByText[T any](items []T, query string, fields func(T) (name, symbol string)) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		name, symbol := fields(it)
		if utils.ContainsFold(name, query) || utils.ContainsFold(symbol, query) {
			out = append(out, it)
		}
	}
	return out
}
