package dashboard

import (
	"context"
	"strings"
	"sync"

	"github.com/seenimoa/cleanmind/internal/datasource"
	"github.com/seenimoa/cleanmind/pkg/models"
)

// SearchPage is the derived state of the search page.
type SearchPage struct {
	Query   string              `json:"query"`
	State   LoadState           `json:"state"`
	Error   string              `json:"error,omitempty"`
	Source  datasource.Source   `json:"source,omitempty"`
	Results []models.SearchCoin `json:"results"`
}

// SearchView runs asset searches.
type SearchView struct {
	src    Source
	status Status

	mu      sync.Mutex
	query   string
	results []models.SearchCoin
	source  datasource.Source
}

// NewSearchView creates an idle view.
func NewSearchView(src Source) *SearchView {
	return &SearchView{src: src}
}

// Search runs query. A blank query clears the results without a fetch.
func (v *SearchView) Search(ctx context.Context, query string) SearchPage {
	query = strings.TrimSpace(query)
	if query == "" {
		v.mu.Lock()
		v.query, v.results, v.source = "", nil, ""
		v.mu.Unlock()
		return v.Page()
	}

	v.status.Begin()
	res := v.src.SearchCryptos(ctx, query)
	v.mu.Lock()
	v.query = query
	v.results = res.Data.Coins
	v.source = res.Source
	v.mu.Unlock()
	v.status.Finish(nil)
	return v.Page()
}

// Page returns the last results.
func (v *SearchView) Page() SearchPage {
	v.mu.Lock()
	out := SearchPage{Query: v.query, Source: v.source, Results: v.results}
	v.mu.Unlock()
	if out.Results == nil {
		out.Results = []models.SearchCoin{}
	}
	out.State, out.Error = v.status.State()
	return out
}
