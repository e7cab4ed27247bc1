package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/seenimoa/cleanmind/internal/dashboard"
)

// pageParam parses the "page" query parameter; absent means current.
func pageParam(r *http.Request, current int) (int, error) {
	v := r.URL.Query().Get("page")
	if v == "" {
		return current, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New("page must be an integer")
	}
	return n, nil
}

// ============================================================
// Market views
// ============================================================

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ov, err := s.overview.Load(r.Context())
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "dashboard load cancelled: "+err.Error())
		return
	}
	s.writeOK(w, ov)
}

func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if key := q.Get("sort"); key != "" {
		k, err := dashboard.ParseMarketSortKey(key)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.markets.SetSort(k, dashboard.SortOrder(q.Get("order")))
	}
	if q.Has("q") {
		s.markets.SetQuery(q.Get("q"))
	}

	page, err := pageParam(r, s.markets.Page().Page)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.markets.Load(r.Context(), page); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeOK(w, s.markets.Page())
}

// SortRequest is the body for POST /api/v1/markets/sort.
type SortRequest struct {
	Key string `json:"key"`
}

func (s *Server) handleMarketsSort(w http.ResponseWriter, r *http.Request) {
	var req SortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	k, err := dashboard.ParseMarketSortKey(req.Key)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.markets.ToggleSort(k)
	s.writeOK(w, s.markets.Page())
}

func (s *Server) handleExchanges(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r, s.exchanges.Page().Page)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.exchanges.Load(r.Context(), page); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeOK(w, s.exchanges.Page())
}

func (s *Server) handleNFTs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("order") {
		o, err := dashboard.ParseNFTOrder(q.Get("order"))
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.nfts.SetOrder(o)
	}
	if q.Has("q") {
		s.nfts.SetQuery(q.Get("q"))
	}

	page, err := pageParam(r, s.nfts.Page().Page)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.nfts.Load(r.Context(), page); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeOK(w, s.nfts.Page())
}

func (s *Server) handleNFTDetail(w http.ResponseWriter, r *http.Request) {
	d, err := s.nfts.Select(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, dashboard.ErrNFTNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeOK(w, d)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	a, err := s.analytics.Load(r.Context())
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "analytics load cancelled: "+err.Error())
		return
	}
	s.writeOK(w, a)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if err := s.charts.Load(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("days")); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeOK(w, s.charts.Page())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.writeOK(w, s.search.Search(r.Context(), r.URL.Query().Get("q")))
}

func (s *Server) handleGlobal(w http.ResponseWriter, r *http.Request) {
	s.global.Load(r.Context())
	s.writeOK(w, s.global.Page())
}

// ============================================================
// Client-local lists
// ============================================================

// PortfolioResponse is the body of GET /api/v1/portfolio.
type PortfolioResponse struct {
	Holdings interface{}               `json:"holdings"`
	Totals   dashboard.PortfolioTotals `json:"totals"`
}

func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	s.writeOK(w, PortfolioResponse{
		Holdings: s.portfolio.List(),
		Totals:   s.portfolio.Totals(),
	})
}

func (s *Server) handleAddHolding(w http.ResponseWriter, r *http.Request) {
	var in dashboard.HoldingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	h, err := s.portfolio.Add(in)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.activity.Record(dashboard.HoldingAdded(h))
	s.writeJSON(w, http.StatusCreated, APIResponse{Success: true, Data: h})
}

func (s *Server) handleRemoveHolding(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.portfolio.Remove(id) {
		s.writeError(w, http.StatusNotFound, "holding not found: "+id)
		return
	}
	s.writeOK(w, map[string]string{"id": id, "status": "removed"})
}

// WatchRequest is the body for POST /api/v1/watchlist.
type WatchRequest struct {
	Symbol string `json:"symbol"`
}

func (s *Server) handleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	s.writeOK(w, s.watchlist.List(r.URL.Query().Get("q")))
}

func (s *Server) handleAddWatch(w http.ResponseWriter, r *http.Request) {
	var req WatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	e, err := s.watchlist.Add(req.Symbol)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.activity.Record(dashboard.WatchlistAdded(e))
	s.writeJSON(w, http.StatusCreated, APIResponse{Success: true, Data: e})
}

func (s *Server) handleRemoveWatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.watchlist.Remove(id) {
		s.writeError(w, http.StatusNotFound, "watchlist entry not found: "+id)
		return
	}
	s.writeOK(w, map[string]string{"id": id, "status": "removed"})
}

// ActivityResponse is the body of GET /api/v1/activity.
type ActivityResponse struct {
	Events []dashboard.ActivityItem `json:"events"`
	Counts interface{}              `json:"counts"`
}

func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	s.writeOK(w, ActivityResponse{
		Events: s.activity.List(time.Now()),
		Counts: s.activity.CountByKind(),
	})
}

func (s *Server) handleAddActivity(w http.ResponseWriter, r *http.Request) {
	var in dashboard.ActivityInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	e, err := s.activity.Add(in)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, APIResponse{Success: true, Data: e})
}

func (s *Server) handleRemoveActivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.activity.Remove(id) {
		s.writeError(w, http.StatusNotFound, "activity not found: "+id)
		return
	}
	s.writeOK(w, map[string]string{"id": id, "status": "removed"})
}

func (s *Server) handleClearActivity(w http.ResponseWriter, r *http.Request) {
	s.activity.Clear()
	s.writeOK(w, map[string]string{"status": "cleared"})
}
