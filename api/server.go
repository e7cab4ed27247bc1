// Package api provides the HTTP server for cleanmind.
//
// It mounts the upstream gateway under /api/coingecko, the dashboard
// view-models under /api/v1, and a WebSocket stream of local-list changes.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/seenimoa/cleanmind/internal/config"
	"github.com/seenimoa/cleanmind/internal/dashboard"
	"github.com/seenimoa/cleanmind/internal/datasource"
	"github.com/seenimoa/cleanmind/internal/logging"
	"github.com/seenimoa/cleanmind/internal/provider"
	"github.com/seenimoa/cleanmind/internal/providers"
)

// Deps are the collaborators of a Server. Nil fields are built from the
// config.
type Deps struct {
	Registry *provider.Registry
	Source   dashboard.Source
	Logger   *zerolog.Logger
	Version  string
}

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	logger   zerolog.Logger
	registry *provider.Registry
	version  string
	wsHub    *WSHub

	overview  *dashboard.OverviewView
	markets   *dashboard.MarketsView
	exchanges *dashboard.ExchangesView
	nfts      *dashboard.NFTView
	analytics *dashboard.AnalyticsView
	charts    *dashboard.ChartView
	search    *dashboard.SearchView
	global    *dashboard.GlobalView

	portfolio *dashboard.Portfolio
	watchlist *dashboard.Watchlist
	activity  *dashboard.ActivityLog
	settings  *dashboard.SettingsStore
}

// NewServer creates a configured server with all routes and middleware.
func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	logger := zerolog.Nop()
	if deps.Logger != nil {
		logger = *deps.Logger
	}

	reg := deps.Registry
	if reg == nil {
		reg = provider.NewRegistry()
		if err := providers.RegisterAllTo(reg, cfg, logger); err != nil {
			return nil, fmt.Errorf("provider setup failed: %w", err)
		}
	}

	src := deps.Source
	if src == nil {
		src = datasource.NewFromConfig(cfg, logger)
	}

	version := deps.Version
	if version == "" {
		version = "dev"
	}

	srv := &Server{
		cfg:      cfg,
		logger:   logger.With().Str("component", "api").Logger(),
		registry: reg,
		version:  version,
		wsHub:    NewWSHub(),
	}

	pageSize := cfg.Dashboard.PageSize
	srv.overview = dashboard.NewOverviewView(src)
	srv.markets = dashboard.NewMarketsView(src, pageSize)
	srv.exchanges = dashboard.NewExchangesView(src, pageSize)
	srv.nfts = dashboard.NewNFTView(src, pageSize)
	srv.analytics = dashboard.NewAnalyticsView(src)
	srv.charts = dashboard.NewChartView(src)
	srv.search = dashboard.NewSearchView(src)
	srv.global = dashboard.NewGlobalView(src)

	onChange := srv.broadcastChange
	srv.portfolio = dashboard.NewPortfolio(onChange)
	srv.watchlist = dashboard.NewWatchlist(onChange)
	srv.activity = dashboard.NewActivityLog(time.Now(), onChange)
	srv.settings = dashboard.NewSettingsStore(onChange)

	srv.router = srv.buildRouter()
	return srv, nil
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *WSHub {
	return s.wsHub
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.wsHub.Run(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(s.logger))
	r.Use(middleware.Recoverer)

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	// Browsers reject credentials on a wildcard origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	// Upstream gateway. Bodies are forwarded verbatim.
	r.Route("/api/coingecko", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		s.mountGateway(r)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/providers", s.handleProviders)
		r.Get("/providers/{name}/ping", s.handleProviderPing)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(90 * time.Second))

			r.Get("/dashboard", s.handleDashboard)
			r.Get("/markets", s.handleMarkets)
			r.Post("/markets/sort", s.handleMarketsSort)
			r.Get("/exchanges", s.handleExchanges)
			r.Get("/nfts", s.handleNFTs)
			r.Get("/nfts/{id}", s.handleNFTDetail)
			r.Get("/analytics", s.handleAnalytics)
			r.Get("/charts/{id}", s.handleChart)
			r.Get("/search", s.handleSearch)
			r.Get("/global", s.handleGlobal)
		})

		// Client-local lists
		r.Get("/portfolio", s.handleGetPortfolio)
		r.Post("/portfolio", s.handleAddHolding)
		r.Delete("/portfolio/{id}", s.handleRemoveHolding)

		r.Get("/watchlist", s.handleGetWatchlist)
		r.Post("/watchlist", s.handleAddWatch)
		r.Delete("/watchlist/{id}", s.handleRemoveWatch)

		r.Get("/activity", s.handleGetActivity)
		r.Post("/activity", s.handleAddActivity)
		r.Delete("/activity", s.handleClearActivity)
		r.Delete("/activity/{id}", s.handleRemoveActivity)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleUpdateSettings)
		r.Post("/settings/reset", s.handleResetSettings)

		// Configuration
		r.Get("/config", s.handleGetConfig)
		r.Get("/config/keys", s.handleGetConfigKeys)

		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// ============================================================
// Response helpers
// ============================================================

// APIResponse is the standard JSON envelope of the /api/v1 routes.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to write JSON response")
	}
}

func (s *Server) writeOK(w http.ResponseWriter, data interface{}) {
	s.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, APIResponse{Success: false, Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeOK(w, map[string]interface{}{
		"status":     "ok",
		"version":    s.version,
		"providers":  len(s.registry.List()),
		"ws_clients": s.wsHub.ClientCount(),
		"time":       time.Now().UTC().Format(time.RFC3339),
	})
}

// ProvidersResponse lists the registered providers and resource coverage.
type ProvidersResponse struct {
	Providers []provider.ProviderInfo        `json:"providers"`
	Coverage  map[provider.Resource][]string `json:"coverage"`
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	s.writeOK(w, ProvidersResponse{
		Providers: s.registry.List(),
		Coverage:  s.registry.Coverage(),
	})
}

// ProviderPing is the result of a provider connectivity check.
type ProviderPing struct {
	Provider  string `json:"provider"`
	LatencyMs int64  `json:"latency_ms"`
}

func (s *Server) handleProviderPing(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, err := s.registry.Get(name)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	start := time.Now()
	if err := p.Ping(r.Context()); err != nil {
		s.logger.Warn().Err(err).Str("provider", name).Msg("provider ping failed")
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeOK(w, ProviderPing{Provider: name, LatencyMs: time.Since(start).Milliseconds()})
}
