package api

import (
	"encoding/json"
	"net/http"

	"github.com/seenimoa/cleanmind/internal/config"
)

// ConfigResponse is the JSON envelope returned by GET /api/v1/config.
type ConfigResponse struct {
	Config *config.Config     `json:"config"`
	Keys   []config.KeyStatus `json:"keys"`
}

// handleGetConfig returns the running configuration.
// The upstream key is excluded via its json:"-" tag.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.writeOK(w, ConfigResponse{
		Config: s.cfg,
		Keys:   config.CheckAPIKeys(s.cfg),
	})
}

// handleGetConfigKeys returns the status of the upstream API key.
func (s *Server) handleGetConfigKeys(w http.ResponseWriter, r *http.Request) {
	s.writeOK(w, config.CheckAPIKeys(s.cfg))
}

// ============================================================
// User settings
// ============================================================

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s.writeOK(w, s.settings.Get())
}

// handleUpdateSettings decodes a partial document on top of the current
// settings, so omitted toggle groups keep their values.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	incoming := s.settings.Get()
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	updated, err := s.settings.Update(incoming)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeOK(w, updated)
}

func (s *Server) handleResetSettings(w http.ResponseWriter, r *http.Request) {
	s.writeOK(w, s.settings.Reset())
}
