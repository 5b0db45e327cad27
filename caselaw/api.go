package caselaw

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler returns the read-only HTTP API over the stored corpus. It never
// writes: campaigns are the only writers.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/cases", s.handleCases)
	r.Get("/cases/*", s.handleCase)
	r.Get("/stats", s.handleStats)
	return r
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DB.PingContext(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) handleCases(w http.ResponseWriter, r *http.Request) {
	cases, err := s.store.All(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "list cases", "error", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if cases == nil {
		cases = []*CaseRecord{}
	}
	respondJSON(w, http.StatusOK, cases)
}

// handleCase serves one case. Case IDs contain slashes (GHASC/2023/45), so
// the route uses a wildcard rather than a single path parameter.
func (s *Service) handleCase(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "*")
	rec, err := s.store.Get(r.Context(), caseID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "get case", "case_id", caseID, "error", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if rec == nil {
		http.NotFound(w, r)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Service) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "stats", "error", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
