package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopscope/shopscope/internal/utils"
	"github.com/shopscope/shopscope/pkg/storage"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleResults serves the qualifying profiles of the most recent run.
// ?all=true includes the not_shopify and fetch_error records too.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	run, err := s.DB.LatestRun(r.Context())
	if errors.Is(err, storage.ErrNoRuns) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no data yet"})
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	qualifyingOnly := r.URL.Query().Get("all") != "true"
	profiles, err := s.DB.ProfilesForRun(r.Context(), run.ID, qualifyingOnly)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.DB.ListRuns(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []storage.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// handleRecrawl kicks off a background crawl unless one is already running.
func (s *Server) handleRecrawl(w http.ResponseWriter, r *http.Request) {
	locked, err := s.Lock.TryLock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !locked {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"status": "busy"})
		return
	}

	go func() {
		defer s.Lock.Unlock()
		if err := s.Crawl(); err != nil {
			utils.Log.Errorf("background crawl failed: %v", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}
