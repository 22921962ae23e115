package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/learnstreak/coach/internal/progress"
	"github.com/learnstreak/coach/internal/store"
)

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.deps.Store.ListEntries(r.Context(), limit)
	if err != nil {
		s.deps.Logger.Error("failed to list entries", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not load entries"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	entry, ok := s.loadEntry(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// publicEntry renders a published entry as a standalone HTML page. No auth:
// the whole point of the challenge is learning in public.
func (s *Server) publicEntry(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	entry, ok := s.loadEntry(w, r)
	if !ok {
		return
	}

	html, err := renderEntryPage(entry)
	if err != nil {
		s.deps.Logger.Error("failed to render entry", "entry_id", entry.ID, "error", err)
		http.Error(w, "could not render entry", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}

func (s *Server) progressReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	dates, err := s.deps.Store.EntryDates(r.Context())
	if err != nil {
		s.deps.Logger.Error("failed to load entry dates", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not load progress"})
		return
	}
	writeJSON(w, http.StatusOK, progress.Compute(dates, s.deps.GoalDays, time.Now()))
}

func (s *Server) loadEntry(w http.ResponseWriter, r *http.Request) (*store.StoredEntry, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid entry id"})
		return nil, false
	}

	entry, err := s.deps.Store.GetEntry(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "entry not found"})
		return nil, false
	}
	if err != nil {
		s.deps.Logger.Error("failed to load entry", "entry_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not load entry"})
		return nil, false
	}
	return entry, true
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.deps.Store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "storage not configured"})
		return false
	}
	return true
}
