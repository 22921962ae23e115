package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/learnstreak/coach/internal/events"
	"github.com/learnstreak/coach/internal/extract"
	"github.com/learnstreak/coach/internal/store"
)

type syllabusRequest struct {
	Profile   *extract.Profile `json:"profile"`
	ProfileID string           `json:"profile_id"`
}

// generateSyllabus builds a learning plan from a profile supplied inline or,
// when the body has none, from the most recently saved one.
func (s *Server) generateSyllabus(w http.ResponseWriter, r *http.Request) {
	var req syllabusRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	profile := req.Profile
	if profile == nil {
		if s.deps.Store == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no profile supplied and storage not configured"})
			return
		}
		var err error
		profile, err = s.deps.Store.LatestProfile(r.Context())
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no profile found, complete onboarding first"})
			return
		}
		if err != nil {
			s.deps.Logger.Error("failed to load profile", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not load profile"})
			return
		}
	}

	syl, err := s.deps.Syllabus.Generate(r.Context(), profile)
	if err != nil {
		s.writeCoreError(w, err, "")
		return
	}

	resp := map[string]any{"syllabus": syl}

	if s.deps.Store != nil {
		profileID := uuid.Nil
		if id, err := uuid.Parse(req.ProfileID); err == nil {
			profileID = id
		}
		id, err := s.deps.Store.WriteSyllabus(r.Context(), profileID, *syl)
		if err != nil {
			s.deps.Logger.Error("failed to persist syllabus", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not save your syllabus"})
			return
		}
		resp["syllabus_id"] = id.String()

		if s.deps.Events != nil {
			if err := s.deps.Events.Publish(events.SubjectSyllabusGenerated, map[string]any{
				"syllabus_id": id.String(),
				"title":       syl.Title,
				"days":        len(syl.Days),
			}); err != nil {
				s.deps.Logger.Error("failed to publish syllabus generated", "error", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
