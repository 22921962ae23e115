package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/learnstreak/coach/internal/convo"
	"github.com/learnstreak/coach/internal/events"
	"github.com/learnstreak/coach/internal/extract"
	"github.com/learnstreak/coach/internal/llm"
	"github.com/learnstreak/coach/internal/session"
)

type createSessionRequest struct {
	Flow string `json:"flow"`
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
	Greeting  string `json:"greeting"`
	Phase     string `json:"phase"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	flow := session.FlowComposer
	if req.Flow == string(session.FlowOnboarding) {
		flow = session.FlowOnboarding
	}

	sess := s.registry.Create(flow)
	writeJSON(w, http.StatusCreated, createSessionResponse{
		SessionID: sess.ID.String(),
		Greeting:  convo.Greeting(flow),
		Phase:     string(sess.Phase),
	})
}

type messageRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	Reply string `json:"reply"`
	Phase string `json:"phase"`
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	reply, err := s.deps.Convo.Submit(r.Context(), sess, req.Text)
	if err != nil {
		// Echo the text back so the client can offer one-click retry
		// without the user retyping.
		s.writeCoreError(w, err, req.Text)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Reply: reply, Phase: string(sess.Phase)})
}

// extractSession is the "generate now" affordance: it works in any phase,
// not just after the completion trigger fires.
func (s *Server) extractSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	switch sess.Flow {
	case session.FlowOnboarding:
		s.extractProfile(w, r, sess)
	default:
		s.extractEntry(w, r, sess)
	}
}

func (s *Server) extractEntry(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	entry, err := s.deps.Extractor.ExtractEntry(r.Context(), sess)
	if err != nil {
		s.writeCoreError(w, err, "")
		return
	}

	resp := map[string]any{
		"entry": entry,
		"phase": string(sess.Phase),
	}

	if s.deps.Store != nil {
		id, err := s.deps.Store.WriteEntry(r.Context(), sess.ID.String(), *entry)
		if err != nil {
			s.deps.Logger.Error("failed to persist entry", "session_id", sess.ID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not save your entry"})
			return
		}
		resp["entry_id"] = id.String()

		if s.deps.Events != nil {
			if err := s.deps.Events.Publish(events.SubjectEntrySaved, map[string]any{
				"entry_id": id.String(),
				"title":    entry.Title,
				"tags":     entry.Tags,
			}); err != nil {
				s.deps.Logger.Error("failed to publish entry saved", "error", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) extractProfile(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	profile, err := s.deps.Extractor.ExtractProfile(r.Context(), sess)
	if err != nil {
		s.writeCoreError(w, err, "")
		return
	}

	resp := map[string]any{
		"profile": profile,
		"phase":   string(sess.Phase),
	}

	if s.deps.Store != nil {
		id, err := s.deps.Store.WriteProfile(r.Context(), sess.ID.String(), *profile)
		if err != nil {
			s.deps.Logger.Error("failed to persist profile", "session_id", sess.ID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not save your profile"})
			return
		}
		resp["profile_id"] = id.String()

		if s.deps.Events != nil {
			if err := s.deps.Events.Publish(events.SubjectProfileSaved, map[string]any{
				"profile_id": id.String(),
				"track":      profile.Track,
			}); err != nil {
				s.deps.Logger.Error("failed to publish profile saved", "error", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return nil, false
	}
	sess, ok := s.registry.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return nil, false
	}
	return sess, true
}

// writeCoreError maps pipeline errors to status codes and safe messages.
// Raw provider text and unparsed model output are logged, never echoed.
func (s *Server) writeCoreError(w http.ResponseWriter, err error, text string) {
	body := map[string]any{}
	if text != "" {
		body["text"] = text
	}

	var (
		timeoutErr  *llm.TimeoutError
		networkErr  *llm.NetworkError
		providerErr *llm.ProviderError
		exErr       *extract.ExtractionError
	)
	switch {
	case errors.Is(err, convo.ErrEmptyUtterance):
		body["error"] = "message is empty"
		writeJSON(w, http.StatusBadRequest, body)
	case errors.As(err, &timeoutErr):
		body["error"] = "the assistant took too long to respond — please try again"
		body["retryable"] = true
		writeJSON(w, http.StatusGatewayTimeout, body)
	case errors.As(err, &networkErr):
		body["error"] = "could not reach the assistant — please try again"
		body["retryable"] = true
		writeJSON(w, http.StatusBadGateway, body)
	case errors.As(err, &providerErr):
		s.deps.Logger.Error("provider error", "status", providerErr.Status, "message", providerErr.Message)
		body["error"] = "the assistant had a problem — please try again"
		body["retryable"] = true
		writeJSON(w, http.StatusBadGateway, body)
	case errors.As(err, &exErr):
		s.deps.Logger.Error("extraction error", "reason", exErr.Reason, "error", exErr.Err)
		body["error"] = "couldn't turn the conversation into a result yet — add a bit more detail or try again"
		body["retryable"] = true
		writeJSON(w, http.StatusUnprocessableEntity, body)
	default:
		s.deps.Logger.Error("unexpected error", "error", err)
		body["error"] = "something went wrong"
		writeJSON(w, http.StatusInternalServerError, body)
	}
}
