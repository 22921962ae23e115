package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/learnstreak/coach/internal/llm"
	"github.com/learnstreak/coach/internal/session"
)

const extractMaxTokens = 4096

// Extractor converts free-form transcripts into validated structured objects.
type Extractor struct {
	llm     *llm.Client
	timeout time.Duration
	logger  *slog.Logger
}

func New(client *llm.Client, timeout time.Duration, logger *slog.Logger) *Extractor {
	return &Extractor{llm: client, timeout: timeout, logger: logger}
}

// ExtractEntry asks the model to render the full transcript as a log entry
// and recovers the JSON through the parse cascade. On success the session
// phase advances to extracted.
func (e *Extractor) ExtractEntry(ctx context.Context, s *session.Session) (*Entry, error) {
	raw, err := e.complete(ctx, entrySystemPrompt, fmt.Sprintf(entryUserPrompt, s.Transcript()))
	if err != nil {
		return nil, err
	}

	obj, err := RecoverJSON(raw)
	if err != nil {
		e.logger.Error("entry extraction unrecoverable",
			"session_id", s.ID,
			"error", err,
			"raw", raw,
		)
		return nil, &ExtractionError{Reason: "no strategy recovered a JSON object", Err: err}
	}

	var re rawEntry
	if err := json.Unmarshal(obj, &re); err != nil {
		return nil, &ExtractionError{Reason: "recovered object has wrong shape", Err: err}
	}

	entry, err := re.normalize()
	if err != nil {
		return nil, err
	}

	s.Phase = session.PhaseExtracted
	e.logger.Info("entry extracted", "session_id", s.ID, "title", entry.Title)
	return entry, nil
}

// ExtractProfile works from the user's own words only; the coach's questions
// add noise, not signal.
func (e *Extractor) ExtractProfile(ctx context.Context, s *session.Session) (*Profile, error) {
	raw, err := e.complete(ctx, profileSystemPrompt, fmt.Sprintf(profileUserPrompt, s.UserText()))
	if err != nil {
		return nil, err
	}

	obj, err := RecoverJSON(raw)
	if err != nil {
		e.logger.Error("profile extraction unrecoverable",
			"session_id", s.ID,
			"error", err,
			"raw", raw,
		)
		return nil, &ExtractionError{Reason: "no strategy recovered a JSON object", Err: err}
	}

	var rp rawProfile
	if err := json.Unmarshal(obj, &rp); err != nil {
		return nil, &ExtractionError{Reason: "recovered object has wrong shape", Err: err}
	}

	profile, err := rp.normalize()
	if err != nil {
		return nil, err
	}

	s.Phase = session.PhaseExtracted
	e.logger.Info("profile extracted", "session_id", s.ID, "role", profile.Role, "track", profile.Track)
	return profile, nil
}

func (e *Extractor) complete(ctx context.Context, system, user string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.llm.Complete(callCtx, system, []llm.Message{{Role: "user", Content: user}}, extractMaxTokens)
}
