package convo

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/learnstreak/coach/internal/llm"
	"github.com/learnstreak/coach/internal/session"
)

// ErrEmptyUtterance is returned for empty or whitespace-only input. No
// network call is made and the session is untouched.
var ErrEmptyUtterance = errors.New("utterance is empty")

const replyMaxTokens = 1024

// Coordinator advances a conversation by one user/assistant exchange.
type Coordinator struct {
	llm     *llm.Client
	timeout time.Duration
	logger  *slog.Logger
}

func New(client *llm.Client, timeout time.Duration, logger *slog.Logger) *Coordinator {
	return &Coordinator{llm: client, timeout: timeout, logger: logger}
}

// Submit appends the utterance, asks the model for a reply, and returns it.
// On any failure the optimistic user turn is rolled back and the typed llm
// error is surfaced; retries are always an explicit caller action.
func (c *Coordinator) Submit(ctx context.Context, s *session.Session, utterance string) (string, error) {
	text := strings.TrimSpace(utterance)
	if text == "" {
		return "", ErrEmptyUtterance
	}

	// Continuing to talk after a trigger or extraction reopens gathering.
	if s.Phase != session.PhaseGathering {
		s.Phase = session.PhaseGathering
	}

	s.AppendUser(text)

	messages := make([]llm.Message, 0, len(s.Turns))
	for _, t := range s.Turns {
		messages = append(messages, llm.Message{Role: t.Role, Content: t.Content})
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.llm.Complete(callCtx, systemPrompt(s.Flow), messages, replyMaxTokens)
	s.ApplyOutcome(session.Outcome{Reply: reply, Err: err})
	if err != nil {
		c.logger.Error("turn submission failed",
			"session_id", s.ID,
			"flow", string(s.Flow),
			"error", err,
		)
		return "", err
	}

	if ShouldExtract(reply, len(s.Turns)) {
		s.Phase = session.PhaseReadyToExtract
	}

	c.logger.Info("turn completed",
		"session_id", s.ID,
		"flow", string(s.Flow),
		"turns", len(s.Turns),
		"phase", string(s.Phase),
	)

	return reply, nil
}
