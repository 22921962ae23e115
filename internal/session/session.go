package session

import (
	"time"

	"github.com/google/uuid"
)

// Flow identifies which conversational flow a session belongs to.
type Flow string

const (
	FlowOnboarding Flow = "onboarding"
	FlowComposer   Flow = "composer"
)

// Phase tracks where a session is in its lifecycle.
type Phase string

const (
	PhaseGathering      Phase = "gathering"
	PhaseReadyToExtract Phase = "ready_to_extract"
	PhaseExtracted      Phase = "extracted"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in the transcript.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session holds one conversation's transcript and phase. It is owned by a
// single flow and never mutated concurrently; the HTTP layer serializes
// access through the registry.
type Session struct {
	ID    uuid.UUID
	Flow  Flow
	Phase Phase
	Turns []Turn
}

func New(flow Flow) *Session {
	return &Session{
		ID:    uuid.New(),
		Flow:  flow,
		Phase: PhaseGathering,
	}
}

// AppendUser optimistically appends a user turn so the caller can render it
// before the network call resolves.
func (s *Session) AppendUser(content string) {
	s.Turns = append(s.Turns, Turn{Role: RoleUser, Content: content, Timestamp: time.Now().UTC()})
}

// Outcome is the result of one turn submission: a reply or a failure.
type Outcome struct {
	Reply string
	Err   error
}

// ApplyOutcome finalizes the pending exchange. On success the assistant reply
// is appended; on failure the optimistic user turn is rolled back so the
// transcript never diverges from what the model actually saw.
func (s *Session) ApplyOutcome(out Outcome) {
	if out.Err != nil {
		if n := len(s.Turns); n > 0 && s.Turns[n-1].Role == RoleUser {
			s.Turns = s.Turns[:n-1]
		}
		return
	}
	s.Turns = append(s.Turns, Turn{Role: RoleAssistant, Content: out.Reply, Timestamp: time.Now().UTC()})
}

// LatestAssistant returns the most recent assistant turn's text, or "".
func (s *Session) LatestAssistant() string {
	for i := len(s.Turns) - 1; i >= 0; i-- {
		if s.Turns[i].Role == RoleAssistant {
			return s.Turns[i].Content
		}
	}
	return ""
}

// UserText concatenates all user turns in order, one per line.
func (s *Session) UserText() string {
	var out string
	for _, t := range s.Turns {
		if t.Role == RoleUser {
			if out != "" {
				out += "\n"
			}
			out += t.Content
		}
	}
	return out
}

// Transcript renders the full conversation as "role: content" lines.
func (s *Session) Transcript() string {
	var out string
	for _, t := range s.Turns {
		if out != "" {
			out += "\n"
		}
		out += t.Role + ": " + t.Content
	}
	return out
}
