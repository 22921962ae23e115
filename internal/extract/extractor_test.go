package extract

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/learnstreak/coach/internal/llm"
	"github.com/learnstreak/coach/internal/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func llmServer(t *testing.T, reply string, sawPrompt *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []llm.Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if sawPrompt != nil && len(req.Messages) > 0 {
			*sawPrompt = req.Messages[len(req.Messages)-1].Content
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": reply}},
			},
		})
	}))
}

func composerSession() *session.Session {
	s := session.New(session.FlowComposer)
	s.AppendUser("today I fine-tuned a small model")
	s.ApplyOutcome(session.Outcome{Reply: "How long did that take?"})
	s.AppendUser("about two hours, used unsloth")
	s.ApplyOutcome(session.Outcome{Reply: "I have enough information — ready to create your entry."})
	s.Phase = session.PhaseReadyToExtract
	return s
}

func TestExtractEntry_FencedReply(t *testing.T) {
	var prompt string
	server := llmServer(t, "Here you go:\n```json\n"+cleanEntry+"\n```", &prompt)
	defer server.Close()

	ext := New(llm.NewClient(server.URL, "t", "m"), 5*time.Second, discardLogger())
	s := composerSession()

	entry, err := ext.ExtractEntry(context.Background(), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Title != "Day 1: Hello" || entry.Minutes != 45 || entry.Mood != "😊" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if s.Phase != session.PhaseExtracted {
		t.Errorf("expected extracted phase, got %q", s.Phase)
	}
	// The composer extraction feeds the full transcript, both roles.
	if !strings.Contains(prompt, "user: today I fine-tuned a small model") ||
		!strings.Contains(prompt, "assistant: How long did that take?") {
		t.Errorf("prompt missing transcript: %q", prompt)
	}
}

func TestExtractEntry_MissingContentFails(t *testing.T) {
	server := llmServer(t, `{"title": "T", "summary": "S", "tags": ["a"]}`, nil)
	defer server.Close()

	ext := New(llm.NewClient(server.URL, "t", "m"), 5*time.Second, discardLogger())
	s := composerSession()

	_, err := ext.ExtractEntry(context.Background(), s)
	var exErr *ExtractionError
	if !errors.As(err, &exErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if s.Phase == session.PhaseExtracted {
		t.Error("phase must not advance on failed extraction")
	}
}

func TestExtractEntry_UnrecoverableReply(t *testing.T) {
	server := llmServer(t, "Sorry, I can't produce that right now.", nil)
	defer server.Close()

	ext := New(llm.NewClient(server.URL, "t", "m"), 5*time.Second, discardLogger())

	_, err := ext.ExtractEntry(context.Background(), composerSession())
	var exErr *ExtractionError
	if !errors.As(err, &exErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if exErr.Unwrap() == nil {
		t.Error("expected the last parse error to be attached")
	}
}

func TestExtractEntry_ProviderErrorPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	}))
	defer server.Close()

	ext := New(llm.NewClient(server.URL, "t", "m"), 5*time.Second, discardLogger())

	_, err := ext.ExtractEntry(context.Background(), composerSession())
	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
}

func TestExtractProfile_UsesUserTurnsOnly(t *testing.T) {
	var prompt string
	server := llmServer(t, `{"role": "nurse", "goals": ["learn AI"], "track": "generalist"}`, &prompt)
	defer server.Close()

	ext := New(llm.NewClient(server.URL, "t", "m"), 5*time.Second, discardLogger())
	s := session.New(session.FlowOnboarding)
	s.AppendUser("I'm a nurse")
	s.ApplyOutcome(session.Outcome{Reply: "What do you want to learn?"})
	s.AppendUser("practical AI for my ward")
	s.ApplyOutcome(session.Outcome{Reply: "Great, I have enough information."})

	profile, err := ext.ExtractProfile(context.Background(), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Role != "nurse" {
		t.Errorf("unexpected role: %q", profile.Role)
	}
	if !strings.Contains(prompt, "I'm a nurse") {
		t.Errorf("prompt missing user text: %q", prompt)
	}
	if strings.Contains(prompt, "What do you want to learn?") {
		t.Error("onboarding extraction must not include assistant turns")
	}
	if s.Phase != session.PhaseExtracted {
		t.Errorf("expected extracted phase, got %q", s.Phase)
	}
}

func TestExtract_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	ext := New(llm.NewClient(server.URL, "t", "m"), 50*time.Millisecond, discardLogger())

	_, err := ext.ExtractEntry(context.Background(), composerSession())
	var toErr *llm.TimeoutError
	if !errors.As(err, &toErr) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
}
