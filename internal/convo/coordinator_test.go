package convo

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/learnstreak/coach/internal/llm"
	"github.com/learnstreak/coach/internal/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func replyServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": reply}},
			},
		})
	}))
}

func TestSubmit_Success(t *testing.T) {
	server := replyServer(t, "What did you learn today?")
	defer server.Close()

	c := New(llm.NewClient(server.URL, "t", "m"), 5*time.Second, discardLogger())
	s := session.New(session.FlowComposer)

	reply, err := c.Submit(context.Background(), s, "built a RAG pipeline")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "What did you learn today?" {
		t.Errorf("unexpected reply: %q", reply)
	}
	if len(s.Turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(s.Turns))
	}
	if s.Phase != session.PhaseGathering {
		t.Errorf("expected gathering phase, got %q", s.Phase)
	}
}

func TestSubmit_EmptyUtterance(t *testing.T) {
	// No server: an empty utterance must not touch the network.
	c := New(llm.NewClient("http://127.0.0.1:1", "t", "m"), time.Second, discardLogger())
	s := session.New(session.FlowComposer)

	_, err := c.Submit(context.Background(), s, "   \n\t ")
	if !errors.Is(err, ErrEmptyUtterance) {
		t.Fatalf("expected ErrEmptyUtterance, got %v", err)
	}
	if len(s.Turns) != 0 {
		t.Errorf("expected no turns, got %d", len(s.Turns))
	}
}

func TestSubmit_ProviderFailureRollsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	c := New(llm.NewClient(server.URL, "t", "m"), 5*time.Second, discardLogger())
	s := session.New(session.FlowComposer)
	s.AppendUser("earlier")
	s.ApplyOutcome(session.Outcome{Reply: "earlier reply"})
	before := len(s.Turns)

	_, err := c.Submit(context.Background(), s, "new message")
	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if len(s.Turns) != before {
		t.Errorf("expected rollback to %d turns, got %d", before, len(s.Turns))
	}
}

func TestSubmit_TimeoutRollsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	c := New(llm.NewClient(server.URL, "t", "m"), 50*time.Millisecond, discardLogger())
	s := session.New(session.FlowComposer)

	_, err := c.Submit(context.Background(), s, "hello")
	var toErr *llm.TimeoutError
	if !errors.As(err, &toErr) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if len(s.Turns) != 0 {
		t.Errorf("expected rollback to empty transcript, got %d turns", len(s.Turns))
	}
}

func TestSubmit_TriggerPhraseAdvancesPhase(t *testing.T) {
	server := replyServer(t, "Perfect — I have enough information to build your plan.")
	defer server.Close()

	c := New(llm.NewClient(server.URL, "t", "m"), 5*time.Second, discardLogger())
	s := session.New(session.FlowOnboarding)

	if _, err := c.Submit(context.Background(), s, "I'm a data analyst"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Phase != session.PhaseReadyToExtract {
		t.Errorf("expected ready_to_extract, got %q", s.Phase)
	}
}

func TestSubmit_ContinuingReopensGathering(t *testing.T) {
	server := replyServer(t, "Got it, noted.")
	defer server.Close()

	c := New(llm.NewClient(server.URL, "t", "m"), 5*time.Second, discardLogger())
	s := session.New(session.FlowOnboarding)
	s.Phase = session.PhaseExtracted

	if _, err := c.Submit(context.Background(), s, "actually, change my goals"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Phase != session.PhaseGathering {
		t.Errorf("expected gathering after continuing, got %q", s.Phase)
	}
}
