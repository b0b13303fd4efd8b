package widget

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/quizler/quizler/internal/quiz"
	"github.com/quizler/quizler/internal/quizgen"
)

func readySession(t *testing.T) *quiz.Session {
	t.Helper()
	payload := &quizgen.Payload{
		Questions: []quizgen.Item{
			{
				Question:     "What is the page about?",
				Options:      []string{"Ships", "Trains", "Planes", "Bikes"},
				CorrectIndex: 1,
			},
		},
	}
	s := quiz.NewSession(func(ctx context.Context) (*quizgen.Payload, error) {
		return payload, nil
	}, nil)

	s.Open(context.Background())
	deadline := time.Now().Add(2 * time.Second)
	for s.Status() != quiz.StatusReady {
		if time.Now().After(deadline) {
			t.Fatal("session never became ready")
		}
		time.Sleep(time.Millisecond)
	}
	return s
}

func TestRenderQuestion_ShowsPromptAndOptions(t *testing.T) {
	s := readySession(t)
	m := New(context.Background(), s, "Example Page")

	out := m.renderQuestion()
	if !strings.Contains(out, "What is the page about?") {
		t.Fatalf("question prompt missing:\n%s", out)
	}
	for _, label := range []string{"A)", "B)", "C)", "D)"} {
		if !strings.Contains(out, label) {
			t.Fatalf("option label %s missing:\n%s", label, out)
		}
	}
	if !strings.Contains(out, "Question 1 of 1") {
		t.Fatalf("progress line missing:\n%s", out)
	}
}

func TestRenderQuestion_RevealState(t *testing.T) {
	payload := &quizgen.Payload{
		Questions: []quizgen.Item{
			{Question: "First?", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 1},
			{Question: "Second?", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 0},
		},
	}
	s := quiz.NewSession(func(ctx context.Context) (*quizgen.Payload, error) {
		return payload, nil
	}, nil)
	s.Open(context.Background())
	deadline := time.Now().Add(2 * time.Second)
	for s.Status() != quiz.StatusReady {
		if time.Now().After(deadline) {
			t.Fatal("session never became ready")
		}
		time.Sleep(time.Millisecond)
	}
	m := New(context.Background(), s, "")

	s.Select(0) // wrong answer
	s.Submit()

	out := m.renderQuestion()
	if !strings.Contains(out, "Not quite.") {
		t.Fatalf("reveal feedback missing:\n%s", out)
	}
	if !strings.Contains(out, "enter for next question") {
		t.Fatalf("next hint missing:\n%s", out)
	}
}

func TestRenderSummary_ShowsScoreAndPercent(t *testing.T) {
	s := readySession(t)
	m := New(context.Background(), s, "")

	s.Select(1) // correct
	s.Submit()

	if s.Status() != quiz.StatusComplete {
		t.Fatalf("status = %q, want complete", s.Status())
	}
	out := m.renderSummary()
	if !strings.Contains(out, "1") || !strings.Contains(out, "100%") {
		t.Fatalf("summary missing score or percent:\n%s", out)
	}
}

func TestRenderError_ShowsMessageAndRetryHint(t *testing.T) {
	s := quiz.NewSession(func(ctx context.Context) (*quizgen.Payload, error) {
		return nil, errors.New("backend unreachable")
	}, nil)
	m := New(context.Background(), s, "")

	s.Open(context.Background())
	deadline := time.Now().Add(2 * time.Second)
	for s.Status() != quiz.StatusError {
		if time.Now().After(deadline) {
			t.Fatal("session never errored")
		}
		time.Sleep(time.Millisecond)
	}

	out := m.renderError()
	if !strings.Contains(out, "backend unreachable") {
		t.Fatalf("error message missing:\n%s", out)
	}
	if !strings.Contains(out, "r to retry") {
		t.Fatalf("retry hint missing:\n%s", out)
	}
}

func TestRenderHeader_IncludesPageTitle(t *testing.T) {
	s := readySession(t)
	m := New(context.Background(), s, "The Article")

	if !strings.Contains(m.renderHeader(), "The Article") {
		t.Fatal("page title missing from header")
	}
}
