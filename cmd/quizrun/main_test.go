package main

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/quiz-runner/internal/config"
	"github.com/vovakirdan/quiz-runner/internal/quiz"
	"github.com/vovakirdan/quiz-runner/internal/runner"
)

func withQuizFlags(t *testing.T, path, code string) {
	t.Helper()
	oldPath, oldCode := flagQuizPath, flagGameCode
	flagQuizPath, flagGameCode = path, code
	t.Cleanup(func() { flagQuizPath, flagGameCode = oldPath, oldCode })
}

func TestQuizSource(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		code    string
		want    any
		wantErr error
	}{
		{"demo by default", "", "", quiz.FSSource{}, nil},
		{"file", "q.yaml", "", quiz.FileSource{}, nil},
		{"game code", "", "0f8fad5b-d9cb-469f-a165-70867728950e", quiz.HTTPSource{}, nil},
		{"bad game code", "", "short", nil, quiz.ErrInvalidGameCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withQuizFlags(t, tt.path, tt.code)
			src, err := quizSource()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("quizSource() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("quizSource() failed: %v", err)
			}
			switch tt.want.(type) {
			case quiz.FSSource:
				if _, ok := src.(quiz.FSSource); !ok {
					t.Errorf("got %T, want quiz.FSSource", src)
				}
			case quiz.FileSource:
				if _, ok := src.(quiz.FileSource); !ok {
					t.Errorf("got %T, want quiz.FileSource", src)
				}
			case quiz.HTTPSource:
				if _, ok := src.(quiz.HTTPSource); !ok {
					t.Errorf("got %T, want quiz.HTTPSource", src)
				}
			}
		})
	}

	withQuizFlags(t, "q.yaml", "0f8fad5b-d9cb-469f-a165-70867728950e")
	if _, err := quizSource(); err == nil {
		t.Error("expected an error when both --quiz and --code are set")
	}
}

func TestSimulateIsDeterministic(t *testing.T) {
	withQuizFlags(t, "", "")
	q, err := loadQuiz(context.Background())
	if err != nil {
		t.Fatalf("loadQuiz() failed: %v", err)
	}

	run := func() runner.Summary {
		s, err := newSession(config.DefaultQuizRunConfig(), q, 42, log.New(io.Discard))
		if err != nil {
			t.Fatalf("newSession() failed: %v", err)
		}
		return simulate(s, runner.NewAutoplayer(runner.ChooseCorrect), 1200, func(*runner.Session) {})
	}

	a, b := run(), run()
	if a != b {
		t.Errorf("same seed gave different runs: %+v vs %+v", a, b)
	}
	if a.Ticks == 0 || a.Ticks > 1200 {
		t.Errorf("unexpected tick count %d", a.Ticks)
	}
	if a.QuizID != "demo" {
		t.Errorf("QuizID = %q, want demo", a.QuizID)
	}
}
