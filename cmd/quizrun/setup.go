package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/quiz-runner/internal/config"
	"github.com/vovakirdan/quiz-runner/internal/quiz"
	"github.com/vovakirdan/quiz-runner/internal/registry"
	"github.com/vovakirdan/quiz-runner/internal/runner"
	"github.com/vovakirdan/quiz-runner/quizzes"
)

// Quiz source flags shared by play, simulate and serve.
var (
	flagQuizPath string
	flagGameCode string
	flagAPIURL   string
)

// loadConfig loads the run configuration and applies the global flags.
func loadConfig() (config.QuizRunConfig, error) {
	cfg, err := config.LoadQuizRun(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return cfg, err
		}
		config.ApplyPreset(&cfg, preset)
	}
	if flagFPS > 0 {
		cfg.Screen.TickRate = flagFPS
	}
	return cfg, cfg.Validate()
}

// seed returns --seed, or a time based seed when it is unset.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// quizSource picks the source from the flags: a game code fetched from the
// API, a local file, or the bundled demo.
func quizSource() (quiz.Source, error) {
	switch {
	case flagGameCode != "" && flagQuizPath != "":
		return nil, fmt.Errorf("--quiz and --code are mutually exclusive")
	case flagGameCode != "":
		if !quiz.ValidGameCode(flagGameCode) {
			return nil, quiz.ErrInvalidGameCode
		}
		return quiz.HTTPSource{BaseURL: flagAPIURL, GameCode: flagGameCode}, nil
	case flagQuizPath != "":
		return quiz.FileSource{Path: flagQuizPath}, nil
	default:
		return quiz.FSSource{FS: quizzes.FS, Name: quizzes.Demo}, nil
	}
}

func loadQuiz(ctx context.Context) (*quiz.Quiz, error) {
	src, err := quizSource()
	if err != nil {
		return nil, err
	}
	q, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	if q.Len() == 0 {
		return nil, quiz.ErrEmptyQuiz
	}
	return q, nil
}

// newSession assembles a session for q with the configured strategy.
func newSession(cfg config.QuizRunConfig, q *quiz.Quiz, seed int64, logger *log.Logger) (*runner.Session, error) {
	asm, err := registry.Create(cfg.Level.Strategy, registry.Env{Config: cfg, Seed: seed})
	if err != nil {
		return nil, err
	}
	return runner.New(runner.FromConfig(cfg, seed), q, asm, runner.WithLogger(logger))
}
