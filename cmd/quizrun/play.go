package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/quiz-runner/internal/platform/tui"
	"github.com/vovakirdan/quiz-runner/internal/quiz"
	"github.com/vovakirdan/quiz-runner/internal/runner"
	"github.com/vovakirdan/quiz-runner/internal/storage"
)

var (
	flagLogFile  string
	flagAutoplay bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a quiz",
	Long: `Start a quiz run in the terminal.

The quiz comes from --code (fetched from the quiz API), --quiz (a YAML or
JSON file) or, without either, the bundled demo quiz.

Controls:
  Left/Right, A/D  - Run
  Space/Up, W      - Jump
  P/Esc            - Pause
  R                - Play again (after the summary)
  Ctrl+S           - Save a screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - More lives, fewer hazards, longer grace after a hit
  normal - Hazards ramp up from 30% difficulty
  hard   - Fewer lives, more hazards
  fixed  - No progression, stays at config's initial level

Examples:
  quizrun play
  quizrun play --quiz ./capitals.yaml
  quizrun play --code 0f8fad5b-d9cb-469f-a165-70867728950e --api http://localhost:8080
  quizrun play --difficulty hard --seed 7
  quizrun play --autoplay`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	addQuizFlags(playCmd)
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the screen is busy while playing)")
	playCmd.Flags().BoolVar(&flagAutoplay, "autoplay", false, "Watch the autoplayer instead of playing")
}

func addQuizFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagQuizPath, "quiz", "", "Path to a quiz YAML or JSON file")
	cmd.Flags().StringVar(&flagGameCode, "code", "", "Game code to fetch from the quiz API")
	cmd.Flags().StringVar(&flagAPIURL, "api", "http://localhost:8080", "Quiz API base URL")
}

func runPlay(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitf("Error loading config: %v", err)
	}

	logger := log.New(io.Discard)
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			exitf("Error opening log file: %v", err)
		}
		defer f.Close()
		if logger, err = newLogger("quizrun"); err != nil {
			exitf("Error: %v", err)
		}
		logger.SetOutput(f)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	q, err := loadQuiz(ctx)
	cancel()
	if err != nil {
		exitf("Error loading quiz: %v", err)
	}

	session, err := newSession(cfg, q, seed(), logger)
	if err != nil {
		exitf("Error starting quiz: %v", err)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	opts := tui.Options{Logger: logger, Width: width, Height: height, Player: os.Getenv("USER")}
	if flagAutoplay {
		opts.Autoplay = runner.NewAutoplayer(runner.ChooseCorrect)
	}

	// Results are best-effort
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open results database", "err", err)
	} else {
		defer store.Close()
		opts.Store = store
	}

	if err := tui.Run(session, cfg.Screen.TickRate, opts); err != nil {
		exitf("Error: %v", err)
	}

	sum := session.Summary()
	if sum.Answered > 0 || sum.Completed {
		fmt.Printf("%s: %d points, %d/%d answered\n", quizName(q), sum.Points, sum.Answered, sum.Total)
	}
}

func quizName(q *quiz.Quiz) string {
	if q.Title != "" {
		return q.Title
	}
	return q.ID
}

// exitf prints an error line and exits with status 1.
func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
