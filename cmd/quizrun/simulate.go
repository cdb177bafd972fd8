package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/quiz-runner/internal/core"
	"github.com/vovakirdan/quiz-runner/internal/runner"
	"github.com/vovakirdan/quiz-runner/internal/storage"
)

var (
	flagChoose   string
	flagMaxTicks int
	flagSave     bool
	flagFrames   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a quiz headless with an autoplayer",
	Long: `Run a quiz without a terminal UI. An autoplayer walks to its chosen
marker, hopping over hazards, and strikes it. With the same --seed and quiz
every run is identical, which makes this useful for checking levels.

Choosers:
  correct - always aim for the right answer
  first   - always aim for answer a) first
  random  - pick answers with the run seed

Examples:
  quizrun simulate
  quizrun simulate --seed 42 --choose random
  quizrun simulate --quiz ./capitals.yaml --frames`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	addQuizFlags(simulateCmd)
	simulateCmd.Flags().StringVar(&flagChoose, "choose", "correct", "Answer chooser: correct, first, random")
	simulateCmd.Flags().IntVar(&flagMaxTicks, "max-ticks", 60*60*10, "Stop after this many ticks")
	simulateCmd.Flags().BoolVar(&flagSave, "save", false, "Record the run in the results database")
	simulateCmd.Flags().BoolVar(&flagFrames, "frames", false, "Print a frame after every answer")
}

func runSimulate(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitf("Error loading config: %v", err)
	}
	logger, err := newLogger("quizrun-sim")
	if err != nil {
		exitf("Error: %v", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	q, err := loadQuiz(ctx)
	cancel()
	if err != nil {
		exitf("Error loading quiz: %v", err)
	}

	runSeed := seed()
	session, err := newSession(cfg, q, runSeed, logger)
	if err != nil {
		exitf("Error starting quiz: %v", err)
	}

	var chooser runner.Chooser
	switch flagChoose {
	case "correct":
		chooser = runner.ChooseCorrect
	case "first":
		chooser = runner.ChooseFirst
	case "random":
		chooser = runner.ChooseRandom(rand.New(rand.NewSource(runSeed)))
	default:
		exitf("Error: unknown chooser %q (want correct, first or random)", flagChoose)
	}

	sum := simulate(session, runner.NewAutoplayer(chooser), flagMaxTicks, func(s *runner.Session) {
		if flagFrames {
			scr := core.NewScreen(80, 24)
			s.Render(scr)
			fmt.Println(scr.String())
			fmt.Println()
		}
	})

	status := "out of lives"
	switch {
	case session.Err() != nil:
		status = "level error: " + session.Err().Error()
	case sum.Completed:
		status = "complete"
	case sum.TimedOut:
		status = "time up"
	case !session.Phase().Terminal():
		status = "stopped"
	}
	fmt.Printf("Quiz:     %s\n", quizName(q))
	fmt.Printf("Seed:     %d\n", runSeed)
	fmt.Printf("Result:   %s\n", status)
	fmt.Printf("Points:   %d\n", sum.Points)
	fmt.Printf("Lives:    %d\n", sum.Lives)
	fmt.Printf("Answered: %d/%d\n", sum.Answered, sum.Total)
	fmt.Printf("Time:     %.1fs (%d ticks)\n", float64(sum.Ticks)/float64(cfg.Screen.TickRate), sum.Ticks)

	if flagSave && session.Phase().Terminal() {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			exitf("Error opening results database: %v", err)
		}
		defer store.Close()
		if _, err := store.SaveResult(storage.Result{
			QuizID:    sum.QuizID,
			Player:    "autoplay-" + flagChoose,
			Points:    sum.Points,
			Lives:     sum.Lives,
			Answered:  sum.Answered,
			Total:     sum.Total,
			Completed: sum.Completed,
			Ticks:     sum.Ticks,
		}); err != nil {
			exitf("Error saving result: %v", err)
		}
	}
}

// simulate steps the session until it ends or maxTicks pass. onAnswer runs
// after every question index change.
func simulate(s *runner.Session, ap *runner.Autoplayer, maxTicks int, onAnswer func(*runner.Session)) runner.Summary {
	last := s.QuestionIndex()
	for i := 0; i < maxTicks; i++ {
		res := s.Step(ap.Input(s))
		if idx := s.QuestionIndex(); idx != last {
			last = idx
			onAnswer(s)
		}
		if res.State.GameOver {
			break
		}
	}
	return s.Summary()
}
