// quizrun is a terminal platformer where players answer quiz questions by
// jumping into answer markers.
//
// Usage:
//
//	quizrun play             - Play a quiz in the terminal
//	quizrun simulate         - Run a quiz headless with an autoplayer
//	quizrun levels           - List level strategies and shipped maps
//	quizrun results [quiz]   - Show recorded runs
//	quizrun serve            - Start SSH server for remote play
//	quizrun feed             - Serve quiz files over HTTP by game code
//	quizrun config           - Print the effective configuration
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: from config)
//	--seed <value>        - Set RNG seed for reproducible levels
//	--db <path>           - Set database path (default: ~/.quizrun/results.db)
//	--config <path>       - Use a custom config YAML
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Register the level strategies
	_ "github.com/vovakirdan/quiz-runner/internal/level/strategy"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "quizrun",
	Short: "Quiz Runner - answer questions by running and jumping",
	Long: `Quiz Runner is a side-scrolling platformer in your terminal. Every
question opens a new stretch of level with one marker per answer: jump into
the right one to run on to the next question.

Available commands:
  play      - Play a quiz
  simulate  - Run a quiz headless with an autoplayer
  levels    - List level strategies and shipped maps
  results   - View recorded runs
  serve     - Start SSH server for remote play
  feed      - Serve quiz files over HTTP by game code
  config    - Print the effective configuration

Examples:
  quizrun play
  quizrun play --quiz ./capitals.yaml --difficulty easy
  quizrun play --code 0f8fad5b-d9cb-469f-a165-70867728950e --api http://localhost:8080
  quizrun simulate --seed 42 --choose random
  quizrun serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.quizrun/results.db", "Path to results database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds the process logger from --log-level.
func newLogger(prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}
