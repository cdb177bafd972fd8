package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/quiz-runner/internal/platform/tui"
	"github.com/vovakirdan/quiz-runner/internal/storage"
)

var flagBoard bool

var resultsCmd = &cobra.Command{
	Use:   "results [quiz]",
	Short: "Show recorded runs",
	Long: `Display the top 10 runs for a quiz, or a summary of every quiz
played when no quiz id is given. --board opens the interactive board.

Examples:
  quizrun results
  quizrun results demo
  quizrun results --board`,
	Args: cobra.MaximumNArgs(1),
	Run:  runResults,
}

func init() {
	resultsCmd.Flags().BoolVar(&flagBoard, "board", false, "Open the interactive results board")
}

func runResults(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		exitf("Error opening results database: %v", err)
	}
	defer store.Close()

	quizID := ""
	if len(args) == 1 {
		quizID = args[0]
	}

	if flagBoard {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunResults(store, quizID, width, height); err != nil {
			exitf("Error: %v", err)
		}
		return
	}

	if quizID == "" {
		printQuizStats(store)
		return
	}

	results, err := store.TopResults(quizID, 10)
	if err != nil {
		exitf("Error retrieving results: %v", err)
	}

	fmt.Printf("Results - %s\n", quizID)
	fmt.Println()
	if len(results) == 0 {
		fmt.Println("  No runs recorded yet.")
		return
	}

	fmt.Printf("  %-5s  %6s  %8s  %-8s  %-12s  %s\n", "Rank", "Points", "Answered", "Result", "Player", "Date")
	fmt.Printf("  %-5s  %6s  %8s  %-8s  %-12s  %s\n", "----", "------", "--------", "------", "------", "----")
	for i, r := range results {
		status := "out"
		if r.Completed {
			status = "complete"
		}
		fmt.Printf("  #%-4d  %6d  %8s  %-8s  %-12s  %s\n",
			i+1, r.Points, fmt.Sprintf("%d/%d", r.Answered, r.Total), status, r.Player,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func printQuizStats(store *storage.Store) {
	stats, err := store.GetAllQuizStats()
	if err != nil {
		exitf("Error retrieving results: %v", err)
	}
	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	fmt.Printf("  %-38s  %5s  %9s  %5s  %6s\n", "Quiz", "Runs", "Completed", "Best", "Avg")
	for id, st := range stats {
		fmt.Printf("  %-38s  %5d  %9d  %5d  %6.1f\n", id, st.Runs, st.Completed, st.BestPoints, st.AvgPoints)
	}
}
