package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/quiz-runner/internal/quizapi"
	"github.com/vovakirdan/quiz-runner/internal/storage"
	"github.com/vovakirdan/quiz-runner/quizzes"
)

var (
	flagFeedAddr string
	flagFeedDir  string
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Serve quiz files over HTTP by game code",
	Long: `Start a small quiz backend for development. Files named
<game code>.json or <game code>.yaml in --dir are served at
GET /api/quizzes/game/{code}, the endpoint play --code fetches from.
Recorded runs are listed at /api/quizzes/game/{code}/results.

Without --dir the bundled sample quizzes are served.

Examples:
  quizrun feed
  quizrun feed --addr :9000 --dir ./quizzes
  quizrun play --code 0f8fad5b-d9cb-469f-a165-70867728950e --api http://localhost:8080`,
	Args: cobra.NoArgs,
	Run:  runFeed,
}

func init() {
	feedCmd.Flags().StringVar(&flagFeedAddr, "addr", ":8080", "HTTP listen address")
	feedCmd.Flags().StringVar(&flagFeedDir, "dir", "", "Directory of quiz files (default: bundled samples)")
}

func runFeed(_ *cobra.Command, _ []string) {
	logger, err := newLogger("quizrun-feed")
	if err != nil {
		exitf("Error: %v", err)
	}

	var files fs.FS = quizzes.FS
	if flagFeedDir != "" {
		if st, err := os.Stat(flagFeedDir); err != nil || !st.IsDir() {
			exitf("Error: %s is not a directory", flagFeedDir)
		}
		files = os.DirFS(flagFeedDir)
	}

	var results quizapi.ResultsReader
	if store, err := storage.Open(flagDBPath); err != nil {
		logger.Warn("serving without results", "err", err)
	} else {
		defer store.Close()
		results = store
	}

	server := quizapi.NewServer(flagFeedAddr, quizapi.NewHandler(files, results, logger))
	fmt.Printf("Serving quizzes on http://localhost%s/api/quizzes/game/{code}\n", flagFeedAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		exitf("Server error: %v", err)
	}
}
