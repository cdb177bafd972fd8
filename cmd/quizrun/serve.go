package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/quiz-runner/internal/platform/tui"
	"github.com/vovakirdan/quiz-runner/internal/runner"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the quiz SSH server",
	Long: `Start an SSH server that lets users connect and play the quiz.

The quiz is loaded once at startup (see play for the source flags). Each SSH
connection gets its own run with a fresh level; all users share the same
results table.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.quizrun/host_key

Examples:
  quizrun serve                           # Listen on :23234 with the demo quiz
  quizrun serve --ssh :2222 --quiz ./capitals.yaml
  quizrun serve --host-key ./my_host_key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	addQuizFlags(serveCmd)
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitf("Error loading config: %v", err)
	}
	logger, err := newLogger("quizrun-ssh")
	if err != nil {
		exitf("Error: %v", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	q, err := loadQuiz(ctx)
	cancel()
	if err != nil {
		exitf("Error loading quiz: %v", err)
	}

	factory := func(seed int64) (*runner.Session, error) {
		return newSession(cfg, q, seed, logger)
	}
	// Fail at startup rather than on the first connection.
	if _, err := factory(1); err != nil {
		exitf("Error starting quiz: %v", err)
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    cfg.Screen.TickRate,
	}, factory, logger)
	if err != nil {
		exitf("Error creating server: %v", err)
	}

	fmt.Printf("Serving %q over SSH on %s\n", quizName(q), flagSSHAddr)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		exitf("Server error: %v", err)
	}
}
