package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"plagcheck/internal/services/cui"
)

var reviewCmd = &cobra.Command{
	Use:      "review <batch-id>",
	Short:    "Open a stored batch in the interactive review screen",
	Args:     cobra.ExactArgs(1),
	PreRunE:  setupApp,
	RunE:     runReview,
	PostRunE: teardownApp,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

var errNotTerminal = errors.New("review needs an interactive terminal")

func runReview(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	screen, err := cui.New(cmd.Context(), setupLogger(cfg.Env, cmd.ErrOrStderr()), application.StorageApp.Batches(), cfg.Batch.Threshold)
	if err != nil {
		return err
	}
	return screen.Start(args[0])
}
