// Package main implements the palace-api command: the HTTP server for
// memory palaces and their spaced repetition flashcards, plus database
// migrations and starter-palace seeding.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. The --config flag is shared by every
// subcommand and points at an optional YAML config file.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "palace-api",
		Short:        "Memory palace flashcard API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")

	root.AddCommand(serveCmd(&configPath))
	root.AddCommand(migrateCmd(&configPath))
	root.AddCommand(seedCmd(&configPath))
	return root
}
