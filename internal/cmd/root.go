// Package cmd defines the bootwatch command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for bootwatch
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootwatch",
		Short: "Streaming error reconstruction for Spring Boot logs",
		Long: `Bootwatch tails the log stream of a running server process,
reconstructs multi-line error blocks from the raw text, classifies each
error against a library of known failure signatures, and can send an
enriched diagnostic payload (error plus relevant source snippets) to a
remote reasoning service for deeper analysis.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewWatchCommand())
	cmd.AddCommand(NewRulesCommand())

	return cmd
}
