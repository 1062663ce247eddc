// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loreweave Contributors

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root loreweave command with all subcommands
// registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "loreweave",
		Short:         "Loreweave — conversational document question-answering",
		Long:          "Loreweave ingests documents into a knowledge graph and answers questions about them, streaming replies as they are generated.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	root.AddCommand(
		newStartCmd(),
		newIngestCmd(),
		newOntologyCmd(),
		newVersionCmd(),
	)

	return root
}

// newLogger builds the process logger. Verbose switches to debug
// level, output always goes to stderr so stdout stays machine
// readable for the one-shot commands.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
