// Package main provides the entry point for the cleva CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version       = "0.1.0-dev"
	globalDataset string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := newRootCmd()
	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cleva",
		Short:         "Career timelines and teammate pairs from knowledge-graph documents",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalDataset, "dataset", "d", "", "Dataset to operate on (default: paths from config.yaml)")

	rootCmd.AddCommand(
		newInitCmd(),
		newBuildCmd(),
		newNamesCmd(),
		newCareerCmd(),
		newMembersCmd(),
		newTeammatesCmd(),
		newExportCmd(),
		newWatchCmd(),
		newDatasetsCmd(),
	)

	return rootCmd
}
