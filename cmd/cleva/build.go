package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/application/handlers"
)

// maxPrintedErrors bounds the document errors listed after a build.
const maxPrintedErrors = 10

type buildFlags struct {
	output string
	dryRun bool
}

func newBuildCmd() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build career timelines and teammate pairs",
		Long: `Reads every document in the corpus directory, assembles career timelines,
indexes group members and infers candidate teammate pairs from overlapping
stints. Results are stored in the project database and optionally written
as a JSON bundle.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write a JSON bundle to this file (default: paths.output)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Build without saving to the database")

	return cmd
}

func runBuild(cmd *cobra.Command, flags buildFlags) error {
	return withDeps(cmd.Context(), func(deps *Deps) error {
		output := flags.output
		if output == "" {
			output = deps.Config.Paths.Output
		}

		result, err := deps.BuildHandler.Handle(cmd.Context(), handlers.BuildOptions{
			DryRun: flags.dryRun,
			Output: output,
		})
		if err != nil {
			return err
		}

		printBuildResult(result, flags.dryRun)
		return nil
	})
}

func printBuildResult(result *handlers.BuildResult, dryRun bool) {
	s := result.Run.Summary
	fmt.Printf("Processed %d of %d documents (%d without affiliations, %d errored)\n",
		s.Processed, s.Total, s.Skipped, s.Errored)

	localized := 0
	for _, p := range result.Pairs {
		if p.FullyLocalized() {
			localized++
		}
	}
	fmt.Printf("Careers: %d  Groups: %d  Candidate pairs: %d (%d fully localized)\n",
		len(result.Careers), len(result.GroupIndex), len(result.Pairs), localized)

	if result.CachedNames == 0 {
		fmt.Println("Name cache not loaded; names resolved from documents (run 'cleva names' to build it).")
	}
	if len(result.Warnings) > 0 {
		fmt.Printf("Warnings: %d (see log)\n", len(result.Warnings))
	}

	if len(result.Errors) > 0 {
		fmt.Printf("\nErrors (%d):\n", len(result.Errors))
		for i, e := range result.Errors {
			if i == maxPrintedErrors {
				fmt.Printf("  ... and %d more\n", len(result.Errors)-maxPrintedErrors)
				break
			}
			fmt.Printf("  %s\n", e.Error())
		}
	}

	if result.Output != "" {
		fmt.Printf("\nWrote %s\n", result.Output)
	}
	if dryRun {
		fmt.Println("Dry run: nothing saved.")
	} else {
		fmt.Printf("Saved run %s\n", result.Run.ID)
	}
}
