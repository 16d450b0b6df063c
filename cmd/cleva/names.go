package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/application/handlers"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/services"
)

func newNamesCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "names",
		Short: "Build the member and group name cache",
		Long: `Resolves the display name of every member and every group in the corpus
once and writes member_names.json and group_names.json to the cache directory.
Builds read the cache instead of resolving names per document.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(deps *Deps) error {
				result, err := deps.NamesHandler.Handle(cmd.Context(), handlers.NamesOptions{DryRun: dryRun})
				if err != nil {
					return err
				}
				printCoverage("Members", result.Members)
				printCoverage("Groups", result.Groups)
				if len(result.Errors) > 0 {
					fmt.Printf("Skipped %d unreadable documents\n", len(result.Errors))
				}
				if result.Written {
					fmt.Printf("Wrote name cache to %s\n", result.CacheDir)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve names without writing the cache")

	return cmd
}

func printCoverage(label string, c services.CoverageStats) {
	pct := 0.0
	if c.Total > 0 {
		pct = 100 * float64(c.Localized()) / float64(c.Total)
	}
	fmt.Printf("%-8s %5d total, %5d localized (%.1f%%): %d primary, %d secondary, %d none\n",
		label+":", c.Total, c.Localized(), pct, c.Primary, c.Secondary, c.None)
}
