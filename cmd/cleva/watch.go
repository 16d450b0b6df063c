package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/application/handlers"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/watch"
)

type watchFlags struct {
	output   string
	debounce time.Duration
}

func newWatchCmd() *cobra.Command {
	var flags watchFlags

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild whenever corpus documents change",
		Long:  "Runs a build, then watches the document directory and rebuilds after changes settle. Stop with Ctrl+C.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write a JSON bundle after each build (default: paths.output)")
	cmd.Flags().DurationVar(&flags.debounce, "debounce", watch.DefaultDebounce, "Quiet period before rebuilding")

	return cmd
}

func runWatch(cmd *cobra.Command, flags watchFlags) error {
	return withInternalDeps(cmd.Context(), func(d *internalDeps) error {
		output := flags.output
		if output == "" {
			output = d.Config.Paths.Output
		}

		rebuild := func(ctx context.Context, paths []string) error {
			if len(paths) > 0 {
				fmt.Printf("\n%d documents changed, rebuilding...\n", len(paths))
			}
			result, err := d.BuildHandler.Handle(ctx, handlers.BuildOptions{Output: output})
			if err != nil {
				return err
			}
			printBuildResult(result, false)
			return nil
		}

		if err := rebuild(cmd.Context(), nil); err != nil {
			return err
		}

		w, err := watch.New(d.source.Dir(), watch.Options{
			Debounce: flags.debounce,
			Match:    d.source.Matches,
		}, d.Logger)
		if err != nil {
			return err
		}
		defer w.Close()

		fmt.Printf("\nWatching %s (Ctrl+C to stop)\n", w.Dir())
		return w.Run(cmd.Context(), rebuild)
	})
}
