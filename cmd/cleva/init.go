package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/application/handlers"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new cleva project",
		Long:  "Creates a .cleva directory with default configuration and an empty career database.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	result, err := handlers.NewInitHandler(openStore).Handle(cmd.Context(), cwd)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s\n", result.ConfigPath)
	fmt.Printf("Created database %s\n", result.DatabasePath)
	fmt.Printf("Put one <entity_id>.jsonld document per member in %s, then run 'cleva names' and 'cleva build'.\n", result.Documents)
	return nil
}
