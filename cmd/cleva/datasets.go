package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/application/handlers"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/config"
)

func newDatasetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "Manage datasets",
		Long:  "A dataset is a named corpus with its own documents, name sources and database.",
		RunE:  runDatasetsList,
	}

	cmd.AddCommand(
		newDatasetsListCmd(),
		newDatasetsAddCmd(),
		newDatasetsRemoveCmd(),
	)

	return cmd
}

func newDatasetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all datasets",
		RunE:  runDatasetsList,
	}
}

func runDatasetsList(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	datasets, err := config.LoadDatasets(cwd)
	if err != nil {
		return fmt.Errorf("loading datasets: %w", err)
	}

	if len(datasets.Datasets) == 0 {
		fmt.Println("No datasets configured.")
		fmt.Println("Use 'cleva datasets add NAME --documents DIR' to add one.")
		return nil
	}

	fmt.Printf("%-20s %-35s %s\n", "NAME", "DOCUMENTS", "DESCRIPTION")
	fmt.Printf("%-20s %-35s %s\n", "----", "---------", "-----------")

	for _, name := range datasets.Names() {
		ds := datasets.Datasets[name]
		fmt.Printf("%-20s %-35s %s\n", name, ds.Documents, ds.Description)
	}

	return nil
}

func newDatasetsAddCmd() *cobra.Command {
	var entry config.DatasetEntry

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
			if err := addDataset(cwd, args[0], entry); err != nil {
				return err
			}

			dbPath := config.SQLitePathForDataset(cwd, args[0])
			if err := handlers.EnsureStore(cmd.Context(), openStore, config.SQLiteConfig{Path: dbPath}); err != nil {
				return err
			}

			fmt.Printf("Added dataset %q (database %s)\n", args[0], dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&entry.Documents, "documents", "", "Document directory (required)")
	cmd.Flags().StringVar(&entry.NameTable, "name-table", "", "Secondary name table (default: from config.yaml)")
	cmd.Flags().StringVar(&entry.CacheDir, "cache-dir", "", "Name cache directory (default: inside the dataset directory)")
	cmd.Flags().StringVar(&entry.Description, "description", "", "Dataset description")
	_ = cmd.MarkFlagRequired("documents")

	return cmd
}

func newDatasetsRemoveCmd() *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
			if err := removeDataset(cwd, args[0], purge); err != nil {
				return err
			}
			fmt.Printf("Removed dataset %q\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "Also delete the dataset's database and name cache")

	return cmd
}

// addDataset registers a dataset in datasets.yaml. The name cache defaults
// to a directory next to the dataset's database.
func addDataset(basePath, name string, entry config.DatasetEntry) error {
	if !config.Exists(basePath) {
		return fmt.Errorf("cleva not initialized in %s (run 'cleva init' first)", basePath)
	}

	datasets, err := config.LoadDatasets(basePath)
	if err != nil {
		return fmt.Errorf("loading datasets: %w", err)
	}
	if datasets.Exists(name) {
		return fmt.Errorf("dataset %q already exists", name)
	}

	if entry.CacheDir == "" {
		entry.CacheDir = filepath.Join(config.DatasetDir(basePath, name), "name_cache")
	}
	if entry.Description == "" {
		entry.Description = "added " + time.Now().Format(time.DateOnly)
	}

	datasets.Add(name, entry)
	if err := datasets.Save(basePath); err != nil {
		return fmt.Errorf("saving datasets: %w", err)
	}
	return nil
}

// removeDataset unregisters a dataset, deleting its state directory when purge is set.
func removeDataset(basePath, name string, purge bool) error {
	datasets, err := config.LoadDatasets(basePath)
	if err != nil {
		return fmt.Errorf("loading datasets: %w", err)
	}
	if !datasets.Exists(name) {
		return fmt.Errorf("dataset %q not found", name)
	}

	datasets.Remove(name)
	if err := datasets.Save(basePath); err != nil {
		return fmt.Errorf("saving datasets: %w", err)
	}

	if purge {
		if err := os.RemoveAll(config.DatasetDir(basePath, name)); err != nil {
			return fmt.Errorf("deleting dataset directory: %w", err)
		}
	}
	return nil
}
