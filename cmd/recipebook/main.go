// Package main provides the recipebook CLI.
//
// recipebook manages benchmark recipes (named bundles of datasets, prompt
// templates, metrics and attack modules) and scores model predictions with ROUGE.
//
// # Basic Usage
//
//	recipebook recipe create --name "Item Category" --dataset arc --metric rougescorer
//	recipebook recipe list
//	recipebook recipe get item-category
//	recipebook score --targets targets.json --predictions predictions.json
//
// # Configuration
//
// Settings are read from defaults, then the YAML file named by --config,
// RECIPEBOOK_CONFIG or ./recipebook.yaml, then RECIPEBOOK_* variables
// (e.g. RECIPEBOOK_STORAGE_BACKEND=sqlite, RECIPEBOOK_STORAGE_PATH=recipes.db).
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Build information, populated by ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// buildRootCmd creates the root command with all subcommands attached.
func buildRootCmd() *cobra.Command {
	var configPath string
	rootCmd := &cobra.Command{
		Use:          "recipebook",
		Short:        "Manage benchmark recipes and score predictions",
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")

	rootCmd.AddCommand(
		buildRecipeCmd(&configPath),
		buildScoreCmd(&configPath),
		buildMetricCmd(),
	)
	return rootCmd
}
