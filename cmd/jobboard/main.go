// Package main provides the entry point for the Web3 job board API server and tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// newRootCmd assembles the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "jobboard",
		Short:         "Web3 job board API server",
		Long:          "Web3 job board: searchable job listings, personalized recommendations and a Telegram digest of new postings.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (optional)")

	root.AddCommand(
		newServeCmd(&configPath),
		newMigrateCmd(&configPath),
		newImportCmd(&configPath),
		newSearchCmd(&configPath),
		newRecommendCmd(&configPath),
		newProfileCmd(&configPath),
		newTokenCmd(),
		newDigestCmd(&configPath),
	)
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
