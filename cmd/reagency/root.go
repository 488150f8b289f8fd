package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielreuter/reagency/internal/config"
	"github.com/danielreuter/reagency/internal/platform/logger"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "reagency",
	Short:         "Inspect run ledgers, cached task results, and datasets",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		cfg = loaded
		logger.Setup(cfg.Log)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(datasetCmd)
}
