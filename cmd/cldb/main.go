// Package main implements the cldb CLI, the maintenance tool for the
// camera and lens database files.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cldb/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cldb",
	Short: "cldb - camera & lens database maintenance",
	Long: `cldb maintains the cameras.csv and lenses.csv data files.

The files are hand-curated reference data for depth-of-field calculators
and must stay in canonical sorted order so reviews and merges remain
deterministic. cldb validates that order, re-sorts the files, and scrapes
current equipment specs from manufacturer sites.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else if lvl, err := zapcore.ParseLevel(cfg.Logging.Level); err == nil {
			zcfg.Level = zap.NewAtomicLevelAt(lvl)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "config file path")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Check failures already printed their verdicts; everything else
		// still needs a message.
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
