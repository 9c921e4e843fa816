package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// configCmd groups configuration operations.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the cldb configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the active configuration to the config file",
	Long: `Writes the active configuration (defaults merged with the current
environment overrides) to the config file, as a starting point for
editing. Refuses to overwrite an existing file.`,
	RunE: runConfigInit,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}
	if err := cfg.Save(configPath); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", configPath)
	return nil
}

func init() {
	configCmd.AddCommand(configInitCmd)
}
