package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cldb/internal/fetch"
)

// cacheCmd groups download-cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or purge the download cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the download cache directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(cfg.Cache.Dir)
		return nil
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove all cached downloads",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache := fetch.NewCache(cfg.Cache.Dir, cfg.CacheTTL())
		if err := cache.Purge(); err != nil {
			return fmt.Errorf("cannot remove %s: %w", cfg.Cache.Dir, err)
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
}
