package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cldb/internal/catalog"
	"cldb/internal/fetch"
)

var (
	fetchWorkers int
	fetchOutput  string
)

// fetchCmd scrapes current equipment specs from the manufacturer site.
var fetchCmd = &cobra.Command{
	Use:   "fetch (camera|lens)",
	Short: "Fetch the newest equipment data from the Web",
	Long: `Scrapes the manufacturer's listing and spec pages for the given
equipment type, reuses the IDs of equipment already present in the data
file, and prints the merged result in canonical CSV form. Pages are served
from the download cache when fresh; see "cldb cache".

Without --output the result goes to stdout for review; it never replaces
the data file in place.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"camera", "lens"},
	RunE:      runFetch,
}

func init() {
	fetchCmd.Flags().IntVarP(&fetchWorkers, "max-workers", "j", 0,
		"number of concurrent downloads (0 uses the configured default)")
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "",
		"file to write the merged CSV to (default stdout)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cache := fetch.NewCache(cfg.Cache.Dir, cfg.CacheTTL())
	client := fetch.NewClient(cache, cfg.Fetch.UserAgent, cfg.FetchTimeout(), logger)

	workers := fetchWorkers
	if workers <= 0 {
		workers = cfg.Fetch.MaxWorkers
	}

	var (
		schema catalog.Schema
		path   string
	)
	switch args[0] {
	case "camera":
		schema, path = catalog.CameraSchema, cfg.Data.CamerasCSV
	case "lens":
		schema, path = catalog.LensSchema, cfg.Data.LensesCSV
	default:
		return fmt.Errorf("unexpected fetch target: %s", args[0])
	}

	// Load already assigned equipment IDs so re-fetching is stable.
	existing, err := catalog.ReadFile(schema, path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	logger.Info("fetching equipment data",
		zap.String("target", args[0]), zap.Int("workers", workers))

	var rows []catalog.Row
	switch args[0] {
	case "camera":
		rows, err = fetch.FetchCameras(cmd.Context(), client, existing, workers)
	case "lens":
		rows, err = fetch.FetchLenses(cmd.Context(), client, existing, workers)
	}
	if err != nil {
		return err
	}

	data, err := catalog.Marshal(schema, rows)
	if err != nil {
		return err
	}
	if fetchOutput == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(fetchOutput, data, 0644)
}
