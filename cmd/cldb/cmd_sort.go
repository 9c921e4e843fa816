package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cldb/internal/canon"
	"cldb/internal/catalog"
)

var sortOverwrite bool

// sortCmd writes canonically sorted versions of the data files.
var sortCmd = &cobra.Command{
	Use:   "sort [file...]",
	Short: "Write canonically sorted copies of the data files",
	Long: `Sorts each data file into canonical order. By default the result is
written next to the original as NAME.sorted.csv; with --overwrite the
original file is replaced in place.`,
	RunE: runSort,
}

func init() {
	sortCmd.Flags().BoolVarP(&sortOverwrite, "overwrite", "o", false,
		"replace the data files instead of writing .sorted.csv copies")
}

func runSort(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = cfg.DataFiles()
	}

	for _, path := range paths {
		s := schemaForPath(path)
		rows, err := catalog.ReadFile(s, path)
		if err != nil {
			return err
		}
		sorted := canon.Canonicalize(s, rows)

		out := path
		if !sortOverwrite {
			out = strings.TrimSuffix(path, ".csv") + ".sorted.csv"
		}
		if err := catalog.WriteFile(s, out, sorted); err != nil {
			return err
		}
		logger.Info("sorted", zap.String("in", path), zap.String("out", out), zap.Int("rows", len(sorted)))
		fmt.Printf("%s -> %s (%d rows)\n", path, out, len(sorted))
	}
	return nil
}
