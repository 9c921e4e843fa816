package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cldb/internal/catalog"
	"cldb/internal/checker"
)

var checkWatch bool

// errCheckFailed signals a validation failure whose details were already
// printed; main maps it to the exit code without another message.
var errCheckFailed = errors.New("validation failed")

// checkCmd validates that every data file is in canonical sorted order.
var checkCmd = &cobra.Command{
	Use:   "check [file...]",
	Short: "Verify the data files are in canonical sorted order",
	Long: `Validates each data file: parses it, re-sorts the rows into canonical
order, and compares the result byte-for-byte with the file on disk.
Differences are shown as a unified diff. Exits non-zero if any file is
unsorted, has duplicate keys, or cannot be parsed.

With no arguments the configured cameras and lenses files are checked.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVarP(&checkWatch, "watch", "w", false,
		"re-run the check whenever a data file changes")
}

var (
	styleOK    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFail  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleAdded = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleDel   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleMeta  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

func runCheck(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = cfg.DataFiles()
	}

	if checkWatch {
		return watchLoop(paths)
	}
	if !runCheckOnce(paths) {
		return errCheckFailed
	}
	return nil
}

// runCheckOnce checks every path and prints results; returns the aggregate
// verdict.
func runCheckOnce(paths []string) bool {
	results, ok := checker.CheckAll(paths, schemaForPath)
	for _, r := range results {
		printResult(r)
	}
	return ok
}

func printResult(r checker.FileResult) {
	switch r.Status {
	case checker.StatusOK:
		fmt.Println(styleOK.Render(r.Summary()))
	case checker.StatusUnsorted:
		fmt.Println(styleFail.Render(r.Summary()))
		printDiff(r.Diff)
	default:
		fmt.Println(styleFail.Render(r.Summary()))
	}
}

func printDiff(diff string) {
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			fmt.Println(styleAdded.Render(line))
		case strings.HasPrefix(line, "-"):
			fmt.Println(styleDel.Render(line))
		case strings.HasPrefix(line, "@@"):
			fmt.Println(styleMeta.Render(line))
		default:
			fmt.Println(line)
		}
	}
}

// schemaForPath maps a data file to its schema by file name.
func schemaForPath(path string) catalog.Schema {
	if strings.Contains(strings.ToLower(filepath.Base(path)), "lens") {
		return catalog.LensSchema
	}
	return catalog.CameraSchema
}

// watchLoop re-validates whenever one of the files changes. Editors often
// replace files on save, so the paths are re-added after rename events.
func watchLoop(paths []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, p := range paths {
		if err := w.Add(p); err != nil {
			return fmt.Errorf("cannot watch %s: %w", p, err)
		}
	}

	runCheckOnce(paths)
	logger.Info("watching for changes", zap.Strings("paths", paths))

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("change detected", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			if ev.Op&fsnotify.Rename != 0 {
				// Atomic-save editors rename over the file; re-watch it.
				_ = w.Remove(ev.Name)
				if err := w.Add(ev.Name); err != nil {
					logger.Warn("cannot re-watch file", zap.String("path", ev.Name), zap.Error(err))
				}
			}
			fmt.Println()
			runCheckOnce(paths)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}
