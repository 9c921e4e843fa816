// Package checker implements the sort validator: it proves each data file
// is held in canonical order by re-sorting its rows and comparing the
// serialized result byte-for-byte against the file on disk. The original
// file is never written.
package checker

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"cldb/internal/canon"
	"cldb/internal/catalog"
	"cldb/internal/diff"
)

// Status is the verdict for one file.
type Status int

const (
	// StatusOK means the file is parseable, duplicate-free, and already
	// in canonical order.
	StatusOK Status = iota
	// StatusUnsorted means the file content differs from its canonical
	// sorted form.
	StatusUnsorted
	// StatusDuplicate means two rows collide on a key that must be
	// unique; ordering between them is ambiguous.
	StatusDuplicate
	// StatusParseError means the file violates the column schema.
	// Validation of the file halts; sorting cannot fix it.
	StatusParseError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusUnsorted:
		return "unsorted"
	case StatusDuplicate:
		return "duplicate-key"
	case StatusParseError:
		return "parse-error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// FileResult is the outcome of validating one data file.
type FileResult struct {
	Path       string
	Schema     catalog.Schema
	Status     Status
	Rows       int
	Diff       string            // unified diff, set when Status == StatusUnsorted
	Duplicates []canon.Duplicate // set when Status == StatusDuplicate
	Err        error             // set when Status == StatusParseError
}

// OK reports whether the file passed.
func (r FileResult) OK() bool { return r.Status == StatusOK }

// Summary is a one-line human-readable verdict.
func (r FileResult) Summary() string {
	switch r.Status {
	case StatusOK:
		return fmt.Sprintf("OK: %s (%d rows)", r.Path, r.Rows)
	case StatusUnsorted:
		return fmt.Sprintf("FAIL: %s is not in canonical order", r.Path)
	case StatusDuplicate:
		keys := make([]string, len(r.Duplicates))
		for i, d := range r.Duplicates {
			keys[i] = d.Key
		}
		return fmt.Sprintf("FAIL: %s has duplicate keys: %s", r.Path, strings.Join(keys, ", "))
	case StatusParseError:
		return fmt.Sprintf("ERROR: %v", r.Err)
	}
	return fmt.Sprintf("%s: %s", r.Path, r.Status)
}

// Check validates the data file at path against its schema. It reads the
// file once, re-parses it into rows, canonicalizes them, serializes the
// result, and compares byte-for-byte with what is on disk.
func Check(path string, s catalog.Schema) FileResult {
	res := FileResult{Path: path, Schema: s}

	raw, err := os.ReadFile(path)
	if err != nil {
		res.Status = StatusParseError
		res.Err = err
		return res
	}

	rows, err := catalog.Read(s, bytes.NewReader(raw), path)
	if err != nil {
		res.Status = StatusParseError
		res.Err = err
		var pe *catalog.ParseError
		if !errors.As(err, &pe) {
			res.Err = fmt.Errorf("%s: %w", path, err)
		}
		return res
	}
	res.Rows = len(rows)

	if dups := canon.Duplicates(s, rows); len(dups) > 0 {
		res.Status = StatusDuplicate
		res.Duplicates = dups
		return res
	}

	sorted := canon.Canonicalize(s, rows)
	want, err := catalog.Marshal(s, sorted)
	if err != nil {
		res.Status = StatusParseError
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res
	}

	if !bytes.Equal(raw, want) {
		res.Status = StatusUnsorted
		res.Diff = diff.Unified(path, path+" (canonical)", string(raw), string(want))
	}
	return res
}

// CheckAll validates every path against the given schema lookup and
// returns the per-file results plus the aggregate verdict: true only if
// every file passed.
func CheckAll(paths []string, schemaFor func(path string) catalog.Schema) ([]FileResult, bool) {
	ok := true
	results := make([]FileResult, 0, len(paths))
	for _, p := range paths {
		r := Check(p, schemaFor(p))
		if !r.OK() {
			ok = false
		}
		results = append(results, r)
	}
	return results, ok
}
