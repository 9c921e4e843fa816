// Package canon defines the canonical order of the data files and the
// checks built on it. Diffs and reviews stay deterministic and
// merge-friendly only while the files hold this order, so the sorter here
// is the single source of truth for it.
package canon

import (
	"fmt"
	"sort"
	"strings"

	"cldb/internal/catalog"
)

// Less reports whether row a sorts before row b under the schema's sort
// key. String keys compare case-insensitively, numeric keys numerically.
// Rows equal on the full sort key fall back to a case-sensitive comparison
// of every cell so the order never depends on input order.
func Less(s catalog.Schema, a, b catalog.Row) bool {
	for _, key := range s.SortKey {
		i := s.Index(key)
		if c := compareCell(a, b, i); c != 0 {
			return c < 0
		}
	}
	// Full-row tie break for determinism.
	for i := range a.Cells {
		if c := strings.Compare(a.Cells[i], b.Cells[i]); c != 0 {
			return c < 0
		}
	}
	return false
}

func compareCell(a, b catalog.Row, i int) int {
	av, aok := a.Number(i)
	bv, bok := b.Number(i)
	if aok && bok {
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(a.Field(i)), strings.ToLower(b.Field(i)))
}

// Canonicalize returns the rows in canonical order. The input slice is not
// modified. Canonicalize is idempotent.
func Canonicalize(s catalog.Schema, rows []catalog.Row) []catalog.Row {
	out := make([]catalog.Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return Less(s, out[i], out[j]) })
	return out
}

// Duplicate describes two rows that collide on a key that must be unique.
type Duplicate struct {
	Key   string // the colliding value, e.g. "Nikon/NIKKOR Z 50mm f/1.8 S"
	Lines []int  // 1-based data row numbers (first data row is 1)
}

// Duplicates reports rows sharing the same uniqueness key or the same ID.
// Key comparison is case-insensitive, matching the sort order's view of
// equality.
func Duplicates(s catalog.Schema, rows []catalog.Row) []Duplicate {
	var dups []Duplicate
	dups = append(dups, collisions(rows, func(r catalog.Row) string {
		parts := make([]string, len(s.UniqueKey))
		for i, key := range s.UniqueKey {
			parts[i] = strings.ToLower(r.Field(s.Index(key)))
		}
		return strings.Join(parts, "/")
	})...)

	if id := s.Index(catalog.KeyID); id >= 0 {
		dups = append(dups, collisions(rows, func(r catalog.Row) string {
			return fmt.Sprintf("id:%s", strings.ToLower(r.Field(id)))
		})...)
	}
	return dups
}

func collisions(rows []catalog.Row, key func(catalog.Row) string) []Duplicate {
	seen := make(map[string][]int)
	var order []string
	for i, r := range rows {
		k := key(r)
		if len(seen[k]) == 1 {
			order = append(order, k)
		}
		seen[k] = append(seen[k], i+1)
	}
	var dups []Duplicate
	for _, k := range order {
		if lines := seen[k]; len(lines) > 1 {
			dups = append(dups, Duplicate{Key: k, Lines: lines})
		}
	}
	return dups
}

// Sorted reports whether the rows are already in canonical order.
func Sorted(s catalog.Schema, rows []catalog.Row) bool {
	for i := 1; i < len(rows); i++ {
		if Less(s, rows[i], rows[i-1]) {
			return false
		}
	}
	return true
}
