// Package diff renders unified diffs between two text blobs using the
// sergi/go-diff engine with a line-level reduction, so the validator can
// show exactly which data rows moved, appeared, or vanished.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineType classifies one line of a diff.
type LineType int

const (
	Context LineType = iota
	Added
	Removed
)

// Line is a single line of a hunk.
type Line struct {
	Type    LineType
	Content string
}

// Hunk is a contiguous group of changes with surrounding context.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Lines              []Line
}

// contextLines is the number of unchanged lines kept around each change.
const contextLines = 3

// Compute returns the hunks describing how old becomes new. A nil result
// means the inputs are equal.
func Compute(old, new string) []Hunk {
	if old == new {
		return nil
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // accuracy over speed; data files are small

	// Line-level reduction avoids newline boundary artifacts when
	// converting character diffs back to line operations.
	a, b, lines := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	return group(operations(diffs))
}

// Unified renders the diff in unified format with ---/+++ headers. It
// returns "" when the contents are equal.
func Unified(oldPath, newPath, old, new string) string {
	hunks := Compute(old, new)
	if len(hunks) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n", oldPath)
	fmt.Fprintf(&sb, "+++ %s\n", newPath)
	for _, h := range hunks {
		fmt.Fprintf(&sb, "@@ -%s +%s @@\n", span(h.OldStart, h.OldCount), span(h.NewStart, h.NewCount))
		for _, l := range h.Lines {
			switch l.Type {
			case Added:
				sb.WriteString("+")
			case Removed:
				sb.WriteString("-")
			default:
				sb.WriteString(" ")
			}
			sb.WriteString(l.Content)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func span(start, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	if count == 0 {
		// Unified format points at the line before the insertion point.
		return fmt.Sprintf("%d,0", start-1)
	}
	return fmt.Sprintf("%d,%d", start, count)
}

// op is one line operation with its positions in the old and new text.
type op struct {
	typ      LineType
	old, new int // 0-based line numbers; -1 where not applicable
	content  string
}

// operations flattens diffmatchpatch output into per-line operations.
func operations(diffs []diffmatchpatch.Diff) []op {
	var ops []op
	oldLine, newLine := 0, 0
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				ops = append(ops, op{Context, oldLine, newLine, line})
				oldLine++
				newLine++
			case diffmatchpatch.DiffDelete:
				ops = append(ops, op{Removed, oldLine, -1, line})
				oldLine++
			case diffmatchpatch.DiffInsert:
				ops = append(ops, op{Added, -1, newLine, line})
				newLine++
			}
		}
	}
	return ops
}

// group collects operations into hunks, keeping at most contextLines of
// unchanged text on either side of each change run.
func group(ops []op) []Hunk {
	keep := make([]bool, len(ops))
	any := false
	for i, o := range ops {
		if o.typ == Context {
			continue
		}
		any = true
		lo := i - contextLines
		if lo < 0 {
			lo = 0
		}
		hi := i + contextLines
		if hi >= len(ops) {
			hi = len(ops) - 1
		}
		for j := lo; j <= hi; j++ {
			keep[j] = true
		}
	}
	if !any {
		return nil
	}

	var hunks []Hunk
	i := 0
	for i < len(ops) {
		if !keep[i] {
			i++
			continue
		}
		j := i
		for j < len(ops) && keep[j] {
			j++
		}
		hunks = append(hunks, makeHunk(ops[i:j]))
		i = j
	}
	return hunks
}

func makeHunk(ops []op) Hunk {
	h := Hunk{OldStart: -1, NewStart: -1}
	for _, o := range ops {
		h.Lines = append(h.Lines, Line{Type: o.typ, Content: o.content})
		if o.old >= 0 {
			if h.OldStart < 0 {
				h.OldStart = o.old + 1
			}
			h.OldCount++
		}
		if o.new >= 0 {
			if h.NewStart < 0 {
				h.NewStart = o.new + 1
			}
			h.NewCount++
		}
	}
	// A pure insertion or deletion hunk still needs a position.
	if h.OldStart < 0 {
		h.OldStart = 1
	}
	if h.NewStart < 0 {
		h.NewStart = 1
	}
	return h
}
