package fetch

import (
	"regexp"
	"strconv"
	"strings"
)

// Spec pages mix half-width and full-width punctuation and express the same
// quantity in several notations ("24-70mm", "0.21m", "35.9×23.9mm",
// "f/2.8"). The extractors below pull every plausible value out of a cell;
// callers pick the min or max as the field demands.

var (
	reMillimeterRange  = regexp.MustCompile(`([\d\.]+)(?:mm)?\s*-\s*([\d\.]+)mm`)
	reMillimeterSingle = regexp.MustCompile(`([\d\.]+)mm`)
	reMillimeterValue  = regexp.MustCompile(`([\d\.]+)\s*(mm?)`)
	reSquareMM         = regexp.MustCompile(`([\d\.]+)(?:\(H\))?\s*[×x]\s*([\d\.]+)(?:\(V\))?\s*mm`)
	reFNumberSlash     = regexp.MustCompile(`f/([\d\.]+)`)
	reFNumberBare      = regexp.MustCompile(`([\d\.]+)([m\d])?`)
)

// MillimeterRanges extracts "A-Bmm" ranges from s. When no range is
// present, each single "Nmm" value is returned as the degenerate range
// (N, N); a found range suppresses single values.
func MillimeterRanges(s string) [][2]float64 {
	var out [][2]float64
	for _, m := range reMillimeterRange.FindAllStringSubmatch(s, -1) {
		lo, err1 := strconv.ParseFloat(m[1], 64)
		hi, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			out = append(out, [2]float64{lo, hi})
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, m := range reMillimeterSingle.FindAllStringSubmatch(s, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			out = append(out, [2]float64{v, v})
		}
	}
	return out
}

// MillimeterValues extracts lengths from s, converting meters to
// millimeters.
func MillimeterValues(s string) []float64 {
	var out []float64
	for _, m := range reMillimeterValue.FindAllStringSubmatch(s, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		switch m[2] {
		case "mm":
			out = append(out, v)
		case "m":
			out = append(out, v*1000)
		}
	}
	return out
}

// SquareMillimeters extracts "W×Hmm" sensor dimensions from s.
func SquareMillimeters(s string) [][2]float64 {
	var out [][2]float64
	for _, m := range reSquareMM.FindAllStringSubmatch(s, -1) {
		w, err1 := strconv.ParseFloat(m[1], 64)
		h, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			out = append(out, [2]float64{w, h})
		}
	}
	return out
}

// FNumbers extracts aperture values from s. "f/N" notations are collected
// first, then bare numbers that are not part of a length.
func FNumbers(s string) []float64 {
	var out []float64
	for _, m := range reFNumberSlash.FindAllStringSubmatch(s, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			out = append(out, v)
		}
	}
	for _, m := range reFNumberBare.FindAllStringSubmatch(s, -1) {
		if m[2] != "" {
			continue // suffixed by a unit or another digit, not an f-number
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

var (
	reFullWidthParens = regexp.MustCompile(`（([^）]+)）`)
	reWaveDash        = regexp.MustCompile(`([\d])～([\dF])`)
	reParensJP        = regexp.MustCompile(`（[^）]+）`)
	reParensASCII     = regexp.MustCompile(`\([^\)]+\)`)
	reBracketNote     = regexp.MustCompile(`\[([\d\.m]+)\s*[：:]\s*[^\]]+\]`)
)

// ToHalfWidth rewrites full-width Japanese punctuation into ASCII so the
// numeric extractors see one notation.
func ToHalfWidth(s string) string {
	s = reFullWidthParens.ReplaceAllString(s, "($1)")
	s = reWaveDash.ReplaceAllString(s, "$1-$2")
	return s
}

// StripNotes removes parenthesized remarks and reduces bracketed notes like
// "[0.21m：85mm マクロ時]" to their leading value.
func StripNotes(s string) string {
	s = ToHalfWidth(s)
	s = reParensJP.ReplaceAllString(s, "")
	s = reParensASCII.ReplaceAllString(s, "")
	s = reBracketNote.ReplaceAllString(s, " $1")
	return strings.TrimSpace(s)
}
