package catalog

import "strconv"

// Row is one record of a data file. Cells hold the raw text of every column
// in schema order; numeric columns additionally carry their parsed value so
// sorting compares numbers, not digit strings.
type Row struct {
	Cells []string
	nums  []float64 // parsed values for numeric columns, NaN-free; aligned with Cells
	has   []bool    // which entries of nums are valid
}

// NewRow builds a Row from raw cells, parsing numeric columns per the schema.
// The cell count must already match the schema.
func NewRow(s Schema, cells []string) (Row, error) {
	r := Row{
		Cells: cells,
		nums:  make([]float64, len(cells)),
		has:   make([]bool, len(cells)),
	}
	for i, c := range s.Columns {
		if !c.Numeric {
			continue
		}
		v, err := strconv.ParseFloat(cells[i], 64)
		if err != nil {
			return Row{}, err
		}
		r.nums[i] = v
		r.has[i] = true
	}
	return r, nil
}

// Field returns the raw text of the column at index i.
func (r Row) Field(i int) string { return r.Cells[i] }

// Number returns the parsed value of the numeric column at index i. The
// second result is false for non-numeric columns.
func (r Row) Number(i int) (float64, bool) {
	if i < 0 || i >= len(r.has) || !r.has[i] {
		return 0, false
	}
	return r.nums[i], true
}

// formatNumber renders a float the way the data files store it: shortest
// representation that round-trips, no trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// normalized returns the cells with numeric columns re-rendered in canonical
// numeric form. Serializing a parsed file uses this, so "5.0" in a hand
// edit normalizes to "5".
func (r Row) normalized() []string {
	out := make([]string, len(r.Cells))
	copy(out, r.Cells)
	for i := range r.Cells {
		if r.has[i] {
			out[i] = formatNumber(r.nums[i])
		}
	}
	return out
}
