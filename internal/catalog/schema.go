// Package catalog defines the camera and lens data files: their column
// schemas, the row representation, and the CSV codec that round-trips them
// bit-exact. The CSV layout is a public contract consumed by downstream
// depth-of-field calculators, so column names, order, and numeric formatting
// must not drift.
package catalog

// Column keys shared by both files.
const (
	KeyID       = "ID"
	KeyName     = "Name"
	KeyBrand    = "Brand"
	KeyMount    = "Mount"
	KeyKeywords = "Keywords"
)

// Camera-only column keys.
const (
	KeyMediaWidth  = "Media Width (mm)"
	KeyMediaHeight = "Media Height (mm)"
	KeySizeName    = "Size Name"
)

// Lens-only column keys.
const (
	KeyMinFocalLength   = "Min. Focal Length (mm)"
	KeyMaxFocalLength   = "Max. Focal Length (mm)"
	KeyMinFValue        = "Min. F Value"
	KeyMaxFValue        = "Max. F Value"
	KeyMinFocusDistance = "Min. Focus Distance (mm)"
)

// Column describes one CSV column.
type Column struct {
	Key     string
	Numeric bool
}

// Schema describes one data file: its columns, the canonical sort key, and
// the uniqueness key.
type Schema struct {
	Name    string // short name used in logs and messages
	Columns []Column

	// SortKey lists the columns that define canonical order, most
	// significant first. String columns compare case-insensitively,
	// numeric columns numerically.
	SortKey []string

	// UniqueKey lists the columns whose combination must be unique
	// across rows.
	UniqueKey []string
}

// CameraSchema is the schema of cameras.csv.
var CameraSchema = Schema{
	Name: "cameras",
	Columns: []Column{
		{Key: KeyID},
		{Key: KeyName},
		{Key: KeyBrand},
		{Key: KeyMount},
		{Key: KeyMediaWidth, Numeric: true},
		{Key: KeyMediaHeight, Numeric: true},
		{Key: KeySizeName},
		{Key: KeyKeywords},
	},
	SortKey:   []string{KeyBrand, KeyMount, KeyName},
	UniqueKey: []string{KeyBrand, KeyName},
}

// LensSchema is the schema of lenses.csv.
var LensSchema = Schema{
	Name: "lenses",
	Columns: []Column{
		{Key: KeyID},
		{Key: KeyName},
		{Key: KeyBrand},
		{Key: KeyMount},
		{Key: KeyMinFocalLength, Numeric: true},
		{Key: KeyMaxFocalLength, Numeric: true},
		{Key: KeyMinFValue, Numeric: true},
		{Key: KeyMaxFValue, Numeric: true},
		{Key: KeyMinFocusDistance, Numeric: true},
		{Key: KeyKeywords},
	},
	SortKey: []string{
		KeyBrand, KeyMount, KeyMinFocalLength, KeyMaxFocalLength, KeyName,
	},
	UniqueKey: []string{KeyBrand, KeyName},
}

// Index returns the position of the named column, or -1 if the schema has no
// such column.
func (s Schema) Index(key string) int {
	for i, c := range s.Columns {
		if c.Key == key {
			return i
		}
	}
	return -1
}

// Header returns the column keys in file order.
func (s Schema) Header() []string {
	keys := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		keys[i] = c.Key
	}
	return keys
}
