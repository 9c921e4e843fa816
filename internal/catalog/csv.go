package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ParseError reports a structural problem in a data file: a bad header, a
// row with the wrong number of cells, or an unparseable numeric cell. It is
// a different failure class than an ordering violation; sorting cannot fix
// it.
type ParseError struct {
	Path string
	Line int // 1-based line number in the file, 0 if unknown
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Read parses CSV text into rows, validating every record against the
// schema. The header row must match the schema columns exactly.
func Read(s Schema, r io.Reader, path string) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // column count checked per row for better errors

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ParseError{Path: path, Line: 1, Err: fmt.Errorf("missing header row")}
	}
	if err != nil {
		return nil, &ParseError{Path: path, Line: 1, Err: err}
	}
	if err := checkHeader(s, header); err != nil {
		return nil, &ParseError{Path: path, Line: 1, Err: err}
	}

	var rows []Row
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Path: path, Line: line, Err: err}
		}
		if len(record) != len(s.Columns) {
			return nil, &ParseError{
				Path: path,
				Line: line,
				Err:  fmt.Errorf("expected %d columns, got %d", len(s.Columns), len(record)),
			}
		}
		row, err := NewRow(s, record)
		if err != nil {
			return nil, &ParseError{Path: path, Line: line, Err: err}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadFile parses the data file at path.
func ReadFile(s Schema, path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(s, f, path)
}

func checkHeader(s Schema, header []string) error {
	if len(header) != len(s.Columns) {
		return fmt.Errorf("expected %d header columns, got %d", len(s.Columns), len(header))
	}
	for i, c := range s.Columns {
		if header[i] != c.Key {
			return fmt.Errorf("header column %d: expected %q, got %q", i+1, c.Key, header[i])
		}
	}
	return nil
}

// Marshal serializes rows to the canonical CSV text: header first, LF line
// endings, encoding/csv quoting, numeric columns in shortest form.
func Marshal(s Schema, rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(s.Header()); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := cw.Write(row.normalized()); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile serializes rows and writes them to path.
func WriteFile(s Schema, path string, rows []Row) error {
	data, err := Marshal(s, rows)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
