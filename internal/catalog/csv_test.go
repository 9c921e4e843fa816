package catalog

import (
	"errors"
	"strings"
	"testing"
)

const camerasCSV = `ID,Name,Brand,Mount,Media Width (mm),Media Height (mm),Size Name,Keywords
0907a1d3-b3dd-4db6-8af6-3212bce527f8,D3500,Nikon,Nikon F,23.5,15.6,DX,dslr
f532341e-865c-4950-b91f-83dd69f83426,Z 5,Nikon,Nikon Z,35.9,23.9,FX,mirrorless
`

func TestRead_RoundTrip(t *testing.T) {
	rows, err := Read(CameraSchema, strings.NewReader(camerasCSV), "cameras.csv")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	out, err := Marshal(CameraSchema, rows)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != camerasCSV {
		t.Errorf("round trip changed the content:\nin:\n%s\nout:\n%s", camerasCSV, out)
	}
}

func TestRead_HeaderOnly(t *testing.T) {
	in := "ID,Name,Brand,Mount,Media Width (mm),Media Height (mm),Size Name,Keywords\n"
	rows, err := Read(CameraSchema, strings.NewReader(in), "cameras.csv")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected 0 rows, got %d", len(rows))
	}
}

func TestRead_EmptyFile(t *testing.T) {
	_, err := Read(CameraSchema, strings.NewReader(""), "cameras.csv")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Line != 1 {
		t.Errorf("expected line 1, got %d", pe.Line)
	}
}

func TestRead_HeaderMismatch(t *testing.T) {
	in := "ID,Name,Maker,Mount,Media Width (mm),Media Height (mm),Size Name,Keywords\n"
	_, err := Read(CameraSchema, strings.NewReader(in), "cameras.csv")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if !strings.Contains(pe.Error(), "Brand") {
		t.Errorf("error should name the expected column: %v", pe)
	}
}

func TestRead_WrongColumnCount(t *testing.T) {
	in := "ID,Name,Brand,Mount,Media Width (mm),Media Height (mm),Size Name,Keywords\n" +
		"x,D500,Nikon,Nikon F,23.5,15.7,DX\n"
	_, err := Read(CameraSchema, strings.NewReader(in), "cameras.csv")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Line != 2 {
		t.Errorf("expected line 2, got %d", pe.Line)
	}
}

func TestRead_BadNumericCell(t *testing.T) {
	in := "ID,Name,Brand,Mount,Media Width (mm),Media Height (mm),Size Name,Keywords\n" +
		"x,D500,Nikon,Nikon F,wide,15.7,DX,\n"
	_, err := Read(CameraSchema, strings.NewReader(in), "cameras.csv")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Line != 2 {
		t.Errorf("expected line 2, got %d", pe.Line)
	}
}

func TestMarshal_NormalizesNumbers(t *testing.T) {
	in := "ID,Name,Brand,Mount,Media Width (mm),Media Height (mm),Size Name,Keywords\n" +
		"x,D500,Nikon,Nikon F,23.50,15.70,DX,\n"
	rows, err := Read(CameraSchema, strings.NewReader(in), "cameras.csv")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	out, err := Marshal(CameraSchema, rows)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(out), "23.5,15.7") {
		t.Errorf("expected normalized numerics, got:\n%s", out)
	}
}

func TestSchema_Index(t *testing.T) {
	if got := LensSchema.Index(KeyMinFocalLength); got != 4 {
		t.Errorf("expected index 4, got %d", got)
	}
	if got := LensSchema.Index("No Such Column"); got != -1 {
		t.Errorf("expected -1, got %d", got)
	}
}
