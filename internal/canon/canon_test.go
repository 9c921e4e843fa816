package canon

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cldb/internal/catalog"
)

func lensRows(t *testing.T, csv string) []catalog.Row {
	t.Helper()
	rows, err := catalog.Read(catalog.LensSchema, strings.NewReader(csv), "lenses.csv")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	return rows
}

const lensHeader = "ID,Name,Brand,Mount,Min. Focal Length (mm),Max. Focal Length (mm),Min. F Value,Max. F Value,Min. Focus Distance (mm),Keywords\n"

func cells(rows []catalog.Row) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Cells
	}
	return out
}

func TestCanonicalize_NumericKeyOrder(t *testing.T) {
	// 105 sorts after 35 numerically, before it lexicographically.
	rows := lensRows(t, lensHeader+
		"a,AI AF Micro-Nikkor 105mm f/2.8D,Nikon,Nikon F,105,105,2.8,32,314,\n"+
		"b,AF-S DX Nikkor 35mm f/1.8G,Nikon,Nikon F,35,35,1.8,22,300,\n")

	sorted := Canonicalize(catalog.LensSchema, rows)
	if got := sorted[0].Field(0); got != "b" {
		t.Errorf("expected the 35mm lens first, got row %q", got)
	}
}

func TestCanonicalize_CaseInsensitiveBrand(t *testing.T) {
	rows := lensRows(t, lensHeader+
		"a,FE 50mm F1.8,sony,Sony E,50,50,1.8,22,450,\n"+
		"b,Nikkor Z 50mm f/1.8 S,Nikon,Nikon Z,50,50,1.8,16,400,\n")

	sorted := Canonicalize(catalog.LensSchema, rows)
	if got := sorted[0].Field(1); got != "Nikkor Z 50mm f/1.8 S" {
		t.Errorf("lowercase brand should not sort before capitals: got %q first", got)
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	rows := lensRows(t, lensHeader+
		"c,FE 50mm F1.8,Sony,Sony E,50,50,1.8,22,450,\n"+
		"a,Nikkor Z 24-70mm f/4 S,Nikon,Nikon Z,24,70,4,22,300,\n"+
		"b,Nikkor Z 35mm f/1.8 S,Nikon,Nikon Z,35,35,1.8,16,250,\n")

	once := Canonicalize(catalog.LensSchema, rows)
	twice := Canonicalize(catalog.LensSchema, once)
	if diff := cmp.Diff(cells(once), cells(twice)); diff != "" {
		t.Errorf("canonicalize is not idempotent (-once +twice):\n%s", diff)
	}
}

func TestCanonicalize_DoesNotMutateInput(t *testing.T) {
	rows := lensRows(t, lensHeader+
		"b,Nikkor Z 35mm f/1.8 S,Nikon,Nikon Z,35,35,1.8,16,250,\n"+
		"a,Nikkor Z 24-70mm f/4 S,Nikon,Nikon Z,24,70,4,22,300,\n")

	_ = Canonicalize(catalog.LensSchema, rows)
	if rows[0].Field(0) != "b" {
		t.Error("input slice was reordered")
	}
}

func TestCanonicalize_OrderInvariant(t *testing.T) {
	rows := lensRows(t, lensHeader+
		"e,FE 24-70mm F2.8 GM,Sony,Sony E,24,70,2.8,22,380,\n"+
		"d,AF-S Nikkor 50mm f/1.8G,Nikon,Nikon F,50,50,1.8,16,450,\n"+
		"c,Nikkor Z 50mm f/1.8 S,Nikon,Nikon Z,50,50,1.8,16,400,\n"+
		"b,AF-S Nikkor 24-70mm f/2.8E ED VR,Nikon,Nikon F,24,70,2.8,22,380,\n"+
		"a,Nikkor Z DX 16-50mm f/3.5-6.3 VR,Nikon,Nikon Z,16,50,3.5,22,250,\n")

	sorted := Canonicalize(catalog.LensSchema, rows)
	for i := 1; i < len(sorted); i++ {
		if Less(catalog.LensSchema, sorted[i], sorted[i-1]) {
			t.Errorf("rows %d and %d out of order", i-1, i)
		}
	}
	if !Sorted(catalog.LensSchema, sorted) {
		t.Error("Sorted() disagrees with pairwise Less")
	}
}

func TestCanonicalize_FullRowTieBreak(t *testing.T) {
	// Same sort key, different IDs: order must not depend on input order.
	a := lensRows(t, lensHeader+
		"x,FE 50mm F1.8,Sony,Sony E,50,50,1.8,22,450,\n"+
		"a,FE 50mm F1.8,Sony,Sony E,50,50,1.8,22,450,dup\n")
	b := lensRows(t, lensHeader+
		"a,FE 50mm F1.8,Sony,Sony E,50,50,1.8,22,450,dup\n"+
		"x,FE 50mm F1.8,Sony,Sony E,50,50,1.8,22,450,\n")

	sa := Canonicalize(catalog.LensSchema, a)
	sb := Canonicalize(catalog.LensSchema, b)
	if diff := cmp.Diff(cells(sa), cells(sb)); diff != "" {
		t.Errorf("tie-break depends on input order:\n%s", diff)
	}
}

func TestDuplicates(t *testing.T) {
	rows := lensRows(t, lensHeader+
		"a,FE 50mm F1.8,Sony,Sony E,50,50,1.8,22,450,\n"+
		"b,fe 50mm f1.8,SONY,Sony E,50,50,1.8,22,450,\n")

	dups := Duplicates(catalog.LensSchema, rows)
	if len(dups) != 1 {
		t.Fatalf("expected 1 duplicate, got %d: %v", len(dups), dups)
	}
	if len(dups[0].Lines) != 2 {
		t.Errorf("expected 2 colliding rows, got %v", dups[0].Lines)
	}
}

func TestDuplicates_ByID(t *testing.T) {
	rows := lensRows(t, lensHeader+
		"same-id,FE 50mm F1.8,Sony,Sony E,50,50,1.8,22,450,\n"+
		"same-id,FE 70-200mm F2.8 GM OSS,Sony,Sony E,70,200,2.8,22,960,\n")

	dups := Duplicates(catalog.LensSchema, rows)
	if len(dups) != 1 {
		t.Fatalf("expected 1 duplicate, got %d: %v", len(dups), dups)
	}
	if !strings.HasPrefix(dups[0].Key, "id:") {
		t.Errorf("expected an ID collision, got %q", dups[0].Key)
	}
}

func TestDuplicates_None(t *testing.T) {
	rows := lensRows(t, lensHeader+
		"a,FE 50mm F1.8,Sony,Sony E,50,50,1.8,22,450,\n"+
		"b,FE 70-200mm F2.8 GM OSS,Sony,Sony E,70,200,2.8,22,960,\n")

	if dups := Duplicates(catalog.LensSchema, rows); len(dups) != 0 {
		t.Errorf("expected no duplicates, got %v", dups)
	}
}
