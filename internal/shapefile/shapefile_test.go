package shapefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	shp "github.com/jonas-p/go-shp"
)

// writePointFixture creates a point shapefile with a NAME (str:10) and POP
// (int:9) field and the given attribute values.
func writePointFixture(t *testing.T, path string, names []string) {
	t.Helper()

	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}

	fields := []shp.Field{
		shp.StringField("NAME", 10),
		shp.NumberField("POP", 9),
	}
	w.SetFields(fields)

	for i, name := range names {
		w.Write(&shp.Point{X: float64(i), Y: float64(i)})
		w.WriteAttribute(i, 0, name)
		w.WriteAttribute(i, 1, i*100)
	}
	w.Close()
}

func TestReadSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cities.shp")
	writePointFixture(t, path, []string{"Lima", "Bogota"})

	schema, err := ReadSchema(path)
	if err != nil {
		t.Fatalf("ReadSchema() error = %v", err)
	}

	if schema.GeometryType != "Point" {
		t.Errorf("GeometryType = %q, want %q", schema.GeometryType, "Point")
	}
	if len(schema.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(schema.Fields))
	}
	if schema.Fields[0].Name != "NAME" || schema.Fields[0].DeclaredType != "str:10" {
		t.Errorf("Fields[0] = %+v, want NAME str:10", schema.Fields[0])
	}
	if schema.Fields[1].Name != "POP" || schema.Fields[1].DeclaredType != "int:9" {
		t.Errorf("Fields[1] = %+v, want POP int:9", schema.Fields[1])
	}
}

func TestReadSchema_Missing(t *testing.T) {
	_, err := ReadSchema(filepath.Join(t.TempDir(), "nope.shp"))
	if err == nil {
		t.Fatal("ReadSchema() expected error for missing file")
	}
}

func TestReadSchema_Truncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.shp")
	if err := os.WriteFile(path, []byte("notashp"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadSchema(path)
	if err == nil {
		t.Fatal("ReadSchema() expected error for truncated file")
	}
}

func TestScanDetails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cities.shp")
	writePointFixture(t, path, []string{"Lima", "Cusco", "Arequipa"})

	details, err := ScanDetails(context.Background(), path)
	if err != nil {
		t.Fatalf("ScanDetails() error = %v", err)
	}

	if details.DominantGeometry != "Point" {
		t.Errorf("DominantGeometry = %q, want %q", details.DominantGeometry, "Point")
	}
	if got := details.MaxStringLen["NAME"]; got != len("Arequipa") {
		t.Errorf("MaxStringLen[NAME] = %d, want %d", got, len("Arequipa"))
	}
}

func TestScanDetails_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cities.shp")
	writePointFixture(t, path, []string{"Lima"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ScanDetails(ctx, path); err == nil {
		t.Fatal("ScanDetails() expected error for cancelled context")
	}
}

func TestDeclaredType(t *testing.T) {
	tests := []struct {
		field shp.Field
		want  string
	}{
		{shp.StringField("A", 80), "str:80"},
		{shp.NumberField("B", 9), "int:9"},
		{shp.FloatField("C", 24, 15), "float:24.15"},
		{shp.DateField("D"), "date"},
	}

	for _, tt := range tests {
		if got := declaredType(tt.field); got != tt.want {
			t.Errorf("declaredType(%c) = %q, want %q", tt.field.Fieldtype, got, tt.want)
		}
	}
}

func TestDominant_TieBreaksLexicographically(t *testing.T) {
	got := dominant(map[string]int{"Polygon": 2, "LineString": 2, "Point": 1})
	if got != "LineString" {
		t.Errorf("dominant() = %q, want %q", got, "LineString")
	}
}
