package core

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func sampleRecords() []FieldRecord {
	return []FieldRecord{
		{BaseFolder: "b", ShapefileName: "rivers.shp", GeometryType: "LineString", FieldName: "name", DataType: "str", Length: 50},
		{BaseFolder: "a", ShapefileName: "cities.shp", GeometryType: "Point", FieldName: "pop", DataType: "int", Length: 9},
		{BaseFolder: "a", ShapefileName: "cities.shp", GeometryType: "Point", FieldName: "name", DataType: "str", Length: 10},
		{BaseFolder: "a", ShapefileName: "zones.shp", GeometryType: "Polygon", FieldName: "id", DataType: "int", Length: 5},
	}
}

func TestSortRecords(t *testing.T) {
	records := sampleRecords()
	SortRecords(records)

	want := []struct{ folder, file, field string }{
		{"a", "cities.shp", "name"},
		{"a", "cities.shp", "pop"},
		{"a", "zones.shp", "id"},
		{"b", "rivers.shp", "name"},
	}
	for i, w := range want {
		r := records[i]
		if r.BaseFolder != w.folder || r.ShapefileName != w.file || r.FieldName != w.field {
			t.Errorf("records[%d] = (%s, %s, %s), want (%s, %s, %s)",
				i, r.BaseFolder, r.ShapefileName, r.FieldName, w.folder, w.file, w.field)
		}
	}
}

func TestDisplayRows_BlanksConsecutiveDuplicates(t *testing.T) {
	records := sampleRecords()
	SortRecords(records)

	rows := DisplayRows(records)
	if len(rows) != 4 {
		t.Fatalf("len(rows) = %d, want 4", len(rows))
	}

	// Row 0 starts the "a" group: both cells visible.
	if rows[0].Folder != "a" || rows[0].File != "cities.shp" {
		t.Errorf("rows[0] = %+v, want visible folder and file", rows[0])
	}
	// Row 1 repeats folder and file: both blank.
	if rows[1].Folder != "" || rows[1].File != "" {
		t.Errorf("rows[1] = %+v, want blank folder and file", rows[1])
	}
	// Row 2 repeats folder but changes file: folder blank, file visible.
	if rows[2].Folder != "" || rows[2].File != "zones.shp" {
		t.Errorf("rows[2] = %+v, want blank folder, visible file", rows[2])
	}
	// Row 3 starts the "b" group.
	if rows[3].Folder != "b" || rows[3].File != "rivers.shp" {
		t.Errorf("rows[3] = %+v, want visible folder and file", rows[3])
	}
}

func TestDisplayRows_SameFileNameAcrossFolders(t *testing.T) {
	records := []FieldRecord{
		{BaseFolder: "a", ShapefileName: "parcels.shp", FieldName: "id"},
		{BaseFolder: "b", ShapefileName: "parcels.shp", FieldName: "id"},
	}

	rows := DisplayRows(records)
	// The filename repeats but the folder changed, so the file cell stays
	// visible to start its own group.
	if rows[1].Folder != "b" || rows[1].File != "parcels.shp" {
		t.Errorf("rows[1] = %+v, want visible folder and file", rows[1])
	}
}

func TestBuildWorkbook(t *testing.T) {
	records := sampleRecords()
	SortRecords(records)

	data, err := BuildWorkbook(records)
	if err != nil {
		t.Fatalf("BuildWorkbook() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Campos" {
		t.Fatalf("sheets = %v, want [Campos]", sheets)
	}

	rows, err := f.GetRows("Campos")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("len(rows) = %d, want 5 (header + 4 records)", len(rows))
	}

	if rows[0][0] != "Carpeta Base" || rows[0][5] != "Longitud" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "a" || rows[1][3] != "name" {
		t.Errorf("first data row = %v", rows[1])
	}
	// Second cities.shp row has blanked folder and file cells.
	if len(rows[2]) > 0 && rows[2][0] != "" {
		t.Errorf("rows[2][0] = %q, want blank", rows[2][0])
	}

	width, err := f.GetColWidth("Campos", "C")
	if err != nil {
		t.Fatalf("GetColWidth() error = %v", err)
	}
	if width != reportColumnWidth {
		t.Errorf("column width = %v, want %v", width, reportColumnWidth)
	}

	// Group-start rows (2: folder "a", 5: folder "b") carry the bold +
	// fill style; continuation rows do not.
	startStyle := cellStyle(t, f, "A2")
	if startStyle.Font == nil || !startStyle.Font.Bold {
		t.Error("group-start row A2 is not bold")
	}
	if startStyle.Fill.Type != "pattern" || !fillHasColor(startStyle.Fill, groupFillColor) {
		t.Errorf("group-start fill = %+v, want pattern %s", startStyle.Fill, groupFillColor)
	}

	otherStart := cellStyle(t, f, "A5")
	if otherStart.Font == nil || !otherStart.Font.Bold {
		t.Error("group-start row A5 is not bold")
	}

	contStyle := cellStyle(t, f, "A3")
	if contStyle.Font != nil && contStyle.Font.Bold {
		t.Error("continuation row A3 is bold")
	}
	if fillHasColor(contStyle.Fill, groupFillColor) {
		t.Error("continuation row A3 carries the group fill")
	}
}

// cellStyle resolves the full style definition applied to a cell.
func cellStyle(t *testing.T, f *excelize.File, cell string) *excelize.Style {
	t.Helper()

	styleID, err := f.GetCellStyle("Campos", cell)
	if err != nil {
		t.Fatalf("GetCellStyle(%s) error = %v", cell, err)
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		t.Fatalf("GetStyle(%d) error = %v", styleID, err)
	}
	return style
}

// fillHasColor reports whether the fill uses the given RGB color, tolerating
// an alpha prefix on the stored value.
func fillHasColor(fill excelize.Fill, color string) bool {
	for _, c := range fill.Color {
		if strings.Contains(strings.ToUpper(c), strings.ToUpper(color)) {
			return true
		}
	}
	return false
}

func TestWriteCSV(t *testing.T) {
	records := sampleRecords()
	SortRecords(records)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("csv parse error = %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("len(rows) = %d, want 5", len(rows))
	}
	if rows[0][2] != "Tipo de Geometría" {
		t.Errorf("header geometry column = %q", rows[0][2])
	}
	if rows[3][0] != "" || rows[3][1] != "zones.shp" {
		t.Errorf("rows[3] = %v, want blank folder with visible file", rows[3])
	}
	if rows[4][5] != "50" {
		t.Errorf("rows[4][5] = %q, want %q", rows[4][5], "50")
	}
}
