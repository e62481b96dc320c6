package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ReportFileName is the fixed download name for the workbook artifact.
const ReportFileName = "Reporte_Shapefiles.xlsx"

// ReportContentType is the MIME type of the workbook artifact.
const ReportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reportSheet is the single sheet every report carries.
const reportSheet = "Campos"

// reportColumnWidth is the fixed width applied to every report column.
const reportColumnWidth = 25.0

// reportHeader lists the report columns in output order.
var reportHeader = []string{
	"Carpeta Base",
	"Nombre Shapefile",
	"Tipo de Geometría",
	"Nombre Campo",
	"Tipo de Dato",
	"Longitud",
}

// groupFillColor highlights the first row of each folder group.
const groupFillColor = "FFD966"

// SortRecords orders records by (folder, filename, field name). The sort is
// stable so records that compare equal keep their traversal order.
func SortRecords(records []FieldRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.BaseFolder != b.BaseFolder {
			return a.BaseFolder < b.BaseFolder
		}
		if a.ShapefileName != b.ShapefileName {
			return a.ShapefileName < b.ShapefileName
		}
		return a.FieldName < b.FieldName
	})
}

// DisplayRow is one row of the rendered report. Folder and File are blanked
// on consecutive duplicates to simulate merged-cell grouping.
type DisplayRow struct {
	Folder   string
	File     string
	Geometry string
	Field    string
	Type     string
	Length   int
}

// DisplayRows builds the display copy of a sorted record list.
//
// A folder cell is blank when it repeats the previous row's folder; a file
// cell is blank only when both folder and file repeat, so a filename that
// reappears under a different folder starts its own visual group.
func DisplayRows(records []FieldRecord) []DisplayRow {
	rows := make([]DisplayRow, 0, len(records))
	for i, r := range records {
		row := DisplayRow{
			Folder:   r.BaseFolder,
			File:     r.ShapefileName,
			Geometry: r.GeometryType,
			Field:    r.FieldName,
			Type:     r.DataType,
			Length:   r.Length,
		}
		if i > 0 {
			prev := records[i-1]
			if r.BaseFolder == prev.BaseFolder {
				row.Folder = ""
				if r.ShapefileName == prev.ShapefileName {
					row.File = ""
				}
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// BuildWorkbook renders sorted records into the styled report workbook and
// returns the serialized file.
func BuildWorkbook(records []FieldRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetColWidth(reportSheet, "A", "F", reportColumnWidth); err != nil {
		return nil, fmt.Errorf("set column widths: %w", err)
	}

	header := make([]interface{}, len(reportHeader))
	for i, h := range reportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(reportSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	rows := DisplayRows(records)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{row.Folder, row.File, row.Geometry, row.Field, row.Type, row.Length}
		if err := f.SetSheetRow(reportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := highlightGroupStarts(f, rows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// highlightGroupStarts applies bold text and a solid fill to the first row
// of each folder group. After blanking, a non-empty folder cell is exactly
// the start of a group.
func highlightGroupStarts(f *excelize.File, rows []DisplayRow) error {
	styleID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "000000"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{groupFillColor}},
	})
	if err != nil {
		return fmt.Errorf("create group style: %w", err)
	}

	for i, row := range rows {
		if row.Folder == "" {
			continue
		}
		excelRow := i + 2 // row 1 is the header
		start, err := excelize.CoordinatesToCellName(1, excelRow)
		if err != nil {
			return err
		}
		end, err := excelize.CoordinatesToCellName(len(reportHeader), excelRow)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(reportSheet, start, end, styleID); err != nil {
			return fmt.Errorf("style row %d: %w", excelRow, err)
		}
	}
	return nil
}

// WriteCSV writes the display rows as CSV, for clients that want the report
// without the workbook styling.
func WriteCSV(w io.Writer, records []FieldRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(reportHeader); err != nil {
		return err
	}
	for _, row := range DisplayRows(records) {
		record := []string{
			row.Folder,
			row.File,
			row.Geometry,
			row.Field,
			row.Type,
			strconv.Itoa(row.Length),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
