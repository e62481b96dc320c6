// Package core provides the business logic for shapefile structure audits.
// This package has no UI dependencies and can be used by any frontend.
package core

import "time"

// PlaceholderFieldName is recorded for shapefiles with no attribute fields.
const PlaceholderFieldName = "(Sin atributos)"

// FieldRecord describes one attribute field of one discovered shapefile.
// Records are never mutated after creation; the report builder works on
// display copies.
type FieldRecord struct {
	BaseFolder    string `json:"baseFolder"`    // directory containing the .shp
	ShapefileName string `json:"shapefileName"` // file name, including extension
	GeometryType  string `json:"geometryType"`  // dominant or nominal geometry
	FieldName     string `json:"fieldName"`
	DataType      string `json:"dataType"` // declared type without length suffix
	Length        int    `json:"length"`   // declared length, or observed fallback
}

// ScanPhase indicates the current stage of a scan job.
type ScanPhase string

const (
	PhaseStarting  ScanPhase = "starting"
	PhaseCounting  ScanPhase = "counting"
	PhaseScanning  ScanPhase = "scanning"
	PhaseReporting ScanPhase = "reporting"
	PhaseComplete  ScanPhase = "complete"
	PhaseFailed    ScanPhase = "failed"
	PhaseCancelled ScanPhase = "cancelled"
)

// ScanProgress represents the current state of a scan job.
type ScanProgress struct {
	ScanID         string    `json:"scanId"`
	Phase          ScanPhase `json:"phase"`
	RootPath       string    `json:"rootPath"`
	CurrentFile    string    `json:"currentFile,omitempty"`
	ProcessedFiles int       `json:"processedFiles"` // all files walked, not just .shp
	TotalFiles     int       `json:"totalFiles"`
	Shapefiles     int       `json:"shapefiles"` // .shp files seen so far
	Error          string    `json:"error,omitempty"`
}

// Percent returns the scan progress as a percentage (0-100).
func (p ScanProgress) Percent() int {
	if p.Phase == PhaseComplete {
		return 100
	}
	if p.TotalFiles > 0 {
		return (p.ProcessedFiles * 100) / p.TotalFiles
	}
	return 0
}

// ScanMetrics summarizes a completed scan for the preview header.
type ScanMetrics struct {
	FieldRecords     int `json:"fieldRecords"`
	UniqueShapefiles int `json:"uniqueShapefiles"`
	UniqueFolders    int `json:"uniqueFolders"`
}

// ScanResult contains the final outcome of a scan job.
type ScanResult struct {
	ScanID   string        `json:"scanId"`
	RootPath string        `json:"rootPath"`
	Records  []FieldRecord `json:"records"` // sorted by (folder, file, field)
	Warnings []string      `json:"warnings"`
	Metrics  ScanMetrics   `json:"metrics"`
	Duration time.Duration `json:"-"`

	// DurationMillis mirrors Duration for JSON clients.
	DurationMillis int64  `json:"durationMs"`
	Error          string `json:"error,omitempty"`

	// Report is the rendered workbook. Nil when the scan found no records.
	Report []byte `json:"-"`
}

// ProgressCallback is called periodically during scan processing.
type ProgressCallback func(ScanProgress)
