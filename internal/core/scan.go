package core

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// processScan walks the root directory, extracts field records from every
// shapefile, and renders the report. It owns the record list for the whole
// scan; nothing else mutates it.
func (s *Service) processScan(ctx context.Context, scan *activeScan) {
	startTime := time.Now()
	logger := slog.Default().With("scan_id", scan.ID, "root", scan.RootPath)

	defer func() {
		scan.closeListeners()
		close(scan.Done)
		s.limiter.Release()
		s.cleanup(scan.ID, s.cfg.Scan.ResultRetention)
	}()

	// First pass counts every file so the progress bar has a denominator,
	// the same estimate the walk below will consume.
	scan.setProgress(func(p *ScanProgress) {
		p.Phase = PhaseCounting
	})

	totalFiles := countFiles(scan.RootPath)

	scan.setProgress(func(p *ScanProgress) {
		p.TotalFiles = totalFiles
		p.Phase = PhaseScanning
	})

	var records []FieldRecord
	var warnings []string
	processed := 0
	shapefiles := 0
	progressEvery := s.cfg.Scan.ProgressEvery
	if progressEvery <= 0 {
		progressEvery = 10
	}

	walkErr := filepath.WalkDir(scan.RootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries contribute nothing, like any failed file.
			logger.Debug("walk error", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		processed++
		if processed%progressEvery == 0 || processed == totalFiles {
			scan.setProgress(func(p *ScanProgress) {
				p.ProcessedFiles = processed
			})
		}

		if !strings.HasSuffix(strings.ToLower(d.Name()), ".shp") {
			return nil
		}

		shapefiles++
		scan.setProgress(func(p *ScanProgress) {
			p.CurrentFile = d.Name()
			p.Shapefiles = shapefiles
		})

		fileRecords, warning := extractFile(ctx, path)
		if warning != "" {
			logger.Warn("shapefile skipped", "file", d.Name(), "warning", warning)
			warnings = append(warnings, warning)
			return nil
		}
		records = append(records, fileRecords...)
		return nil
	})

	if walkErr != nil {
		phase := PhaseFailed
		if ctx.Err() != nil {
			phase = PhaseCancelled
		}
		scan.setProgress(func(p *ScanProgress) {
			p.ProcessedFiles = processed
			p.Phase = phase
			p.Error = walkErr.Error()
		})
		duration := time.Since(startTime)
		scan.Result = &ScanResult{
			ScanID:         scan.ID,
			RootPath:       scan.RootPath,
			Records:        records,
			Warnings:       warnings,
			Duration:       duration,
			DurationMillis: duration.Milliseconds(),
			Error:          walkErr.Error(),
		}
		logger.Info("scan aborted", "phase", phase, "error", walkErr)
		return
	}

	scan.setProgress(func(p *ScanProgress) {
		p.ProcessedFiles = processed
		p.Phase = PhaseReporting
		p.CurrentFile = ""
	})

	SortRecords(records)

	result := &ScanResult{
		ScanID:   scan.ID,
		RootPath: scan.RootPath,
		Records:  records,
		Warnings: warnings,
		Metrics:  computeMetrics(records),
	}

	// No records means no artifact; the preview alone reports the outcome.
	if len(records) > 0 {
		report, err := BuildWorkbook(records)
		if err != nil {
			logger.Error("report build failed", "error", err)
			result.Error = err.Error()
		} else {
			result.Report = report
		}
	}

	result.Duration = time.Since(startTime)
	result.DurationMillis = result.Duration.Milliseconds()
	scan.Result = result

	scan.setProgress(func(p *ScanProgress) {
		p.Phase = PhaseComplete
	})

	logger.Info("scan complete",
		"files", processed,
		"shapefiles", shapefiles,
		"records", len(records),
		"warnings", len(warnings),
		"duration_ms", result.Duration.Milliseconds(),
	)
}

// countFiles counts all regular files under root. Errors are ignored; the
// count only feeds the progress denominator.
func countFiles(root string) int {
	count := 0
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			count++
		}
		return nil
	})
	return count
}

// computeMetrics derives the preview summary from the final record list.
func computeMetrics(records []FieldRecord) ScanMetrics {
	shapefiles := make(map[string]struct{})
	folders := make(map[string]struct{})
	for _, r := range records {
		shapefiles[r.BaseFolder+"/"+r.ShapefileName] = struct{}{}
		folders[r.BaseFolder] = struct{}{}
	}
	return ScanMetrics{
		FieldRecords:     len(records),
		UniqueShapefiles: len(shapefiles),
		UniqueFolders:    len(folders),
	}
}
