package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ramirezmaps/Diccionario-datos/internal/core"
)

// handleIndex serves the single-page UI.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// handleStatus reports service health and scan capacity.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status": "ok",
		"scans":  s.service.LimiterStatus(),
	})
}

// startScanRequest is the body of POST /api/scan.
type startScanRequest struct {
	Path string `json:"path"`
}

// handleStartScan validates the root path and launches an asynchronous scan.
func (s *Server) handleStartScan(w http.ResponseWriter, r *http.Request) {
	var req startScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		s.respondError(w, r, errors.New("path does not exist: (empty)"), http.StatusBadRequest)
		return
	}

	scanID, err := s.service.StartScan(r.Context(), req.Path)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, core.ErrTooManyScans) {
			status = http.StatusTooManyRequests
		}
		s.respondError(w, r, err, status)
		return
	}

	writeJSON(w, map[string]string{"scan_id": scanID})
}

// handleScanProgress streams scan progress via Server-Sent Events.
// Supports resumption via the lastEventId query parameter: the event ID is
// the progress percentage, so a reconnecting client skips events it has
// already rendered.
func (s *Server) handleScanProgress(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")

	lastEventIDStr := r.URL.Query().Get("lastEventId")
	var lastEventID int
	if lastEventIDStr != "" {
		lastEventID, _ = strconv.Atoi(lastEventIDStr)
	}

	progressCh, err := s.service.SubscribeProgress(scanID)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, r, errors.New("streaming not supported"), http.StatusInternalServerError)
		return
	}

	for {
		select {
		case progress, ok := <-progressCh:
			if !ok {
				// Channel closed: scan finished one way or another
				fmt.Fprintf(w, "event: complete\ndata: {}\n\n")
				flusher.Flush()
				return
			}

			currentPercent := progress.Percent()
			if lastEventIDStr != "" && currentPercent <= lastEventID {
				continue
			}

			data, _ := json.Marshal(progress)
			fmt.Fprintf(w, "id: %d\nevent: progress\ndata: %s\n\n", currentPercent, data)
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// resultStatus picks the HTTP status for a failed Result call: a request
// context that expired while waiting is not a missing scan.
func resultStatus(err error) int {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusNotFound
}

// handleScanResult returns the final result of a scan, blocking until the
// scan completes or the request gives up.
func (s *Server) handleScanResult(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")

	result, err := s.service.Result(r.Context(), scanID)
	if err != nil {
		s.respondError(w, r, err, resultStatus(err))
		return
	}

	writeJSON(w, result)
}

// handleDownloadReport serves the rendered workbook as a file download.
func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")

	result, err := s.service.Result(r.Context(), scanID)
	if err != nil {
		s.respondError(w, r, err, resultStatus(err))
		return
	}
	if result.Report == nil {
		s.respondError(w, r, errors.New("report unavailable: scan produced no records"), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", core.ReportContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, core.ReportFileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Report)))
	w.Write(result.Report)
}

// handleExportCSV serves the report rows as CSV, for clients that want the
// data without workbook styling.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")

	result, err := s.service.Result(r.Context(), scanID)
	if err != nil {
		s.respondError(w, r, err, resultStatus(err))
		return
	}
	if len(result.Records) == 0 {
		s.respondError(w, r, errors.New("report unavailable: scan produced no records"), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="Reporte_Shapefiles.csv"`)
	core.WriteCSV(w, result.Records)
}

// handleCancelScan cancels an in-progress scan.
func (s *Server) handleCancelScan(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")

	if err := s.service.CancelScan(scanID); err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"cancelled"}`))
}
