package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ramirezmaps/Diccionario-datos/internal/config"
)

// ErrPathNotFound is returned when the requested root path does not exist.
var ErrPathNotFound = errors.New("path does not exist")

// ErrNotADirectory is returned when the requested root path is a file.
var ErrNotADirectory = errors.New("path is not a directory")

// ErrScanNotFound is returned for unknown or already evicted scan IDs.
var ErrScanNotFound = errors.New("scan not found")

// Service runs shapefile audit scans and tracks their progress.
type Service struct {
	cfg     *config.Config
	limiter *ScanLimiter

	mu    sync.RWMutex
	scans map[string]*activeScan
}

type activeScan struct {
	ID       string
	RootPath string
	Cancel   context.CancelFunc
	Result   *ScanResult
	Done     chan struct{}

	// ListenerMu guards Progress and Listeners. The scan goroutine writes
	// Progress while HTTP handlers read it, so every access goes through
	// setProgress/snapshotProgress.
	ListenerMu sync.Mutex
	Progress   ScanProgress
	Listeners  []chan ScanProgress

	// listenersClosed is set once closeListeners has run, so late
	// subscribers get a closed channel instead of one nobody will close.
	listenersClosed bool
}

// NewService creates a new Service instance.
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:     cfg,
		limiter: NewScanLimiter(cfg.Scan.MaxConcurrent, cfg.Scan.MaxWaitTime),
		scans:   make(map[string]*activeScan),
	}
}

// StartScan validates rootPath and begins an asynchronous scan.
// Returns the scan ID immediately. Use SubscribeProgress for updates and
// Result to wait for completion.
//
// An invalid root path is the only user-facing failure and is rejected
// here, before any job exists.
func (s *Service) StartScan(ctx context.Context, rootPath string) (string, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrPathNotFound, rootPath)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotADirectory, rootPath)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return "", err
	}

	scanID := uuid.New().String()
	scanCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Scan.Timeout)

	scan := &activeScan{
		ID:       scanID,
		RootPath: rootPath,
		Cancel:   cancel,
		Progress: ScanProgress{
			ScanID:   scanID,
			Phase:    PhaseStarting,
			RootPath: rootPath,
		},
		Done:      make(chan struct{}),
		Listeners: make([]chan ScanProgress, 0),
	}

	s.mu.Lock()
	s.scans[scanID] = scan
	s.mu.Unlock()

	go s.processScan(scanCtx, scan)

	return scanID, nil
}

// SubscribeProgress returns a channel that receives progress updates.
// The channel is closed when the scan completes.
func (s *Service) SubscribeProgress(scanID string) (<-chan ScanProgress, error) {
	scan, err := s.get(scanID)
	if err != nil {
		return nil, err
	}

	ch := make(chan ScanProgress, 10)

	scan.ListenerMu.Lock()
	// Send current progress immediately
	select {
	case ch <- scan.Progress:
	default:
	}
	if scan.listenersClosed {
		close(ch)
	} else {
		scan.Listeners = append(scan.Listeners, ch)
	}
	scan.ListenerMu.Unlock()

	return ch, nil
}

// Progress returns the current progress without blocking.
func (s *Service) Progress(scanID string) (ScanProgress, error) {
	scan, err := s.get(scanID)
	if err != nil {
		return ScanProgress{}, err
	}
	return scan.snapshotProgress(), nil
}

// Result returns the result of a completed scan, blocking until the scan
// completes or ctx is done.
func (s *Service) Result(ctx context.Context, scanID string) (*ScanResult, error) {
	scan, err := s.get(scanID)
	if err != nil {
		return nil, err
	}

	select {
	case <-scan.Done:
		return scan.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// CancelScan cancels an in-progress scan.
func (s *Service) CancelScan(scanID string) error {
	scan, err := s.get(scanID)
	if err != nil {
		return err
	}

	scan.Cancel()
	return nil
}

// LimiterStatus reports the scan limiter state for monitoring.
func (s *Service) LimiterStatus() ScanLimiterStatus {
	return s.limiter.Status()
}

// WaitForScans blocks until all active scans complete or ctx expires.
// Used during graceful shutdown.
func (s *Service) WaitForScans(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

func (s *Service) get(scanID string) (*activeScan, error) {
	s.mu.RLock()
	scan, ok := s.scans[scanID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrScanNotFound, scanID)
	}
	return scan, nil
}

// setProgress mutates the progress snapshot and fans the new value out to
// all listeners.
func (scan *activeScan) setProgress(mutate func(p *ScanProgress)) {
	scan.ListenerMu.Lock()
	defer scan.ListenerMu.Unlock()

	mutate(&scan.Progress)

	for _, ch := range scan.Listeners {
		select {
		case ch <- scan.Progress:
		default:
			// Listener is slow, skip this update
		}
	}
}

// snapshotProgress returns a copy of the current progress.
func (scan *activeScan) snapshotProgress() ScanProgress {
	scan.ListenerMu.Lock()
	defer scan.ListenerMu.Unlock()
	return scan.Progress
}

// closeListeners closes all listener channels.
func (scan *activeScan) closeListeners() {
	scan.ListenerMu.Lock()
	defer scan.ListenerMu.Unlock()

	for _, ch := range scan.Listeners {
		close(ch)
	}
	scan.Listeners = nil
	scan.listenersClosed = true
}

// cleanup evicts the scan from tracking after a retention delay, so clients
// have time to fetch the result and report.
func (s *Service) cleanup(scanID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.scans, scanID)
		s.mu.Unlock()
	})
}
