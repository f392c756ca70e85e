package services

import (
	"context"
	"log"
	"time"

	"github.com/Whypen/Pet-Huddle-sub002/repository"
)

// ScanLogSweeper periodically deletes scan-log rows too old to influence any
// rate decision. The limiter itself only filters by time; without the sweep
// the append-only log grows forever.
type ScanLogSweeper struct {
	scans    repository.ScanRepository
	window   time.Duration
	interval time.Duration
}

// NewScanLogSweeper creates a sweeper retaining entries inside window and
// running every interval.
func NewScanLogSweeper(scans repository.ScanRepository, window, interval time.Duration) *ScanLogSweeper {
	return &ScanLogSweeper{scans: scans, window: window, interval: interval}
}

// Run sweeps on a ticker until ctx is cancelled. Call it in its own
// goroutine from main.
func (s *ScanLogSweeper) Run(ctx context.Context) {
	log.Printf("INFO: [ScanLogSweeper] Starting (window %s, interval %s).", s.window, s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("INFO: [ScanLogSweeper] Stopping.")
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep performs one pruning pass.
func (s *ScanLogSweeper) Sweep() {
	cutoff := time.Now().UTC().Add(-s.window)
	pruned, err := s.scans.PruneBefore(cutoff)
	if err != nil {
		log.Printf("ERROR: [ScanLogSweeper] Prune failed: %v", err)
		return
	}
	if pruned > 0 {
		log.Printf("INFO: [ScanLogSweeper] Pruned %d scan log entries older than %s.", pruned, cutoff)
	}
}
