package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/matzehuels/depinventory/pkg/observability"
)

// scanSummary aggregates walk and cache events for one scan.
type scanSummary struct {
	Files     int
	Entries   int
	Failures  int
	CacheHits int
	Duration  time.Duration
}

// scanStats implements the observability hooks for the scan command and
// optionally mirrors progress onto a spinner.
type scanStats struct {
	observability.NoopCacheHooks

	mu      sync.Mutex
	summary scanSummary
	spinner *Spinner
}

var (
	_ observability.WalkHooks  = (*scanStats)(nil)
	_ observability.CacheHooks = (*scanStats)(nil)
)

// install registers s as the global walk and cache hooks and returns a
// function restoring the defaults.
func (s *scanStats) install() func() {
	observability.SetWalkHooks(s)
	observability.SetCacheHooks(s)
	return observability.Reset
}

func (s *scanStats) OnWalkStart(context.Context, string) {}

func (s *scanStats) OnFileParsed(_ context.Context, path, _ string, entries int, _ time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.Files++
	if err != nil {
		s.summary.Failures++
		return
	}
	if s.spinner != nil {
		s.spinner.SetMessage(fmt.Sprintf("Scanning %s (%d manifests)", path, s.summary.Files))
	}
}

func (s *scanStats) OnWalkComplete(_ context.Context, _ string, _, entries int, d time.Duration, _ error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.Entries = entries
	s.summary.Duration = d
}

func (s *scanStats) OnCacheHit(context.Context, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.CacheHits++
}

// Summary returns a snapshot of the counters.
func (s *scanStats) Summary() scanSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}
