package model

import (
	"sync"
	"sync/atomic"
)

// ScanError is a single recoverable failure encountered while scanning or
// deleting: the operation keeps going, but the cause is recorded for the
// final report.
type ScanError struct {
	Path string
	Err  error
}

// Progress is a concurrently-updated record shared by every worker in a
// scan or delete run. Counters use atomics so hot-path increments never
// take a lock; the mutex only guards the rarely-touched error list and
// current-path string. Cancelled/Done are loaded/stored with
// acquire/release ordering so a worker observing Cancelled() == true is
// guaranteed to see every write that happened-before the Cancel() call.
type Progress struct {
	filesScanned  atomic.Int64
	bytesScanned  atomic.Int64
	projectsFound atomic.Int64
	itemsDone     atomic.Int64
	bytesFreed    atomic.Int64

	cancelled atomic.Bool
	done      atomic.Bool

	mu          sync.Mutex
	currentPath string
	errs        []ScanError
}

// AddFile records one more scanned file of the given size.
func (p *Progress) AddFile(bytes int64) {
	p.filesScanned.Add(1)
	p.bytesScanned.Add(bytes)
}

// AddProject increments the discovered-project counter.
func (p *Progress) AddProject() {
	p.projectsFound.Add(1)
}

// AddFreed records one completed deletion of the given size.
func (p *Progress) AddFreed(bytes int64) {
	p.itemsDone.Add(1)
	p.bytesFreed.Add(bytes)
}

// SetCurrentPath records the path currently being processed, for a
// "scanning: ..." status line.
func (p *Progress) SetCurrentPath(path string) {
	p.mu.Lock()
	p.currentPath = path
	p.mu.Unlock()
}

// CurrentPath returns the last path recorded via SetCurrentPath.
func (p *Progress) CurrentPath() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentPath
}

// AddError appends a recoverable error to the run's error list.
func (p *Progress) AddError(path string, err error) {
	p.mu.Lock()
	p.errs = append(p.errs, ScanError{Path: path, Err: err})
	p.mu.Unlock()
}

// Errors returns a copy of the accumulated error list.
func (p *Progress) Errors() []ScanError {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ScanError, len(p.errs))
	copy(out, p.errs)
	return out
}

// Cancel marks the run as cancelled. Safe to call from any goroutine,
// including concurrently with workers checking Cancelled().
func (p *Progress) Cancel() {
	p.cancelled.Store(true)
}

// Cancelled reports whether Cancel has been called.
func (p *Progress) Cancelled() bool {
	return p.cancelled.Load()
}

// MarkDone marks the run as finished (completed or cancelled).
func (p *Progress) MarkDone() {
	p.done.Store(true)
}

// Done reports whether MarkDone has been called.
func (p *Progress) Done() bool {
	return p.done.Load()
}

// Snapshot is a point-in-time, non-racy copy of a Progress record's
// counters, suitable for publishing on the pipeline's event bus.
type Snapshot struct {
	FilesScanned  int64
	BytesScanned  int64
	ProjectsFound int64
	ItemsDone     int64
	BytesFreed    int64
	CurrentPath   string
	Cancelled     bool
	Done          bool
}

// Snapshot takes a consistent-enough snapshot of the record for UI
// reporting. Individual fields may be a few nanoseconds stale relative to
// each other; callers needing stronger consistency must not use Progress.
func (p *Progress) Snapshot() Snapshot {
	return Snapshot{
		FilesScanned:  p.filesScanned.Load(),
		BytesScanned:  p.bytesScanned.Load(),
		ProjectsFound: p.projectsFound.Load(),
		ItemsDone:     p.itemsDone.Load(),
		BytesFreed:    p.bytesFreed.Load(),
		CurrentPath:   p.CurrentPath(),
		Cancelled:     p.Cancelled(),
		Done:          p.Done(),
	}
}
