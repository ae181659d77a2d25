package model

import (
	"path/filepath"
	"time"
)

// Project is a detected ecosystem root: a directory containing one or more
// ProjectMarker hits, resolved to a single winning ProjectKind by priority.
type Project struct {
	Path       string
	Kind       ProjectKind
	Markers    []ProjectMarker
	Git        GitStatus
	LastActive time.Time
	Artifacts  []Artifact
}

// DisplayName returns the project root's basename, the human-facing label
// used in scan output.
func (p Project) DisplayName() string {
	return filepath.Base(p.Path)
}

// TotalBytes sums the Bytes of every artifact regardless of safety class --
// the project's full on-disk footprint, not just what the deleter would
// ever touch. See TotalCleanableBytes for the cleanable-only figure.
func (p Project) TotalBytes() int64 {
	var total int64
	for _, a := range p.Artifacts {
		total += a.Bytes
	}
	return total
}

// TotalCleanableBytes sums the Bytes of every artifact whose effective
// safety class is not SafetyNeverAuto. Used by the scanner's final
// descending sort and by report rendering.
func (p Project) TotalCleanableBytes() int64 {
	var total int64
	for _, a := range p.Artifacts {
		if a.EffectiveSafety() == SafetyNeverAuto {
			continue
		}
		total += a.Bytes
	}
	return total
}

// WinningMarker returns the highest-priority marker attached to the
// project, or the zero ProjectMarker if none are set.
func (p Project) WinningMarker() ProjectMarker {
	var best ProjectMarker
	found := false
	for _, m := range p.Markers {
		if !found || m.Priority > best.Priority {
			best = m
			found = true
		}
	}
	return best
}
