package analysis

import (
	"time"

	"github.com/tinyland-lab/reclaim/model"
)

// StaleProject is a project whose LastActive predates a configured
// threshold, surfaced for user review rather than automatic action --
// staleness alone is never grounds for deletion.
type StaleProject struct {
	Project       model.Project
	Age           time.Duration
	CleanableSize int64
}

// FindStale returns every project in projects whose LastActive is older
// than threshold, sorted by descending cleanable size (the projects most
// worth reviewing first).
func FindStale(projects []model.Project, threshold time.Duration) []StaleProject {
	now := time.Now()
	var out []StaleProject
	for _, p := range projects {
		if p.LastActive.IsZero() {
			continue
		}
		age := now.Sub(p.LastActive)
		if age < threshold {
			continue
		}
		out = append(out, StaleProject{
			Project:       p,
			Age:           age,
			CleanableSize: p.TotalCleanableBytes(),
		})
	}

	for i := 1; i < len(out); i++ {
		j := i
		for j > 0 && out[j-1].CleanableSize < out[j].CleanableSize {
			out[j-1], out[j] = out[j], out[j-1]
			j--
		}
	}
	return out
}
