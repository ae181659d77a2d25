// Package analysis provides read-only passes over scanned projects: git
// repository health (loose objects, pack bloat, gc recommendation),
// staleness (last-activity detection), and cross-project duplicate
// dependency estimation.
package analysis

import (
	"path/filepath"

	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/pathutil"
)

// GitHealth summarizes a project's .git directory bloat.
type GitHealth struct {
	ProjectPath      string
	LooseObjectBytes int64
	PackBytes        int64
	RecommendGC      bool
}

// looseObjectFloor is the size above which loose objects are worth a gc
// recommendation; below it, `git gc` isn't worth the CPU time.
const looseObjectFloor = 50 * 1024 * 1024 // 50 MiB

// AnalyzeGitHealth inspects project's .git/objects tree and recommends a
// `git gc` when the loose objects (objects/ minus objects/pack/) have
// grown past looseObjectFloor (scaled by floorScale) -- a classic sign that
// gc hasn't run in a while. The size of the packs is not compared. floorScale of 1.0 applies no adjustment; pass a
// smaller value when free disk is tight so gc gets recommended sooner.
func AnalyzeGitHealth(project model.Project, floorScale float64) *GitHealth {
	if !project.Git.IsRepo {
		return nil
	}

	gitDir := filepath.Join(project.Path, ".git")
	if !pathutil.IsDir(gitDir) {
		return nil
	}

	loose := pathutil.DirSize(filepath.Join(gitDir, "objects"))
	packed := pathutil.DirSize(filepath.Join(gitDir, "objects", "pack"))

	looseOnly := loose.Bytes - packed.Bytes
	if looseOnly < 0 {
		looseOnly = 0
	}

	if floorScale <= 0 {
		floorScale = 1.0
	}
	floor := int64(float64(looseObjectFloor) * floorScale)

	return &GitHealth{
		ProjectPath:      project.Path,
		LooseObjectBytes: looseOnly,
		PackBytes:        packed.Bytes,
		RecommendGC:      looseOnly > floor,
	}
}
