package analysis

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tinyland-lab/reclaim/model"
)

func writeBytes(t *testing.T, path string, n int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, n), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestAnalyzeGitHealthNonRepoReturnsNil(t *testing.T) {
	p := model.Project{Path: t.TempDir(), Git: model.GitStatus{IsRepo: false}}
	if got := AnalyzeGitHealth(p, 1.0); got != nil {
		t.Errorf("AnalyzeGitHealth(non-repo) = %+v, want nil", got)
	}
}

func TestAnalyzeGitHealthMissingGitDirReturnsNil(t *testing.T) {
	p := model.Project{Path: t.TempDir(), Git: model.GitStatus{IsRepo: true}}
	if got := AnalyzeGitHealth(p, 1.0); got != nil {
		t.Errorf("AnalyzeGitHealth(missing .git dir) = %+v, want nil", got)
	}
}

func TestAnalyzeGitHealthRecommendsGCPastFloor(t *testing.T) {
	root := t.TempDir()
	writeBytes(t, filepath.Join(root, ".git", "objects", "ab", "loose1"), 60*1024*1024)
	p := model.Project{Path: root, Git: model.GitStatus{IsRepo: true}}

	h := AnalyzeGitHealth(p, 1.0)
	if h == nil {
		t.Fatal("expected a non-nil GitHealth")
	}
	if !h.RecommendGC {
		t.Error("expected RecommendGC = true when loose objects exceed the floor")
	}
}

func TestAnalyzeGitHealthNoRecommendationBelowFloor(t *testing.T) {
	root := t.TempDir()
	writeBytes(t, filepath.Join(root, ".git", "objects", "ab", "loose1"), 1024)
	p := model.Project{Path: root, Git: model.GitStatus{IsRepo: true}}

	h := AnalyzeGitHealth(p, 1.0)
	if h == nil {
		t.Fatal("expected a non-nil GitHealth")
	}
	if h.RecommendGC {
		t.Error("expected RecommendGC = false for a small loose-object tree")
	}
}

func TestAnalyzeGitHealthFloorScaleLowersThreshold(t *testing.T) {
	root := t.TempDir()
	writeBytes(t, filepath.Join(root, ".git", "objects", "ab", "loose1"), 2*1024*1024)
	p := model.Project{Path: root, Git: model.GitStatus{IsRepo: true}}

	// At full scale, 2 MiB is well under the 50 MiB floor.
	if h := AnalyzeGitHealth(p, 1.0); h.RecommendGC {
		t.Error("2 MiB of loose objects should not trip the full-scale floor")
	}
	// Scaling the floor down to 1% (512 KiB) should trip it.
	if h := AnalyzeGitHealth(p, 0.01); !h.RecommendGC {
		t.Error("a scaled-down floor should be tripped by the same loose-object tree")
	}
}

func TestFindStaleFiltersByThresholdAndSortsBySize(t *testing.T) {
	now := time.Now()
	projects := []model.Project{
		{Path: "/fresh", LastActive: now.Add(-1 * time.Hour)},
		{Path: "/stale-small", LastActive: now.Add(-100 * 24 * time.Hour), Artifacts: []model.Artifact{{Bytes: 100, Safety: model.SafetyAlwaysSafe}}},
		{Path: "/stale-large", LastActive: now.Add(-200 * 24 * time.Hour), Artifacts: []model.Artifact{{Bytes: 10000, Safety: model.SafetyAlwaysSafe}}},
		{Path: "/never-active"}, // zero LastActive, must be excluded
	}
	stale := FindStale(projects, 30*24*time.Hour)
	if len(stale) != 2 {
		t.Fatalf("len(stale) = %d, want 2", len(stale))
	}
	if stale[0].Project.Path != "/stale-large" {
		t.Errorf("stale[0].Project.Path = %q, want /stale-large (largest cleanable size first)", stale[0].Project.Path)
	}
}

func TestFindStaleEmptyWhenNothingOld(t *testing.T) {
	now := time.Now()
	projects := []model.Project{{Path: "/fresh", LastActive: now}}
	if stale := FindStale(projects, 30*24*time.Hour); len(stale) != 0 {
		t.Errorf("len(stale) = %d, want 0", len(stale))
	}
}

func TestAnalyzeDuplicateDependenciesRequiresMultipleProjects(t *testing.T) {
	projects := []model.Project{
		{Path: "/a", Artifacts: []model.Artifact{{Kind: model.ArtifactDependencies, Bytes: 1000}}},
	}
	dups := AnalyzeDuplicateDependencies(projects)
	if len(dups) != 0 {
		t.Errorf("len(dups) = %d, want 0 (only one project carries the kind)", len(dups))
	}
}

func TestAnalyzeDuplicateDependenciesEstimatesAcrossProjects(t *testing.T) {
	projects := []model.Project{
		{Path: "/a", Artifacts: []model.Artifact{{Kind: model.ArtifactDependencies, Bytes: 1000}}},
		{Path: "/b", Artifacts: []model.Artifact{{Kind: model.ArtifactDependencies, Bytes: 2000}}},
	}
	dups := AnalyzeDuplicateDependencies(projects)
	if len(dups) != 1 {
		t.Fatalf("len(dups) = %d, want 1", len(dups))
	}
	d := dups[0]
	if d.ProjectCount != 2 {
		t.Errorf("ProjectCount = %d, want 2", d.ProjectCount)
	}
	if d.TotalBytes != 3000 {
		t.Errorf("TotalBytes = %d, want 3000", d.TotalBytes)
	}
	wantSavings := int64(3000 * 0.25)
	if d.EstimatedSavings != wantSavings {
		t.Errorf("EstimatedSavings = %d, want %d", d.EstimatedSavings, wantSavings)
	}
}

func TestAnalyzeDuplicateDependenciesCountsProjectOnceEachKind(t *testing.T) {
	// A project carrying two node_modules artifacts (e.g. a monorepo) must
	// still count as one project toward ProjectCount.
	projects := []model.Project{
		{Path: "/a", Artifacts: []model.Artifact{
			{Kind: model.ArtifactDependencies, Bytes: 500},
			{Kind: model.ArtifactDependencies, Bytes: 500},
		}},
		{Path: "/b", Artifacts: []model.Artifact{{Kind: model.ArtifactDependencies, Bytes: 1000}}},
	}
	dups := AnalyzeDuplicateDependencies(projects)
	if len(dups) != 1 {
		t.Fatalf("len(dups) = %d, want 1", len(dups))
	}
	if dups[0].ProjectCount != 2 {
		t.Errorf("ProjectCount = %d, want 2 (each project counted once regardless of artifact count)", dups[0].ProjectCount)
	}
	if dups[0].TotalBytes != 2000 {
		t.Errorf("TotalBytes = %d, want 2000", dups[0].TotalBytes)
	}
}
