package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tinyland-lab/reclaim/delete"
	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/scanner"
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

// TestRunDiscoversProjectsAndPublishesEvents exercises the full Run path:
// scan -> cleaners (disabled, to avoid touching the real home directory or
// spawning a Docker client in a test) -> analysis, and checks that the
// expected sequence of events lands on a subscribed Bus.
func TestRunDiscoversProjectsAndPublishesEvents(t *testing.T) {
	root := t.TempDir()
	writeBytes(t, filepath.Join(root, "alpha", "package.json"), 10)
	writeBytes(t, filepath.Join(root, "alpha", "node_modules", "pkg", "index.js"), 50000)

	bus := NewBus(32)
	defer bus.Close()

	var mu sync.Mutex
	var seen []EventType
	done := make(chan struct{})
	bus.Subscribe("test", func(e Event) {
		mu.Lock()
		seen = append(seen, e.Type)
		mu.Unlock()
		if e.Type == EventAnalysisComplete {
			close(done)
		}
	})

	p := New(bus, nil)
	cfg := Config{
		Scan: scanner.Config{
			Roots:       []string{root},
			Workers:     2,
			ExcludeDirs: scanner.DefaultExcludeDirs(),
		},
		ProtectionLevel: model.ProtectionWarn,
		StaleThreshold:  90 * 24 * time.Hour,
		RunBinAnalysis:  false,
	}

	report, err := p.Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Projects) != 1 {
		t.Fatalf("len(Projects) = %d, want 1", len(report.Projects))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for EventAnalysisComplete")
	}

	mu.Lock()
	defer mu.Unlock()
	wantFirst := EventScanStart
	if len(seen) == 0 || seen[0] != wantFirst {
		t.Errorf("first published event = %v, want %v", seen, wantFirst)
	}
	hasProjectFound := false
	for _, e := range seen {
		if e == EventProjectFound {
			hasProjectFound = true
		}
	}
	if !hasProjectFound {
		t.Error("expected an EventProjectFound to be published for the discovered project")
	}
}

// TestCleanSkipsBlockedArtifactsAndAppliesDeletion exercises Clean end to
// end: one artifact in a dirty, protected project is skipped, one artifact
// in a clean project is deleted via MethodPermanent.
func TestCleanSkipsBlockedArtifactsAndAppliesDeletion(t *testing.T) {
	dirtyDir := t.TempDir()
	dirtyArtifact := filepath.Join(dirtyDir, "dist")
	writeBytes(t, filepath.Join(dirtyArtifact, "file"), 100)

	cleanDir := t.TempDir()
	cleanArtifact := filepath.Join(cleanDir, "build")
	writeBytes(t, filepath.Join(cleanArtifact, "file"), 200)

	artifacts := []model.Artifact{
		{Path: dirtyArtifact, ProjectPath: dirtyDir, Bytes: 100, Safety: model.SafetyAlwaysSafe},
		{Path: cleanArtifact, ProjectPath: cleanDir, Bytes: 200, Safety: model.SafetyAlwaysSafe},
	}
	gitStatus := map[string]model.GitStatus{
		dirtyDir: {IsRepo: true, Dirty: true, DirtyPaths: []string{"dist/file"}},
		cleanDir: {IsRepo: true},
	}
	lastActive := map[string]time.Time{
		dirtyDir: time.Now(),
		cleanDir: time.Now(),
	}

	bus := NewBus(32)
	defer bus.Close()
	p := New(bus, nil)
	deleter := delete.New(nil, nil)
	progress := &model.Progress{}

	err := p.Clean(context.Background(), deleter, artifacts, gitStatus, lastActive, model.ProtectionBlock, delete.MethodPermanent, progress)
	if err != nil {
		t.Fatal(err)
	}

	if _, statErr := os.Stat(dirtyArtifact); statErr != nil {
		t.Error("blocked artifact must remain on disk")
	}
	if _, statErr := os.Stat(cleanArtifact); !os.IsNotExist(statErr) {
		t.Error("unblocked artifact must be deleted from disk")
	}
	if progress.Snapshot().BytesFreed != 200 {
		t.Errorf("BytesFreed = %d, want 200 (only the unblocked artifact)", progress.Snapshot().BytesFreed)
	}
}

func TestDefaultConfigWiresEveryStage(t *testing.T) {
	cfg := DefaultConfig([]string{"/tmp"})
	if len(cfg.Scan.Roots) != 1 || cfg.Scan.Roots[0] != "/tmp" {
		t.Errorf("Scan.Roots = %v, want [/tmp]", cfg.Scan.Roots)
	}
	if !cfg.RunBinAnalysis {
		t.Error("DefaultConfig should enable binary analysis")
	}
	if cfg.ProtectionLevel != model.ProtectionWarn {
		t.Errorf("ProtectionLevel = %v, want ProtectionWarn", cfg.ProtectionLevel)
	}
}
