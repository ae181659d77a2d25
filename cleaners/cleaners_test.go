package cleaners

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

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

func TestHomeCachesFindsPopulatedCache(t *testing.T) {
	home := t.TempDir()
	writeBytes(t, filepath.Join(home, ".cache", "pip", "wheel.whl"), 1000)

	items := HomeCaches(home)
	var found *model.CleanableItem
	for i := range items {
		if items[i].Subcategory == "pip-cache" {
			found = &items[i]
		}
	}
	if found == nil {
		t.Fatal("expected a pip-cache item")
	}
	if found.Bytes != 1000 {
		t.Errorf("Bytes = %d, want 1000", found.Bytes)
	}
	if found.SuggestedCmd != "pip install" {
		t.Errorf("SuggestedCmd = %q, want %q", found.SuggestedCmd, "pip install")
	}
}

func TestHomeCachesSkipsEmptyDir(t *testing.T) {
	home := t.TempDir()
	if err := os.MkdirAll(filepath.Join(home, ".cache", "pip"), 0o755); err != nil {
		t.Fatal(err)
	}
	items := HomeCaches(home)
	for _, item := range items {
		if item.Subcategory == "pip-cache" {
			t.Error("expected an empty pip cache directory to be skipped")
		}
	}
}

func TestHomeCachesSkipsAbsentDirs(t *testing.T) {
	home := t.TempDir()
	items := HomeCaches(home)
	if len(items) != 0 {
		t.Errorf("len(items) = %d, want 0 for an empty home directory", len(items))
	}
}

func TestIDEArtifactsFiltersByPlatform(t *testing.T) {
	home := t.TempDir()
	// This path is darwin-only; populate it regardless of the test host's
	// platform to exercise the filter in both directions.
	writeBytes(t, filepath.Join(home, "Library", "Caches", "JetBrains", "cache.bin"), 500)

	items := IDEArtifacts(home)
	foundDarwinOnly := false
	for _, item := range items {
		if item.Name == "jetbrains-cache" && item.Path == filepath.Join(home, "Library", "Caches", "JetBrains") {
			foundDarwinOnly = true
		}
	}
	if runtime.GOOS == "darwin" && !foundDarwinOnly {
		t.Error("expected the darwin JetBrains cache to be reported on darwin")
	}
	if runtime.GOOS != "darwin" && foundDarwinOnly {
		t.Error("expected the darwin-only JetBrains cache to be filtered out on a non-darwin host")
	}
}

func TestIDEArtifactsFindsPlatformAgnosticCache(t *testing.T) {
	home := t.TempDir()
	writeBytes(t, filepath.Join(home, ".vscode-server", "data", "logs", "log.txt"), 200)

	items := IDEArtifacts(home)
	found := false
	for _, item := range items {
		if item.Name == "vscode-server-logs" {
			found = true
		}
	}
	if !found {
		t.Error("expected the platform-agnostic vscode-server-logs cache to be reported")
	}
}

func TestDefaultConfigEnablesEveryCleaner(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.HomeCaches || !cfg.IDE || !cfg.Docker || !cfg.GoBuildCache || !cfg.VMDisks || !cfg.Ollama || !cfg.Runtimes || !cfg.OrphanedContainers {
		t.Errorf("DefaultConfig() = %+v, want every cleaner enabled", cfg)
	}
}
