package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tinyland-lab/reclaim/ecosystems"
	"github.com/tinyland-lab/reclaim/registry"
)

func newTestScanner() *Scanner {
	reg := registry.New()
	ecosystems.RegisterAll(reg)
	return New(reg, nil)
}

func writeFile(t *testing.T, path string, n int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, n), 0o644); err != nil {
		t.Fatal(err)
	}
}

func makeNPMProject(t *testing.T, dir string) {
	writeFile(t, filepath.Join(dir, "package.json"), 10)
	writeFile(t, filepath.Join(dir, "node_modules", "pkg", "index.js"), 100000)
}

func makeRustProject(t *testing.T, dir string) {
	writeFile(t, filepath.Join(dir, "Cargo.toml"), 10)
	writeFile(t, filepath.Join(dir, "target", "debug", "bin"), 200000)
}

// TestScanTwoProjectsScenario matches spec.md §8 scenario 3: a root
// containing two sibling project directories should be discovered as two
// projects, sorted descending by cleanable size.
func TestScanTwoProjectsScenario(t *testing.T) {
	root := t.TempDir()
	makeNPMProject(t, filepath.Join(root, "alpha"))
	makeRustProject(t, filepath.Join(root, "beta"))

	s := newTestScanner()
	res, err := s.Scan(context.Background(), Config{Roots: []string{root}})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Projects) != 2 {
		t.Fatalf("len(Projects) = %d, want 2", len(res.Projects))
	}
	// beta's target (200000 bytes) must sort ahead of alpha's node_modules (100000 bytes).
	if res.Projects[0].TotalCleanableBytes() < res.Projects[1].TotalCleanableBytes() {
		t.Error("projects must be sorted by descending cleanable size")
	}
}

// TestScanRootItselfIsProject is a regression test: a scan root that is
// itself a project (no intervening container directory) must still be
// discovered, since subtreesFor only ever enumerates a root's children.
func TestScanRootItselfIsProject(t *testing.T) {
	root := t.TempDir()
	makeNPMProject(t, root)
	// Give the root a sibling-less extra dir so subtreesFor doesn't fall
	// back to treating root itself as the sole subtree.
	if err := os.Mkdir(filepath.Join(root, "docs"), 0o755); err != nil {
		t.Fatal(err)
	}

	s := newTestScanner()
	res, err := s.Scan(context.Background(), Config{Roots: []string{root}})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Projects) != 1 {
		t.Fatalf("len(Projects) = %d, want 1 (the root itself)", len(res.Projects))
	}
	if res.Projects[0].Path != root {
		t.Errorf("Projects[0].Path = %q, want %q", res.Projects[0].Path, root)
	}
}

// TestScanDoesNotDescendIntoRootLevelArtifactDir is a regression test for
// the path != root vs path != dir pruning bug: a root-level node_modules
// directory must never be scanned for nested "projects" inside it.
func TestScanDoesNotDescendIntoRootLevelArtifactDir(t *testing.T) {
	root := t.TempDir()
	// A node_modules dir sitting directly under root, itself containing
	// something that looks like an npm project -- this must be pruned
	// entirely, not explored for a nested project.
	nested := filepath.Join(root, "node_modules", "some-pkg")
	writeFile(t, filepath.Join(nested, "package.json"), 10)
	writeFile(t, filepath.Join(nested, "node_modules", "dep", "index.js"), 500)

	s := newTestScanner()
	res, err := s.Scan(context.Background(), Config{Roots: []string{root}})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Projects) != 0 {
		t.Errorf("len(Projects) = %d, want 0 (root-level node_modules must be pruned, not explored)", len(res.Projects))
	}
}

func TestScanValidateEmptyRoots(t *testing.T) {
	s := newTestScanner()
	_, err := s.Scan(context.Background(), Config{})
	if err == nil {
		t.Fatal("expected an error for an empty Roots list")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Errorf("error type = %T, want *ConfigError", err)
	}
}

func TestScanValidateMissingRoot(t *testing.T) {
	s := newTestScanner()
	_, err := s.Scan(context.Background(), Config{Roots: []string{"/no/such/path/reclaim-test"}})
	if err == nil {
		t.Fatal("expected an error for a missing root")
	}
}

func TestScanValidateRootNotDirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "notadir")
	writeFile(t, file, 10)

	s := newTestScanner()
	_, err := s.Scan(context.Background(), Config{Roots: []string{file}})
	if err == nil {
		t.Fatal("expected an error when a root is a regular file")
	}
}

func TestScanMinArtifactSizeFiltersSmallProjects(t *testing.T) {
	root := t.TempDir()
	makeNPMProject(t, filepath.Join(root, "alpha")) // node_modules ~100000 bytes

	s := newTestScanner()
	res, err := s.Scan(context.Background(), Config{
		Roots:           []string{root},
		MinArtifactSize: 10_000_000, // larger than the artifact produced
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Projects) != 0 {
		t.Errorf("len(Projects) = %d, want 0 (every artifact filtered below MinArtifactSize)", len(res.Projects))
	}
}

func TestScanResultLimit(t *testing.T) {
	root := t.TempDir()
	makeNPMProject(t, filepath.Join(root, "alpha"))
	makeRustProject(t, filepath.Join(root, "beta"))

	s := newTestScanner()
	res, err := s.Scan(context.Background(), Config{Roots: []string{root}, ResultLimit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Projects) != 1 {
		t.Fatalf("len(Projects) = %d, want 1", len(res.Projects))
	}
}

func TestScanExcludeDirsPrunesDescent(t *testing.T) {
	root := t.TempDir()
	makeNPMProject(t, filepath.Join(root, "vendor-ignored", "alpha"))

	s := newTestScanner()
	res, err := s.Scan(context.Background(), Config{
		Roots:       []string{root},
		ExcludeDirs: []string{"vendor-ignored"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Projects) != 0 {
		t.Errorf("len(Projects) = %d, want 0 (excluded dir must not be descended into)", len(res.Projects))
	}
}

func TestScanCancellationStopsEarly(t *testing.T) {
	root := t.TempDir()
	makeNPMProject(t, filepath.Join(root, "alpha"))

	s := newTestScanner()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, _ := s.Scan(ctx, Config{Roots: []string{root}})
	if !res.Progress.Cancelled() {
		t.Error("expected Progress to report cancelled after a pre-cancelled context")
	}
}

func TestScanToleratesSymlinkedProjectAlias(t *testing.T) {
	root := t.TempDir()
	real := t.TempDir()
	makeNPMProject(t, real)

	link := filepath.Join(root, "alias")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	makeNPMProject(t, filepath.Join(root, "direct"))
	// direct and real are distinct canonical paths, so this isn't a true
	// dedup exercise by itself; the seen map is exercised implicitly by
	// every project discovery regardless. Assert no crash and a sane count.

	s := newTestScanner()
	res, err := s.Scan(context.Background(), Config{Roots: []string{root, real}})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Projects) == 0 {
		t.Error("expected at least one project to be discovered")
	}
}
