package pathutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDirSizeSumsRegularFilesOnly(t *testing.T) {
	dir := t.TempDir()
	writeN(t, filepath.Join(dir, "a"), 100)
	writeN(t, filepath.Join(dir, "sub", "b"), 200)

	res := DirSize(dir)
	if res.Bytes != 300 {
		t.Errorf("Bytes = %d, want 300", res.Bytes)
	}
	if res.Files != 2 {
		t.Errorf("Files = %d, want 2", res.Files)
	}
}

func TestDirSizeSkipsSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "real")
	writeN(t, target, 5000)

	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	res := DirSize(dir)
	if res.Bytes != 0 || res.Files != 0 {
		t.Errorf("DirSize must not follow a symlinked file into its target, got %+v", res)
	}
}

func TestSafeBytesDiffFloorsAtZero(t *testing.T) {
	if got := SafeBytesDiff(100, 150); got != 0 {
		t.Errorf("SafeBytesDiff(100, 150) = %d, want 0", got)
	}
	if got := SafeBytesDiff(150, 100); got != 50 {
		t.Errorf("SafeBytesDiff(150, 100) = %d, want 50", got)
	}
}

func TestResolveSymlinkChainFollowsToTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real")
	writeN(t, target, 10)

	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	resolved, hops, err := ResolveSymlinkChain(link)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != target {
		t.Errorf("resolved = %q, want %q", resolved, target)
	}
	if hops != 1 {
		t.Errorf("hops = %d, want 1", hops)
	}
}

func TestResolveSymlinkChainTerminatesOnCycle(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	if err := os.Symlink(b, a); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(a, b); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		ResolveSymlinkChain(a)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ResolveSymlinkChain did not terminate on a symlink cycle")
	}
}

func TestResolveSymlinkChainNonSymlinkIsIdentity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain")
	writeN(t, path, 1)

	resolved, hops, err := ResolveSymlinkChain(path)
	if err != nil {
		t.Fatal(err)
	}
	if hops != 0 {
		t.Errorf("hops = %d, want 0 for a non-symlink", hops)
	}
	abs, _ := filepath.Abs(path)
	if resolved != abs {
		t.Errorf("resolved = %q, want %q", resolved, abs)
	}
}

func writeN(t *testing.T, path string, n int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, n), 0o644); err != nil {
		t.Fatal(err)
	}
}

