package cleaners

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestOrphanedAppContainersNonDarwinIsNoop(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("darwin-specific behavior covered by other cases")
	}
	home := t.TempDir()
	writeBytes(t, filepath.Join(home, "Library", "Containers", "com.example.gone", "Data", "big.bin"), 100*1024*1024)
	if items := OrphanedAppContainers(home); items != nil {
		t.Errorf("OrphanedAppContainers() = %v, want nil on non-darwin", items)
	}
}

func TestBundleIDFromPlistExtractsIdentifier(t *testing.T) {
	dir := t.TempDir()
	plist := filepath.Join(dir, "Info.plist")
	content := `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleName</key>
	<string>Example</string>
	<key>CFBundleIdentifier</key>
	<string>com.example.app</string>
</dict>
</plist>
`
	if err := os.WriteFile(plist, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := bundleIDFromPlist(plist); got != "com.example.app" {
		t.Errorf("bundleIDFromPlist() = %q, want %q", got, "com.example.app")
	}
}

func TestBundleIDFromPlistMissingFileReturnsEmpty(t *testing.T) {
	if got := bundleIDFromPlist(filepath.Join(t.TempDir(), "nope.plist")); got != "" {
		t.Errorf("bundleIDFromPlist() = %q, want empty for a missing file", got)
	}
}

func TestInstalledBundleIDsEmptyWhenNoApplicationsFolders(t *testing.T) {
	ids := installedBundleIDs(t.TempDir())
	if len(ids) != 0 {
		t.Errorf("len(ids) = %d, want 0 for a home dir with no Applications folders", len(ids))
	}
}
