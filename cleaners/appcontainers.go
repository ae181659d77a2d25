package cleaners

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/pathutil"
)

// appContainerMinBytes skips containers too small to be worth surfacing.
const appContainerMinBytes = 50 * 1024 * 1024

// OrphanedAppContainers reports sandboxed app-support directories under
// ~/Library/Containers whose owning .app bundle is no longer installed in
// /Applications or ~/Applications. It is a no-op outside macOS, the only
// platform with an App Sandbox container store.
func OrphanedAppContainers(home string) []model.CleanableItem {
	if runtime.GOOS != "darwin" {
		return nil
	}

	installed := installedBundleIDs(home)
	containersDir := filepath.Join(home, "Library", "Containers")
	entries, err := os.ReadDir(containersDir)
	if err != nil {
		return nil
	}

	var out []model.CleanableItem
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		bundleID := e.Name()
		if installed[bundleID] || strings.HasPrefix(bundleID, "com.apple.") {
			continue
		}

		full := filepath.Join(containersDir, bundleID)
		size := pathutil.DirSize(full)
		if size.Bytes < appContainerMinBytes {
			continue
		}
		modTime := pathutil.ModTime(full)
		files := size.Files
		out = append(out, model.CleanableItem{
			Name:         bundleID,
			Category:     "orphaned-container",
			Subcategory:  "app-container",
			Icon:         "warning",
			Path:         full,
			Bytes:        size.Bytes,
			FileCount:    &files,
			LastModified: &modTime,
			Description:  "sandboxed container for an app that is no longer installed",
			Safety:       model.SafetyLevelCaution,
		})
	}
	return out
}

// installedBundleIDs scans /Applications and ~/Applications for .app
// bundles and returns the set of CFBundleIdentifier values found in each
// bundle's Info.plist.
func installedBundleIDs(home string) map[string]bool {
	ids := map[string]bool{}
	for _, dir := range []string{"/Applications", filepath.Join(home, "Applications")} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() || !strings.HasSuffix(e.Name(), ".app") {
				continue
			}
			plist := filepath.Join(dir, e.Name(), "Contents", "Info.plist")
			if id := bundleIDFromPlist(plist); id != "" {
				ids[id] = true
			}
		}
	}
	return ids
}

// bundleIDFromPlist extracts CFBundleIdentifier from an XML-format
// Info.plist via a plain string scan rather than a plist parser: the
// identifier is the only field this cleaner needs, and Apple's Info.plist
// files are written in the textual XML variant (not the binary bplist00
// format) by every packaging tool in common use.
func bundleIDFromPlist(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	const key = "<key>CFBundleIdentifier</key>"
	content := string(data)
	idx := strings.Index(content, key)
	if idx < 0 {
		return ""
	}
	rest := content[idx+len(key):]
	start := strings.Index(rest, "<string>")
	if start < 0 {
		return ""
	}
	rest = rest[start+len("<string>"):]
	end := strings.Index(rest, "</string>")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}
