package cleaners

import (
	"path/filepath"
	"runtime"

	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/pathutil"
)

// ideCacheDir is one well-known IDE/editor cache location, scoped to the
// platforms it applies on (empty means all platforms).
type ideCacheDir struct {
	relPath   string
	name      string
	platforms []string
}

func ideCacheDirs() []ideCacheDir {
	return []ideCacheDir{
		{relPath: filepath.Join("Library", "Caches", "JetBrains"), name: "jetbrains-cache", platforms: []string{"darwin"}},
		{relPath: filepath.Join(".cache", "JetBrains"), name: "jetbrains-cache", platforms: []string{"linux"}},
		{relPath: filepath.Join("Library", "Developer", "Xcode", "DerivedData"), name: "xcode-derived-data", platforms: []string{"darwin"}},
		{relPath: filepath.Join("Library", "Developer", "Xcode", "Archives"), name: "xcode-archives", platforms: []string{"darwin"}},
		{relPath: filepath.Join(".vscode-server", "data", "logs"), name: "vscode-server-logs"},
		{relPath: filepath.Join(".config", "Code", "Cache"), name: "vscode-cache"},
		{relPath: filepath.Join("Library", "Application Support", "Code", "Cache"), name: "vscode-cache", platforms: []string{"darwin"}},
		{relPath: filepath.Join(".gradle", "daemon"), name: "gradle-daemon"},
	}
}

// IDEArtifacts reports every populated IDE cache directory applicable to
// the current platform, filtering a fixed directory list instead of a plugin
// list.
func IDEArtifacts(home string) []model.CleanableItem {
	platform := runtime.GOOS
	var out []model.CleanableItem
	for _, c := range ideCacheDirs() {
		if len(c.platforms) > 0 && !contains(c.platforms, platform) {
			continue
		}
		full := filepath.Join(home, c.relPath)
		if !pathutil.IsDir(full) {
			continue
		}
		size := pathutil.DirSize(full)
		if size.Bytes == 0 {
			continue
		}
		modTime := pathutil.ModTime(full)
		files := size.Files
		out = append(out, model.CleanableItem{
			Name:         c.name,
			Category:     "ide-artifacts",
			Subcategory:  c.name,
			Icon:         "ide",
			Path:         full,
			Bytes:        size.Bytes,
			FileCount:    &files,
			LastModified: &modTime,
			Safety:       model.SafetyLevelSafe,
		})
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
