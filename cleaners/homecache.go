// Package cleaners provides specialized, non-project-scoped cleaners:
// home-directory package-manager caches, IDE artifacts, language-runtime
// installs, orphaned macOS app containers, and Docker state. Each cleaner
// reports model.CleanableItem values rather than deleting directly, leaving
// the deletion decision to the delete package.
package cleaners

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/pathutil"
)

// homeCacheDir is one well-known, home-relative cache path plus the
// display category/restore hint it should be reported with.
type homeCacheDir struct {
	relPath     string
	subcategory string
	safety      model.SafetyLevel
	restoreHint string
}

// defaultHomeCaches lists well-known home-relative package-manager and
// language caches: pip, npm, yarn, pnpm, cargo, Haskell tooling, LM
// Studio, Gradle, and Maven.
func defaultHomeCaches() []homeCacheDir {
	return []homeCacheDir{
		{relPath: filepath.Join(".cache", "pip"), subcategory: "pip-cache", safety: model.SafetyLevelSafeWithCost, restoreHint: "pip install"},
		{relPath: filepath.Join(".npm", "_cacache"), subcategory: "npm-cache", safety: model.SafetyLevelSafeWithCost, restoreHint: "npm install"},
		{relPath: filepath.Join(".cache", "yarn"), subcategory: "yarn-cache", safety: model.SafetyLevelSafeWithCost, restoreHint: "yarn install"},
		{relPath: filepath.Join(".pnpm-store"), subcategory: "pnpm-store", safety: model.SafetyLevelSafeWithCost, restoreHint: "pnpm install"},
		{relPath: filepath.Join(".cargo", "registry", "cache"), subcategory: "cargo-cache", safety: model.SafetyLevelSafeWithCost, restoreHint: "cargo build"},
		{relPath: filepath.Join(".ghcup", "cache"), subcategory: "ghcup-cache", safety: model.SafetyLevelSafe},
		{relPath: filepath.Join(".cabal", "store"), subcategory: "cabal-store", safety: model.SafetyLevelSafe},
		{relPath: filepath.Join(".lmstudio", "models"), subcategory: "lmstudio-models", safety: model.SafetyLevelCaution},
		{relPath: filepath.Join(".gradle", "caches"), subcategory: "gradle-cache", safety: model.SafetyLevelSafeWithCost, restoreHint: "gradle build"},
		{relPath: filepath.Join(".m2", "repository"), subcategory: "maven-repository", safety: model.SafetyLevelSafeWithCost, restoreHint: "mvn package"},
	}
}

// HomeCaches reports every populated home-relative cache directory.
func HomeCaches(home string) []model.CleanableItem {
	var out []model.CleanableItem
	for _, c := range defaultHomeCaches() {
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
			Name:         c.subcategory,
			Category:     "home-cache",
			Subcategory:  c.subcategory,
			Icon:         "cache",
			Path:         full,
			Bytes:        size.Bytes,
			FileCount:    &files,
			LastModified: &modTime,
			Safety:       c.safety,
			SuggestedCmd: c.restoreHint,
		})
	}
	return out
}

// GoBuildCache reports the Go build cache directory, a single global
// cache rather than a per-project one. The directory is located via
// `go env GOCACHE` rather than assumed, since it is user/OS configurable.
func GoBuildCache() *model.CleanableItem {
	if _, err := exec.LookPath("go"); err != nil {
		return nil
	}
	cmd := exec.Command("go", "env", "GOCACHE")
	cmd.WaitDelay = 10 * time.Second
	out, err := cmd.Output()
	if err != nil {
		return nil
	}
	dir := strings.TrimSpace(string(out))
	if dir == "" || dir == "off" || !pathutil.IsDir(dir) {
		return nil
	}
	size := pathutil.DirSize(dir)
	if size.Bytes == 0 {
		return nil
	}
	modTime := pathutil.ModTime(dir)
	files := size.Files
	return &model.CleanableItem{
		Name:         "go-build-cache",
		Category:     "home-cache",
		Subcategory:  "go-build-cache",
		Icon:         "cache",
		Path:         dir,
		Bytes:        size.Bytes,
		FileCount:    &files,
		LastModified: &modTime,
		Safety:       model.SafetyLevelSafe,
		SuggestedCmd: "go build (cache regenerates on demand)",
	}
}

func homeDirOrEmpty() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
