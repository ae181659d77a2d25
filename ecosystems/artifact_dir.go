// Package ecosystems provides the concrete registry.Plugin implementations
// for every project kind: npm, yarn, pnpm, bun, rust, pip, poetry, pipenv,
// conda, uv, go, maven, gradle, dotnet, fsharp, swiftpm, xcode, ruby. Each
// plugin recognizes its ecosystem from marker files and reports the
// reclaimable artifact directories that sit alongside them.
package ecosystems

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/pathutil"
)

// artifactDir describes one reclaimable subdirectory relative to a
// project's root, the kind it should be stamped as, and how to restore it.
type artifactDir struct {
	relPath     string
	kind        model.ArtifactKind
	restoreHint string
	restoreCmd  []string
	lockfile    string // relative path to the lockfile that justifies SafetyWithLockfile
}

// buildArtifacts stats each candidate artifactDir under root and returns an
// Artifact for every one that buildOne accepts (a missing or symlinked
// candidate is skipped), stamped with its default safety
// class per model.DefaultSafetyClass -- individual plugins never choose
// their own class.
func buildArtifacts(root string, candidates []artifactDir) []model.Artifact {
	var out []model.Artifact
	for _, c := range candidates {
		var matches []string
		if strings.Contains(c.relPath, "*") {
			found, err := filepath.Glob(filepath.Join(root, c.relPath))
			if err != nil {
				continue
			}
			matches = found
		} else {
			matches = []string{filepath.Join(root, c.relPath)}
		}

		for _, full := range matches {
			out = append(out, buildOne(root, full, c)...)
		}
	}
	return out
}

func buildOne(root, full string, c artifactDir) []model.Artifact {
	info, err := os.Lstat(full)
	if err != nil {
		return nil
	}
	if info.Mode()&os.ModeSymlink != 0 {
		// Never treat a symlinked artifact root as reclaimable directly;
		// the scanner resolves and re-evaluates the real target itself.
		return nil
	}
	if !info.IsDir() {
		return nil
	}

	size := pathutil.DirSize(full)
	if size.Bytes == 0 && size.Files == 0 {
		return nil
	}

	// Safety class is the kind's fixed default regardless of lockfile
	// presence -- spec.md §3 stamps SafetyClass from ArtifactKind alone.
	// A missing lockfile is surfaced only as an absent LockfilePath; it is
	// protection.Evaluate's paranoid check, not classification here, that
	// treats "safe-with-lockfile without a lockfile" as block-worthy.
	safety := model.DefaultSafetyClass(c.kind)
	lockfilePath := ""
	if c.lockfile != "" {
		candidate := filepath.Join(root, c.lockfile)
		if pathutil.Exists(candidate) {
			lockfilePath = candidate
		}
	}

	return []model.Artifact{{
		Path:         full,
		Kind:         c.kind,
		Safety:       safety,
		Bytes:        size.Bytes,
		Files:        size.Files,
		ModTime:      pathutil.ModTime(full),
		ProjectPath:  root,
		RestoreHint:  c.restoreHint,
		LockfilePath: lockfilePath,
		RestoreCmd:   c.restoreCmd,
	}}
}

// isStale reports whether markerPath's mtime is older than maxAge. A
// missing marker is treated as stale, since there's nothing to compare
// against and an orphaned artifact is the more conservative read.
func isStale(markerPath string, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return true
	}
	mt := pathutil.ModTime(markerPath)
	if mt.IsZero() {
		return true
	}
	return time.Since(mt) > maxAge
}
