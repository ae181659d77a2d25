package protection

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/tinyland-lab/reclaim/model"
)

const paranoidRecentWindow = 7 * 24 * time.Hour

// Decision is the outcome of applying a ProtectionLevel to one artifact.
// Blocked and Warning are mutually exclusive in spirit (a blocked artifact
// carries a reason, not a warning), matching spec.md's "a ProtectionResult
// is either allowed (possibly with warnings) or blocked with a reason --
// never both" invariant.
type Decision struct {
	Blocked    bool
	Warning    string // non-empty when the deletion should proceed but warn first
	Reason     string // non-empty when Blocked, explains why
	Suggestion string // non-empty when Blocked, a human next step
}

// Evaluate applies level to artifact given the owning project's git status
// and last-activity time. A dirty path is considered to intersect the
// artifact when it shares the artifact's directory as a path prefix --
// e.g. a dirty path "src/generated/output.go" intersects an artifact
// rooted at "src/generated". lastActive may be the zero time when unknown,
// in which case the paranoid recency check never fires.
func Evaluate(level model.ProtectionLevel, artifact model.Artifact, git model.GitStatus, lastActive time.Time) Decision {
	artifactDirty := intersectsDirtyPaths(artifact, git)
	block, warn := git.Protects(level, artifactDirty)

	d := Decision{}
	if warn {
		d.Warning = "repository has uncommitted changes"
		if !git.IsRepo {
			d.Warning = "directory is not a git repository"
		}
	}
	if block {
		d.Blocked = true
		switch {
		case !git.IsRepo:
			d.Reason = "directory is not a git repository"
			d.Suggestion = "initialize a repository or use --force"
		default:
			d.Reason = "repository has uncommitted changes"
			d.Suggestion = "commit changes first or use --force"
		}
	}

	if level != model.ProtectionParanoid || d.Blocked {
		return d
	}

	if !lastActive.IsZero() && time.Since(lastActive) < paranoidRecentWindow {
		d.Blocked = true
		d.Reason = "project was modified within the last 7 days"
		d.Suggestion = "wait for the project to go idle or use --force"
		return d
	}
	if artifact.EffectiveSafety() == model.SafetyRequiresConfirmation {
		d.Blocked = true
		d.Reason = "artifact requires manual confirmation under paranoid protection"
		d.Suggestion = "review the artifact and use --force"
		return d
	}
	if artifact.EffectiveSafety() == model.SafetyWithLockfile && artifact.LockfilePath == "" {
		d.Blocked = true
		d.Reason = "artifact has no lockfile to guarantee a clean restore"
		d.Suggestion = "commit a lockfile first or use --force"
		return d
	}
	return d
}

func intersectsDirtyPaths(artifact model.Artifact, git model.GitStatus) bool {
	if artifact.ProjectPath == "" {
		return false
	}
	rel, err := filepath.Rel(artifact.ProjectPath, artifact.Path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, dirty := range git.DirtyPaths {
		dirty = filepath.ToSlash(dirty)
		if dirty == rel || strings.HasPrefix(dirty, rel+"/") {
			return true
		}
	}
	return false
}
