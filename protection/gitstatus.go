package protection

import (
	"context"
	"strings"
	"time"

	"github.com/tinyland-lab/reclaim/model"
)

// GetGitStatus probes dir for git repository state: whether it is a repo at
// all, its current branch, origin remote, working-tree cleanliness, and
// stash count. "Not a repository" and "git command failed" both collapse
// into IsRepo == false rather than a distinct status variant.
func GetGitStatus(dir string) model.GitStatus {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if _, err := runGit(ctx, dir, "rev-parse", "--git-dir"); err != nil {
		return model.GitStatus{IsRepo: false}
	}

	status := model.GitStatus{IsRepo: true}

	if branch, err := runGit(ctx, dir, "branch", "--show-current"); err == nil {
		status.Branch = strings.TrimSpace(branch)
	}

	if remote, err := runGit(ctx, dir, "remote", "get-url", "origin"); err == nil {
		status.RemoteURL = strings.TrimSpace(remote)
		status.HasUpstream = status.RemoteURL != ""
	}

	if porcelain, err := runGit(ctx, dir, "status", "--porcelain"); err == nil {
		lines := nonEmptyLines(porcelain)
		status.Dirty = len(lines) > 0
		status.UntrackedOnly = status.Dirty && allUntracked(lines)
		for _, line := range lines {
			status.DirtyPaths = append(status.DirtyPaths, dirtyPathOf(line))
		}
	}

	if stashes, err := runGit(ctx, dir, "stash", "list"); err == nil {
		status.StashCount = len(nonEmptyLines(stashes))
	}

	return status
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func allUntracked(lines []string) bool {
	for _, line := range lines {
		if !strings.HasPrefix(line, "??") {
			return false
		}
	}
	return true
}

// dirtyPathOf extracts the path from a `git status --porcelain` line, which
// is a two-character status code, a space, then the path (quoted if it
// contains a space or non-ASCII byte, which we don't bother unquoting here
// since dirty-path intersection checks only need a best-effort prefix
// match).
func dirtyPathOf(line string) string {
	if len(line) < 4 {
		return ""
	}
	return strings.TrimSpace(line[3:])
}
