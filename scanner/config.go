// Package scanner walks a set of root directories, resolves each candidate
// directory against the ecosystems registry, and returns the discovered
// Projects sorted by reclaimable size. The walk is parallelized across
// root-level subdirectories with a bounded worker pool (golang.org/x/sync
// errgroup + semaphore); each subtree is walked independently and prunes
// at the first directory a registered plugin recognizes.
package scanner

import (
	"os"
	"path/filepath"
	"time"
)

// Config controls a single scan run.
type Config struct {
	// Roots are the directories to scan, e.g. $HOME/code, $HOME/projects.
	// Must be non-empty; every entry must exist and be a directory, or Scan
	// fails fast with a *ConfigError before any worker starts.
	Roots []string

	// MaxDepth bounds how many path segments below a root the walker will
	// descend before giving up on that subtree; 0 (the zero value, so also
	// the default for an unset Config) means unlimited depth rather than
	// "root only" -- see the MaxDepth Open Question decision in DESIGN.md.
	MaxDepth int

	// Workers bounds how many root-level subtrees are walked concurrently.
	// <= 0 defaults to 4.
	Workers int

	// Timeout bounds the whole scan; <= 0 means no timeout.
	Timeout time.Duration

	// ExcludeDirs is a set of directory names never descended into,
	// regardless of what they contain (e.g. ".git", ".Trash").
	ExcludeDirs []string

	// FollowSymlinkedProjects is not read by the walker; whatever its value,
	// the walk never descends through a symlinked directory.
	FollowSymlinkedProjects bool

	// SkipHidden, when true, prunes dot-directories below depth 0 unless
	// they're on the fixed allow-list (.git, .github, .vscode, .idea).
	SkipHidden bool

	// RespectGitignore is carried in the config but not read by the walker:
	// .gitignore files are not parsed, and directories they list are
	// walked like any other.
	RespectGitignore bool

	// MinArtifactSize drops any artifact (and, if a project is left with
	// none, the whole project) whose measured size is below this many
	// bytes. <= 0 means no filtering.
	MinArtifactSize int64

	// ResultLimit caps the number of projects returned, keeping the
	// largest by cleanable size. <= 0 means unlimited.
	ResultLimit int

	// CheckGitStatus, when true, probes each discovered project's git
	// status. Disabling this skips a `git` subprocess per project, useful
	// for scans that don't need protection-policy decisions.
	CheckGitStatus bool

	// IgnorePatterns is a free-form list of glob patterns (matched against
	// the directory basename) that are pruned from descent in addition to
	// ExcludeDirs and the well-known cleanable-directory set.
	IgnorePatterns []string
}

// hiddenAllowList is the set of dot-directories SkipHidden never prunes,
// since they carry information the rest of the pipeline wants (git status,
// CI config, editor settings) even when hidden directories are otherwise
// uninteresting.
var hiddenAllowList = map[string]bool{
	".git":    true,
	".github": true,
	".vscode": true,
	".idea":   true,
}

// ConfigError is returned by Scan when cfg fails validation before any
// worker starts -- an empty root list or a root that doesn't exist or
// isn't a directory.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "scanner: " + e.Reason }

// DefaultExcludeDirs lists directories the scanner never descends into by
// default: version-control internals and the reclaim trash store itself,
// so a scan never tries to re-discover its own pending deletions.
func DefaultExcludeDirs() []string {
	return []string{".git", ".hg", ".svn", ".Trash", ".reclaim-trash"}
}

func (c Config) excludeSet() map[string]bool {
	set := make(map[string]bool, len(c.ExcludeDirs))
	for _, d := range c.ExcludeDirs {
		set[d] = true
	}
	return set
}

// Validate checks cfg before any worker starts: an empty root list and a
// root that doesn't exist or isn't a directory are both configuration
// errors, not an empty result.
func (c Config) Validate() error {
	if len(c.Roots) == 0 {
		return &ConfigError{Reason: "no scan roots given"}
	}
	for _, root := range c.Roots {
		info, err := os.Stat(root)
		if err != nil {
			return &ConfigError{Reason: "root " + root + " not found"}
		}
		if !info.IsDir() {
			return &ConfigError{Reason: "root " + root + " is not a directory"}
		}
	}
	return nil
}

// skipHidden reports whether base should be pruned under SkipHidden at the
// given depth below a scan root (depth 0 is the root itself, which is
// never pruned regardless of its name).
func (c Config) skipHidden(base string, depth int) bool {
	if !c.SkipHidden || depth == 0 {
		return false
	}
	if len(base) == 0 || base[0] != '.' {
		return false
	}
	return !hiddenAllowList[base]
}

// matchesIgnorePattern reports whether base matches any of cfg's free-form
// ignore globs.
func (c Config) matchesIgnorePattern(base string) bool {
	for _, pat := range c.IgnorePatterns {
		if ok, err := filepath.Match(pat, base); err == nil && ok {
			return true
		}
	}
	return false
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return 4
	}
	return c.Workers
}
