// Package pathutil provides the filesystem primitives shared by the
// scanner, cleaners, binary analyzer and deleter: size aggregation,
// modification-time lookup, and symlink-chain resolution with cycle
// detection. None of these helpers mutate the filesystem.
package pathutil

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
)

// HumanizeBytes renders a byte count the way a human expects to read it,
// e.g. 2_097_152 -> "2.1 MB".
func HumanizeBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// SizeResult is the outcome of a recursive size+count aggregation.
type SizeResult struct {
	Bytes int64
	Files int
}

// DirSize walks path recursively and sums the apparent size of every
// regular file under it. Symlinks are never followed. Errors reading
// individual entries are swallowed — a partial count is preferred to an
// aborted one.
func DirSize(path string) SizeResult {
	var result SizeResult
	_ = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		// Never follow symlinks when sizing: a symlinked file's target may
		// live outside the artifact entirely.
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		result.Bytes += info.Size()
		result.Files++
		return nil
	})
	return result
}

// ModTime returns the modification time of path, or the zero time if it
// cannot be statted.
func ModTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// Exists reports whether path exists and is accessible.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SafeBytesDiff returns before-after floored at zero, preventing a negative
// bytes-freed figure when concurrent writers grow a directory during
// measurement.
func SafeBytesDiff(before, after int64) int64 {
	diff := before - after
	if diff < 0 {
		return 0
	}
	return diff
}

// ResolveSymlinkChain follows path's symlink chain one hop at a time,
// resolving relative targets against the link's own directory (never the
// process CWD), until it reaches a non-symlink or detects a cycle. It
// returns the terminal path and the number of hops taken. The visited set
// guarantees termination even in the presence of a cycle (spec invariant:
// resolution terminates in at most len(chain) steps).
func ResolveSymlinkChain(path string) (resolved string, hops int, err error) {
	current, err := filepath.Abs(path)
	if err != nil {
		return "", 0, err
	}

	visited := make(map[string]bool)
	for {
		if visited[current] {
			// Cycle: stop at the path that repeats.
			return current, hops, nil
		}
		visited[current] = true

		info, statErr := os.Lstat(current)
		if statErr != nil {
			return current, hops, statErr
		}
		if info.Mode()&os.ModeSymlink == 0 {
			return current, hops, nil
		}

		target, readErr := os.Readlink(current)
		if readErr != nil {
			return current, hops, readErr
		}

		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(current), target)
		}
		current = filepath.Clean(target)
		hops++
	}
}

// Canonicalize resolves path to an absolute, symlink-free form for use as a
// map key (e.g. a Project's identity). Falls back to the cleaned absolute
// path if the target does not exist.
func Canonicalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs
	}
	return resolved
}
