package model

import "path/filepath"

// matchGlob matches name against a shell glob pattern, scoped to a single
// path segment (no separators in pattern or name are expected). Kept as a
// thin wrapper over filepath.Match so markers can express things like
// "*.egg-info" without pulling in a third dependency for one call site.
func matchGlob(pattern, name string) (bool, error) {
	return filepath.Match(pattern, name)
}
