// Package delete implements three deletion back-ends (dry-run, trash,
// permanent) plus the durable trash record store, with mount-boundary
// checks so a recursive delete never crosses onto a different filesystem
// than the one an artifact was reported on.
package delete

import (
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// deviceID returns the device ID backing path, used to detect mount-point
// boundaries so a recursive delete never wanders onto a different
// filesystem than the one the artifact was reported on.
func deviceID(path string) (uint64, error) {
	var stat syscall.Stat_t
	if err := syscall.Stat(path, &stat); err != nil {
		return 0, err
	}
	return uint64(stat.Dev), nil
}

// sameDevice reports whether child is on the same device as root. Used
// before a permanent deletion walks into a subdirectory, so a bind mount
// or network share grafted inside an artifact's tree is never silently
// swept up with it.
func sameDevice(root, child string) bool {
	rootDev, err := deviceID(root)
	if err != nil {
		return true // can't tell; don't block on a stat failure
	}
	childDev, err := deviceID(child)
	if err != nil {
		return true
	}
	return rootDev == childDev
}

// removeAllSameDevice behaves like os.RemoveAll(root) but refuses to
// descend into any subdirectory mounted from a different device than
// root, skipping it instead of deleting across the mount boundary.
func removeAllSameDevice(root string) error {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		resolved = root
	}

	var mountedSubdirs []string
	walkErr := filepath.WalkDir(resolved, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == resolved {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if !sameDevice(resolved, path) {
			mountedSubdirs = append(mountedSubdirs, path)
			return filepath.SkipDir
		}
		return nil
	})
	if walkErr != nil {
		return walkErr
	}

	if len(mountedSubdirs) == 0 {
		return os.RemoveAll(root)
	}

	// A mount boundary was found inside the tree: remove everything except
	// the mounted subdirectories themselves, leaving them (and whatever
	// they contain) untouched.
	entries, err := os.ReadDir(resolved)
	if err != nil {
		return err
	}
	for _, e := range entries {
		full := filepath.Join(resolved, e.Name())
		if containsPath(mountedSubdirs, full) {
			continue
		}
		// A mount deeper inside this entry: recurse so only its
		// same-device contents are removed.
		nested := false
		for _, m := range mountedSubdirs {
			if strings.HasPrefix(m, full+string(filepath.Separator)) {
				nested = true
				break
			}
		}
		if nested {
			if err := removeAllSameDevice(full); err != nil {
				return err
			}
			continue
		}
		if err := os.RemoveAll(full); err != nil {
			return err
		}
	}
	return nil
}

func containsPath(list []string, path string) bool {
	for _, p := range list {
		if p == path {
			return true
		}
	}
	return false
}
