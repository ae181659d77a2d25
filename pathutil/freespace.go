package pathutil

import "github.com/tinyland-lab/reclaim/monitor"

// FreeBytes returns the number of free bytes on the filesystem containing
// path. Used by the deleter's trash preflight check.
func FreeBytes(path string) (uint64, error) {
	stats, err := monitor.GetDiskStats(path)
	if err != nil {
		return 0, err
	}
	return stats.Free, nil
}
