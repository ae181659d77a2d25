// Package protection probes a directory's git repository state and applies
// a four-level deletion protection policy (none/warn/block/paranoid)
// against artifacts that overlap dirty or unpushed work.
package protection

import (
	"context"
	"errors"
	"os/exec"
	"time"
)

// runGit runs `git <args...>` in dir and returns raw stdout. Errors
// (including "not a repository" and "git not installed") are returned
// unwrapped so callers can collapse them into GitStatus.IsRepo == false
// without inspecting exit codes.
func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.WaitDelay = 10 * time.Second

	out, err := cmd.Output()
	if err != nil && errors.Is(err, exec.ErrWaitDelay) {
		err = nil
	}
	return string(out), err
}
