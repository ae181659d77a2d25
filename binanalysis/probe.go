package binanalysis

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/pathutil"
)

// versionPattern extracts the first semver-shaped token from a command's
// version output, covering the common "vX.Y.Z", "X.Y.Z", and
// "command X.Y.Z (build ...)" shapes every probed runtime uses.
var versionPattern = regexp.MustCompile(`v?\d+\.\d+(\.\d+)?([-.][A-Za-z0-9]+)*`)

// versionFlags are tried in order until one exits zero with a version
// token in its output; most commands
// accept --version but a few legacy ones only understand -v or -V.
var versionFlags = [][]string{{"--version"}, {"-v"}, {"-V"}, {"version"}}

// Analyzer finds and classifies every installed copy of the commands in its
// catalog.
type Analyzer struct {
	catalog []catalogEntry
	workers int
}

// New creates an Analyzer over the default command catalog. workers bounds
// concurrent `--version` probes; <= 0 defaults to 4.
func New(workers int) *Analyzer {
	if workers <= 0 {
		workers = 4
	}
	return &Analyzer{catalog: DefaultCatalog(), workers: workers}
}

// ProbeAll runs `which -a` for every command in the catalog and resolves,
// classifies and version-probes each hit concurrently, bounded by a
// semaphore so a large catalog doesn't fork hundreds of processes at once.
func (a *Analyzer) ProbeAll(ctx context.Context) ([]model.BinaryInstance, error) {
	names := AllCommandNames(a.catalog)

	sem := semaphore.NewWeighted(int64(a.workers))
	group, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	var instances []model.BinaryInstance

	for _, name := range names {
		name := name
		group.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)

			hits := a.probeOne(gctx, name)
			if len(hits) == 0 {
				return nil
			}
			mu.Lock()
			instances = append(instances, hits...)
			mu.Unlock()
			return nil
		})
	}

	err := group.Wait()
	return instances, err
}

func (a *Analyzer) probeOne(ctx context.Context, name string) []model.BinaryInstance {
	paths, err := whichAll(ctx, name)
	if err != nil || len(paths) == 0 {
		return nil
	}

	activePath := ""
	if first, err := exec.LookPath(name); err == nil {
		activePath = first
	}

	out := make([]model.BinaryInstance, 0, len(paths))
	for _, raw := range paths {
		resolved, hops, resolveErr := pathutil.ResolveSymlinkChain(raw)
		if resolveErr != nil {
			resolved = raw
		}

		source := ClassifySource(resolved)
		version, versionErr := probeVersion(ctx, resolved)

		var size int64
		if info, statErr := os.Stat(resolved); statErr == nil {
			size = info.Size()
		}

		out = append(out, model.BinaryInstance{
			Command:    name,
			RawPath:    raw,
			Resolved:   resolved,
			Hops:       hops,
			Source:     source,
			Version:    version,
			Active:     raw == activePath || resolved == activePath,
			Bytes:      size,
			VersionErr: versionErr,
		})
	}
	return out
}

// whichAll runs `which -a <name>` and returns every matching path on PATH.
func whichAll(ctx context.Context, name string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "which", "-a", name)
	cmd.WaitDelay = 10 * time.Second
	out, err := cmd.Output()
	if err != nil && errors.Is(err, exec.ErrWaitDelay) {
		err = nil
	}
	if err != nil {
		return nil, nil
	}
	var paths []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}

// probeVersion tries each of versionFlags in turn until one produces
// output containing a semver-shaped token.
func probeVersion(ctx context.Context, resolvedPath string) (string, error) {
	var lastErr error
	for _, flags := range versionFlags {
		cmd := exec.CommandContext(ctx, resolvedPath, flags...)
		cmd.WaitDelay = 10 * time.Second
		out, err := cmd.CombinedOutput()
		if err != nil && !errors.Is(err, exec.ErrWaitDelay) {
			lastErr = err
			continue
		}
		if match := versionPattern.FindString(string(out)); match != "" {
			return match, nil
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no version token found in any probe output")
	}
	return "", lastErr
}
