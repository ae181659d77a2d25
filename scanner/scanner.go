package scanner

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/registry"
)

// Scanner discovers projects across a set of root directories.
type Scanner struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// New creates a Scanner backed by reg for project-kind resolution.
func New(reg *registry.Registry, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{registry: reg, logger: logger}
}

// Result is the outcome of a completed or cancelled scan.
type Result struct {
	Projects []model.Project
	Progress *model.Progress
}

// Scan walks cfg.Roots concurrently, bounded by cfg.Workers, and returns
// every discovered project sorted by descending total cleanable size. The
// returned Progress reflects the final state of the run even if ctx was
// cancelled or cfg.Timeout elapsed first.
func (s *Scanner) Scan(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prog := &model.Progress{}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	subtrees := s.subtreesFor(cfg)

	sem := semaphore.NewWeighted(int64(cfg.workers()))
	group, gctx := errgroup.WithContext(ctx)

	resultsCh := make(chan []model.Project, len(subtrees))
	var seen sync.Map

	// subtreesFor only ever enumerates a root's children, so a root that
	// is itself a project root (no intervening container directory) would
	// otherwise never be offered to the registry.
	var rootProjects []model.Project
	for _, root := range cfg.Roots {
		if proj, ok := s.resolveRootProject(root, cfg, prog, &seen); ok {
			rootProjects = append(rootProjects, proj)
		}
	}

	for _, st := range subtrees {
		st := st
		group.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return nil // context cancelled/timed out; not a hard failure
			}
			defer sem.Release(1)

			if gctx.Err() != nil {
				return nil
			}

			s.logger.Debug("scanning subtree", "root", st.root, "dir", st.dir)
			projects := s.walkSubtree(st.root, st.dir, cfg, prog, &seen)
			resultsCh <- projects
			return nil
		})
	}

	go func() {
		<-ctx.Done()
		prog.Cancel()
	}()

	err := group.Wait()
	if ctx.Err() != nil {
		prog.Cancel()
	}
	close(resultsCh)

	all := rootProjects
	for batch := range resultsCh {
		all = append(all, batch...)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].TotalCleanableBytes() > all[j].TotalCleanableBytes()
	})

	if cfg.ResultLimit > 0 && len(all) > cfg.ResultLimit {
		all = all[:cfg.ResultLimit]
	}

	prog.MarkDone()

	if ctxErr := ctx.Err(); ctxErr != nil && cfg.Timeout > 0 {
		return &Result{Projects: all, Progress: prog}, ctxErr
	}
	return &Result{Projects: all, Progress: prog}, err
}

type subtree struct {
	root string
	dir  string
}

// subtreesFor splits each configured root into its immediate subdirectories
// so independent subtrees can be walked concurrently; the root itself is
// included as a fallback subtree so a root with no subdirectories (or one
// that is itself a project) is still scanned.
func (s *Scanner) subtreesFor(cfg Config) []subtree {
	excl := cfg.excludeSet()
	var out []subtree
	for _, root := range cfg.Roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			s.logger.Warn("cannot read scan root", "root", root, "error", err)
			continue
		}
		found := false
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			name := e.Name()
			// An immediate child that is itself an excluded or well-known
			// artifact directory is never worth its own parallel subtree:
			// walkSubtree's root-relative pruning would immediately skip
			// it anyway, so skip the goroutine and the os.Lstat churn too.
			if excl[name] || registry.IsCleanableDir(name) {
				continue
			}
			out = append(out, subtree{root: root, dir: filepath.Join(root, name)})
			found = true
		}
		if !found {
			out = append(out, subtree{root: root, dir: root})
		}
	}
	return out
}
