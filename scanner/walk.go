package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/pathutil"
	"github.com/tinyland-lab/reclaim/protection"
	"github.com/tinyland-lab/reclaim/registry"
)

// walkSubtree walks a single subtree rooted at dir, resolving every
// directory against the registry. A matched directory becomes a Project
// and is not descended into further (its own artifact directories are
// enumerated by the plugin, not re-discovered by the walk). Unmatched
// directories are descended into up to cfg.MaxDepth path segments below
// the scan's root. seen is shared across every subtree of a single Scan
// call so two subtrees that reach the same canonical project path (e.g.
// via a symlink) enumerate its artifacts at most once.
func (s *Scanner) walkSubtree(root, dir string, cfg Config, prog *model.Progress, seen *sync.Map) []model.Project {
	excl := cfg.excludeSet()
	rootDepth := strings.Count(filepath.Clean(root), string(os.PathSeparator))

	var projects []model.Project

	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if prog.Cancelled() {
			return filepath.SkipAll
		}
		if err != nil {
			prog.AddError(path, err)
			return nil
		}
		if !d.IsDir() {
			info, infoErr := d.Info()
			if infoErr == nil {
				prog.AddFile(info.Size())
			}
			return nil
		}

		base := d.Name()
		depth := strings.Count(filepath.Clean(path), string(os.PathSeparator)) - rootDepth

		if excl[base] {
			return filepath.SkipDir
		}
		if path != root && registry.IsCleanableDir(base) {
			// Everything beneath a well-known artifact directory is part
			// of that artifact's tree, never a nested project root. Guarded
			// against the true scan root rather than this call's dir: a
			// subtree handed to one parallel worker may itself be named
			// e.g. "node_modules" (it's just an immediate child of root
			// being walked concurrently), and it must be pruned exactly
			// like it would be found mid-walk from a single-goroutine scan.
			return filepath.SkipDir
		}
		if cfg.skipHidden(base, depth) {
			return filepath.SkipDir
		}
		if path != root && cfg.matchesIgnorePattern(base) {
			return filepath.SkipDir
		}

		if cfg.MaxDepth > 0 && depth > cfg.MaxDepth {
			return filepath.SkipDir
		}

		prog.SetCurrentPath(path)

		entries, readErr := readDirNames(path)
		if readErr != nil {
			prog.AddError(path, readErr)
			return nil
		}

		if plugin, ok := s.registry.Resolve(entries); ok {
			canonical := pathutil.Canonicalize(path)
			if _, dup := seen.LoadOrStore(canonical, true); dup {
				return filepath.SkipDir
			}

			project, ok := s.buildProject(plugin, path, entries, cfg, prog)
			if !ok {
				// Every artifact was filtered below cfg.MinArtifactSize;
				// spec requires skipping the project entirely rather than
				// inserting an empty record.
				return filepath.SkipDir
			}
			projects = append(projects, project)
			prog.AddProject()
			return filepath.SkipDir
		}

		return nil
	})

	return projects
}

// resolveRootProject checks whether root itself -- not one of its
// children -- is a project, since subtreesFor's parallel fan-out only
// ever walks root's immediate subdirectories and so never hands root's
// own entry list to the registry. Mirrors the single-directory match
// branch of walkSubtree's callback without the surrounding recursive walk.
func (s *Scanner) resolveRootProject(root string, cfg Config, prog *model.Progress, seen *sync.Map) (model.Project, bool) {
	entries, err := readDirNames(root)
	if err != nil {
		return model.Project{}, false
	}
	plugin, ok := s.registry.Resolve(entries)
	if !ok {
		return model.Project{}, false
	}
	canonical := pathutil.Canonicalize(root)
	if _, dup := seen.LoadOrStore(canonical, true); dup {
		return model.Project{}, false
	}
	project, ok := s.buildProject(plugin, root, entries, cfg, prog)
	if ok {
		prog.AddProject()
	}
	return project, ok
}

func readDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

// buildProject enumerates plugin's artifacts under path, applies cfg's
// minimum-size filter, and returns (project, true), or (zero, false) if
// every artifact was filtered out -- the caller must not insert an empty
// project record in that case.
func (s *Scanner) buildProject(plugin registry.Plugin, path string, entries []string, cfg Config, prog *model.Progress) (model.Project, bool) {
	artifacts, err := plugin.Enumerate(path, entries)
	if err != nil {
		prog.AddError(path, err)
	}

	if cfg.MinArtifactSize > 0 {
		filtered := artifacts[:0]
		for _, a := range artifacts {
			if a.Bytes >= cfg.MinArtifactSize {
				filtered = append(filtered, a)
			}
		}
		artifacts = filtered
	}
	if len(artifacts) == 0 {
		return model.Project{}, false
	}

	var gitStatus model.GitStatus
	if cfg.CheckGitStatus {
		gitStatus = protection.GetGitStatus(path)
	}

	matched, priority := plugin.Detect(entries)
	markers := plugin.Markers()
	winning := []model.ProjectMarker{}
	if matched {
		for _, m := range markers {
			if m.Priority == priority {
				winning = append(winning, m)
			}
		}
	}

	for i := range artifacts {
		artifacts[i].ProjectPath = path
	}

	return model.Project{
		Path:       path,
		Kind:       plugin.Kind(),
		Markers:    winning,
		Git:        gitStatus,
		LastActive: latestModTime(path, artifacts),
		Artifacts:  artifacts,
	}, true
}

func latestModTime(projectPath string, artifacts []model.Artifact) (latest time.Time) {
	latest = pathutil.ModTime(projectPath)
	for _, a := range artifacts {
		if a.ModTime.After(latest) {
			latest = a.ModTime
		}
	}
	return latest
}
