package delete

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/pathutil"
)

// Method is one of the three deletion back-ends: dry-run, trash, or
// permanent removal.
type Method int

const (
	MethodDryRun Method = iota
	MethodTrash
	MethodPermanent
)

func (m Method) String() string {
	switch m {
	case MethodDryRun:
		return "dry-run"
	case MethodTrash:
		return "trash"
	case MethodPermanent:
		return "permanent"
	default:
		return "dry-run"
	}
}

// Deleter applies a Method to model.Artifacts, routing shell-restorable
// items through their RestoreCmd instead of a plain filesystem delete when
// RequiresShell is set and the method is MethodPermanent (dry-run and trash
// ignore RequiresShell), and refusing any Advisory artifact outright
// regardless of which Method is requested.
type Deleter struct {
	store  *TrashStore // required only for MethodTrash
	logger *slog.Logger
}

// New creates a Deleter. store may be nil if MethodTrash will never be
// used (dry-run and permanent don't need it).
func New(store *TrashStore, logger *slog.Logger) *Deleter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deleter{store: store, logger: logger}
}

// Delete removes artifact according to method and records the outcome on
// progress. Advisory artifacts are always refused, regardless of method,
// per Open Question decision 1.
func (d *Deleter) Delete(ctx context.Context, artifact model.Artifact, method Method, progress *model.Progress) error {
	if artifact.EffectiveSafety() == model.SafetyNeverAuto {
		return fmt.Errorf("delete: artifact at %s is never-auto (advisory=%v); refusing", artifact.Path, artifact.Advisory)
	}

	switch method {
	case MethodDryRun:
		d.logger.Info("would remove", "path", artifact.Path, "size", pathutil.HumanizeBytes(artifact.Bytes), "method", method)
		if progress != nil {
			progress.AddFreed(artifact.Bytes)
		}
		return nil

	case MethodTrash:
		return d.deleteTrash(artifact, progress)

	case MethodPermanent:
		return d.deletePermanent(ctx, artifact, progress)

	default:
		return fmt.Errorf("delete: unknown method %v", method)
	}
}

// trashFreeFloor is the minimum free space reclaim insists on at the trash
// destination before it will move another artifact there. The move itself
// is a plain rename, with no copy-then-remove fallback across devices.
const trashFreeFloor = 64 * 1024 * 1024 // 64 MiB

func (d *Deleter) deleteTrash(artifact model.Artifact, progress *model.Progress) error {
	if d.store == nil {
		return fmt.Errorf("delete: trash method requested but no TrashStore configured")
	}
	if free, err := pathutil.FreeBytes(d.store.dir); err == nil && free < trashFreeFloor {
		err := fmt.Errorf("delete: trash store at %s has only %s free, refusing to add %s", d.store.dir, pathutil.HumanizeBytes(int64(free)), pathutil.HumanizeBytes(artifact.Bytes))
		if progress != nil {
			progress.AddError(artifact.Path, err)
		}
		return err
	}
	if _, err := d.store.Add(artifact.Path, artifact.ProjectPath, artifact.Bytes); err != nil {
		if progress != nil {
			progress.AddError(artifact.Path, err)
		}
		return err
	}
	d.logger.Debug("moved to trash", "path", artifact.Path, "size", pathutil.HumanizeBytes(artifact.Bytes))
	if progress != nil {
		progress.AddFreed(artifact.Bytes)
	}
	return nil
}

// largeArtifactFloor is the size above which a permanent delete logs the
// free space it's about to reclaim, for audit purposes.
const largeArtifactFloor = 1024 * 1024 * 1024 // 1 GiB

func (d *Deleter) deletePermanent(ctx context.Context, artifact model.Artifact, progress *model.Progress) error {
	if artifact.Bytes >= largeArtifactFloor {
		if free, err := pathutil.FreeBytes(artifact.Path); err == nil {
			d.logger.Info("permanently deleting large artifact", "path", artifact.Path, "size", pathutil.HumanizeBytes(artifact.Bytes), "free_before", pathutil.HumanizeBytes(int64(free)))
		}
	}

	if artifact.RequiresShell && len(artifact.RestoreCmd) == 0 {
		// Nothing to fall back to; treat as a plain filesystem delete.
		artifact.RequiresShell = false
	}

	if artifact.RequiresShell {
		err := d.runRestoreFallback(ctx, artifact)
		if err == nil {
			d.logger.Debug("ran restore command instead of direct delete", "path", artifact.Path, "cmd", artifact.RestoreCmd)
			if progress != nil {
				progress.AddFreed(artifact.Bytes)
			}
			return nil
		}

		if !artifact.AllowPathFallback || !pathutil.Exists(artifact.Path) {
			if progress != nil {
				progress.AddError(artifact.Path, err)
			}
			return err
		}

		d.logger.Warn("restore command failed, falling back to direct delete", "path", artifact.Path, "error", err)
		if fallbackErr := removeAllSameDevice(artifact.Path); fallbackErr != nil {
			if progress != nil {
				progress.AddError(artifact.Path, fallbackErr)
			}
			return fallbackErr
		}
		if progress != nil {
			progress.AddFreed(artifact.Bytes)
		}
		return nil
	}

	if err := removeAllSameDevice(artifact.Path); err != nil {
		if progress != nil {
			progress.AddError(artifact.Path, err)
		}
		return err
	}
	d.logger.Debug("permanently removed", "path", artifact.Path, "size", pathutil.HumanizeBytes(artifact.Bytes))
	if progress != nil {
		progress.AddFreed(artifact.Bytes)
	}
	return nil
}

// runRestoreFallback runs an artifact's RestoreCmd in place of a direct
// delete, for items (e.g. Docker volumes) better reclaimed
// via their owning tool than a raw filesystem remove.
func (d *Deleter) runRestoreFallback(ctx context.Context, artifact model.Artifact) error {
	if len(artifact.RestoreCmd) == 0 {
		return fmt.Errorf("delete: artifact at %s requires a shell command but none was set", artifact.Path)
	}
	cmd := exec.CommandContext(ctx, artifact.RestoreCmd[0], artifact.RestoreCmd[1:]...)
	cmd.Dir = artifact.ProjectPath
	cmd.WaitDelay = 10 * time.Second
	return cmd.Run()
}
