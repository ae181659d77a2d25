package cleaners

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/tinyland-lab/reclaim/binanalysis"
	"github.com/tinyland-lab/reclaim/model"
)

// Config controls which specialized cleaners run.
type Config struct {
	HomeCaches         bool
	IDE                bool
	Docker             bool
	GoBuildCache       bool
	VMDisks            bool
	Ollama             bool
	Runtimes           bool
	OrphanedContainers bool
}

// DefaultConfig enables every specialized cleaner.
func DefaultConfig() Config {
	return Config{
		HomeCaches:         true,
		IDE:                true,
		Docker:             true,
		GoBuildCache:       true,
		VMDisks:            true,
		Ollama:             true,
		Runtimes:           true,
		OrphanedContainers: true,
	}
}

// RunAll runs every enabled specialized cleaner and returns the combined
// item list, with one debug log line per category found.
func RunAll(ctx context.Context, cfg Config, logger *slog.Logger) ([]model.CleanableItem, error) {
	if logger == nil {
		logger = slog.Default()
	}

	home := homeDirOrEmpty()
	var out []model.CleanableItem

	if cfg.HomeCaches && home != "" {
		caches := HomeCaches(home)
		logger.Debug("home cache scan complete", "found", len(caches))
		out = append(out, caches...)
	}

	if cfg.GoBuildCache {
		if gc := GoBuildCache(); gc != nil {
			logger.Debug("found go build cache", "bytes", gc.Bytes)
			out = append(out, *gc)
		}
	}

	if cfg.IDE && home != "" {
		ide := IDEArtifacts(home)
		logger.Debug("ide artifact scan complete", "found", len(ide))
		out = append(out, ide...)
	}

	if cfg.VMDisks && home != "" {
		vm := VMDiskImages(home)
		logger.Debug("vm disk image scan complete", "found", len(vm))
		out = append(out, vm...)
	}

	if cfg.Ollama && home != "" {
		modelsDir := filepath.Join(home, ".ollama", "models")
		models, err := binanalysis.ScanOllamaModels(modelsDir)
		if err != nil {
			logger.Warn("ollama model scan failed", "error", err)
		} else {
			logger.Debug("ollama model scan complete", "found", len(models))
			out = append(out, models...)
		}
	}

	if cfg.Runtimes && home != "" {
		rt := RuntimeInstalls(ctx, home)
		logger.Debug("language runtime scan complete", "found", len(rt))
		out = append(out, rt...)
	}

	if cfg.OrphanedContainers && home != "" {
		containers := OrphanedAppContainers(home)
		logger.Debug("orphaned app container scan complete", "found", len(containers))
		out = append(out, containers...)
	}

	if cfg.Docker {
		dc, err := NewDockerCleaner(ctx)
		if err != nil {
			return out, err
		}
		if dc != nil {
			defer dc.Close()
			items, err := dc.Scan(ctx)
			if err != nil {
				logger.Warn("docker scan failed", "error", err)
			} else {
				logger.Debug("docker scan complete", "found", len(items))
				out = append(out, items...)
			}
		} else {
			logger.Debug("docker not available, skipping")
		}
	}

	return out, nil
}
