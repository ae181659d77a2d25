package main

import (
	"github.com/tinyland-lab/reclaim/cleaners"
	"github.com/tinyland-lab/reclaim/config"
	"github.com/tinyland-lab/reclaim/delete"
	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/pipeline"
	"github.com/tinyland-lab/reclaim/scanner"
)

func pipelineConfig(cfg *config.Config) pipeline.Config {
	return pipeline.Config{
		Scan: scanner.Config{
			Roots:            cfg.Scan.Roots,
			MaxDepth:         cfg.Scan.MaxDepth,
			Workers:          cfg.Scan.Workers,
			Timeout:          cfg.Scan.TimeoutDuration(),
			ExcludeDirs:      cfg.Scan.ExcludeDirs,
			SkipHidden:       cfg.Scan.SkipHidden,
			RespectGitignore: cfg.Scan.RespectGitignore,
			MinArtifactSize:  cfg.Scan.MinArtifactSizeBytes(),
			ResultLimit:      cfg.Scan.ResultLimit,
			CheckGitStatus:   cfg.Scan.CheckGitStatus,
			IgnorePatterns:   cfg.Scan.IgnorePatterns,
		},
		Cleaners: cleaners.Config{
			HomeCaches:         cfg.Plugins.HomeCaches,
			IDE:                cfg.Plugins.IDE,
			Docker:             cfg.Plugins.Docker,
			GoBuildCache:       cfg.Plugins.GoBuildCache,
			VMDisks:            cfg.Plugins.VMDisks,
			Ollama:             cfg.Plugins.Ollama,
			Runtimes:           cfg.Plugins.Runtimes,
			OrphanedContainers: cfg.Plugins.OrphanedContainers,
		},
		ProtectionLevel: parseProtectionLevel(cfg.Clean.ProtectionLevel),
		StaleThreshold:  cfg.Scan.StaleThreshold(),
		RunBinAnalysis:  cfg.Plugins.BinAnalysis,
		BinWorkers:      cfg.Scan.Workers,
	}
}

func parseProtectionLevel(s string) model.ProtectionLevel {
	switch s {
	case "none":
		return model.ProtectionNone
	case "block":
		return model.ProtectionBlock
	case "paranoid":
		return model.ProtectionParanoid
	default:
		return model.ProtectionWarn
	}
}

func parseDeleteMethod(s string) delete.Method {
	switch s {
	case "trash":
		return delete.MethodTrash
	case "permanent":
		return delete.MethodPermanent
	default:
		return delete.MethodDryRun
	}
}
