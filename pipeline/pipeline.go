package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/tinyland-lab/reclaim/analysis"
	"github.com/tinyland-lab/reclaim/binanalysis"
	"github.com/tinyland-lab/reclaim/cleaners"
	"github.com/tinyland-lab/reclaim/delete"
	"github.com/tinyland-lab/reclaim/ecosystems"
	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/monitor"
	"github.com/tinyland-lab/reclaim/protection"
	"github.com/tinyland-lab/reclaim/registry"
	"github.com/tinyland-lab/reclaim/scanner"
)

// Config controls one end-to-end pipeline run.
type Config struct {
	Scan            scanner.Config
	Cleaners        cleaners.Config
	ProtectionLevel model.ProtectionLevel
	StaleThreshold  time.Duration
	RunBinAnalysis  bool
	BinWorkers      int
}

// DefaultConfig wires every stage on with conservative defaults.
func DefaultConfig(roots []string) Config {
	return Config{
		Scan: scanner.Config{
			Roots:       roots,
			Workers:     4,
			ExcludeDirs: scanner.DefaultExcludeDirs(),
		},
		Cleaners:        cleaners.DefaultConfig(),
		ProtectionLevel: model.ProtectionWarn,
		StaleThreshold:  90 * 24 * time.Hour,
		RunBinAnalysis:  true,
		BinWorkers:      4,
	}
}

// Report is the full result of a Run: every discovered project, the
// specialized-cleaner artifacts, the binary-duplicate analysis, and the
// read-only project-health analysis passes.
type Report struct {
	Projects        []model.Project
	HomeArtifacts   []model.CleanableItem
	Duplicates      []model.DuplicateGroup
	UnusedManagers  []model.CleanableItem
	StaleConfigs    []model.CleanableItem
	Stale           []analysis.StaleProject
	GitHealth       []*analysis.GitHealth
	DependencyDupes []analysis.DependencyDuplication
	Progress        *model.Progress
}

// Pipeline orchestrates the scan, clean-candidate-gathering and analysis
// stages, publishing progress on a Bus as it goes.
type Pipeline struct {
	registry *registry.Registry
	bus      *Bus
	logger   *slog.Logger
}

// New creates a Pipeline with every ecosystem plugin registered.
func New(bus *Bus, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	reg := registry.New()
	ecosystems.RegisterAll(reg)
	return &Pipeline{registry: reg, bus: bus, logger: logger}
}

// Run executes the full scan/gather/analyze pipeline. It never deletes
// anything -- that's a separate, explicit step via Clean.
func (p *Pipeline) Run(ctx context.Context, cfg Config) (*Report, error) {
	p.publish(EventScanStart, ScanStartPayload{Roots: len(cfg.Scan.Roots)})

	scanStart := time.Now()
	sc := scanner.New(p.registry, p.logger)
	result, err := sc.Scan(ctx, cfg.Scan)
	if err != nil && result == nil {
		p.publish(EventError, ErrorPayload{Err: err})
		return nil, err
	}

	for _, proj := range result.Projects {
		p.publish(EventProjectFound, ProjectFoundPayload{
			Path:           proj.Path,
			Kind:           proj.Kind.String(),
			CleanableBytes: proj.TotalCleanableBytes(),
		})
	}

	p.publish(EventScanEnd, ScanEndPayload{
		Duration:      time.Since(scanStart),
		ProjectsFound: len(result.Projects),
		ErrorCount:    len(result.Progress.Errors()),
	})

	report := &Report{Projects: result.Projects, Progress: result.Progress}

	homeArtifacts, err := cleaners.RunAll(ctx, cfg.Cleaners, p.logger)
	if err != nil {
		p.logger.Warn("specialized cleaner scan failed", "error", err)
	}
	report.HomeArtifacts = homeArtifacts

	if cfg.RunBinAnalysis {
		analyzer := binanalysis.New(cfg.BinWorkers)
		instances, err := analyzer.ProbeAll(ctx)
		if err != nil {
			p.logger.Warn("binary analysis failed", "error", err)
		}
		report.Duplicates = binanalysis.GroupDuplicates(instances)
		report.UnusedManagers = binanalysis.DetectUnusedManagers(instances)
		report.StaleConfigs = binanalysis.DetectStaleConfigs()
	}

	floorScale := 1.0
	if len(cfg.Scan.Roots) > 0 {
		if scale, err := monitor.FloorScale(cfg.Scan.Roots[0]); err == nil {
			floorScale = scale
		} else {
			p.logger.Debug("disk pressure check failed, using unscaled floors", "error", err)
		}
	}

	report.Stale = analysis.FindStale(result.Projects, cfg.StaleThreshold)
	report.DependencyDupes = analysis.AnalyzeDuplicateDependencies(result.Projects)
	for _, proj := range result.Projects {
		if health := analysis.AnalyzeGitHealth(proj, floorScale); health != nil {
			report.GitHealth = append(report.GitHealth, health)
		}
	}

	p.publish(EventAnalysisComplete, AnalysisCompletePayload{
		StaleProjects:  len(report.Stale),
		GitHealthFlags: countRecommendedGC(report.GitHealth),
		DuplicateKinds: len(report.DependencyDupes),
	})

	return report, err
}

// Clean applies method to every artifact in artifacts via deleter,
// applying level's git-protection policy first and skipping (rather than
// failing the whole run on) any artifact the policy blocks.
func (p *Pipeline) Clean(ctx context.Context, deleter *delete.Deleter, artifacts []model.Artifact, projectGit map[string]model.GitStatus, projectLastActive map[string]time.Time, level model.ProtectionLevel, method delete.Method, progress *model.Progress) error {
	p.publish(EventCleanStart, CleanStartPayload{ItemCount: len(artifacts), Method: method.String()})
	start := time.Now()

	for _, artifact := range artifacts {
		git := projectGit[artifact.ProjectPath]
		lastActive := projectLastActive[artifact.ProjectPath]
		decision := protection.Evaluate(level, artifact, git, lastActive)
		if decision.Blocked {
			p.publish(EventCleanItem, CleanItemPayload{Path: artifact.Path, Bytes: 0})
			p.logger.Warn("skipping blocked artifact", "path", artifact.Path, "reason", decision.Reason)
			continue
		}
		if decision.Warning != "" {
			p.logger.Warn("cleaning with warning", "path", artifact.Path, "reason", decision.Warning)
		}

		err := deleter.Delete(ctx, artifact, method, progress)
		p.publish(EventCleanItem, CleanItemPayload{Path: artifact.Path, Bytes: artifact.Bytes, Error: err})
		if err != nil {
			p.logger.Warn("delete failed", "path", artifact.Path, "error", err)
		}
	}

	snap := progress.Snapshot()
	p.publish(EventCleanEnd, CleanEndPayload{
		Duration:   time.Since(start),
		BytesFreed: snap.BytesFreed,
		ItemsDone:  int(snap.ItemsDone),
	})
	return nil
}

func (p *Pipeline) publish(eventType EventType, payload interface{}) {
	if p.bus == nil {
		return
	}
	p.bus.PublishTyped(eventType, payload)
}

func countRecommendedGC(health []*analysis.GitHealth) int {
	n := 0
	for _, h := range health {
		if h.RecommendGC {
			n++
		}
	}
	return n
}
