package ecosystems

import (
	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/registry"
)

// goPlugin recognizes Go modules. The module cache and build cache are
// global (not per-project), so this plugin only reports in-tree vendor/; the global module/build caches are handled
// by the cleaners package's home-directory cache cleaner instead, since
// they are not path-dependent on any one project.
type goPlugin struct{ registry.BasePlugin }

func NewGo() registry.Plugin {
	return &goPlugin{registry.BasePlugin{
		NamedKind: model.KindGo,
		MarkerSet: []model.ProjectMarker{
			{Indicator: "go.sum", IndicatorKind: model.IndicatorExactName, Kind: model.KindGo, Priority: 10},
			{Indicator: "go.mod", IndicatorKind: model.IndicatorExactName, Kind: model.KindGo, Priority: 6},
		},
	}}
}

func (p *goPlugin) Name() string { return "go" }

func (p *goPlugin) Enumerate(projectPath string, entries []string) ([]model.Artifact, error) {
	return buildArtifacts(projectPath, []artifactDir{
		{relPath: "vendor", kind: model.ArtifactDependencies, restoreHint: "go mod vendor", restoreCmd: []string{"go", "mod", "vendor"}, lockfile: "go.sum"},
	}), nil
}
