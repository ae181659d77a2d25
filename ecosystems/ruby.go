package ecosystems

import (
	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/registry"
)

// rubyPlugin recognizes Bundler-managed Ruby projects (Gemfile.lock).
type rubyPlugin struct{ registry.BasePlugin }

func NewRuby() registry.Plugin {
	return &rubyPlugin{registry.BasePlugin{
		NamedKind: model.KindRuby,
		MarkerSet: []model.ProjectMarker{
			{Indicator: "Gemfile.lock", IndicatorKind: model.IndicatorExactName, Kind: model.KindRuby, Priority: 10},
			{Indicator: "Gemfile", IndicatorKind: model.IndicatorExactName, Kind: model.KindRuby, Priority: 6},
		},
	}}
}

func (p *rubyPlugin) Name() string { return "ruby" }

func (p *rubyPlugin) Enumerate(projectPath string, entries []string) ([]model.Artifact, error) {
	return buildArtifacts(projectPath, []artifactDir{
		{relPath: "vendor/bundle", kind: model.ArtifactDependencies, restoreHint: "bundle install", restoreCmd: []string{"bundle", "install"}, lockfile: "Gemfile.lock"},
		{relPath: ".bundle", kind: model.ArtifactCache, restoreHint: ""},
	}), nil
}
