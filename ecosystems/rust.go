package ecosystems

import (
	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/registry"
)

// rustPlugin recognizes Cargo-based Rust projects. target/ is a sibling
// of Cargo.toml and is reported as build output (safe once the git tree is
// clean), since cargo regenerates it in full on the next build.
type rustPlugin struct{ registry.BasePlugin }

func NewRust() registry.Plugin {
	return &rustPlugin{registry.BasePlugin{
		NamedKind: model.KindRust,
		MarkerSet: []model.ProjectMarker{
			{Indicator: "Cargo.lock", IndicatorKind: model.IndicatorExactName, Kind: model.KindRust, Priority: 10},
			{Indicator: "Cargo.toml", IndicatorKind: model.IndicatorExactName, Kind: model.KindRust, Priority: 5},
		},
	}}
}

func (p *rustPlugin) Name() string { return "cargo" }

func (p *rustPlugin) Enumerate(projectPath string, entries []string) ([]model.Artifact, error) {
	return buildArtifacts(projectPath, []artifactDir{
		{relPath: "target", kind: model.ArtifactBuildOutput, restoreHint: "cargo build", restoreCmd: []string{"cargo", "build"}, lockfile: "Cargo.lock"},
	}), nil
}
