package ecosystems

import (
	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/registry"
)

// dotnetPlugin recognizes C#/.NET projects (.csproj or .sln).
type dotnetPlugin struct{ registry.BasePlugin }

func NewDotNet() registry.Plugin {
	return &dotnetPlugin{registry.BasePlugin{
		NamedKind: model.KindDotNet,
		MarkerSet: []model.ProjectMarker{
			{Indicator: ".csproj", IndicatorKind: model.IndicatorExtension, Kind: model.KindDotNet, Priority: 8},
			{Indicator: ".sln", IndicatorKind: model.IndicatorExtension, Kind: model.KindDotNet, Priority: 7},
		},
	}}
}

func (p *dotnetPlugin) Name() string { return "dotnet" }

func (p *dotnetPlugin) Enumerate(projectPath string, entries []string) ([]model.Artifact, error) {
	return buildArtifacts(projectPath, []artifactDir{
		{relPath: "bin", kind: model.ArtifactBuildOutput, restoreHint: "dotnet build", restoreCmd: []string{"dotnet", "build"}},
		{relPath: "obj", kind: model.ArtifactBuildOutput, restoreHint: "dotnet restore", restoreCmd: []string{"dotnet", "restore"}},
	}), nil
}

// fsharpPlugin recognizes F# projects (.fsproj). Kept distinct from
// dotnetPlugin since fsharp is its own ProjectKind, even though both
// share the dotnet build-output layout.
type fsharpPlugin struct{ registry.BasePlugin }

func NewFSharp() registry.Plugin {
	return &fsharpPlugin{registry.BasePlugin{
		NamedKind: model.KindFSharp,
		MarkerSet: []model.ProjectMarker{
			{Indicator: ".fsproj", IndicatorKind: model.IndicatorExtension, Kind: model.KindFSharp, Priority: 9},
		},
	}}
}

func (p *fsharpPlugin) Name() string { return "fsharp" }

func (p *fsharpPlugin) Enumerate(projectPath string, entries []string) ([]model.Artifact, error) {
	return buildArtifacts(projectPath, []artifactDir{
		{relPath: "bin", kind: model.ArtifactBuildOutput, restoreHint: "dotnet build", restoreCmd: []string{"dotnet", "build"}},
		{relPath: "obj", kind: model.ArtifactBuildOutput, restoreHint: "dotnet restore", restoreCmd: []string{"dotnet", "restore"}},
	}), nil
}
