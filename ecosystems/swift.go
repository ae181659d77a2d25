package ecosystems

import (
	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/registry"
)

// swiftPMPlugin recognizes Swift Package Manager projects (Package.swift).
type swiftPMPlugin struct{ registry.BasePlugin }

func NewSwiftPM() registry.Plugin {
	return &swiftPMPlugin{registry.BasePlugin{
		NamedKind: model.KindSwiftPM,
		MarkerSet: []model.ProjectMarker{
			{Indicator: "Package.swift", IndicatorKind: model.IndicatorExactName, Kind: model.KindSwiftPM, Priority: 9},
		},
	}}
}

func (p *swiftPMPlugin) Name() string { return "swiftpm" }

func (p *swiftPMPlugin) Enumerate(projectPath string, entries []string) ([]model.Artifact, error) {
	return buildArtifacts(projectPath, []artifactDir{
		{relPath: ".build", kind: model.ArtifactBuildOutput, restoreHint: "swift build", restoreCmd: []string{"swift", "build"}},
	}), nil
}

// xcodePlugin recognizes Xcode project/workspace directories. DerivedData
// for Xcode projects actually lives outside the project tree
// (~/Library/Developer/Xcode/DerivedData), so this plugin's in-tree
// artifacts are limited to build/ and xcuserdata; the cleaners package
// handles the out-of-tree DerivedData sweep as a separate, user-global
// cleaner rather than a per-project plugin.
type xcodePlugin struct{ registry.BasePlugin }

func NewXcode() registry.Plugin {
	return &xcodePlugin{registry.BasePlugin{
		NamedKind: model.KindXcode,
		MarkerSet: []model.ProjectMarker{
			{Indicator: ".xcodeproj", IndicatorKind: model.IndicatorExtension, Kind: model.KindXcode, Priority: 8},
			{Indicator: ".xcworkspace", IndicatorKind: model.IndicatorExtension, Kind: model.KindXcode, Priority: 9},
		},
	}}
}

func (p *xcodePlugin) Name() string { return "xcode" }

func (p *xcodePlugin) Enumerate(projectPath string, entries []string) ([]model.Artifact, error) {
	return buildArtifacts(projectPath, []artifactDir{
		{relPath: "build", kind: model.ArtifactBuildOutput, restoreHint: "xcodebuild"},
		{relPath: "*.xcodeproj/xcuserdata", kind: model.ArtifactIDEArtifacts, restoreHint: ""},
	}), nil
}
