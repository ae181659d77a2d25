package ecosystems

import (
	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/registry"
)

// mavenPlugin recognizes Maven projects (pom.xml).
type mavenPlugin struct{ registry.BasePlugin }

func NewMaven() registry.Plugin {
	return &mavenPlugin{registry.BasePlugin{
		NamedKind: model.KindMaven,
		MarkerSet: []model.ProjectMarker{
			{Indicator: "pom.xml", IndicatorKind: model.IndicatorExactName, Kind: model.KindMaven, Priority: 8},
		},
	}}
}

func (p *mavenPlugin) Name() string { return "maven" }

func (p *mavenPlugin) Enumerate(projectPath string, entries []string) ([]model.Artifact, error) {
	return buildArtifacts(projectPath, []artifactDir{
		{relPath: "target", kind: model.ArtifactBuildOutput, restoreHint: "mvn package", restoreCmd: []string{"mvn", "package"}},
	}), nil
}

// gradlePlugin recognizes Gradle projects (build.gradle or build.gradle.kts).
type gradlePlugin struct{ registry.BasePlugin }

func NewGradle() registry.Plugin {
	return &gradlePlugin{registry.BasePlugin{
		NamedKind: model.KindGradle,
		MarkerSet: []model.ProjectMarker{
			{IndicatorKind: model.IndicatorAnyOf, AnyOf: []string{"build.gradle", "build.gradle.kts"}, Kind: model.KindGradle, Priority: 8},
		},
	}}
}

func (p *gradlePlugin) Name() string { return "gradle" }

func (p *gradlePlugin) Enumerate(projectPath string, entries []string) ([]model.Artifact, error) {
	return buildArtifacts(projectPath, []artifactDir{
		{relPath: "build", kind: model.ArtifactBuildOutput, restoreHint: "gradle build", restoreCmd: []string{"gradle", "build"}},
		{relPath: ".gradle", kind: model.ArtifactCache, restoreHint: ""},
	}), nil
}
