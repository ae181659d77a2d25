package ecosystems

import (
	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/registry"
)

// npmPlugin recognizes plain npm projects: a package.json with a
// package-lock.json (or no lockfile at all, the npm default).
type npmPlugin struct{ registry.BasePlugin }

func NewNPM() registry.Plugin {
	return &npmPlugin{registry.BasePlugin{
		NamedKind: model.KindNPM,
		MarkerSet: []model.ProjectMarker{
			{Indicator: "package-lock.json", IndicatorKind: model.IndicatorExactName, Kind: model.KindNPM, Priority: 10},
			{Indicator: "package.json", IndicatorKind: model.IndicatorExactName, Kind: model.KindNPM, Priority: 5},
		},
	}}
}

func (p *npmPlugin) Name() string { return "npm" }

func (p *npmPlugin) Enumerate(projectPath string, entries []string) ([]model.Artifact, error) {
	return buildArtifacts(projectPath, []artifactDir{
		{relPath: "node_modules", kind: model.ArtifactDependencies, restoreHint: "npm install", restoreCmd: []string{"npm", "install"}, lockfile: "package-lock.json"},
		{relPath: "dist", kind: model.ArtifactBuildOutput, restoreHint: "npm run build"},
		{relPath: "build", kind: model.ArtifactBuildOutput, restoreHint: "npm run build"},
		{relPath: "coverage", kind: model.ArtifactTestOutput, restoreHint: "npm test -- --coverage"},
		{relPath: ".npm", kind: model.ArtifactCache, restoreHint: ""},
	}), nil
}

// yarnPlugin recognizes yarn-managed projects (yarn.lock present).
type yarnPlugin struct{ registry.BasePlugin }

func NewYarn() registry.Plugin {
	return &yarnPlugin{registry.BasePlugin{
		NamedKind: model.KindYarn,
		MarkerSet: []model.ProjectMarker{
			{Indicator: "yarn.lock", IndicatorKind: model.IndicatorExactName, Kind: model.KindYarn, Priority: 11},
		},
	}}
}

func (p *yarnPlugin) Name() string { return "yarn" }

func (p *yarnPlugin) Enumerate(projectPath string, entries []string) ([]model.Artifact, error) {
	return buildArtifacts(projectPath, []artifactDir{
		{relPath: "node_modules", kind: model.ArtifactDependencies, restoreHint: "yarn install", restoreCmd: []string{"yarn", "install"}, lockfile: "yarn.lock"},
		{relPath: ".yarn/cache", kind: model.ArtifactPackageManagerCache, restoreHint: "yarn install"},
		{relPath: ".yarn/install-state.gz", kind: model.ArtifactCache, restoreHint: ""},
		{relPath: "dist", kind: model.ArtifactBuildOutput, restoreHint: "yarn build"},
	}), nil
}

// pnpmPlugin recognizes pnpm-managed projects (pnpm-lock.yaml present).
type pnpmPlugin struct{ registry.BasePlugin }

func NewPNPM() registry.Plugin {
	return &pnpmPlugin{registry.BasePlugin{
		NamedKind: model.KindPNPM,
		MarkerSet: []model.ProjectMarker{
			{Indicator: "pnpm-lock.yaml", IndicatorKind: model.IndicatorExactName, Kind: model.KindPNPM, Priority: 11},
		},
	}}
}

func (p *pnpmPlugin) Name() string { return "pnpm" }

func (p *pnpmPlugin) Enumerate(projectPath string, entries []string) ([]model.Artifact, error) {
	return buildArtifacts(projectPath, []artifactDir{
		{relPath: "node_modules", kind: model.ArtifactDependencies, restoreHint: "pnpm install", restoreCmd: []string{"pnpm", "install"}, lockfile: "pnpm-lock.yaml"},
		{relPath: ".pnpm-store", kind: model.ArtifactPackageManagerCache, restoreHint: "pnpm install"},
		{relPath: "dist", kind: model.ArtifactBuildOutput, restoreHint: "pnpm build"},
	}), nil
}

// bunPlugin recognizes bun-managed projects (bun.lockb or bun.lock present).
type bunPlugin struct{ registry.BasePlugin }

func NewBun() registry.Plugin {
	return &bunPlugin{registry.BasePlugin{
		NamedKind: model.KindBun,
		MarkerSet: []model.ProjectMarker{
			{Indicator: "bun.lockb", IndicatorKind: model.IndicatorExactName, Kind: model.KindBun, Priority: 11},
			{Indicator: "bun.lock", IndicatorKind: model.IndicatorExactName, Kind: model.KindBun, Priority: 11},
		},
	}}
}

func (p *bunPlugin) Name() string { return "bun" }

func (p *bunPlugin) Enumerate(projectPath string, entries []string) ([]model.Artifact, error) {
	return buildArtifacts(projectPath, []artifactDir{
		{relPath: "node_modules", kind: model.ArtifactDependencies, restoreHint: "bun install", restoreCmd: []string{"bun", "install"}, lockfile: "bun.lockb"},
		{relPath: "dist", kind: model.ArtifactBuildOutput, restoreHint: "bun run build"},
	}), nil
}
