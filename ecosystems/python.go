package ecosystems

import (
	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/registry"
)

// pipPlugin recognizes plain pip projects (requirements.txt, setup.py)
// with a conventional .venv sitting alongside one of the Python project
// markers.
type pipPlugin struct{ registry.BasePlugin }

func NewPip() registry.Plugin {
	return &pipPlugin{registry.BasePlugin{
		NamedKind: model.KindPip,
		MarkerSet: []model.ProjectMarker{
			{IndicatorKind: model.IndicatorAnyOf, AnyOf: []string{"requirements.txt", "setup.py", "setup.cfg"}, Kind: model.KindPip, Priority: 4},
		},
	}}
}

func (p *pipPlugin) Name() string { return "pip" }

func (p *pipPlugin) Enumerate(projectPath string, entries []string) ([]model.Artifact, error) {
	return buildArtifacts(projectPath, []artifactDir{
		{relPath: ".venv", kind: model.ArtifactVirtualEnv, restoreHint: "pip install -r requirements.txt", restoreCmd: []string{"pip", "install", "-r", "requirements.txt"}, lockfile: "requirements.txt"},
		{relPath: "venv", kind: model.ArtifactVirtualEnv, restoreHint: "pip install -r requirements.txt", lockfile: "requirements.txt"},
		{relPath: "__pycache__", kind: model.ArtifactBytecode, restoreHint: ""},
		{relPath: ".pytest_cache", kind: model.ArtifactTestOutput, restoreHint: ""},
		{relPath: "build", kind: model.ArtifactBuildOutput, restoreHint: "python setup.py build"},
		{relPath: "*.egg-info", kind: model.ArtifactBuildOutput, restoreHint: "pip install -e ."},
	}), nil
}

// poetryPlugin recognizes Poetry projects (poetry.lock).
type poetryPlugin struct{ registry.BasePlugin }

func NewPoetry() registry.Plugin {
	return &poetryPlugin{registry.BasePlugin{
		NamedKind: model.KindPoetry,
		MarkerSet: []model.ProjectMarker{
			{Indicator: "poetry.lock", IndicatorKind: model.IndicatorExactName, Kind: model.KindPoetry, Priority: 10},
		},
	}}
}

func (p *poetryPlugin) Name() string { return "poetry" }

func (p *poetryPlugin) Enumerate(projectPath string, entries []string) ([]model.Artifact, error) {
	return buildArtifacts(projectPath, []artifactDir{
		{relPath: ".venv", kind: model.ArtifactVirtualEnv, restoreHint: "poetry install", restoreCmd: []string{"poetry", "install"}, lockfile: "poetry.lock"},
		{relPath: "dist", kind: model.ArtifactBuildOutput, restoreHint: "poetry build"},
	}), nil
}

// pipenvPlugin recognizes Pipenv projects (Pipfile.lock).
type pipenvPlugin struct{ registry.BasePlugin }

func NewPipenv() registry.Plugin {
	return &pipenvPlugin{registry.BasePlugin{
		NamedKind: model.KindPipenv,
		MarkerSet: []model.ProjectMarker{
			{Indicator: "Pipfile.lock", IndicatorKind: model.IndicatorExactName, Kind: model.KindPipenv, Priority: 10},
			{Indicator: "Pipfile", IndicatorKind: model.IndicatorExactName, Kind: model.KindPipenv, Priority: 6},
		},
	}}
}

func (p *pipenvPlugin) Name() string { return "pipenv" }

func (p *pipenvPlugin) Enumerate(projectPath string, entries []string) ([]model.Artifact, error) {
	// Pipenv keeps its venv outside the project tree by default; the only
	// reclaimable in-tree artifact is bytecode cache.
	return buildArtifacts(projectPath, []artifactDir{
		{relPath: "__pycache__", kind: model.ArtifactBytecode, restoreHint: ""},
	}), nil
}

// condaPlugin recognizes Conda-managed projects (environment.yml) with an
// in-tree env directory.
type condaPlugin struct{ registry.BasePlugin }

func NewConda() registry.Plugin {
	return &condaPlugin{registry.BasePlugin{
		NamedKind: model.KindConda,
		MarkerSet: []model.ProjectMarker{
			{Indicator: "environment.yml", IndicatorKind: model.IndicatorExactName, Kind: model.KindConda, Priority: 9},
			{Indicator: "environment.yaml", IndicatorKind: model.IndicatorExactName, Kind: model.KindConda, Priority: 9},
		},
	}}
}

func (p *condaPlugin) Name() string { return "conda" }

func (p *condaPlugin) Enumerate(projectPath string, entries []string) ([]model.Artifact, error) {
	return buildArtifacts(projectPath, []artifactDir{
		{relPath: "envs", kind: model.ArtifactVirtualEnv, restoreHint: "conda env create -f environment.yml", restoreCmd: []string{"conda", "env", "create", "-f", "environment.yml"}, lockfile: "environment.yml"},
	}), nil
}

// uvPlugin recognizes uv-managed projects (uv.lock).
type uvPlugin struct{ registry.BasePlugin }

func NewUV() registry.Plugin {
	return &uvPlugin{registry.BasePlugin{
		NamedKind: model.KindUV,
		MarkerSet: []model.ProjectMarker{
			{Indicator: "uv.lock", IndicatorKind: model.IndicatorExactName, Kind: model.KindUV, Priority: 10},
		},
	}}
}

func (p *uvPlugin) Name() string { return "uv" }

func (p *uvPlugin) Enumerate(projectPath string, entries []string) ([]model.Artifact, error) {
	return buildArtifacts(projectPath, []artifactDir{
		{relPath: ".venv", kind: model.ArtifactVirtualEnv, restoreHint: "uv sync", restoreCmd: []string{"uv", "sync"}, lockfile: "uv.lock"},
	}), nil
}
