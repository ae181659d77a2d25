// Package registry holds the ecosystem Plugin interface and the Registry
// that indexes registered plugins by the marker files they claim. A
// Plugin answers "is this directory an instance of my ecosystem, and
// what can I reclaim inside it."
package registry

import (
	"github.com/tinyland-lab/reclaim/model"
)

// Plugin is the interface every concrete ecosystem (npm, rust, go, ...)
// implements. Plugins are stateless and safe for concurrent use by
// multiple scanner workers.
type Plugin interface {
	// Name is the plugin's unique identifier, e.g. "npm", "cargo".
	Name() string

	// Kind is the ProjectKind this plugin recognizes.
	Kind() model.ProjectKind

	// Markers returns the detection rules that imply this plugin's kind.
	Markers() []model.ProjectMarker

	// Detect reports whether entries (the immediate children of a
	// candidate directory) indicate this plugin's ecosystem, and at what
	// priority, so the Registry can break ties when multiple plugins
	// match the same directory.
	Detect(entries []string) (matched bool, priority int)

	// Enumerate returns the reclaimable artifacts found under projectPath,
	// already stamped with their default safety class.
	Enumerate(projectPath string, entries []string) ([]model.Artifact, error)
}

// BasePlugin supplies a default Detect built from Markers, so most concrete
// plugins only need to implement Name, Kind, Markers and Enumerate.
type BasePlugin struct {
	NamedKind model.ProjectKind
	MarkerSet []model.ProjectMarker
}

func (b BasePlugin) Kind() model.ProjectKind { return b.NamedKind }

func (b BasePlugin) Markers() []model.ProjectMarker { return b.MarkerSet }

func (b BasePlugin) Detect(entries []string) (bool, int) {
	best := -1
	for _, m := range b.MarkerSet {
		if m.Matches(entries) && m.Priority > best {
			best = m.Priority
		}
	}
	if best < 0 {
		return false, 0
	}
	return true, best
}
