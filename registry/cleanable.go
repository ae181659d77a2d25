package registry

// cleanableDirNames is the static, well-known set of directory basenames
// the scanner refuses to descend into: everything beneath one of these is
// considered part of an artifact tree, never a nested project root. This
// is deliberately a single centrally-maintained set rather than a field
// duplicated onto every ecosystems.Plugin literal -- each plugin already
// declares its own candidate artifact directories in its Enumerate body,
// and a second parallel list on the Plugin interface would only drift
// from the first.
var cleanableDirNames = map[string]bool{
	"node_modules":   true,
	"target":         true,
	"vendor":         true,
	"build":          true,
	"dist":           true,
	".venv":          true,
	"venv":           true,
	"__pycache__":    true,
	".next":          true,
	".turbo":         true,
	".cache":         true,
	".nuxt":          true,
	"coverage":       true,
	".gradle":        true,
	".mvn":           true,
	"bin":            true,
	"obj":            true,
	".dart_tool":     true,
	".tox":           true,
	"Pods":           true,
	"DerivedData":    true,
	".pytest_cache":  true,
	".mypy_cache":    true,
	".ruff_cache":    true,
	".yarn":          true,
	".pnpm-store":    true,
	"bower_components": true,
}

// IsCleanableDir reports whether name is a well-known artifact directory
// the scanner should never descend into while looking for nested
// projects. O(1) map lookup, as required by the registry's fast-path
// contract.
func IsCleanableDir(name string) bool {
	return cleanableDirNames[name]
}
