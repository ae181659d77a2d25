package ecosystems

import "github.com/tinyland-lab/reclaim/registry"

// RegisterAll registers one instance of every concrete ecosystem plugin
// into r. Registration order here becomes the registry's tie-break order
// for equal-priority matches, so lockfile-bearing variants (yarn, pnpm,
// bun, poetry, pipenv, uv, conda) are registered before their looser
// parent ecosystems (npm, pip) even though priority alone already favors
// them in the common case.
func RegisterAll(r *registry.Registry) {
	for _, p := range []registry.Plugin{
		NewYarn(),
		NewPNPM(),
		NewBun(),
		NewNPM(),
		NewRust(),
		NewPoetry(),
		NewPipenv(),
		NewConda(),
		NewUV(),
		NewPip(),
		NewGo(),
		NewMaven(),
		NewGradle(),
		NewDotNet(),
		NewFSharp(),
		NewSwiftPM(),
		NewXcode(),
		NewRuby(),
	} {
		r.Register(p)
	}
}
