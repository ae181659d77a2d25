package analysis

import (
	"github.com/tinyland-lab/reclaim/model"
)

// DependencyDuplication is an estimate of space that could be reclaimed by
// deduplicating a given kind of dependency artifact across all scanned
// projects, via a shared cache or workspace tooling (pnpm, a shared cargo
// target dir, etc.). These are documented estimates, not measurements --
// see Open Question decision 2 -- so the field is named EstimatedSavings
// rather than MeasuredSavings throughout.
type DependencyDuplication struct {
	Kind             model.ArtifactKind
	ProjectCount     int
	TotalBytes       int64
	EstimatedSavings int64
	Heuristic        string
}

// dedupeHeuristics maps an artifact kind to the fixed fraction of its
// total size assumed recoverable by deduplication, when more than one
// project on the same machine carries it. These percentages are rough,
// documented guesses (virtual envs duplicate more content than Rust
// target/ directories do across unrelated projects) rather than derived
// from any measurement, and the estimate is labeled as such throughout.
var dedupeHeuristics = map[model.ArtifactKind]struct {
	fraction float64
	label    string
}{
	model.ArtifactVirtualEnv:   {0.40, "40% of combined virtualenv size assumed shared (same base packages across projects)"},
	model.ArtifactBuildOutput:  {0.35, "35% of combined Rust target/ size assumed shared when toolchain versions match"},
	model.ArtifactDependencies: {0.25, "25% of combined node_modules size assumed shared (common transitive deps)"},
}

// AnalyzeDuplicateDependencies groups cleanable artifacts by kind across
// every scanned project and estimates the deduplication savings for the
// kinds dedupeHeuristics covers.
func AnalyzeDuplicateDependencies(projects []model.Project) []DependencyDuplication {
	totals := make(map[model.ArtifactKind]int64)
	counts := make(map[model.ArtifactKind]int)

	for _, project := range projects {
		seenKind := make(map[model.ArtifactKind]bool)
		for _, artifact := range project.Artifacts {
			totals[artifact.Kind] += artifact.Bytes
			if !seenKind[artifact.Kind] {
				counts[artifact.Kind]++
				seenKind[artifact.Kind] = true
			}
		}
	}

	var out []DependencyDuplication
	for kind, heuristic := range dedupeHeuristics {
		count := counts[kind]
		if count < 2 {
			continue // nothing to deduplicate with only one project carrying it
		}
		total := totals[kind]
		out = append(out, DependencyDuplication{
			Kind:             kind,
			ProjectCount:     count,
			TotalBytes:       total,
			EstimatedSavings: int64(float64(total) * heuristic.fraction),
			Heuristic:        heuristic.label,
		})
	}
	return out
}
