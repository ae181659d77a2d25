package model

import (
	"os"
	"time"
)

// SafetyLevel is the coarser, four-valued safety tag surfaced to the UI
// for CleanableItems -- specialized-cleaner and binary-analyzer findings
// that live outside any single Project, where the finer five-valued
// Artifact SafetyClass doesn't apply.
type SafetyLevel int

const (
	SafetyLevelSafe SafetyLevel = iota
	SafetyLevelSafeWithCost
	SafetyLevelCaution
	SafetyLevelDangerous
)

func (s SafetyLevel) String() string {
	switch s {
	case SafetyLevelSafe:
		return "safe"
	case SafetyLevelSafeWithCost:
		return "safe-with-cost"
	case SafetyLevelCaution:
		return "caution"
	case SafetyLevelDangerous:
		return "dangerous"
	default:
		return "caution"
	}
}

// CleanableItem is the unified output type of the specialized cleaners and
// the binary analyzer: a single removable thing that doesn't belong to any
// one Project, reported with coarser category/subcategory labels and a
// four-valued safety level rather than Artifact's project-scoped
// ArtifactKind/SafetyClass pair.
type CleanableItem struct {
	Name         string
	Category     string
	Subcategory  string
	Icon         string
	Path         string
	Bytes        int64
	FileCount    *int
	LastModified *time.Time
	Description  string
	Safety       SafetyLevel
	SuggestedCmd string // human-readable command shown to the user, e.g. "docker rmi ab12cd34"

	// RequiresShell/RestoreCmd mirror Artifact's fields: when set, removal
	// means running RestoreCmd (e.g. a Docker Engine API call surfaced as
	// a CLI-shaped command) rather than deleting Path from the filesystem.
	RequiresShell bool
	RestoreCmd    []string
}

// ToArtifact lifts a CleanableItem into the Artifact shape the delete
// package already knows how to process, so a single Deleter implementation
// serves the project scanner, the specialized cleaners and the binary
// analyzer alike. The four-valued SafetyLevel maps onto the nearest
// five-valued SafetyClass; a Dangerous item whose Path doesn't exist on
// disk (the stale-config sentinel, see binanalysis) becomes Advisory so
// the deleter refuses it outright rather than attempting a no-op delete.
func (c CleanableItem) ToArtifact() Artifact {
	a := Artifact{
		Path:          c.Path,
		Kind:          ArtifactCustom,
		Bytes:         c.Bytes,
		Note:          c.Description,
		RestoreHint:   c.SuggestedCmd,
		RequiresShell: c.RequiresShell,
		RestoreCmd:    c.RestoreCmd,
	}
	if c.FileCount != nil {
		a.Files = *c.FileCount
	}
	if c.LastModified != nil {
		a.ModTime = *c.LastModified
	}
	switch c.Safety {
	case SafetyLevelSafe:
		a.Safety = SafetyAlwaysSafe
	case SafetyLevelSafeWithCost:
		a.Safety = SafetyIfGitClean
	case SafetyLevelCaution:
		a.Safety = SafetyRequiresConfirmation
	case SafetyLevelDangerous:
		a.Safety = SafetyNeverAuto
	default:
		a.Safety = SafetyRequiresConfirmation
	}
	if c.Safety == SafetyLevelDangerous && !pathExists(c.Path) {
		a.Advisory = true
	}
	return a
}

func pathExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
