package binanalysis

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/pathutil"
)

// GroupDuplicates buckets instances by command name and returns one
// DuplicateGroup per command that has more than one distinct resolved
// install, classified per spec.md 4.4 step 4 (conflicting managers / one
// source with stale versions / shared duplicate source / keep-all) with
// an aggregate safety level per step 5.
func GroupDuplicates(instances []model.BinaryInstance) []model.DuplicateGroup {
	byCommand := make(map[string][]model.BinaryInstance)
	for _, inst := range instances {
		byCommand[inst.Command] = append(byCommand[inst.Command], inst)
	}

	var groups []model.DuplicateGroup
	for command, insts := range byCommand {
		distinct := distinctByResolved(insts)
		if len(distinct) < 2 {
			continue
		}

		group := model.DuplicateGroup{Command: command, Instances: distinct}
		for _, inst := range distinct {
			if !inst.Active {
				group.BytesReclaim += inst.Bytes
			}
		}
		group.Recommend = recommend(distinct)
		group.Safety = aggregateSafety(distinct)
		groups = append(groups, group)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].BytesReclaim > groups[j].BytesReclaim
	})
	return groups
}

func distinctByResolved(instances []model.BinaryInstance) []model.BinaryInstance {
	seen := make(map[string]bool)
	var out []model.BinaryInstance
	for _, inst := range instances {
		if seen[inst.Resolved] {
			continue
		}
		seen[inst.Resolved] = true
		out = append(out, inst)
	}
	return out
}

// isVersionManagerOrBrew reports whether source is one of the sources step
// 4 of spec.md 4.4 counts toward "conflicting managers": a version manager
// or Homebrew, as opposed to a system path or an unclassified source.
func isVersionManagerOrBrew(source model.InstallSource) bool {
	switch source {
	case model.SourceAsdf, model.SourceNvm, model.SourceRbenv, model.SourcePyenv,
		model.SourceSDKMAN, model.SourceHomebrew, model.SourceCargo,
		model.SourceGoInstall, model.SourceNix, model.SourceConda:
		return true
	default:
		return false
	}
}

// recommend classifies distinct (already deduplicated by resolved path)
// instances of one command into exactly one Recommendation variant,
// following spec.md 4.4 step 4 in order.
func recommend(instances []model.BinaryInstance) model.Recommendation {
	sources := distinctSources(instances)

	if len(sources) > 1 {
		managerOrBrewCount := 0
		for _, s := range sources {
			if isVersionManagerOrBrew(s) {
				managerOrBrewCount++
			}
		}
		if managerOrBrewCount >= 2 {
			return model.Recommendation{Kind: model.RecommendConflictingManagers, ConflictSources: sources}
		}

		// More than one source, but the inactive non-system entries share
		// a single source: the duplicate lives in one place.
		if dup, ok := singleInactiveSource(instances); ok {
			return model.Recommendation{Kind: model.RecommendRemoveDuplicateSource, Source: dup}
		}
	}

	if len(sources) == 1 {
		var versions []string
		for _, inst := range instances {
			if inst.Active {
				continue
			}
			if inst.Version != "" {
				versions = append(versions, inst.Version)
			}
		}
		if len(versions) > 0 {
			return model.Recommendation{Kind: model.RecommendRemoveOldVersions, OldVersions: versions}
		}
	}

	return model.Recommendation{Kind: model.RecommendKeepAll, Reason: "no clear duplicate to remove; review manually"}
}

func distinctSources(instances []model.BinaryInstance) []model.InstallSource {
	seen := make(map[model.InstallSource]bool)
	var out []model.InstallSource
	for _, inst := range instances {
		if !seen[inst.Source] {
			seen[inst.Source] = true
			out = append(out, inst.Source)
		}
	}
	return out
}

// singleInactiveSource reports the single source shared by every instance
// that is neither the active one nor a system install, if exactly one such
// source exists.
func singleInactiveSource(instances []model.BinaryInstance) (model.InstallSource, bool) {
	seen := make(map[model.InstallSource]bool)
	for _, inst := range instances {
		if inst.Active || inst.Source == model.SourceSystem {
			continue
		}
		seen[inst.Source] = true
	}
	if len(seen) != 1 {
		return model.SourceUnknown, false
	}
	for s := range seen {
		return s, true
	}
	return model.SourceUnknown, false
}

// aggregateSafety implements spec.md 4.4 step 5: a lone system instance is
// dangerous to touch, any non-active non-system instance is safe-with-cost,
// any version-manager-owned instance is caution, otherwise safe.
func aggregateSafety(instances []model.BinaryInstance) model.SafetyLevel {
	if len(instances) == 1 && instances[0].Source == model.SourceSystem {
		return model.SafetyLevelDangerous
	}
	for _, inst := range instances {
		if !inst.Active && inst.Source != model.SourceSystem {
			return model.SafetyLevelSafeWithCost
		}
	}
	for _, inst := range instances {
		if isVersionManagerOrBrew(inst.Source) {
			return model.SafetyLevelCaution
		}
	}
	return model.SafetyLevelSafe
}

// managedVersionManagers is the set of version-manager sources step 6
// checks for unused installs.
var managedVersionManagers = []model.InstallSource{
	model.SourceAsdf, model.SourceNvm, model.SourceRbenv,
	model.SourcePyenv, model.SourceSDKMAN,
}

// DetectUnusedManagers flags version managers that are installed (their
// managed-installs directory exists and is non-empty) but whose managed
// installs never show up as the active binary for any probed command.
// Reported at SafetyLevelCaution rather than Safe, per spec.md 4.4 step 6's
// note that Safe produced false positives in practice.
func DetectUnusedManagers(instances []model.BinaryInstance) []model.CleanableItem {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	bySource := make(map[model.InstallSource][]model.BinaryInstance)
	for _, inst := range instances {
		bySource[inst.Source] = append(bySource[inst.Source], inst)
	}

	var out []model.CleanableItem
	for _, source := range managedVersionManagers {
		if !managerPresence(source, home) {
			continue
		}
		anyActive := false
		var size int64
		for _, inst := range bySource[source] {
			size += inst.Bytes
			if inst.Active {
				anyActive = true
			}
		}
		if anyActive {
			continue
		}
		out = append(out, model.CleanableItem{
			Name:        source.String(),
			Category:    "binary-analyzer",
			Subcategory: "unused-manager",
			Icon:        "manager",
			Path:        managerRoot(source, home),
			Bytes:       size,
			Description: source.String() + " is installed but none of its managed binaries are active on PATH",
			Safety:      model.SafetyLevelCaution,
		})
	}
	return out
}

func managerRoot(source model.InstallSource, home string) string {
	switch source {
	case model.SourceAsdf:
		return filepath.Join(home, ".asdf")
	case model.SourceNvm:
		return filepath.Join(home, ".nvm")
	case model.SourceRbenv:
		return filepath.Join(home, ".rbenv")
	case model.SourcePyenv:
		return filepath.Join(home, ".pyenv")
	case model.SourceSDKMAN:
		return filepath.Join(home, ".sdkman")
	default:
		return ""
	}
}

// managerEnvVar names the shell-rc environment variable step 7 greps for,
// and the root directory whose absence makes the variable stale.
type managerEnvVar struct {
	name string
	root func(home string) string
}

var staleConfigVars = []managerEnvVar{
	{name: "NVM_DIR", root: func(h string) string { return filepath.Join(h, ".nvm") }},
	{name: "PYENV_ROOT", root: func(h string) string { return filepath.Join(h, ".pyenv") }},
	{name: "RBENV_ROOT", root: func(h string) string { return filepath.Join(h, ".rbenv") }},
	{name: "RUSTUP_HOME", root: func(h string) string { return filepath.Join(h, ".rustup") }},
	{name: "SDKMAN_DIR", root: func(h string) string { return filepath.Join(h, ".sdkman") }},
}

// shellRCFiles lists the rc files DetectStaleConfigs greps, in the order a
// login shell would source them.
func shellRCFiles(home string) []string {
	return []string{
		filepath.Join(home, ".bashrc"),
		filepath.Join(home, ".bash_profile"),
		filepath.Join(home, ".zshrc"),
		filepath.Join(home, ".profile"),
	}
}

// DetectStaleConfigs implements spec.md 4.4 step 7: grep the user's shell
// rc files for each manager's canonical environment variable, and flag any
// variable whose manager root directory no longer exists on disk. Every
// emitted item carries a Path that does not exist (a sentinel under the
// manager's expected-but-missing root), is Dangerous, and instructs a
// manual edit -- see Open Question decision 1 in DESIGN.md for why the
// deleter must never be allowed to act on it automatically.
func DetectStaleConfigs() []model.CleanableItem {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	var found []string
	for _, rc := range shellRCFiles(home) {
		vars, err := grepEnvVars(rc)
		if err != nil {
			continue
		}
		found = append(found, vars...)
	}

	seen := make(map[string]bool)
	var out []model.CleanableItem
	for _, name := range found {
		if seen[name] {
			continue
		}
		seen[name] = true
		for _, mv := range staleConfigVars {
			if mv.name != name {
				continue
			}
			root := mv.root(home)
			if pathutil.Exists(root) {
				continue
			}
			out = append(out, model.CleanableItem{
				Name:        name,
				Category:    "binary-analyzer",
				Subcategory: "stale-config",
				Icon:        "warning",
				Path:        root, // does not exist: see doc comment above
				Description: name + " is set in a shell rc file but " + root + " no longer exists; remove the export manually",
				Safety:      model.SafetyLevelDangerous,
			})
		}
	}
	return out
}

// grepEnvVars scans rc for `export NAME=` or `NAME=` assignment lines and
// returns the variable names found. A missing or unreadable rc file is not
// an error, just an empty result.
func grepEnvVars(rc string) ([]string, error) {
	f, err := os.Open(rc)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		line = strings.TrimPrefix(line, "export ")
		for _, mv := range staleConfigVars {
			if strings.HasPrefix(line, mv.name+"=") {
				out = append(out, mv.name)
			}
		}
	}
	return out, nil
}
