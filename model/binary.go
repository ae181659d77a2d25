package model

import "strings"

// InstallSource classifies where a resolved binary's canonical path lives,
// via a closed substring-rule set.
type InstallSource int

const (
	SourceUnknown InstallSource = iota
	SourceSystem
	SourceHomebrew
	SourceAsdf
	SourceNvm
	SourceRbenv
	SourcePyenv
	SourceSDKMAN
	SourceCargo
	SourceGoInstall
	SourceNix
	SourceUserLocal
	SourceConda
)

func (s InstallSource) String() string {
	switch s {
	case SourceSystem:
		return "system"
	case SourceHomebrew:
		return "homebrew"
	case SourceAsdf:
		return "asdf"
	case SourceNvm:
		return "nvm"
	case SourceRbenv:
		return "rbenv"
	case SourcePyenv:
		return "pyenv"
	case SourceSDKMAN:
		return "sdkman"
	case SourceCargo:
		return "cargo"
	case SourceGoInstall:
		return "go-install"
	case SourceNix:
		return "nix"
	case SourceUserLocal:
		return "user-local"
	case SourceConda:
		return "conda"
	default:
		return "unknown"
	}
}

// BinaryInstance is one resolved hit for a probed command name: the
// resolved (symlink-free) path, its classified install source, parsed
// version, and whether `which` reports it as the one that would actually
// run.
type BinaryInstance struct {
	Command    string
	RawPath    string
	Resolved   string
	Hops       int
	Source     InstallSource
	Version    string
	Active     bool
	Bytes      int64
	VersionErr error
}

// RecommendationKind tags which variant of binanalysis's recommendation
// sum a DuplicateGroup carries.
type RecommendationKind int

const (
	RecommendKeepAll RecommendationKind = iota
	RecommendRemoveOldVersions
	RecommendRemoveDuplicateSource
	RecommendConflictingManagers
	RecommendUnusedVersionManager
	RecommendStaleConfig
)

func (k RecommendationKind) String() string {
	switch k {
	case RecommendRemoveOldVersions:
		return "remove-old-versions"
	case RecommendRemoveDuplicateSource:
		return "remove-duplicate-source"
	case RecommendConflictingManagers:
		return "conflicting-managers"
	case RecommendUnusedVersionManager:
		return "unused-version-manager"
	case RecommendStaleConfig:
		return "stale-config"
	default:
		return "keep-all"
	}
}

// Recommendation is the tagged-sum outcome of classifying a DuplicateGroup:
// exactly one of its fields is meaningful, selected by Kind.
type Recommendation struct {
	Kind RecommendationKind

	// RecommendRemoveOldVersions
	OldVersions []string

	// RecommendRemoveDuplicateSource / RecommendConflictingManagers
	Source          InstallSource   // duplicate-source variant
	ConflictSources []InstallSource // conflicting-managers variant

	// RecommendUnusedVersionManager
	ManagerName string
	ManagerSize int64

	// RecommendStaleConfig
	ConfigPath string

	// RecommendKeepAll
	Reason string
}

// String renders a short human-readable summary of the recommendation,
// selecting its meaningful fields by Kind.
func (r Recommendation) String() string {
	switch r.Kind {
	case RecommendRemoveOldVersions:
		return "remove old versions: " + strings.Join(r.OldVersions, ", ")
	case RecommendRemoveDuplicateSource:
		return "remove the duplicate install under " + r.Source.String()
	case RecommendConflictingManagers:
		names := make([]string, len(r.ConflictSources))
		for i, s := range r.ConflictSources {
			names[i] = s.String()
		}
		return "conflicting managers: " + strings.Join(names, ", ") + " -- pick one"
	case RecommendUnusedVersionManager:
		return r.ManagerName + " appears unused"
	case RecommendStaleConfig:
		return "stale config referencing " + r.ConfigPath
	default:
		if r.Reason != "" {
			return "keep all: " + r.Reason
		}
		return "keep all"
	}
}

// DuplicateGroup is a set of BinaryInstance values sharing a command name,
// where more than one install exists. Recommendation is computed by
// binanalysis once all instances in the group are classified.
type DuplicateGroup struct {
	Command      string
	Instances    []BinaryInstance
	Recommend    Recommendation
	BytesReclaim int64       // sum of Bytes across all non-active instances
	Safety       SafetyLevel // aggregate safety per spec.md 4.4 step 5
}
