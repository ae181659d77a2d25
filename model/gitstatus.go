package model

// ProtectionLevel is a four-tier git protection policy, from no
// protection at all to refusing to touch anything in a repo with
// unpushed work.
type ProtectionLevel int

const (
	ProtectionNone ProtectionLevel = iota
	ProtectionWarn
	ProtectionBlock
	ProtectionParanoid
)

func (p ProtectionLevel) String() string {
	switch p {
	case ProtectionNone:
		return "none"
	case ProtectionWarn:
		return "warn"
	case ProtectionBlock:
		return "block"
	case ProtectionParanoid:
		return "paranoid"
	default:
		return "warn"
	}
}

// GitStatus is the result of probing a directory for git repository state.
// "Not a repository" and "git command failed" are collapsed into a
// single IsRepo == false outcome rather than a distinct status variant.
type GitStatus struct {
	IsRepo        bool
	Branch        string
	RemoteURL     string
	Dirty         bool
	DirtyPaths    []string
	StashCount    int
	HasUpstream   bool
	UntrackedOnly bool
}

// Protects reports whether the given policy level should block or warn on
// removing an artifact rooted under this git status, given whether the
// artifact's own subtree intersects any dirty path. A non-repo directory
// only ever warns, never blocks, below ProtectionParanoid -- paranoid is
// the one level that treats "not a repository at all" as itself
// disqualifying.
func (g GitStatus) Protects(level ProtectionLevel, artifactDirty bool) (block bool, warn bool) {
	switch level {
	case ProtectionNone:
		return false, false
	case ProtectionWarn:
		return false, !g.IsRepo || g.Dirty
	case ProtectionBlock:
		if !g.IsRepo {
			return false, true
		}
		if artifactDirty {
			return true, false
		}
		return false, g.Dirty
	case ProtectionParanoid:
		if !g.IsRepo {
			return true, false
		}
		if g.Dirty || g.StashCount > 0 {
			return true, false
		}
		return false, false
	default:
		return false, g.Dirty
	}
}
