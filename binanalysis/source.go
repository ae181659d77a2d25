// Package binanalysis finds every installed copy of a set of well-known
// developer commands (language runtimes, package managers, language
// servers), classifies which install manager owns each copy, determines
// which one would actually run, and groups duplicates with a removal
// recommendation.
package binanalysis

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tinyland-lab/reclaim/model"
)

// sourceRule is one substring-match rule in the closed classification set:
// it matches when every string in contains occurs in the path.
// Rules are evaluated in order; the first match wins.
type sourceRule struct {
	contains []string // all of these substrings must appear in the resolved path
	source   model.InstallSource
}

var sourceRules = []sourceRule{
	{contains: []string{"/.asdf/"}, source: model.SourceAsdf},
	{contains: []string{"/.nvm/"}, source: model.SourceNvm},
	{contains: []string{"/.rbenv/"}, source: model.SourceRbenv},
	{contains: []string{"/.pyenv/"}, source: model.SourcePyenv},
	{contains: []string{"/.sdkman/"}, source: model.SourceSDKMAN},
	{contains: []string{"/.cargo/bin/"}, source: model.SourceCargo},
	{contains: []string{"/go/bin/"}, source: model.SourceGoInstall},
	{contains: []string{"/nix/store/"}, source: model.SourceNix},
	{contains: []string{"/opt/homebrew/"}, source: model.SourceHomebrew},
	{contains: []string{"/usr/local/Cellar/"}, source: model.SourceHomebrew},
	{contains: []string{"/usr/local/homebrew/"}, source: model.SourceHomebrew},
	{contains: []string{"/miniconda3/", "/bin/"}, source: model.SourceConda},
	{contains: []string{"/anaconda3/", "/bin/"}, source: model.SourceConda},
	{contains: []string{"/.local/bin/"}, source: model.SourceUserLocal},
	{contains: []string{"/usr/bin/"}, source: model.SourceSystem},
	{contains: []string{"/bin/"}, source: model.SourceSystem},
}

// ClassifySource applies the closed substring-rule set to a resolved,
// symlink-free path and returns the install source it belongs to.
func ClassifySource(resolvedPath string) model.InstallSource {
	normalized := filepath.ToSlash(resolvedPath)
	for _, rule := range sourceRules {
		matched := true
		for _, substr := range rule.contains {
			if !strings.Contains(normalized, substr) {
				matched = false
				break
			}
		}
		if matched {
			return rule.source
		}
	}
	return model.SourceUnknown
}

// managerPresence reports whether the version manager owning source has
// any managed installs on this machine at all -- used by the
// unused-manager-detection step.
func managerPresence(source model.InstallSource, home string) bool {
	var dir string
	switch source {
	case model.SourceAsdf:
		dir = filepath.Join(home, ".asdf", "installs")
	case model.SourceNvm:
		dir = filepath.Join(home, ".nvm", "versions")
	case model.SourceRbenv:
		dir = filepath.Join(home, ".rbenv", "versions")
	case model.SourcePyenv:
		dir = filepath.Join(home, ".pyenv", "versions")
	case model.SourceSDKMAN:
		dir = filepath.Join(home, ".sdkman", "candidates")
	default:
		return true
	}
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}
