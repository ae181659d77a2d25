package cleaners

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/pathutil"
)

// runtimeMinBytes skips near-empty or partially-installed version
// directories that aren't worth reporting.
const runtimeMinBytes = 10 * 1024 * 1024

// runtimeActiveAgeFloor is the age below which a non-active install is
// still reported as Caution rather than Safe: a version installed last
// week may be mid-adoption even if nothing currently points at it.
const runtimeActiveAgeFloor = 30 * 24 * time.Hour

// RuntimeInstalls reports old language-runtime-manager installs: nvm/fnm/n
// and Volta Node versions, pyenv Python versions and the conda package
// cache, rbenv/rvm Ruby versions, sdkman candidates, rustup toolchains, and
// gvm Go versions. A manager's currently active version is reported as
// SafetyLevelDangerous rather than omitted; RunAll's caller decides whether
// dangerous items are ever surfaced for deletion.
func RuntimeInstalls(ctx context.Context, home string) []model.CleanableItem {
	var out []model.CleanableItem
	out = append(out, nvmInstalls(home)...)
	out = append(out, fnmInstalls(ctx, home)...)
	out = append(out, voltaInstalls(home)...)
	out = append(out, nInstalls(ctx)...)
	out = append(out, pyenvInstalls(home)...)
	if conda := condaPackageCache(home); conda != nil {
		out = append(out, *conda)
	}
	out = append(out, rbenvInstalls(home)...)
	out = append(out, rvmInstalls(home)...)
	out = append(out, sdkmanInstalls(home)...)
	out = append(out, rustupToolchains(ctx, home)...)
	out = append(out, gvmInstalls(home)...)
	return out
}

// runtimeSafety mirrors the original implementation's determine_safety:
// an active version is Dangerous regardless of age, an unknown mtime is
// SafeWithCost (it can be re-downloaded but age can't be judged), recent
// installs are Caution, and everything else is Safe.
func runtimeSafety(active bool, modTime time.Time) model.SafetyLevel {
	if active {
		return model.SafetyLevelDangerous
	}
	if modTime.IsZero() {
		return model.SafetyLevelSafeWithCost
	}
	if time.Since(modTime) < runtimeActiveAgeFloor {
		return model.SafetyLevelCaution
	}
	return model.SafetyLevelSafe
}

func readMarker(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// runtimeVersionItem builds a CleanableItem for one installed runtime
// version directory, or reports ok=false when the directory is absent or
// too small to bother reporting.
func runtimeVersionItem(dir, ecosystem, subcategory string, active bool) (model.CleanableItem, bool) {
	if !pathutil.IsDir(dir) {
		return model.CleanableItem{}, false
	}
	size := pathutil.DirSize(dir)
	if size.Bytes < runtimeMinBytes {
		return model.CleanableItem{}, false
	}
	modTime := pathutil.ModTime(dir)
	files := size.Files
	return model.CleanableItem{
		Name:         filepath.Base(dir),
		Category:     "language-runtime",
		Subcategory:  subcategory,
		Icon:         "manager",
		Path:         dir,
		Bytes:        size.Bytes,
		FileCount:    &files,
		LastModified: &modTime,
		Description:  ecosystem + " runtime install managed by " + subcategory,
		Safety:       runtimeSafety(active, modTime),
	}, true
}

func execOutput(ctx context.Context, name string, args ...string) string {
	if _, err := exec.LookPath(name); err != nil {
		return ""
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = 5 * time.Second
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// nvmInstalls scans $NVM_DIR/versions/node (default ~/.nvm), comparing
// each version directory against $NVM_DIR/alias/default to detect the
// active install; nvm itself is a shell function, not a binary, so active
// detection can't shell out and instead reads the alias file directly.
func nvmInstalls(home string) []model.CleanableItem {
	root := os.Getenv("NVM_DIR")
	if root == "" {
		root = filepath.Join(home, ".nvm")
	}
	versionsDir := filepath.Join(root, "versions", "node")
	entries, err := os.ReadDir(versionsDir)
	if err != nil {
		return nil
	}
	activeAlias := readMarker(filepath.Join(root, "alias", "default"))

	var out []model.CleanableItem
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		version := strings.TrimPrefix(e.Name(), "v")
		active := activeAlias != "" && (activeAlias == e.Name() || activeAlias == version)
		item, ok := runtimeVersionItem(filepath.Join(versionsDir, e.Name()), "node", "nvm-node", active)
		if !ok {
			continue
		}
		item.SuggestedCmd = "nvm uninstall " + version
		out = append(out, item)
	}
	return out
}

// fnmInstalls scans $FNM_DIR/node-versions (default ~/.local/share/fnm),
// shelling out to `fnm current` to find the active version since fnm
// exposes no marker file for it.
func fnmInstalls(ctx context.Context, home string) []model.CleanableItem {
	root := os.Getenv("FNM_DIR")
	if root == "" {
		root = filepath.Join(home, ".local", "share", "fnm")
	}
	versionsDir := filepath.Join(root, "node-versions")
	entries, err := os.ReadDir(versionsDir)
	if err != nil {
		return nil
	}
	current := strings.TrimPrefix(execOutput(ctx, "fnm", "current"), "v")

	var out []model.CleanableItem
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		version := strings.TrimPrefix(e.Name(), "v")
		active := current != "" && current == version
		item, ok := runtimeVersionItem(filepath.Join(versionsDir, e.Name(), "installation"), "node", "fnm-node", active)
		if !ok {
			continue
		}
		item.Name = e.Name()
		item.SuggestedCmd = "fnm uninstall " + e.Name()
		out = append(out, item)
	}
	return out
}

// voltaInstalls scans $VOLTA_HOME/tools/image/node (default ~/.volta).
// Volta's active-version bookkeeping lives in per-project pins and a
// platform.json the shims consult at launch, not a single marker this
// cleaner can cheaply resolve, so every installed version is reported
// with active=false and relies on mtime-based safety instead.
func voltaInstalls(home string) []model.CleanableItem {
	root := os.Getenv("VOLTA_HOME")
	if root == "" {
		root = filepath.Join(home, ".volta")
	}
	versionsDir := filepath.Join(root, "tools", "image", "node")
	entries, err := os.ReadDir(versionsDir)
	if err != nil {
		return nil
	}

	var out []model.CleanableItem
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		item, ok := runtimeVersionItem(filepath.Join(versionsDir, e.Name()), "node", "volta-node", false)
		if !ok {
			continue
		}
		item.SuggestedCmd = "volta uninstall node@" + e.Name()
		out = append(out, item)
	}
	return out
}

// nInstalls scans $N_PREFIX/n/versions/node (default /usr/local per n's
// own default PREFIX), detecting the active version via `node --version`
// since n switches versions by replacing $N_PREFIX/bin/node directly.
func nInstalls(ctx context.Context) []model.CleanableItem {
	prefix := os.Getenv("N_PREFIX")
	if prefix == "" {
		prefix = "/usr/local"
	}
	versionsDir := filepath.Join(prefix, "n", "versions", "node")
	entries, err := os.ReadDir(versionsDir)
	if err != nil {
		return nil
	}
	current := strings.TrimPrefix(execOutput(ctx, "node", "--version"), "v")

	var out []model.CleanableItem
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		active := current != "" && current == e.Name()
		item, ok := runtimeVersionItem(filepath.Join(versionsDir, e.Name()), "node", "n-node", active)
		if !ok {
			continue
		}
		item.SuggestedCmd = "n rm " + e.Name()
		out = append(out, item)
	}
	return out
}

// pyenvInstalls scans $PYENV_ROOT/versions (default ~/.pyenv), honoring
// the PYENV_VERSION override before falling back to the global version
// file, matching pyenv's own resolution order.
func pyenvInstalls(home string) []model.CleanableItem {
	root := os.Getenv("PYENV_ROOT")
	if root == "" {
		root = filepath.Join(home, ".pyenv")
	}
	versionsDir := filepath.Join(root, "versions")
	entries, err := os.ReadDir(versionsDir)
	if err != nil {
		return nil
	}
	active := os.Getenv("PYENV_VERSION")
	if active == "" {
		active = readMarker(filepath.Join(root, "version"))
	}

	var out []model.CleanableItem
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		isActive := active != "" && active == e.Name()
		item, ok := runtimeVersionItem(filepath.Join(versionsDir, e.Name()), "python", "pyenv-python", isActive)
		if !ok {
			continue
		}
		item.SuggestedCmd = "pyenv uninstall " + e.Name()
		out = append(out, item)
	}
	return out
}

// condaPackageCache reports ~/.conda/pkgs, the single download cache conda
// shares across every environment. CONDA_DEFAULT_ENV only tells us an
// environment is currently active, not whether its packages are still in
// the cache, so an active environment downgrades the cache to Caution
// rather than marking it Dangerous outright.
func condaPackageCache(home string) *model.CleanableItem {
	dir := filepath.Join(home, ".conda", "pkgs")
	if !pathutil.IsDir(dir) {
		return nil
	}
	size := pathutil.DirSize(dir)
	if size.Bytes < runtimeMinBytes {
		return nil
	}
	modTime := pathutil.ModTime(dir)
	files := size.Files
	safety := model.SafetyLevelSafeWithCost
	if os.Getenv("CONDA_DEFAULT_ENV") != "" {
		safety = model.SafetyLevelCaution
	}
	return &model.CleanableItem{
		Name:         "conda-pkg-cache",
		Category:     "language-runtime",
		Subcategory:  "conda-pkg-cache",
		Icon:         "cache",
		Path:         dir,
		Bytes:        size.Bytes,
		FileCount:    &files,
		LastModified: &modTime,
		Description:  "conda package download cache, shared across all environments",
		Safety:       safety,
		SuggestedCmd: "conda clean --packages",
	}
}

// rbenvInstalls scans $RBENV_ROOT/versions (default ~/.rbenv), honoring
// the global version file the same way rbenv version-resolution does.
func rbenvInstalls(home string) []model.CleanableItem {
	root := os.Getenv("RBENV_ROOT")
	if root == "" {
		root = filepath.Join(home, ".rbenv")
	}
	versionsDir := filepath.Join(root, "versions")
	entries, err := os.ReadDir(versionsDir)
	if err != nil {
		return nil
	}
	active := readMarker(filepath.Join(root, "version"))

	var out []model.CleanableItem
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		isActive := active != "" && active == e.Name()
		item, ok := runtimeVersionItem(filepath.Join(versionsDir, e.Name()), "ruby", "rbenv-ruby", isActive)
		if !ok {
			continue
		}
		item.SuggestedCmd = "rbenv uninstall " + e.Name()
		out = append(out, item)
	}
	return out
}

// rvmInstalls scans ~/.rvm/rubies, reading ~/.rvm/config/default (a line
// like "ruby-3.2.0") to find the active ruby.
func rvmInstalls(home string) []model.CleanableItem {
	root := filepath.Join(home, ".rvm")
	rubiesDir := filepath.Join(root, "rubies")
	entries, err := os.ReadDir(rubiesDir)
	if err != nil {
		return nil
	}
	active := readMarker(filepath.Join(root, "config", "default"))

	var out []model.CleanableItem
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		isActive := active != "" && strings.Contains(active, e.Name())
		item, ok := runtimeVersionItem(filepath.Join(rubiesDir, e.Name()), "ruby", "rvm-ruby", isActive)
		if !ok {
			continue
		}
		item.SuggestedCmd = "rvm remove " + e.Name()
		out = append(out, item)
	}
	return out
}

// sdkmanInstalls scans $SDKMAN_DIR/candidates/<candidate>/<version>
// (default ~/.sdkman) for every candidate (java, kotlin, gradle, maven,
// etc), reading each candidate's "current" symlink to find its active
// version.
func sdkmanInstalls(home string) []model.CleanableItem {
	root := os.Getenv("SDKMAN_DIR")
	if root == "" {
		root = filepath.Join(home, ".sdkman")
	}
	candidatesDir := filepath.Join(root, "candidates")
	candidates, err := os.ReadDir(candidatesDir)
	if err != nil {
		return nil
	}

	var out []model.CleanableItem
	for _, c := range candidates {
		if !c.IsDir() {
			continue
		}
		candidateDir := filepath.Join(candidatesDir, c.Name())
		current := ""
		if target, err := os.Readlink(filepath.Join(candidateDir, "current")); err == nil {
			current = filepath.Base(target)
		}
		versions, err := os.ReadDir(candidateDir)
		if err != nil {
			continue
		}
		for _, v := range versions {
			if !v.IsDir() || v.Name() == "current" {
				continue
			}
			isActive := current != "" && current == v.Name()
			item, ok := runtimeVersionItem(filepath.Join(candidateDir, v.Name()), c.Name(), "sdkman-"+c.Name(), isActive)
			if !ok {
				continue
			}
			item.SuggestedCmd = "sdk uninstall " + c.Name() + " " + v.Name()
			out = append(out, item)
		}
	}
	return out
}

// rustupToolchains scans $RUSTUP_HOME/toolchains (default ~/.rustup),
// shelling out to `rustup show active-toolchain` to find the active one.
func rustupToolchains(ctx context.Context, home string) []model.CleanableItem {
	root := os.Getenv("RUSTUP_HOME")
	if root == "" {
		root = filepath.Join(home, ".rustup")
	}
	toolchainsDir := filepath.Join(root, "toolchains")
	entries, err := os.ReadDir(toolchainsDir)
	if err != nil {
		return nil
	}
	activeLine := execOutput(ctx, "rustup", "show", "active-toolchain")
	active := strings.Fields(activeLine)
	activeName := ""
	if len(active) > 0 {
		activeName = active[0]
	}

	var out []model.CleanableItem
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		isActive := activeName != "" && activeName == e.Name()
		item, ok := runtimeVersionItem(filepath.Join(toolchainsDir, e.Name()), "rust", "rustup-toolchain", isActive)
		if !ok {
			continue
		}
		item.SuggestedCmd = "rustup toolchain uninstall " + e.Name()
		out = append(out, item)
	}
	return out
}

// gvmInstalls scans ~/.gvm/gos, reading ~/.gvm/environments/default's
// gvm_go_name= line to find the active Go version, matching how gvm's own
// shell functions source that file to set up the environment.
func gvmInstalls(home string) []model.CleanableItem {
	root := filepath.Join(home, ".gvm")
	gosDir := filepath.Join(root, "gos")
	entries, err := os.ReadDir(gosDir)
	if err != nil {
		return nil
	}
	active := gvmActiveVersion(root)

	var out []model.CleanableItem
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		isActive := active != "" && active == e.Name()
		item, ok := runtimeVersionItem(filepath.Join(gosDir, e.Name()), "go", "gvm-go", isActive)
		if !ok {
			continue
		}
		item.SuggestedCmd = "gvm uninstall " + e.Name()
		out = append(out, item)
	}
	return out
}

func gvmActiveVersion(root string) string {
	data, err := os.ReadFile(filepath.Join(root, "environments", "default"))
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(line, "gvm_go_name="); ok {
			return strings.Trim(v, `"'`)
		}
	}
	return ""
}
