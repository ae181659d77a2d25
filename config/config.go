// Package config provides layered TOML configuration for reclaim: every
// option is optional and merges onto DefaultConfig when a key is absent
// from the file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full, layered configuration for a reclaim run.
type Config struct {
	General General `toml:"general"`
	Scan    Scan    `toml:"scan"`
	Clean   Clean   `toml:"clean"`
	UI      UI      `toml:"ui"`
	Plugins Plugins `toml:"plugins"`
}

// General controls logging and other cross-cutting settings.
type General struct {
	// LogFile is where structured logs are written, in addition to stderr.
	LogFile string `toml:"log_file"`
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `toml:"log_level"`
}

// Scan controls project discovery.
type Scan struct {
	// Roots are the directories to scan, e.g. $HOME/code.
	Roots []string `toml:"roots"`
	// MaxDepth bounds descent below a root; 0 means unlimited.
	MaxDepth int `toml:"max_depth"`
	// Workers bounds concurrent subtree walks; <= 0 defaults to 4.
	Workers int `toml:"workers"`
	// TimeoutSeconds bounds the whole scan; 0 means no timeout.
	TimeoutSeconds int `toml:"timeout_seconds"`
	// ExcludeDirs are directory names never descended into.
	ExcludeDirs []string `toml:"exclude_dirs"`
	// StaleDays is the LastActive age, in days, above which a project is
	// reported as stale.
	StaleDays int `toml:"stale_days"`
	// SkipHidden prunes dot-directories below depth 0 (except the
	// allow-listed .git/.github/.vscode/.idea).
	SkipHidden bool `toml:"skip_hidden"`
	// RespectGitignore is passed to the scanner, whose walker does not read
	// .gitignore files; it has no effect on which directories are walked.
	RespectGitignore bool `toml:"respect_gitignore"`
	// MinArtifactSizeMB drops any artifact smaller than this many
	// megabytes; 0 disables the filter.
	MinArtifactSizeMB int64 `toml:"min_artifact_size_mb"`
	// ResultLimit caps the number of projects returned, keeping the
	// largest by cleanable size; 0 means unlimited.
	ResultLimit int `toml:"result_limit"`
	// CheckGitStatus probes each discovered project's git status.
	CheckGitStatus bool `toml:"check_git_status"`
	// IgnorePatterns are glob patterns (matched against directory
	// basenames) pruned from descent in addition to ExcludeDirs.
	IgnorePatterns []string `toml:"ignore_patterns"`
}

// MinArtifactSizeBytes converts Scan.MinArtifactSizeMB to bytes.
func (s Scan) MinArtifactSizeBytes() int64 {
	return s.MinArtifactSizeMB * 1024 * 1024
}

// TimeoutDuration converts Scan.TimeoutSeconds to a time.Duration.
func (s Scan) TimeoutDuration() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// StaleThreshold converts Scan.StaleDays to a time.Duration.
func (s Scan) StaleThreshold() time.Duration {
	return time.Duration(s.StaleDays) * 24 * time.Hour
}

// Clean controls deletion behavior.
type Clean struct {
	// Method is one of "dry-run", "trash", "permanent".
	Method string `toml:"method"`
	// ProtectionLevel is one of "none", "warn", "block", "paranoid".
	ProtectionLevel string `toml:"protection_level"`
	// TrashDir overrides the default platform trash location; empty means
	// use the XDG/platform default.
	TrashDir string `toml:"trash_dir"`
	// TrashMaxAgeDays is loaded and saved with the config but no command
	// reads it; trash records are never purged by age.
	TrashMaxAgeDays int `toml:"trash_max_age_days"`
}

// UI controls output formatting.
type UI struct {
	// Color is loaded and saved with the config but no command reads it;
	// terminal output is never colored.
	Color bool `toml:"color"`
	// JSON is set by the --json flag and saved with the config, but no
	// command reads it; report output is always plain text.
	JSON bool `toml:"json"`
}

// Plugins controls which ecosystem and specialized cleaners run.
type Plugins struct {
	// Disabled lists ecosystem plugin names (registry.Plugin.Name), e.g.
	// ["conda", "xcode"]. It is loaded and saved with the config but the
	// scanner does not consult it; every registered plugin runs.
	Disabled []string `toml:"disabled"`
	// HomeCaches, IDE, Docker, GoBuildCache, VMDisks, Ollama, Runtimes,
	// OrphanedContainers mirror cleaners.Config.
	HomeCaches   bool `toml:"home_caches"`
	IDE          bool `toml:"ide"`
	Docker       bool `toml:"docker"`
	GoBuildCache bool `toml:"go_build_cache"`
	VMDisks      bool `toml:"vm_disks"`
	Ollama       bool `toml:"ollama"`
	// Runtimes enables the language-runtime-manager cleaner (nvm/fnm/volta/n,
	// pyenv/conda, rbenv/rvm, sdkman, rustup, gvm).
	Runtimes bool `toml:"runtimes"`
	// OrphanedContainers enables the macOS orphaned-app-container cleaner.
	OrphanedContainers bool `toml:"orphaned_containers"`
	// BinAnalysis enables the binary duplicate/version-manager analyzer.
	BinAnalysis bool `toml:"bin_analysis"`
}

// DefaultConfig returns the default configuration: a single scan root at
// $HOME, warn-level git protection, dry-run deletion, and every
// specialized cleaner enabled.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	logFile := filepath.Join(home, ".local", "log", "reclaim.log")

	return &Config{
		General: General{
			LogFile:  logFile,
			LogLevel: "info",
		},
		Scan: Scan{
			Roots:             []string{home},
			MaxDepth:          0,
			Workers:           4,
			TimeoutSeconds:    0,
			ExcludeDirs:       []string{".git", ".hg", ".svn", ".Trash", ".reclaim-trash"},
			StaleDays:         90,
			SkipHidden:        true,
			RespectGitignore:  false,
			MinArtifactSizeMB: 1,
			ResultLimit:       0,
			CheckGitStatus:    true,
		},
		Clean: Clean{
			Method:          "dry-run",
			ProtectionLevel: "warn",
			TrashMaxAgeDays: 30,
		},
		UI: UI{
			Color: true,
		},
		Plugins: Plugins{
			HomeCaches:         true,
			IDE:                true,
			Docker:             true,
			GoBuildCache:       true,
			VMDisks:            true,
			Ollama:             true,
			Runtimes:           true,
			OrphanedContainers: true,
			BinAnalysis:        true,
		},
	}
}

// LoadConfig loads configuration from a TOML file, merging onto
// DefaultConfig; a missing file returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig writes cfg to path as TOML, creating parent directories as
// needed.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
