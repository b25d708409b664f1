package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/albertocavalcante/tidyhook/internal/log"
)

// ConfigFileName is the name of the project-level config file.
const ConfigFileName = "tidyhook.toml"

// ConfigDirName is the name of the project-level config directory.
const ConfigDirName = ".tidyhook"

// GlobalConfigDir is the name of the global config directory inside user's config.
const GlobalConfigDir = "tidyhook"

// EnvConfigFile names an explicit config file layered above project config.
const EnvConfigFile = "TIDYHOOK_CONFIG"

// Load loads configuration from all layers in order of precedence:
//  1. Built-in defaults
//  2. Global user config (~/.config/tidyhook/config.toml)
//  3. Project config (.tidyhook/config.toml or tidyhook.toml)
//  4. File named by TIDYHOOK_CONFIG
//  5. Environment variables (TIDYHOOK_*)
//
// CLI flags are applied separately after Load() returns.
func Load() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return LoadFrom(wd)
}

// LoadFrom loads configuration starting from a specific directory.
func LoadFrom(dir string) *Config {
	cfg := NewConfig()

	// Layer 2: Global user config
	if globalCfg := loadGlobalConfig(); globalCfg != nil {
		cfg.Merge(globalCfg)
	}

	// Layer 3: Project config from specified directory
	if projectCfg := loadProjectConfigFrom(dir); projectCfg != nil {
		cfg.Merge(projectCfg)
	}

	// Layer 4: Explicit file
	if path := os.Getenv(EnvConfigFile); path != "" {
		if explicit := loadConfigFile(path); explicit != nil {
			cfg.Merge(explicit)
		}
	}

	// Layer 5: Environment variables
	applyEnvironmentVariables(cfg)

	return cfg
}

// loadGlobalConfig loads the global user configuration from ~/.config/tidyhook/config.toml.
func loadGlobalConfig() *Config {
	path := GetGlobalConfigPath()
	if path == "" {
		return nil
	}
	return loadConfigFile(path)
}

// loadProjectConfigFrom looks for project configuration starting from the given directory.
func loadProjectConfigFrom(dir string) *Config {
	current := dir
	for {
		for _, path := range GetProjectConfigPaths(current) {
			if cfg := loadConfigFile(path); cfg != nil {
				return cfg
			}
		}

		// Stop at filesystem root or workspace root
		if IsWorkspaceRoot(current) {
			break
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return nil
}

// IsWorkspaceRoot checks if the directory is a repository root.
func IsWorkspaceRoot(dir string) bool {
	markers := []string{".git", ".hg", ".jj"}
	for _, marker := range markers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// loadConfigFile decodes the TOML file at path. A missing file yields nil
// silently; a malformed one is reported and skipped. Keys tidyhook does not
// know are reported but do not reject the file.
func loadConfigFile(path string) *Config {
	logger := log.Component("config")

	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		logger.Warn("ignoring invalid config file", "path", path, "error", err)
		return nil
	}
	if unknown := meta.Undecoded(); len(unknown) > 0 {
		keys := make([]string, len(unknown))
		for i, k := range unknown {
			keys[i] = k.String()
		}
		logger.Warn("unknown config keys", "path", path, "keys", keys)
	}

	cfg.Sources = []string{path}
	return &cfg
}

// envBindings maps TIDYHOOK_* variables onto config fields. Values that do
// not parse are ignored.
var envBindings = map[string]func(cfg *Config, v string){
	"TIDYHOOK_LANGUAGES_ENABLED":  func(cfg *Config, v string) { cfg.Languages.Enabled = splitAndTrim(v) },
	"TIDYHOOK_LANGUAGES_DISABLED": func(cfg *Config, v string) { cfg.Languages.Disabled = splitAndTrim(v) },
	"TIDYHOOK_COMMENT_STRIPPING":  func(cfg *Config, v string) { setBool(&cfg.Features.CommentStripping, v) },
	"TIDYHOOK_FORMATTING":         func(cfg *Config, v string) { setBool(&cfg.Features.Formatting, v) },
	"TIDYHOOK_STRIP_EXCLUDE": func(cfg *Config, v string) {
		cfg.Strip.Exclude = append(cfg.Strip.Exclude, splitAndTrim(v)...)
	},
	"TIDYHOOK_VERIFY_SYNTAX":      func(cfg *Config, v string) { setBool(&cfg.Strip.VerifySyntax, v) },
	"TIDYHOOK_TREESITTER_BACKEND": func(cfg *Config, v string) { cfg.TreeSitter.Backend = v },
	"TIDYHOOK_WARN_LINES":         func(cfg *Config, v string) { setPositive(&cfg.Limits.WarnLines, v) },
	"TIDYHOOK_MAX_LINES":          func(cfg *Config, v string) { setPositive(&cfg.Limits.MaxLines, v) },
}

func applyEnvironmentVariables(cfg *Config) {
	for name, apply := range envBindings {
		if v := os.Getenv(name); v != "" {
			apply(cfg, v)
		}
	}
}

// splitAndTrim splits a comma-separated list, dropping empty items.
func splitAndTrim(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// setBool accepts strconv.ParseBool values plus yes and no.
func setBool(target **bool, v string) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "yes":
		v = "true"
	case "no":
		v = "false"
	}
	if b, err := strconv.ParseBool(v); err == nil {
		*target = &b
	}
}

func setPositive(target *int, v string) {
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
		*target = n
	}
}

// GetGlobalConfigPath returns the path to the global config file.
func GetGlobalConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, GlobalConfigDir, "config.toml")
}

// GetProjectConfigPaths returns potential project config paths for a given directory.
func GetProjectConfigPaths(dir string) []string {
	return []string{
		filepath.Join(dir, ConfigDirName, "config.toml"),
		filepath.Join(dir, ConfigFileName),
	}
}
