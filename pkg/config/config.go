// Package config loads nbcheck configuration from ini files with embedded defaults.
// lookup order for every value: local (.nbcheck/config or --config) → global (~/.config/nbcheck/config) → embedded.
package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

//go:embed defaults
var defaultsFS embed.FS

// localDirName is the project-level config directory, looked up in the working directory.
const localDirName = ".nbcheck"

// Config is the merged application configuration.
type Config struct {
	Values
	Colors ColorConfig

	configDir  string // global config dir
	localDir   string // project config dir, empty if none
	configFile string // local config file, empty if none
}

// DefaultsFS returns the embedded defaults filesystem.
func DefaultsFS() embed.FS { return defaultsFS }

// DefaultConfigDir returns ~/.config/nbcheck, falling back to ./.config/nbcheck without a home dir.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "nbcheck")
	}
	return filepath.Join(home, ".config", "nbcheck")
}

// Load installs defaults into configDir (DefaultConfigDir if empty) on first run and loads config,
// using .nbcheck/config in the working directory as the local layer when present.
func Load(configDir string) (*Config, error) {
	return LoadFile(configDir, "")
}

// LoadFile is Load with an explicit local config file replacing .nbcheck/config.
// the file must exist.
func LoadFile(configDir, configFile string) (*Config, error) {
	localDir := ""
	if st, err := os.Stat(localDirName); err == nil && st.IsDir() {
		localDir = localDirName
	}
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
	}
	return load(configDir, localDir, configFile)
}

// loadWithLocal loads config with an explicit local dir, for tests.
func loadWithLocal(globalDir, localDir string) (*Config, error) {
	return load(globalDir, localDir, "")
}

func load(globalDir, localDir, configFile string) (*Config, error) {
	if globalDir == "" {
		globalDir = DefaultConfigDir()
	}
	if err := newDefaultsInstaller(defaultsFS).Install(globalDir); err != nil {
		return nil, fmt.Errorf("install defaults: %w", err)
	}

	localConfig := configFile
	if localConfig == "" && localDir != "" {
		localConfig = filepath.Join(localDir, "config")
	}
	globalConfig := filepath.Join(globalDir, "config")

	values, err := newValuesLoader(defaultsFS).Load(localConfig, globalConfig)
	if err != nil {
		return nil, fmt.Errorf("load values: %w", err)
	}
	colors, err := newColorLoader(defaultsFS).Load(localConfig, globalConfig)
	if err != nil {
		return nil, fmt.Errorf("load colors: %w", err)
	}

	return &Config{
		Values:     values,
		Colors:     colors,
		configDir:  globalDir,
		localDir:   localDir,
		configFile: localConfig,
	}, nil
}

// ConfigDir returns the global config directory.
func (c *Config) ConfigDir() string { return c.configDir }

// LocalDir returns the project config directory, empty if not used.
func (c *Config) LocalDir() string { return c.localDir }

// Suite returns the suite yaml: explicit path (flag or suite_file), local suite.yml,
// global suite.yml, or the built-in suite.
func (c *Config) Suite(explicit string) (SuiteSource, error) {
	if explicit == "" {
		explicit = c.SuiteFile
	}
	return newSuiteLoader(defaultsFS).Load(explicit, c.localDir, c.configDir)
}

// StepTimeout returns step_timeout_ms as a duration.
func (c *Config) StepTimeout() time.Duration {
	return time.Duration(c.StepTimeoutMs) * time.Millisecond
}

// PageTimeout returns page_timeout_ms as a duration.
func (c *Config) PageTimeout() time.Duration {
	return time.Duration(c.PageTimeoutMs) * time.Millisecond
}

// SlowMo returns slow_mo_ms as a duration.
func (c *Config) SlowMo() time.Duration {
	return time.Duration(c.SlowMoMs) * time.Millisecond
}
