package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// defaultsInstaller implements DefaultsInstaller with embedded filesystem.
type defaultsInstaller struct {
	embedFS embed.FS
}

// newDefaultsInstaller creates a new defaultsInstaller with the given embedded filesystem.
func newDefaultsInstaller(embedFS embed.FS) *defaultsInstaller {
	return &defaultsInstaller{embedFS: embedFS}
}

// Install creates the config directory and installs default config files if they don't exist.
// this is called on first run to set up the configuration. existing files are never overwritten.
func (d *defaultsInstaller) Install(configDir string) error {
	// create config directory (0700 - user only)
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	for _, name := range []string{"config", suiteFileName} {
		if err := d.installFile(configDir, name); err != nil {
			return err
		}
	}
	return nil
}

// installFile copies defaults/<name> into configDir unless it is already there.
// the installed suite is fully commented out so the built-in suite keeps evolving with releases.
func (d *defaultsInstaller) installFile(configDir, name string) error {
	dest := filepath.Join(configDir, name)
	_, statErr := os.Stat(dest)
	if statErr == nil {
		return nil
	}
	if !os.IsNotExist(statErr) {
		return fmt.Errorf("check %s file: %w", name, statErr)
	}

	data, err := d.embedFS.ReadFile("defaults/" + name)
	if err != nil {
		return fmt.Errorf("read embedded %s: %w", name, err)
	}
	if name == suiteFileName {
		data = commentOut(data)
	}
	if err := os.WriteFile(dest, data, 0o600); err != nil {
		return fmt.Errorf("write %s file: %w", name, err)
	}
	return nil
}

// commentOut prefixes every non-comment, non-empty line with "# ".
func commentOut(data []byte) []byte {
	lines := strings.Split(string(data), "\n")
	for i, l := range lines {
		if t := strings.TrimSpace(l); t != "" && !strings.HasPrefix(t, "#") {
			lines[i] = "# " + l
		}
	}
	return []byte(strings.Join(lines, "\n"))
}
