package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// suiteFileName is the suite file looked up in local and global config dirs.
const suiteFileName = "suite.yml"

// embeddedSuiteSource is reported as the source of the built-in suite.
const embeddedSuiteSource = "(built-in)"

// SuiteSource is raw suite yaml and where it came from.
type SuiteSource struct {
	Path string // file path, or "(built-in)" for the embedded suite
	Data []byte
}

// Embedded reports whether the suite is the built-in one.
func (s SuiteSource) Embedded() bool {
	return s.Path == embeddedSuiteSource
}

// suiteLoader finds the suite file with embedded filesystem fallback.
type suiteLoader struct {
	embedFS embed.FS
}

// newSuiteLoader creates a new suiteLoader with the given embedded filesystem.
func newSuiteLoader(embedFS embed.FS) *suiteLoader {
	return &suiteLoader{embedFS: embedFS}
}

// Load returns the suite with fallback chain: explicit → local → global → embedded.
// explicit must exist when set. localDir can be empty to skip local lookup.
// files with only comments and whitespace are skipped.
func (sl *suiteLoader) Load(explicit, localDir, globalDir string) (SuiteSource, error) {
	if explicit != "" {
		data, err := os.ReadFile(explicit) //nolint:gosec // path comes from cli or config
		if err != nil {
			return SuiteSource{}, fmt.Errorf("read suite file: %w", err)
		}
		return SuiteSource{Path: explicit, Data: data}, nil
	}

	for _, dir := range []string{localDir, globalDir} {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, suiteFileName)
		data, err := sl.loadSuiteFile(path)
		if err != nil {
			return SuiteSource{}, err
		}
		if data != nil {
			return SuiteSource{Path: path, Data: data}, nil
		}
	}

	data, err := sl.embedFS.ReadFile("defaults/" + suiteFileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return SuiteSource{}, errors.New("embedded suite missing")
		}
		return SuiteSource{}, fmt.Errorf("read embedded suite: %w", err)
	}
	return SuiteSource{Path: embeddedSuiteSource, Data: data}, nil
}

// loadSuiteFile reads a suite file from disk.
// returns nil (not error) if the file doesn't exist or holds only comments.
func (sl *suiteLoader) loadSuiteFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is constructed internally
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read suite file %s: %w", path, err)
	}
	if strings.TrimSpace(stripComments(string(data))) == "" {
		return nil, nil
	}
	return data, nil
}
