package runner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/umputun/nbcheck/pkg/scenario"
)

// screenshots writes numbered png files for one scenario run.
type screenshots struct {
	dir    string
	prefix string
	count  int
}

func newScreenshots(dir, prefix string) *screenshots {
	prefix = scenario.SanitizeName(prefix)
	if prefix == "" {
		prefix = "scenario"
	}
	return &screenshots{dir: dir, prefix: prefix}
}

// save writes data as <dir>/<prefix>-<NN>-<name>.png and returns the path.
// the counter advances only on successful writes.
func (s *screenshots) save(name string, data []byte) (string, error) {
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0o750); err != nil {
			return "", fmt.Errorf("create screenshot dir: %w", err)
		}
	}
	fname := fmt.Sprintf("%s-%02d-%s.png", s.prefix, s.count+1, scenario.SanitizeName(name))
	path := filepath.Join(s.dir, fname)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	s.count++
	return path, nil
}
