package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Suite is an ordered, named collection of scenarios.
type Suite struct {
	Name      string
	Scenarios []Scenario
}

// suiteFile is the YAML layout of a suite file.
type suiteFile struct {
	Name      string      `yaml:"name"`
	Kernel    *Kernel     `yaml:"kernel"` // default kernel for "use: kernel" entries
	Scenarios []suiteItem `yaml:"scenarios"`
}

// suiteItem is either a reference to a built-in scenario or an inline scenario.
type suiteItem struct {
	Use      string `yaml:"use"`
	Scenario `yaml:",inline"`
}

// DefaultSuite returns the suite with both built-in scenarios.
func DefaultSuite(kernel Kernel) Suite {
	return Suite{Name: "default", Scenarios: []Scenario{Basic(), KernelLabel(kernel)}}
}

// LoadSuite reads and validates a YAML suite file.
// kernel is the fallback identity for "use: kernel" entries when the file has no kernel block.
func LoadSuite(path string, kernel Kernel) (Suite, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from cli/config
	if err != nil {
		return Suite{}, fmt.Errorf("read suite %s: %w", path, err)
	}
	suite, err := ParseSuite(data, kernel)
	if err != nil {
		return Suite{}, fmt.Errorf("suite %s: %w", path, err)
	}
	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return suite, nil
}

// ParseSuite parses suite YAML. built-in references are expanded and every scenario validated.
func ParseSuite(data []byte, kernel Kernel) (Suite, error) {
	var sf suiteFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return Suite{}, fmt.Errorf("parse yaml: %w", err)
	}
	if len(sf.Scenarios) == 0 {
		return Suite{}, errors.New("no scenarios defined")
	}
	if sf.Kernel != nil {
		kernel = *sf.Kernel
	}

	suite := Suite{Name: sf.Name}
	seen := make(map[string]bool, len(sf.Scenarios))
	for i, item := range sf.Scenarios {
		sc := item.Scenario
		if item.Use != "" {
			k := kernel
			if item.Kernel != nil {
				k = *item.Kernel
			}
			builtin, ok := Builtin(item.Use, k)
			if !ok {
				return Suite{}, fmt.Errorf("scenario %d: unknown built-in %q", i+1, item.Use)
			}
			if sc.Name != "" {
				builtin.Name = sc.Name
			}
			sc = builtin
		}
		if sc.Target == "" {
			sc.Target = TargetDashboard
		}
		if err := sc.Validate(); err != nil {
			return Suite{}, err
		}
		if seen[sc.Name] {
			return Suite{}, fmt.Errorf("duplicate scenario name %q", sc.Name)
		}
		seen[sc.Name] = true
		suite.Scenarios = append(suite.Scenarios, sc)
	}
	return suite, nil
}

// Select returns the scenarios with the given names, in the requested order.
// an empty names list selects the whole suite.
func (s Suite) Select(names ...string) ([]Scenario, error) {
	if len(names) == 0 {
		return s.Scenarios, nil
	}
	res := make([]Scenario, 0, len(names))
	for _, name := range names {
		found := false
		for _, sc := range s.Scenarios {
			if sc.Name == name {
				res = append(res, sc)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown scenario %q, available: %s", name, strings.Join(s.Names(), ", "))
		}
	}
	return res, nil
}

// Names returns scenario names in suite order.
func (s Suite) Names() []string {
	res := make([]string, 0, len(s.Scenarios))
	for _, sc := range s.Scenarios {
		res = append(res, sc.Name)
	}
	return res
}
