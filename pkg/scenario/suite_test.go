package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuite(t *testing.T) {
	data := `
name: nightly
kernel:
  prefix: conda-env
  suffix: py36
  label: Python [conda env:py36]
scenarios:
  - use: basic
  - use: kernel
  - use: kernel
    name: kernel-r
    kernel: {prefix: conda-env, suffix: r, label: R}
  - name: conda-tab-only
    steps:
      - kind: viewport
        viewport: {width: 800, height: 600}
      - kind: click
        description: the conda tab
        selector: "#conda_tab"
      - kind: wait_visible
        selector: "#env_list_body"
`
	suite, err := ParseSuite([]byte(data), DefaultKernel)
	require.NoError(t, err)
	assert.Equal(t, "nightly", suite.Name)
	assert.Equal(t, []string{"basic", "kernel", "kernel-r", "conda-tab-only"}, suite.Names())

	kernel := suite.Scenarios[1]
	require.NotNil(t, kernel.Kernel)
	assert.Equal(t, "py36", kernel.Kernel.Suffix, "file-level kernel applies to use: kernel")
	assert.Equal(t, "env-py36-kernel", kernel.Prefix())

	kernelR := suite.Scenarios[2]
	assert.Equal(t, "R", kernelR.Kernel.Label)
	assert.Equal(t, "env-r-kernel", kernelR.Prefix())

	inline := suite.Scenarios[3]
	assert.Equal(t, TargetDashboard, inline.Target, "target defaults to dashboard")
	require.Len(t, inline.Steps, 3)
	assert.Equal(t, 800, inline.Steps[0].Viewport.Width)
	assert.Equal(t, "#conda_tab", inline.Steps[1].Selector)
}

func TestParseSuite_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "bad yaml", data: "scenarios: [", wantErr: "parse yaml"},
		{name: "empty", data: "name: x", wantErr: "no scenarios"},
		{name: "unknown builtin", data: "scenarios:\n  - use: lab", wantErr: "unknown built-in"},
		{name: "duplicate", data: "scenarios:\n  - use: basic\n  - use: basic", wantErr: "duplicate scenario"},
		{name: "invalid selector", data: `
scenarios:
  - name: broken
    steps:
      - kind: click
        selector: "div[["
`, wantErr: "invalid selector"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSuite([]byte(tc.data), DefaultKernel)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadSuite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "smoke.yml")
	require.NoError(t, os.WriteFile(path, []byte("scenarios:\n  - use: basic\n"), 0o600))

	suite, err := LoadSuite(path, DefaultKernel)
	require.NoError(t, err)
	assert.Equal(t, "smoke", suite.Name, "name falls back to file stem")
	assert.Equal(t, []string{"basic"}, suite.Names())

	_, err = LoadSuite(filepath.Join(dir, "missing.yml"), DefaultKernel)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read suite")
}

func TestSuite_Select(t *testing.T) {
	suite := DefaultSuite(DefaultKernel)

	all, err := suite.Select()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	picked, err := suite.Select("kernel", "basic")
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "kernel", picked[0].Name)
	assert.Equal(t, "basic", picked[1].Name)

	_, err = suite.Select("lab")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: basic, kernel")
}
