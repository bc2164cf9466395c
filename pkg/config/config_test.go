package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_defaultsFS(t *testing.T) {
	data, err := DefaultsFS().ReadFile("defaults/config")
	require.NoError(t, err)
	assert.Contains(t, string(data), "base_url")
	assert.Contains(t, string(data), "step_timeout_ms")
	assert.Contains(t, string(data), "kernel_label")

	suite, err := DefaultsFS().ReadFile("defaults/suite.yml")
	require.NoError(t, err)
	assert.Contains(t, string(suite), "use: basic")
	assert.Contains(t, string(suite), "use: kernel")
}

func TestDefaultsInstaller_Install(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nbcheck")
	require.NoError(t, newDefaultsInstaller(DefaultsFS()).Install(dir))

	cfg, err := os.ReadFile(filepath.Join(dir, "config"))
	require.NoError(t, err)
	embedded, err := DefaultsFS().ReadFile("defaults/config")
	require.NoError(t, err)
	assert.Equal(t, string(embedded), string(cfg))

	suite, err := os.ReadFile(filepath.Join(dir, "suite.yml"))
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(stripComments(string(suite))), "installed suite is commented out")
	assert.Contains(t, string(suite), "# scenarios:")

	st, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), st.Mode().Perm())
}

func TestDefaultsInstaller_KeepsExisting(t *testing.T) {
	dir := t.TempDir()
	custom := "driver = rod\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config"), []byte(custom), 0o600))

	require.NoError(t, newDefaultsInstaller(DefaultsFS()).Install(dir))

	data, err := os.ReadFile(filepath.Join(dir, "config"))
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
	assert.FileExists(t, filepath.Join(dir, "suite.yml"))
}

func TestCommentOut(t *testing.T) {
	in := "# title\nname: x\n\n  - use: basic\n"
	assert.Equal(t, "# title\n# name: x\n\n#   - use: basic\n", string(commentOut([]byte(in))))
}

func TestSuiteLoader_Load(t *testing.T) {
	const localSuite = "name: local\nscenarios:\n  - use: basic\n"
	const globalSuite = "name: global\nscenarios:\n  - use: kernel\n"

	t.Run("explicit wins", func(t *testing.T) {
		dir := t.TempDir()
		explicit := writeConfig(t, dir, "mine.yml", "name: mine\n")
		writeConfig(t, dir, "suite.yml", localSuite)

		src, err := newSuiteLoader(DefaultsFS()).Load(explicit, dir, dir)
		require.NoError(t, err)
		assert.Equal(t, explicit, src.Path)
		assert.Equal(t, "name: mine\n", string(src.Data))
		assert.False(t, src.Embedded())
	})

	t.Run("explicit missing", func(t *testing.T) {
		_, err := newSuiteLoader(DefaultsFS()).Load(filepath.Join(t.TempDir(), "nope.yml"), "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read suite file")
	})

	t.Run("local before global", func(t *testing.T) {
		local, global := t.TempDir(), t.TempDir()
		writeConfig(t, local, "suite.yml", localSuite)
		writeConfig(t, global, "suite.yml", globalSuite)

		src, err := newSuiteLoader(DefaultsFS()).Load("", local, global)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(local, "suite.yml"), src.Path)
		assert.Equal(t, localSuite, string(src.Data))
	})

	t.Run("commented local falls back to global", func(t *testing.T) {
		local, global := t.TempDir(), t.TempDir()
		writeConfig(t, local, "suite.yml", "# name: local\n")
		writeConfig(t, global, "suite.yml", globalSuite)

		src, err := newSuiteLoader(DefaultsFS()).Load("", local, global)
		require.NoError(t, err)
		assert.Equal(t, globalSuite, string(src.Data))
	})

	t.Run("embedded fallback", func(t *testing.T) {
		src, err := newSuiteLoader(DefaultsFS()).Load("", "", t.TempDir())
		require.NoError(t, err)
		assert.True(t, src.Embedded())
		assert.Equal(t, "(built-in)", src.Path)
		assert.Contains(t, string(src.Data), "use: basic")
	})
}

func TestLoadWithLocal(t *testing.T) {
	global, local := t.TempDir(), t.TempDir()
	writeConfig(t, global, "config", "base_url = http://global:8888\ncolor_step = #010203\n")
	writeConfig(t, local, "config", "base_url = http://local:8888\nstep_timeout_ms = 1500\n")
	writeConfig(t, local, "suite.yml", "name: project\nscenarios:\n  - use: basic\n")

	cfg, err := loadWithLocal(global, local)
	require.NoError(t, err)

	assert.Equal(t, global, cfg.ConfigDir())
	assert.Equal(t, local, cfg.LocalDir())
	assert.Equal(t, "http://local:8888", cfg.BaseURL)
	assert.Equal(t, "1,2,3", cfg.Colors.Step)
	assert.Equal(t, 1500*time.Millisecond, cfg.StepTimeout())
	assert.Equal(t, 30*time.Second, cfg.PageTimeout())
	assert.Zero(t, cfg.SlowMo())

	src, err := cfg.Suite("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(local, "suite.yml"), src.Path)
}

func TestConfig_SuiteFileFromValues(t *testing.T) {
	global := t.TempDir()
	suite := writeConfig(t, t.TempDir(), "r.yml", "name: r\n")
	writeConfig(t, global, "config", "suite_file = "+suite+"\n")

	cfg, err := loadWithLocal(global, "")
	require.NoError(t, err)

	src, err := cfg.Suite("")
	require.NoError(t, err)
	assert.Equal(t, suite, src.Path)

	other := writeConfig(t, t.TempDir(), "other.yml", "name: other\n")
	src, err = cfg.Suite(other)
	require.NoError(t, err)
	assert.Equal(t, other, src.Path, "explicit argument beats suite_file")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(t.TempDir(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file")
}

func TestLoadFile_Explicit(t *testing.T) {
	global := t.TempDir()
	file := writeConfig(t, t.TempDir(), "ci.ini", "driver = static\n")

	cfg, err := LoadFile(global, file)
	require.NoError(t, err)
	assert.Equal(t, "static", cfg.Driver)
	assert.FileExists(t, filepath.Join(global, "config"), "defaults installed on first run")
}
