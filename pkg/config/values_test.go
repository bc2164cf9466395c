package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestValuesLoader_Load_EmbeddedOnly(t *testing.T) {
	values, err := newValuesLoader(DefaultsFS()).Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8888", values.BaseURL)
	assert.Empty(t, values.Token)
	assert.Equal(t, "playwright", values.Driver)
	assert.True(t, values.Headless)
	assert.True(t, values.HeadlessSet)
	assert.Equal(t, 10000, values.StepTimeoutMs)
	assert.Equal(t, 30000, values.PageTimeoutMs)
	assert.Equal(t, "screenshots", values.ScreenshotDir)
	assert.Equal(t, "exact", values.TextMatch)
	assert.Equal(t, "conda-env", values.KernelPrefix)
	assert.Equal(t, "r", values.KernelSuffix)
	assert.Equal(t, "R", values.KernelLabel)

	assert.Empty(t, values.Channels)
	assert.True(t, values.OnError)
	assert.False(t, values.OnComplete)
	assert.Equal(t, 10000, values.TimeoutMs)
	assert.Equal(t, 587, values.SMTPPort)
	assert.True(t, values.SMTPStartTLS)
}

func TestValuesLoader_Load_LocalOverridesGlobal(t *testing.T) {
	tmpDir := t.TempDir()
	global := writeConfig(t, tmpDir, "global", `
base_url = http://jupyter.internal:8888
token = global-token
driver = chromedp
step_timeout_ms = 5000
`)
	local := writeConfig(t, tmpDir, "local", `
driver = rod
kernel_suffix = python3
kernel_label = Python 3
`)

	values, err := newValuesLoader(DefaultsFS()).Load(local, global)
	require.NoError(t, err)

	assert.Equal(t, "http://jupyter.internal:8888", values.BaseURL)
	assert.Equal(t, "global-token", values.Token)
	assert.Equal(t, "rod", values.Driver)
	assert.Equal(t, 5000, values.StepTimeoutMs)
	assert.Equal(t, "python3", values.KernelSuffix)
	assert.Equal(t, "Python 3", values.KernelLabel)
	assert.Equal(t, "conda-env", values.KernelPrefix, "embedded default kept")
}

func TestValuesLoader_Load_ExplicitZeroOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	global := writeConfig(t, tmpDir, "global", "slow_mo_ms = 250\nheadless = true\n")
	local := writeConfig(t, tmpDir, "local", "slow_mo_ms = 0\nheadless = false\nnotify_on_error = false\n")

	values, err := newValuesLoader(DefaultsFS()).Load(local, global)
	require.NoError(t, err)

	assert.Zero(t, values.SlowMoMs)
	assert.True(t, values.SlowMoMsSet)
	assert.False(t, values.Headless)
	assert.True(t, values.HeadlessSet)
	assert.False(t, values.OnError)
}

func TestValuesLoader_Load_EmptyStringDoesNotWipe(t *testing.T) {
	tmpDir := t.TempDir()
	global := writeConfig(t, tmpDir, "global", "token = secret\n")
	local := writeConfig(t, tmpDir, "local", "token =\nbase_url = http://127.0.0.1:9999\n")

	values, err := newValuesLoader(DefaultsFS()).Load(local, global)
	require.NoError(t, err)
	assert.Equal(t, "secret", values.Token)
	assert.Equal(t, "http://127.0.0.1:9999", values.BaseURL)
}

func TestValuesLoader_Load_Lists(t *testing.T) {
	tmpDir := t.TempDir()
	global := writeConfig(t, tmpDir, "global", `
notify_channels = telegram, webhook ,,
notify_telegram_token = tg-token
notify_email_to = a@example.com,b@example.com
notify_webhook_urls = https://hooks.example.com/a
`)

	values, err := newValuesLoader(DefaultsFS()).Load("", global)
	require.NoError(t, err)
	assert.Equal(t, []string{"telegram", "webhook"}, values.Channels)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, values.EmailTo)
	assert.Equal(t, []string{"https://hooks.example.com/a"}, values.WebhookURLs)
	assert.Equal(t, "tg-token", values.TelegramToken)
}

func TestValuesLoader_Load_EmptyLocalDisablesGlobalNotifications(t *testing.T) {
	tmpDir := t.TempDir()
	global := writeConfig(t, tmpDir, "global", "notify_channels = telegram\nnotify_telegram_token = tg-token\n")
	local := writeConfig(t, tmpDir, "local", "notify_channels =\n")

	values, err := newValuesLoader(DefaultsFS()).Load(local, global)
	require.NoError(t, err)
	assert.Empty(t, values.Channels, "local empty notify_channels should disable global notifications")
	assert.True(t, values.NotifyChannelsSet)
	assert.Equal(t, "tg-token", values.TelegramToken)
}

func TestValuesLoader_Load_TildeExpansion(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tmpDir := t.TempDir()
	global := writeConfig(t, tmpDir, "global", `
notify_custom_script = ~/bin/notify.sh
suite_file = ~/suites/r.yml
screenshot_dir = /tmp/shots
`)
	values, err := newValuesLoader(DefaultsFS()).Load("", global)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "bin", "notify.sh"), values.CustomScript)
	assert.Equal(t, filepath.Join(home, "suites", "r.yml"), values.SuiteFile)
	assert.Equal(t, "/tmp/shots", values.ScreenshotDir)
}

func TestValuesLoader_Load_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "bad bool", content: "headless = maybe\n", wantErr: "invalid headless"},
		{name: "bad int", content: "step_timeout_ms = soon\n", wantErr: "invalid step_timeout_ms"},
		{name: "negative int", content: "page_timeout_ms = -1\n", wantErr: "must be non-negative"},
		{name: "bad text match", content: "text_match = fuzzy\n", wantErr: "text_match"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			global := writeConfig(t, t.TempDir(), "config", tc.content)
			_, err := newValuesLoader(DefaultsFS()).Load("", global)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValuesLoader_Load_HashInValue(t *testing.T) {
	global := writeConfig(t, t.TempDir(), "config", "token = abc#def\n")
	values, err := newValuesLoader(DefaultsFS()).Load("", global)
	require.NoError(t, err)
	assert.Equal(t, "abc#def", values.Token)
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x", "y"), expandTilde("~/x/y"))
	assert.Equal(t, "/abs/path", expandTilde("/abs/path"))
	assert.Equal(t, "~user/x", expandTilde("~user/x"))
	assert.Empty(t, expandTilde(""))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(" , "))
	assert.Equal(t, []string{"a", "b"}, splitList("a, b"))
}

func TestStripComments(t *testing.T) {
	assert.Equal(t, "a = 1\n", stripComments("# header\na = 1\n  # indented\n"))
	assert.Equal(t, "x", stripComments("x\r\n# y"))
}
