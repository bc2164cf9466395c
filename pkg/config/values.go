package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/umputun/nbcheck/pkg/notify"
)

// Values holds scalar configuration values.
// Fields ending in *Set (e.g., HeadlessSet) track whether that field was explicitly
// set in config. This allows distinguishing explicit false/0 from "not set", enabling
// proper merge behavior where local config can override global config with zero values.
type Values struct {
	BaseURL            string
	Token              string
	Driver             string
	Headless           bool
	HeadlessSet        bool // tracks if headless was explicitly set
	SlowMoMs           int
	SlowMoMsSet        bool // tracks if slow_mo_ms was explicitly set
	InstallBrowsers    bool
	InstallBrowsersSet bool // tracks if install_browsers was explicitly set
	StepTimeoutMs      int
	StepTimeoutMsSet   bool // tracks if step_timeout_ms was explicitly set
	PageTimeoutMs      int
	PageTimeoutMsSet   bool // tracks if page_timeout_ms was explicitly set
	ScreenshotDir      string
	ReportFile         string
	TextMatch          string
	SuiteFile          string
	NotebookDir        string
	KernelPrefix       string
	KernelSuffix       string
	KernelLabel        string

	notify.Params            // notification settings, notify_* keys
	NotifyChannelsSet   bool // tracks if notify_channels was explicitly set, empty disables notifications
	NotifyOnErrorSet    bool // tracks if notify_on_error was explicitly set
	NotifyOnCompleteSet bool // tracks if notify_on_complete was explicitly set
	NotifyTimeoutMsSet  bool // tracks if notify_timeout_ms was explicitly set
	SMTPPortSet         bool // tracks if notify_smtp_port was explicitly set
	SMTPStartTLSSet     bool // tracks if notify_smtp_starttls was explicitly set
}

// valuesLoader implements ValuesLoader with embedded filesystem fallback.
type valuesLoader struct {
	embedFS embed.FS
}

// newValuesLoader creates a new valuesLoader with the given embedded filesystem.
func newValuesLoader(embedFS embed.FS) *valuesLoader {
	return &valuesLoader{embedFS: embedFS}
}

// Load loads values from config files with fallback chain: local → global → embedded.
// localConfigPath and globalConfigPath are full paths to config files (not directories).
//
//nolint:dupl // intentional structural similarity with colorLoader.Load
func (vl *valuesLoader) Load(localConfigPath, globalConfigPath string) (Values, error) {
	// start with embedded defaults
	embedded, err := vl.parseValuesFromEmbedded()
	if err != nil {
		return Values{}, fmt.Errorf("parse embedded defaults: %w", err)
	}

	// parse global config if exists
	global, err := vl.parseValuesFromFile(globalConfigPath)
	if err != nil {
		return Values{}, fmt.Errorf("parse global config: %w", err)
	}

	// parse local config if exists
	local, err := vl.parseValuesFromFile(localConfigPath)
	if err != nil {
		return Values{}, fmt.Errorf("parse local config: %w", err)
	}

	// merge: embedded → global → local (local wins)
	result := embedded
	result.mergeFrom(&global)
	result.mergeFrom(&local)

	return result, nil
}

// parseValuesFromFile reads a config file and parses it into Values.
// returns empty Values (not error) if file doesn't exist or contains only comments/whitespace.
// this enables fallback to embedded defaults for files that are commented templates.
func (vl *valuesLoader) parseValuesFromFile(path string) (Values, error) {
	if path == "" {
		return Values{}, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is constructed internally
	if err != nil {
		if os.IsNotExist(err) {
			return Values{}, nil
		}
		return Values{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if strings.TrimSpace(stripComments(string(data))) == "" {
		return Values{}, nil
	}

	return vl.parseValuesFromBytes(data)
}

// parseValuesFromEmbedded parses values from the embedded defaults/config file.
func (vl *valuesLoader) parseValuesFromEmbedded() (Values, error) {
	data, err := vl.embedFS.ReadFile("defaults/config")
	if err != nil {
		return Values{}, fmt.Errorf("read embedded defaults: %w", err)
	}
	return vl.parseValuesFromBytes(data)
}

// parseValuesFromBytes parses configuration from a byte slice into Values.
// empty string keys count as not set, so "token =" in a local file does not wipe a global token.
func (vl *valuesLoader) parseValuesFromBytes(data []byte) (Values, error) {
	// ignoreInlineComment: true prevents # from being treated as inline comment marker
	cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return Values{}, fmt.Errorf("parse config: %w", err)
	}

	var v Values
	section := cfg.Section("") // default section (no section header)

	strKeys := []struct {
		key   string
		field *string
	}{
		{"base_url", &v.BaseURL},
		{"token", &v.Token},
		{"driver", &v.Driver},
		{"screenshot_dir", &v.ScreenshotDir},
		{"report_file", &v.ReportFile},
		{"text_match", &v.TextMatch},
		{"suite_file", &v.SuiteFile},
		{"notebook_dir", &v.NotebookDir},
		{"kernel_prefix", &v.KernelPrefix},
		{"kernel_suffix", &v.KernelSuffix},
		{"kernel_label", &v.KernelLabel},
		{"notify_telegram_token", &v.TelegramToken},
		{"notify_telegram_chat", &v.TelegramChat},
		{"notify_slack_token", &v.SlackToken},
		{"notify_slack_channel", &v.SlackChannel},
		{"notify_smtp_host", &v.SMTPHost},
		{"notify_smtp_username", &v.SMTPUsername},
		{"notify_smtp_password", &v.SMTPPassword},
		{"notify_email_from", &v.EmailFrom},
		{"notify_custom_script", &v.CustomScript},
	}
	for _, k := range strKeys {
		if key, err := section.GetKey(k.key); err == nil {
			*k.field = strings.TrimSpace(key.String())
		}
	}

	boolKeys := []struct {
		key   string
		field *bool
		set   *bool
	}{
		{"headless", &v.Headless, &v.HeadlessSet},
		{"install_browsers", &v.InstallBrowsers, &v.InstallBrowsersSet},
		{"notify_on_error", &v.OnError, &v.NotifyOnErrorSet},
		{"notify_on_complete", &v.OnComplete, &v.NotifyOnCompleteSet},
		{"notify_smtp_starttls", &v.SMTPStartTLS, &v.SMTPStartTLSSet},
	}
	for _, k := range boolKeys {
		key, err := section.GetKey(k.key)
		if err != nil {
			continue
		}
		val, boolErr := key.Bool()
		if boolErr != nil {
			return Values{}, fmt.Errorf("invalid %s: %w", k.key, boolErr)
		}
		*k.field, *k.set = val, true
	}

	intKeys := []struct {
		key   string
		field *int
		set   *bool
	}{
		{"slow_mo_ms", &v.SlowMoMs, &v.SlowMoMsSet},
		{"step_timeout_ms", &v.StepTimeoutMs, &v.StepTimeoutMsSet},
		{"page_timeout_ms", &v.PageTimeoutMs, &v.PageTimeoutMsSet},
		{"notify_timeout_ms", &v.TimeoutMs, &v.NotifyTimeoutMsSet},
		{"notify_smtp_port", &v.SMTPPort, &v.SMTPPortSet},
	}
	for _, k := range intKeys {
		key, err := section.GetKey(k.key)
		if err != nil {
			continue
		}
		val, intErr := key.Int()
		if intErr != nil {
			return Values{}, fmt.Errorf("invalid %s: %w", k.key, intErr)
		}
		if val < 0 {
			return Values{}, fmt.Errorf("invalid %s: must be non-negative, got %d", k.key, val)
		}
		*k.field, *k.set = val, true
	}

	// comma-separated lists
	if key, err := section.GetKey("notify_channels"); err == nil {
		v.Channels = splitList(key.String())
		v.NotifyChannelsSet = true
	}
	if key, err := section.GetKey("notify_email_to"); err == nil {
		v.EmailTo = splitList(key.String())
	}
	if key, err := section.GetKey("notify_webhook_urls"); err == nil {
		v.WebhookURLs = splitList(key.String())
	}

	// paths may start with ~/
	v.SuiteFile = expandTilde(v.SuiteFile)
	v.ScreenshotDir = expandTilde(v.ScreenshotDir)
	v.CustomScript = expandTilde(v.CustomScript)

	if v.TextMatch != "" && v.TextMatch != "exact" && v.TextMatch != "contains" {
		return Values{}, fmt.Errorf("invalid text_match %q: must be exact or contains", v.TextMatch)
	}

	return v, nil
}

// expandTilde replaces a leading "~/" with the user home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// splitList splits a comma-separated value, dropping empty items.
func splitList(val string) []string {
	var res []string
	for p := range strings.SplitSeq(val, ",") {
		if t := strings.TrimSpace(p); t != "" {
			res = append(res, t)
		}
	}
	return res
}

// mergeFrom merges non-empty values from src into dst.
//
//nolint:gocyclo // flat list of per-field merges
func (dst *Values) mergeFrom(src *Values) {
	mergeStr := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	mergeStr(&dst.BaseURL, src.BaseURL)
	mergeStr(&dst.Token, src.Token)
	mergeStr(&dst.Driver, src.Driver)
	mergeStr(&dst.ScreenshotDir, src.ScreenshotDir)
	mergeStr(&dst.ReportFile, src.ReportFile)
	mergeStr(&dst.TextMatch, src.TextMatch)
	mergeStr(&dst.SuiteFile, src.SuiteFile)
	mergeStr(&dst.NotebookDir, src.NotebookDir)
	mergeStr(&dst.KernelPrefix, src.KernelPrefix)
	mergeStr(&dst.KernelSuffix, src.KernelSuffix)
	mergeStr(&dst.KernelLabel, src.KernelLabel)
	mergeStr(&dst.TelegramToken, src.TelegramToken)
	mergeStr(&dst.TelegramChat, src.TelegramChat)
	mergeStr(&dst.SlackToken, src.SlackToken)
	mergeStr(&dst.SlackChannel, src.SlackChannel)
	mergeStr(&dst.SMTPHost, src.SMTPHost)
	mergeStr(&dst.SMTPUsername, src.SMTPUsername)
	mergeStr(&dst.SMTPPassword, src.SMTPPassword)
	mergeStr(&dst.EmailFrom, src.EmailFrom)
	mergeStr(&dst.CustomScript, src.CustomScript)

	if src.HeadlessSet {
		dst.Headless, dst.HeadlessSet = src.Headless, true
	}
	if src.InstallBrowsersSet {
		dst.InstallBrowsers, dst.InstallBrowsersSet = src.InstallBrowsers, true
	}
	if src.SlowMoMsSet {
		dst.SlowMoMs, dst.SlowMoMsSet = src.SlowMoMs, true
	}
	if src.StepTimeoutMsSet {
		dst.StepTimeoutMs, dst.StepTimeoutMsSet = src.StepTimeoutMs, true
	}
	if src.PageTimeoutMsSet {
		dst.PageTimeoutMs, dst.PageTimeoutMsSet = src.PageTimeoutMs, true
	}
	if src.NotifyOnErrorSet {
		dst.OnError, dst.NotifyOnErrorSet = src.OnError, true
	}
	if src.NotifyOnCompleteSet {
		dst.OnComplete, dst.NotifyOnCompleteSet = src.OnComplete, true
	}
	if src.NotifyTimeoutMsSet {
		dst.TimeoutMs, dst.NotifyTimeoutMsSet = src.TimeoutMs, true
	}
	if src.SMTPPortSet {
		dst.SMTPPort, dst.SMTPPortSet = src.SMTPPort, true
	}
	if src.SMTPStartTLSSet {
		dst.SMTPStartTLS, dst.SMTPStartTLSSet = src.SMTPStartTLS, true
	}

	if src.NotifyChannelsSet {
		dst.Channels, dst.NotifyChannelsSet = src.Channels, true
	}
	if len(src.EmailTo) > 0 {
		dst.EmailTo = src.EmailTo
	}
	if len(src.WebhookURLs) > 0 {
		dst.WebhookURLs = src.WebhookURLs
	}
}

// stripComments removes lines starting with # (after trimming whitespace).
func stripComments(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := make([]string, 0, strings.Count(content, "\n")+1)
	for line := range strings.SplitSeq(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
