package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// ColorConfig holds output colors as "r,g,b" strings, parsed from hex values in config.
type ColorConfig struct {
	Setup     string // kernel resolution, page opening
	Step      string // scenario steps
	Pass      string // passed scenario and suite lines
	Fail      string // failed scenario and suite lines
	Warn      string
	Error     string
	Timestamp string
	Info      string // startup and summary info
}

// colorField binds a color_* ini key to its ColorConfig field.
type colorField struct {
	key string
	val *string
}

func (c *ColorConfig) fields() []colorField {
	return []colorField{
		{"color_setup", &c.Setup},
		{"color_step", &c.Step},
		{"color_pass", &c.Pass},
		{"color_fail", &c.Fail},
		{"color_warn", &c.Warn},
		{"color_error", &c.Error},
		{"color_timestamp", &c.Timestamp},
		{"color_info", &c.Info},
	}
}

// mergeFrom copies colors set in src over dst.
func (c *ColorConfig) mergeFrom(src *ColorConfig) {
	dst, from := c.fields(), src.fields()
	for i := range dst {
		if *from[i].val != "" {
			*dst[i].val = *from[i].val
		}
	}
}

// colorLoader reads color_* keys with embedded filesystem fallback.
type colorLoader struct {
	embedFS embed.FS
}

func newColorLoader(embedFS embed.FS) *colorLoader {
	return &colorLoader{embedFS: embedFS}
}

// Load merges colors from embedded defaults, then globalConfigPath, then localConfigPath.
// missing files and empty paths are skipped.
func (cl *colorLoader) Load(localConfigPath, globalConfigPath string) (ColorConfig, error) {
	embedded, err := cl.embedFS.ReadFile("defaults/config")
	if err != nil {
		return ColorConfig{}, fmt.Errorf("read embedded defaults: %w", err)
	}
	res, err := parseColors(embedded)
	if err != nil {
		return ColorConfig{}, fmt.Errorf("parse embedded defaults: %w", err)
	}

	for _, layer := range []struct{ name, path string }{{"global", globalConfigPath}, {"local", localConfigPath}} {
		if layer.path == "" {
			continue
		}
		data, err := os.ReadFile(layer.path) //nolint:gosec // config path from cli or config dir
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return ColorConfig{}, fmt.Errorf("read %s config %s: %w", layer.name, layer.path, err)
		}
		colors, err := parseColors(data)
		if err != nil {
			return ColorConfig{}, fmt.Errorf("parse %s config: %w", layer.name, err)
		}
		res.mergeFrom(&colors)
	}
	return res, nil
}

// parseColors reads color_* keys from ini data, leaving absent or empty keys unset.
func parseColors(data []byte) (ColorConfig, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return ColorConfig{}, fmt.Errorf("parse config: %w", err)
	}

	var res ColorConfig
	section := cfg.Section("")
	for _, f := range res.fields() {
		hex := strings.TrimSpace(section.Key(f.key).String())
		if hex == "" {
			continue
		}
		r, g, b, err := parseHexColor(hex)
		if err != nil {
			return ColorConfig{}, fmt.Errorf("invalid %s: %w", f.key, err)
		}
		*f.val = fmt.Sprintf("%d,%d,%d", r, g, b)
	}
	return res, nil
}

// parseHexColor parses "#rrggbb" or the short "#rgb" form.
func parseHexColor(hex string) (r, g, b int, err error) {
	if !strings.HasPrefix(hex, "#") {
		return 0, 0, 0, errors.New("hex color must start with #")
	}
	digits := hex[1:]
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	if len(digits) != 6 {
		return 0, 0, 0, fmt.Errorf("hex color %q must be #rgb or #rrggbb", hex)
	}

	val, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return int(val >> 16 & 0xff), int(val >> 8 & 0xff), int(val & 0xff), nil
}
