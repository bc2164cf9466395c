package progress

import (
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/umputun/nbcheck/pkg/config"
	"github.com/umputun/nbcheck/pkg/runner"
)

// Colors holds the console colors for phases and message kinds.
type Colors struct {
	setup     *color.Color
	step      *color.Color
	pass      *color.Color
	fail      *color.Color
	warn      *color.Color
	err       *color.Color
	timestamp *color.Color
	info      *color.Color
}

// NewColors builds console colors from "r,g,b" config values.
// malformed or empty values fall back to the basic terminal colors.
func NewColors(cfg config.ColorConfig) *Colors {
	return &Colors{
		setup:     rgbOr(cfg.Setup, color.FgCyan),
		step:      rgbOr(cfg.Step, color.FgGreen),
		pass:      rgbOr(cfg.Pass, color.FgHiGreen),
		fail:      rgbOr(cfg.Fail, color.FgRed),
		warn:      rgbOr(cfg.Warn, color.FgYellow),
		err:       rgbOr(cfg.Error, color.FgRed),
		timestamp: rgbOr(cfg.Timestamp, color.FgWhite),
		info:      rgbOr(cfg.Info, color.FgWhite),
	}
}

// Info returns the color for startup and summary lines printed outside the log.
func (c *Colors) Info() *color.Color { return c.info }

// Warn returns the warning color.
func (c *Colors) Warn() *color.Color { return c.warn }

// Error returns the error color.
func (c *Colors) Error() *color.Color { return c.err }

// ForPhase returns the color for a run phase, step color for unknown phases.
func (c *Colors) ForPhase(p runner.Phase) *color.Color {
	switch p {
	case runner.PhaseSetup:
		return c.setup
	case runner.PhasePass:
		return c.pass
	case runner.PhaseFail:
		return c.fail
	default:
		return c.step
	}
}

func rgbOr(rgb string, fallback color.Attribute) *color.Color {
	parts := strings.Split(rgb, ",")
	if len(parts) != 3 {
		return color.New(fallback)
	}
	var vals [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return color.New(fallback)
		}
		vals[i] = v
	}
	return color.RGB(vals[0], vals[1], vals[2])
}
