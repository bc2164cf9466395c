package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/nbcheck/pkg/runner"
	"github.com/umputun/nbcheck/pkg/scenario"
)

func sampleResult() runner.SuiteResult {
	mismatch := &runner.TextMismatchError{Selector: ".kernel_indicator_name", Expected: "R", Actual: "Python 3"}
	return runner.SuiteResult{
		Suite:    "default",
		Status:   runner.StatusFail,
		Duration: 4200 * time.Millisecond,
		Scenarios: []runner.Result{
			{
				Scenario: "basic",
				Status:   runner.StatusPass,
				Duration: 1500 * time.Millisecond,
				Steps: []runner.StepResult{
					{Index: 1, Kind: scenario.StepViewport, Label: "set viewport 1440x900", Status: runner.StatusPass},
					{Index: 2, Kind: scenario.StepScreenshot, Label: "screenshot dashboard", Status: runner.StatusSkip, Note: "screenshots unsupported"},
					{Index: 3, Kind: scenario.StepClick, Label: "see and click the conda tab (#conda_tab)", Status: runner.StatusPass},
				},
				Screenshots: []string{"screenshots/basic-01-dashboard.png"},
			},
			{
				Scenario: "env-r-kernel",
				Status:   runner.StatusFail,
				Kernel:   "conda-env-r-r",
				Duration: 2700 * time.Millisecond,
				Steps: []runner.StepResult{
					{Index: 1, Kind: scenario.StepAssertText, Label: "text of .kernel_indicator_name is R", Status: runner.StatusFail},
					{Index: 2, Kind: scenario.StepScreenshot, Label: "screenshot kernel_indicator_name", Status: runner.StatusSkip},
				},
				Err: &runner.StepError{Index: 1, Step: "text", Selector: ".kernel_indicator_name", Err: mismatch},
			},
		},
	}
}

func TestMarkdown(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	md := Markdown(sampleResult(), Meta{BaseURL: "http://localhost:8888", Driver: "static", Started: started})

	assert.True(t, strings.HasPrefix(md, "# nbcheck: default FAIL\n"))
	assert.Contains(t, md, "- server: `http://localhost:8888`")
	assert.Contains(t, md, "- driver: static")
	assert.Contains(t, md, "- started: 2026-03-01 10:00:00")
	assert.Contains(t, md, "- duration: 4.2s")
	assert.Contains(t, md, "- result: 1 passed, 1 failed")
	assert.Contains(t, md, "| 1 | basic | PASS | 1.5s |")
	assert.Contains(t, md, "| 2 | env-r-kernel | FAIL | 2.7s |")
	assert.Contains(t, md, "## env-r-kernel")
	assert.Contains(t, md, "kernel `conda-env-r-r`")
	assert.Contains(t, md, `3. ✓ see and click the conda tab (#conda\_tab)`)
	assert.Contains(t, md, "2. – screenshot dashboard (screenshots unsupported)")
	assert.Contains(t, md, "1. ✗ text of .kernel\\_indicator\\_name is R")
	assert.Contains(t, md, `expected text "R", got "Python 3"`)
	assert.Contains(t, md, "- `screenshots/basic-01-dashboard.png`")
}

func TestMarkdown_Interrupted(t *testing.T) {
	res := runner.SuiteResult{Suite: "default", Status: runner.StatusFail,
		Err: fmt.Errorf("suite interrupted before kernel: %w", context.Canceled)}
	md := Markdown(res, Meta{})

	assert.Contains(t, md, "- error: suite interrupted before kernel: context canceled")
	assert.NotContains(t, md, "| # |", "no table without scenarios")
	assert.NotContains(t, md, "server:")
}

func TestMarkdown_ErrorBackticks(t *testing.T) {
	res := runner.SuiteResult{Suite: "s", Status: runner.StatusFail, Scenarios: []runner.Result{
		{Scenario: "x", Status: runner.StatusFail, Err: errors.New("bad `code`")},
	}}
	assert.Contains(t, Markdown(res, Meta{}), "**error:** `bad 'code'`")
}

func TestRender(t *testing.T) {
	md := Markdown(sampleResult(), Meta{Driver: "static"})

	t.Run("no color returns plain content", func(t *testing.T) {
		out, err := Render(md, true)
		require.NoError(t, err)
		assert.Equal(t, md, out)
	})

	t.Run("renders with glamour", func(t *testing.T) {
		out, err := Render(md, false)
		require.NoError(t, err)
		assert.NotEqual(t, md, out)
		assert.Contains(t, out, "env-r-kernel")
		assert.Contains(t, out, "basic")
	})

	t.Run("empty content", func(t *testing.T) {
		out, err := Render("", false)
		require.NoError(t, err)
		assert.Empty(t, strings.TrimSpace(out))
	})
}
