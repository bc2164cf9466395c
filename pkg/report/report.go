// Package report builds a markdown summary of a suite run and renders it for the terminal.
package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/umputun/nbcheck/pkg/runner"
)

// Meta describes the run environment shown in the report header.
type Meta struct {
	BaseURL string // token-free server url
	Driver  string
	Started time.Time
}

// Markdown builds the report for a suite run: a header, a scenario table and one section per scenario.
func Markdown(res runner.SuiteResult, meta Meta) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# nbcheck: %s %s\n\n", res.Suite, statusWord(res.Status))
	if meta.BaseURL != "" {
		fmt.Fprintf(&b, "- server: `%s`\n", meta.BaseURL)
	}
	if meta.Driver != "" {
		fmt.Fprintf(&b, "- driver: %s\n", meta.Driver)
	}
	if !meta.Started.IsZero() {
		fmt.Fprintf(&b, "- started: %s\n", meta.Started.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(&b, "- duration: %s\n", res.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "- result: %d passed, %d failed\n", res.Passed(), res.FailedCount())
	if res.Err != nil {
		fmt.Fprintf(&b, "- error: %s\n", res.Err)
	}

	if len(res.Scenarios) == 0 {
		return b.String()
	}

	b.WriteString("\n| # | scenario | status | duration |\n|---|---|---|---|\n")
	for i, sc := range res.Scenarios {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", i+1, sc.Scenario, statusWord(sc.Status), sc.Duration.Round(time.Millisecond))
	}

	for _, sc := range res.Scenarios {
		fmt.Fprintf(&b, "\n## %s\n\n", sc.Scenario)
		if sc.Kernel != "" {
			fmt.Fprintf(&b, "kernel `%s`\n\n", sc.Kernel)
		}
		for _, st := range sc.Steps {
			fmt.Fprintf(&b, "%d. %s %s", st.Index, stepMark(st.Status), escape(st.Label))
			if st.Note != "" {
				fmt.Fprintf(&b, " (%s)", escape(st.Note))
			}
			b.WriteString("\n")
		}
		if sc.Err != nil {
			fmt.Fprintf(&b, "\n**error:** `%s`\n", strings.ReplaceAll(sc.Err.Error(), "`", "'"))
		}
		if len(sc.Screenshots) > 0 {
			b.WriteString("\nscreenshots:\n\n")
			for _, p := range sc.Screenshots {
				fmt.Fprintf(&b, "- `%s`\n", filepath.ToSlash(p))
			}
		}
	}
	return b.String()
}

// Render renders markdown content for terminal display.
// If noColor is true, returns the content unchanged.
// Otherwise, uses glamour to render with auto-detected style and word wrap.
func Render(content string, noColor bool) (string, error) {
	if noColor {
		return content, nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}

	result, err := renderer.Render(content)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return result, nil
}

func statusWord(s runner.Status) string {
	switch s {
	case runner.StatusPass:
		return "PASS"
	case runner.StatusFail:
		return "FAIL"
	default:
		return "SKIP"
	}
}

func stepMark(s runner.Status) string {
	switch s {
	case runner.StatusPass:
		return "✓"
	case runner.StatusFail:
		return "✗"
	default:
		return "–"
	}
}

// escape keeps selectors like #conda_tab from turning into markdown emphasis.
func escape(s string) string {
	return strings.NewReplacer("_", `\_`, "*", `\*`).Replace(s)
}
