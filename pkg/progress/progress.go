// Package progress writes the run log: plain text to nbcheck-<suite>.txt and colored lines to stdout.
package progress

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/umputun/nbcheck/pkg/config"
	"github.com/umputun/nbcheck/pkg/runner"
)

const (
	stampLayout  = "06-01-02 15:04:05"   // per-line stamp
	headerLayout = "2006-01-02 15:04:05" // log header and footer
	stampWidth   = len("[06-01-02 15:04:05] ")
	ruleWidth    = 60
)

// Logger is the runner.Logger used by the CLI. every line goes to the log file uncolored
// and to stdout colored by the current phase.
type Logger struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	stdout  io.Writer
	colors  *Colors
	started time.Time
	phase   runner.Phase
}

// Config holds logger configuration.
type Config struct {
	Suite   string // suite name, used to derive the log filename
	Dir     string // directory for the log file, current dir if empty
	BaseURL string // notebook server, written to the header
	Driver  string // browser driver, written to the header
	NoColor bool   // disable color output (sets color.NoColor globally)
}

// NewLogger creates the log file and writes its header. nil colors means built-in defaults.
func NewLogger(cfg Config, colors *Colors) (*Logger, error) {
	if cfg.NoColor {
		color.NoColor = true
	}
	if colors == nil {
		colors = NewColors(defaultColors())
	}

	path := logFilename(cfg.Dir, cfg.Suite)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.Create(path) //nolint:gosec // path derived from suite name
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	l := &Logger{file: f, path: path, stdout: os.Stdout, colors: colors, started: time.Now(), phase: runner.PhaseSetup}

	suite := cmp.Or(cfg.Suite, "default")
	header := []string{
		"# nbcheck run log",
		"Suite: " + suite,
		"Server: " + cfg.BaseURL,
		"Driver: " + cfg.Driver,
		"Started: " + l.started.Format(headerLayout),
		strings.Repeat("-", ruleWidth),
		"",
	}
	for _, h := range header {
		l.toFile(h)
	}
	return l, nil
}

// Path returns the log file path.
func (l *Logger) Path() string { return l.path }

// SetPhase switches the stdout color for subsequent lines.
func (l *Logger) SetPhase(phase runner.Phase) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.phase = phase
}

// Print writes one stamped line in the phase color.
func (l *Logger) Print(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stamped(fmt.Sprintf(format, args...), l.colors.ForPhase(l.phase))
}

// Error writes a stamped "ERROR: " line in the error color.
func (l *Logger) Error(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stamped("ERROR: "+fmt.Sprintf(format, args...), l.colors.err)
}

// Warn writes a stamped "WARN: " line in the warn color.
func (l *Logger) Warn(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stamped("WARN: "+fmt.Sprintf(format, args...), l.colors.warn)
}

// PrintSection writes an unstamped "--- label ---" header preceded by a blank line.
func (l *Logger) PrintSection(section runner.Section) {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := "--- " + section.Label + " ---"
	l.toFile("\n" + header)
	l.toStdout("\n" + l.colors.ForPhase(l.phase).Sprint(header))
}

// PrintAligned writes a multi-line block: the first line stamped, the rest indented under it,
// every line wrapped to the terminal width. blank lines are kept as is.
func (l *Logger) PrintAligned(text string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.colors.ForPhase(l.phase)
	indent := strings.Repeat(" ", stampWidth)
	width := contentWidth()
	first := true
	for raw := range strings.SplitSeq(text, "\n") {
		if raw == "" {
			l.toFile("")
			l.toStdout("")
			continue
		}
		for line := range strings.SplitSeq(wrapText(raw, width), "\n") {
			if first {
				l.stamped(line, c)
				first = false
				continue
			}
			l.toFile(indent + line)
			l.toStdout(indent + c.Sprint(line))
		}
	}
}

// Elapsed returns the humanized time since the logger was created.
func (l *Logger) Elapsed() string {
	return humanize.RelTime(l.started, time.Now(), "", "")
}

// Close writes the footer and closes the file, repeated calls are no-ops.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}

	l.toFile("\n" + strings.Repeat("-", ruleWidth))
	l.toFile(fmt.Sprintf("Completed: %s (%s)", time.Now().Format(headerLayout), l.Elapsed()))

	f := l.file
	l.file = nil
	if err := f.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

// stamped writes msg with a "[stamp] " prefix, caller holds the lock.
func (l *Logger) stamped(msg string, c *color.Color) {
	stamp := "[" + time.Now().Format(stampLayout) + "]"
	l.toFile(stamp + " " + msg)
	l.toStdout(l.colors.timestamp.Sprint(stamp) + " " + c.Sprint(msg))
}

func (l *Logger) toFile(line string) {
	if l.file != nil {
		_, _ = io.WriteString(l.file, line+"\n")
	}
}

func (l *Logger) toStdout(line string) {
	_, _ = io.WriteString(l.stdout, line+"\n")
}

// contentWidth is the terminal width (COLUMNS first, then the tty) minus the stamp, at least 40.
func contentWidth() int {
	const fallback, floor = 80, 40
	total := fallback
	if w, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && w > 0 {
		total = w
	} else if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		total = w
	}
	return max(total-stampWidth, floor)
}

// wrapText breaks text on spaces so no line exceeds width, unless a single word does.
func wrapText(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}
	var lines []string
	cur := ""
	for _, word := range strings.Fields(text) {
		if cur != "" && len(cur)+1+len(word) > width {
			lines = append(lines, cur)
			cur = ""
		}
		if cur != "" {
			cur += " "
		}
		cur += word
	}
	return strings.Join(append(lines, cur), "\n")
}

// logFilename returns nbcheck-<suite>.txt inside dir, with the suite name made filename-safe.
func logFilename(dir, suite string) string {
	stem := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(suite))
	stem = strings.Trim(stem, "._")
	if stem == "" {
		stem = "default"
	}
	return filepath.Join(dir, "nbcheck-"+stem+".txt")
}

// defaultColors mirrors the embedded config colors for loggers created without config.
func defaultColors() config.ColorConfig {
	return config.ColorConfig{
		Setup: "0,255,255", Step: "0,255,0", Pass: "127,255,127", Fail: "255,95,95",
		Warn: "255,197,109", Error: "255,0,0", Timestamp: "138,138,138", Info: "180,180,180",
	}
}
