// Package runner executes scenarios step by step against a browser page, fail-fast within a
// scenario and continuing across the scenarios of a suite.
package runner

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/umputun/nbcheck/pkg/browser"
	"github.com/umputun/nbcheck/pkg/jupyter"
	"github.com/umputun/nbcheck/pkg/scenario"
)

// default waits.
const (
	DefaultStepTimeout = 10 * time.Second
	DefaultPageTimeout = 30 * time.Second
)

// cleanupTimeout bounds scratch notebook removal, which runs even after ctx is canceled.
const cleanupTimeout = 10 * time.Second

// TextMatch selects how assert_text compares element text.
type TextMatch string

// text match modes.
const (
	TextMatchExact    TextMatch = "exact"
	TextMatchContains TextMatch = "contains"
)

// Config holds runner configuration.
type Config struct {
	StepTimeout   time.Duration // wait for each step, DefaultStepTimeout if zero
	PageTimeout   time.Duration // wait for navigation, DefaultPageTimeout if zero
	ScreenshotDir string        // directory for png files, current dir if empty
	TextMatch     TextMatch     // exact (default) or contains
	NotebookDir   string        // contents directory for scratch notebooks, server root if empty
}

//go:generate moq -out mocks/browser.go -pkg mocks -skip-ensure -fmt goimports . Browser
//go:generate moq -out mocks/page.go -pkg mocks -skip-ensure -fmt goimports ../browser Page
//go:generate moq -out mocks/notebooks.go -pkg mocks -skip-ensure -fmt goimports . Notebooks
//go:generate moq -out mocks/logger.go -pkg mocks -skip-ensure -fmt goimports . Logger

// Browser opens pages.
type Browser interface {
	NewPage(ctx context.Context) (browser.Page, error)
}

// Notebooks resolves page urls and manages scratch notebooks on the server.
type Notebooks interface {
	DashboardURL() string
	NotebookURL(path string) string
	ResolveKernel(ctx context.Context, prefix, suffix string) (jupyter.KernelSpec, error)
	CreateNotebook(ctx context.Context, path string, spec jupyter.KernelSpec) error
	DeleteNotebook(ctx context.Context, path string) error
}

// Logger provides logging functionality.
type Logger interface {
	SetPhase(phase Phase)
	Print(format string, args ...any)
	PrintSection(section Section)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Status is the outcome of a step, scenario or suite.
type Status string

// status values.
const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip" // not executed after an earlier failure, or unsupported by driver
)

// StepResult is the outcome of one step.
type StepResult struct {
	Index      int
	Kind       scenario.StepKind
	Label      string
	Status     Status
	Err        error
	Note       string // reason for a skip that is not a failure
	Screenshot string // written file, screenshot steps only
	Duration   time.Duration
}

// Result is the outcome of one scenario.
type Result struct {
	Scenario    string
	Status      Status
	Steps       []StepResult
	Err         error  // first error, setup or step
	Kernel      string // resolved kernelspec name, notebook scenarios only
	Notebook    string // scratch notebook path, notebook scenarios only
	Screenshots []string
	Duration    time.Duration
}

// Failed returns the failed step, nil if no step failed.
func (r Result) Failed() *StepResult {
	for i := range r.Steps {
		if r.Steps[i].Status == StatusFail {
			return &r.Steps[i]
		}
	}
	return nil
}

// SuiteResult is the outcome of a suite run.
type SuiteResult struct {
	Suite     string
	Status    Status
	Scenarios []Result
	Err       error // set when the run was interrupted
	Duration  time.Duration
}

// Passed returns the number of passed scenarios.
func (s SuiteResult) Passed() int {
	return s.count(StatusPass)
}

// FailedCount returns the number of failed scenarios.
func (s SuiteResult) FailedCount() int {
	return s.count(StatusFail)
}

func (s SuiteResult) count(st Status) int {
	n := 0
	for _, r := range s.Scenarios {
		if r.Status == st {
			n++
		}
	}
	return n
}

// Runner executes scenarios.
type Runner struct {
	cfg       Config
	log       Logger
	browser   Browser
	notebooks Notebooks
	newID     func() string
}

// New creates a Runner. zero timeouts and text match get defaults.
func New(cfg Config, log Logger, b Browser, nb Notebooks) *Runner {
	if cfg.StepTimeout <= 0 {
		cfg.StepTimeout = DefaultStepTimeout
	}
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = DefaultPageTimeout
	}
	if cfg.TextMatch == "" {
		cfg.TextMatch = TextMatchExact
	}
	return &Runner{cfg: cfg, log: log, browser: b, notebooks: nb, newID: uuid.NewString}
}

// RunSuite runs scenarios in order. a failing scenario does not stop the next ones,
// cancellation of ctx does.
func (r *Runner) RunSuite(ctx context.Context, name string, scenarios []scenario.Scenario) SuiteResult {
	start := time.Now()
	res := SuiteResult{Suite: name, Status: StatusPass}

	for i, sc := range scenarios {
		if err := ctx.Err(); err != nil {
			res.Err = fmt.Errorf("suite interrupted before %s: %w", sc.Name, err)
			res.Status = StatusFail
			for _, rest := range scenarios[i:] {
				res.Scenarios = append(res.Scenarios, skipped(rest))
			}
			break
		}
		r.log.PrintSection(NewScenarioSection(i+1, sc.Name))
		sr := r.Run(ctx, sc)
		if sr.Status == StatusFail {
			res.Status = StatusFail
		}
		res.Scenarios = append(res.Scenarios, sr)
	}

	res.Duration = time.Since(start)
	phase := PhasePass
	if res.Status == StatusFail {
		phase = PhaseFail
	}
	r.log.SetPhase(phase)
	r.log.PrintSection(NewGenericSection("summary"))
	r.log.Print("suite %s: %d passed, %d failed", name, res.Passed(), res.FailedCount())
	return res
}

// skipped is the result of a scenario that never started, all its steps skipped.
func skipped(sc scenario.Scenario) Result {
	res := Result{Scenario: sc.Name, Status: StatusSkip, Steps: make([]StepResult, len(sc.Steps))}
	for i, st := range sc.Steps {
		res.Steps[i] = StepResult{Index: i + 1, Kind: st.Kind, Label: st.Label(), Status: StatusSkip}
	}
	return res
}

// Run executes a single scenario. steps run in order, each under its own timeout,
// and the first failure marks the remaining steps skipped.
func (r *Runner) Run(ctx context.Context, sc scenario.Scenario) (res Result) {
	start := time.Now()
	res = skipped(sc)
	res.Status = StatusPass
	defer func() {
		res.Duration = time.Since(start)
		if res.Status == StatusFail {
			r.log.SetPhase(PhaseFail)
			r.log.Error("scenario %s failed: %v", sc.Name, res.Err)
			return
		}
		r.log.SetPhase(PhasePass)
		r.log.Print("scenario %s passed in %s", sc.Name, res.Duration.Round(time.Millisecond))
	}()

	r.log.SetPhase(PhaseSetup)
	target, cleanup, err := r.prepare(ctx, sc, &res)
	if err != nil {
		res.Status, res.Err = StatusFail, err
		return res
	}
	defer cleanup()

	page, err := r.browser.NewPage(ctx)
	if err != nil {
		res.Status, res.Err = StatusFail, fmt.Errorf("open page: %w", err)
		return res
	}
	defer func() {
		if err := page.Close(); err != nil {
			r.log.Warn("close page: %v", err)
		}
	}()

	shots := newScreenshots(r.cfg.ScreenshotDir, sc.Prefix())
	r.log.Print("open %s", redactToken(target))
	gotoCtx, cancel := context.WithTimeout(ctx, r.cfg.PageTimeout)
	err = page.Goto(gotoCtx, target)
	cancel()
	if err != nil {
		res.Status, res.Err = StatusFail, fmt.Errorf("open %s: %w", redactToken(target), err)
		r.failureScreenshot(ctx, page, shots, &res)
		return res
	}

	r.log.SetPhase(PhaseStep)
	for i, st := range sc.Steps {
		sr := &res.Steps[i]
		r.log.Print("[%d/%d] %s", i+1, len(sc.Steps), sr.Label)
		stepStart := time.Now()
		err := r.runStep(ctx, page, st, shots, sr)
		sr.Duration = time.Since(stepStart)
		if err != nil {
			sr.Status, sr.Err = StatusFail, &StepError{Index: i + 1, Step: sr.Label, Selector: st.Selector, Err: err}
			res.Status, res.Err = StatusFail, sr.Err
			r.failureScreenshot(ctx, page, shots, &res)
			return res
		}
		if sr.Screenshot != "" {
			res.Screenshots = append(res.Screenshots, sr.Screenshot)
		}
	}
	return res
}

// prepare resolves the start url. for notebook scenarios it creates the scratch notebook and
// returns a cleanup removing it.
func (r *Runner) prepare(ctx context.Context, sc scenario.Scenario, res *Result) (target string, cleanup func(), err error) {
	noop := func() {}
	if sc.Target != scenario.TargetNotebook {
		return r.notebooks.DashboardURL(), noop, nil
	}
	if sc.Kernel == nil {
		return "", noop, errors.New("notebook scenario without kernel")
	}

	ks, err := r.notebooks.ResolveKernel(ctx, sc.Kernel.Prefix, sc.Kernel.Suffix)
	if err != nil {
		return "", noop, fmt.Errorf("resolve kernel: %w", err)
	}
	res.Kernel = ks.Name
	r.log.Print("kernel %s (%s)", ks.Name, ks.DisplayName)

	nbPath := path.Join(r.cfg.NotebookDir, "nbcheck-"+r.newID()+".ipynb")
	if err := r.notebooks.CreateNotebook(ctx, nbPath, ks); err != nil {
		return "", noop, err
	}
	res.Notebook = nbPath

	cleanup = func() {
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
		defer cancel()
		if err := r.notebooks.DeleteNotebook(dctx, nbPath); err != nil {
			r.log.Warn("remove scratch notebook: %v", err)
		}
	}
	return r.notebooks.NotebookURL(nbPath), cleanup, nil
}

// runStep executes one step under the step timeout and records outputs in sr.
func (r *Runner) runStep(ctx context.Context, page browser.Page, st scenario.Step, shots *screenshots, sr *StepResult) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.StepTimeout)
	defer cancel()

	switch st.Kind {
	case scenario.StepViewport:
		if st.Viewport == nil {
			return errors.New("missing viewport")
		}
		if err := page.SetViewport(ctx, st.Viewport.Width, st.Viewport.Height); err != nil {
			return err
		}
	case scenario.StepScreenshot:
		data, err := page.Screenshot(ctx)
		if errors.Is(err, browser.ErrScreenshotUnsupported) {
			r.log.Warn("skip screenshot %s: %v", st.Name, err)
			sr.Status, sr.Note = StatusSkip, err.Error()
			return nil
		}
		if err != nil {
			return err
		}
		p, err := shots.save(st.Name, data)
		if err != nil {
			return err
		}
		sr.Screenshot = p
		r.log.Print("saved %s", p)
	case scenario.StepClick:
		if err := page.WaitVisible(ctx, st.Selector); err != nil {
			return err
		}
		if err := page.Click(ctx, st.Selector); err != nil {
			return err
		}
	case scenario.StepWaitVisible:
		if err := page.WaitVisible(ctx, st.Selector); err != nil {
			return err
		}
	case scenario.StepAssertText:
		text, err := page.Text(ctx, st.Selector)
		if err != nil {
			return err
		}
		if err := r.matchText(st.Selector, st.Text, text); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown step kind %q", st.Kind)
	}
	sr.Status = StatusPass
	return nil
}

// matchText compares trimmed actual text against expected.
func (r *Runner) matchText(selector, expected, actual string) error {
	actual = strings.TrimSpace(actual)
	if r.cfg.TextMatch == TextMatchContains {
		if strings.Contains(actual, expected) {
			return nil
		}
		return &TextMismatchError{Selector: selector, Expected: expected, Actual: actual, Contains: true}
	}
	if actual == expected {
		return nil
	}
	return &TextMismatchError{Selector: selector, Expected: expected, Actual: actual}
}

// failureScreenshot captures the page state after a failure, best-effort.
func (r *Runner) failureScreenshot(ctx context.Context, page browser.Page, shots *screenshots, res *Result) {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.StepTimeout)
	defer cancel()
	data, err := page.Screenshot(sctx)
	if err != nil {
		if !errors.Is(err, browser.ErrScreenshotUnsupported) {
			r.log.Warn("failure screenshot: %v", err)
		}
		return
	}
	p, err := shots.save("failure", data)
	if err != nil {
		r.log.Warn("failure screenshot: %v", err)
		return
	}
	res.Screenshots = append(res.Screenshots, p)
	r.log.Print("saved %s", p)
}

// redactToken hides the token query parameter in urls written to logs.
func redactToken(u string) string {
	before, after, ok := strings.Cut(u, "token=")
	if !ok {
		return u
	}
	if i := strings.IndexByte(after, '&'); i >= 0 {
		return before + "token=***" + after[i:]
	}
	return before + "token=***"
}
