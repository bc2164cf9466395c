// Package main provides nbcheck - browser smoke tests for jupyter notebook deployments.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/nbcheck/pkg/browser"
	"github.com/umputun/nbcheck/pkg/config"
	"github.com/umputun/nbcheck/pkg/fixture"
	"github.com/umputun/nbcheck/pkg/jupyter"
	"github.com/umputun/nbcheck/pkg/notify"
	"github.com/umputun/nbcheck/pkg/progress"
	"github.com/umputun/nbcheck/pkg/report"
	"github.com/umputun/nbcheck/pkg/runner"
	"github.com/umputun/nbcheck/pkg/scenario"
	"github.com/umputun/nbcheck/pkg/web"
)

// opts holds all command-line options.
type opts struct {
	URL          string        `short:"u" long:"url" env:"NBCHECK_URL" description:"notebook server base url"`
	Token        string        `long:"token" env:"NBCHECK_TOKEN" description:"notebook server token"`
	Suite        string        `long:"suite" description:"suite yaml file"`
	Driver       string        `long:"driver" choice:"playwright" choice:"chromedp" choice:"rod" choice:"static" description:"browser driver"`
	Headful      bool          `long:"headful" description:"show the browser window"`
	Timeout      time.Duration `short:"t" long:"timeout" description:"step timeout"`
	Screenshots  string        `long:"screenshots" description:"screenshot directory"`
	KernelPrefix string        `long:"kernel-prefix" description:"kernelspec name prefix"`
	KernelSuffix string        `long:"kernel-suffix" description:"kernelspec name suffix"`
	KernelLabel  string        `long:"kernel-label" description:"expected kernel indicator text"`
	Fixture      bool          `long:"fixture" description:"run against the built-in fixture server"`
	Serve        bool          `short:"s" long:"serve" description:"start web dashboard for real-time streaming"`
	Port         int           `short:"p" long:"port" default:"8080" description:"web dashboard port"`
	Watch        bool          `short:"w" long:"watch" description:"rerun the suite when the suite file changes"`
	Report       string        `long:"report" description:"write markdown report to file"`
	Config       string        `long:"config" description:"config file, replaces .nbcheck/config"`
	List         bool          `short:"l" long:"list" description:"list suite scenarios and exit"`
	Debug        bool          `short:"d" long:"debug" description:"print resolved settings"`
	NoColor      bool          `long:"no-color" description:"disable color output"`
	Version      bool          `short:"v" long:"version" description:"print version and exit"`

	Args struct {
		Scenarios []string `positional-arg-name:"scenario" description:"scenarios to run, all if omitted"`
	} `positional-args:"yes"`
}

var revision = "unknown"

// errSuiteFailed is returned when at least one scenario failed.
var errSuiteFailed = errors.New("suite failed")

// settings are config values with command-line overrides applied.
type settings struct {
	BaseURL       string
	Token         string
	Driver        string
	Headless      bool
	SlowMo        time.Duration
	Install       bool
	StepTimeout   time.Duration
	PageTimeout   time.Duration
	ScreenshotDir string
	ReportFile    string
	TextMatch     runner.TextMatch
	NotebookDir   string
	Kernel        scenario.Kernel
}

func main() {
	fmt.Printf("nbcheck %s\n", revision)

	var o opts
	parser := flags.NewParser(&o, flags.Default)
	parser.Usage = "[OPTIONS] [scenario...]"

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if o.Version {
		os.Exit(0)
	}

	restore := disableCtrlCEcho()
	defer restore()

	// setup context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, o); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		restore()
		os.Exit(1) //nolint:gocritic // restore called explicitly above
	}
}

func run(ctx context.Context, o opts) error {
	cfg, err := config.LoadFile("", o.Config) // empty dir uses default location
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	colors := progress.NewColors(cfg.Colors)
	st := resolveSettings(cfg, o)

	src, err := cfg.Suite(o.Suite)
	if err != nil {
		return fmt.Errorf("find suite: %w", err)
	}
	suite, err := parseSuite(src, st.Kernel)
	if err != nil {
		return err
	}

	if o.List {
		for _, sc := range suite.Scenarios {
			fmt.Printf("%s\t%s\t%d steps\n", sc.Name, sc.Target, len(sc.Steps))
		}
		return nil
	}

	scenarios, err := suite.Select(o.Args.Scenarios...)
	if err != nil {
		return err
	}
	if o.Watch && src.Embedded() {
		return errors.New("watch needs a suite file, built-in suite can't change")
	}

	if o.Fixture {
		stop, fixErr := startFixture(ctx, &st)
		if fixErr != nil {
			return fixErr
		}
		defer stop()
	}

	baseLog, err := progress.NewLogger(progress.Config{
		Suite: suite.Name, BaseURL: st.BaseURL, Driver: st.Driver, NoColor: o.NoColor,
	}, colors)
	if err != nil {
		return fmt.Errorf("create progress logger: %w", err)
	}
	defer func() {
		if closeErr := baseLog.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close progress log: %v\n", closeErr)
		}
	}()

	printStartup(colors, startupInfo{Suite: suite.Name, Source: src.Path, Scenarios: scenarios, Settings: st,
		LogPath: baseLog.Path(), Debug: o.Debug})

	var log runner.Logger = baseLog
	var broadcast *web.BroadcastLogger
	if o.Serve {
		bl, srvErr := startDashboard(ctx, web.ServerConfig{Port: o.Port, Suite: suite.Name, BaseURL: st.BaseURL,
			Driver: st.Driver}, baseLog, colors)
		if srvErr != nil {
			return srvErr
		}
		broadcast, log = bl, bl
	}

	notifier, err := notify.New(cfg.Params, baseLog)
	if err != nil {
		baseLog.Warn("notifications disabled: %v", err)
		notifier = nil
	}

	b, err := browser.Open(ctx, st.Driver, browser.Options{
		Headless: st.Headless, SlowMo: st.SlowMo, PageTimeout: st.PageTimeout, Install: st.Install,
	})
	if err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	defer func() {
		if closeErr := b.Close(); closeErr != nil {
			baseLog.Warn("close browser: %v", closeErr)
		}
	}()

	client, err := jupyter.New(st.BaseURL, st.Token)
	if err != nil {
		return fmt.Errorf("notebook client: %w", err)
	}

	r := runner.New(runner.Config{
		StepTimeout:   st.StepTimeout,
		PageTimeout:   st.PageTimeout,
		ScreenshotDir: st.ScreenshotDir,
		TextMatch:     st.TextMatch,
		NotebookDir:   st.NotebookDir,
	}, log, b, client)

	runOnce := func(name string, scs []scenario.Scenario) runner.SuiteResult {
		started := time.Now()
		res := r.RunSuite(ctx, name, scs)
		if broadcast != nil {
			broadcast.Result(res)
		}
		if repErr := writeReport(res, report.Meta{BaseURL: st.BaseURL, Driver: st.Driver, Started: started},
			st.ReportFile, o.NoColor); repErr != nil {
			baseLog.Warn("report: %v", repErr)
		}
		notifier.Send(context.WithoutCancel(ctx), notify.NewResult(res, st.BaseURL, st.Driver)) // nil-safe
		colors.Info().Printf("\nsuite %s: %d passed, %d failed, completed in %s\n",
			res.Suite, res.Passed(), res.FailedCount(), baseLog.Elapsed())
		return res
	}

	res := runOnce(suite.Name, scenarios)

	if o.Watch {
		colors.Info().Printf("watching %s, press ctrl+c to exit\n", src.Path)
		err = watchFile(ctx, src.Path, watchDebounce, func() {
			reloaded, loadErr := scenario.LoadSuite(src.Path, st.Kernel)
			if loadErr != nil {
				baseLog.Error("reload suite: %v", loadErr)
				return
			}
			scs, selErr := reloaded.Select(o.Args.Scenarios...)
			if selErr != nil {
				baseLog.Error("reload suite: %v", selErr)
				return
			}
			runOnce(reloaded.Name, scs)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("watch suite: %w", err)
		}
		return nil
	}

	if o.Serve {
		colors.Info().Printf("dashboard still running at http://localhost:%d, press ctrl+c to exit\n", o.Port)
		<-ctx.Done()
	}

	if res.Status != runner.StatusPass {
		if res.Err != nil {
			return fmt.Errorf("%w: %w", errSuiteFailed, res.Err)
		}
		return fmt.Errorf("%w: %d of %d scenarios failed", errSuiteFailed, res.FailedCount(), len(res.Scenarios))
	}
	return nil
}

// resolveSettings applies command-line overrides on top of config values.
func resolveSettings(cfg *config.Config, o opts) settings {
	st := settings{
		BaseURL:       cfg.BaseURL,
		Token:         cfg.Token,
		Driver:        cfg.Driver,
		Headless:      cfg.Headless,
		SlowMo:        cfg.SlowMo(),
		Install:       cfg.InstallBrowsers,
		StepTimeout:   cfg.StepTimeout(),
		PageTimeout:   cfg.PageTimeout(),
		ScreenshotDir: cfg.ScreenshotDir,
		ReportFile:    cfg.ReportFile,
		TextMatch:     runner.TextMatch(cfg.TextMatch),
		NotebookDir:   cfg.NotebookDir,
		Kernel:        scenario.Kernel{Prefix: cfg.KernelPrefix, Suffix: cfg.KernelSuffix, Label: cfg.KernelLabel},
	}

	override := func(dst *string, val string) {
		if val != "" {
			*dst = val
		}
	}
	override(&st.BaseURL, o.URL)
	override(&st.Token, o.Token)
	override(&st.Driver, o.Driver)
	override(&st.ScreenshotDir, o.Screenshots)
	override(&st.ReportFile, o.Report)
	override(&st.Kernel.Prefix, o.KernelPrefix)
	override(&st.Kernel.Suffix, o.KernelSuffix)
	override(&st.Kernel.Label, o.KernelLabel)
	if o.Headful {
		st.Headless = false
	}
	if o.Timeout > 0 {
		st.StepTimeout = o.Timeout
	}
	if st.Driver == "" {
		st.Driver = browser.DriverPlaywright
	}
	st.BaseURL = strings.TrimRight(st.BaseURL, "/")
	return st
}

// parseSuite parses suite yaml, naming the suite after its file when the yaml has no name.
func parseSuite(src config.SuiteSource, kernel scenario.Kernel) (scenario.Suite, error) {
	suite, err := scenario.ParseSuite(src.Data, kernel)
	if err != nil {
		return scenario.Suite{}, fmt.Errorf("suite %s: %w", src.Path, err)
	}
	if suite.Name == "" {
		suite.Name = "default"
		if !src.Embedded() {
			suite.Name = strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
		}
	}
	return suite, nil
}

// startFixture serves the fake notebook server on a random local port and points settings at it.
func startFixture(ctx context.Context, st *settings) (stop func(), err error) {
	fixOpts := fixture.DefaultOptions()
	fixOpts.Token = st.Token

	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen fixture: %w", err)
	}
	srv := &http.Server{Handler: fixture.New(fixOpts), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if serveErr := srv.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "warning: fixture server: %v\n", serveErr)
		}
	}()

	st.BaseURL = "http://" + ln.Addr().String()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}, nil
}

// startDashboard starts the web server in the background and returns the broadcasting logger.
// startup errors within a short grace period are returned, later ones are logged.
func startDashboard(ctx context.Context, cfg web.ServerConfig, baseLog *progress.Logger,
	colors *progress.Colors) (*web.BroadcastLogger, error) {
	stream, err := web.NewStream(web.DefaultBufferSize)
	if err != nil {
		return nil, fmt.Errorf("create event stream: %w", err)
	}
	srv := web.NewServer(cfg, stream)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	select {
	case err := <-errCh:
		if err != nil {
			return nil, fmt.Errorf("web server: %w", err)
		}
	case <-time.After(100 * time.Millisecond):
		go func() {
			if err := <-errCh; err != nil {
				baseLog.Error("web server: %v", err)
			}
		}()
	}

	colors.Info().Printf("web dashboard: http://localhost:%d\n", cfg.Port)
	return web.NewBroadcastLogger(baseLog, stream), nil
}

// writeReport prints the rendered markdown report and saves the raw markdown to file when set.
func writeReport(res runner.SuiteResult, meta report.Meta, file string, noColor bool) error {
	md := report.Markdown(res, meta)
	rendered, err := report.Render(md, noColor)
	if err != nil {
		rendered = md
	}
	fmt.Print(rendered)

	if file == "" {
		return nil
	}
	if dir := filepath.Dir(file); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(file, []byte(md), 0o600); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// watchDebounce collapses the burst of events editors produce on save.
const watchDebounce = 300 * time.Millisecond

// watchFile calls fn after path changes, until ctx is canceled.
// the parent directory is watched so rename-on-save editors keep working.
func watchFile(ctx context.Context, path string, debounce time.Duration, fn func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher: %w", err)
		case <-fire:
			fire = nil
			fn()
		}
	}
}

// startupInfo holds parameters for printing startup information.
type startupInfo struct {
	Suite     string
	Source    string
	Scenarios []scenario.Scenario
	Settings  settings
	LogPath   string
	Debug     bool
}

func printStartup(colors *progress.Colors, info startupInfo) {
	names := make([]string, 0, len(info.Scenarios))
	for _, sc := range info.Scenarios {
		names = append(names, sc.Name)
	}
	colors.Info().Printf("starting suite %s (%s) against %s\n", info.Suite, info.Source, info.Settings.BaseURL)
	colors.Info().Printf("scenarios: %s, driver: %s\n", strings.Join(names, ", "), info.Settings.Driver)
	colors.Info().Printf("progress log: %s\n\n", info.LogPath)

	if !info.Debug {
		return
	}
	st := info.Settings
	colors.Info().Printf("debug: headless=%t slow_mo=%s step_timeout=%s page_timeout=%s\n",
		st.Headless, st.SlowMo, st.StepTimeout, st.PageTimeout)
	colors.Info().Printf("debug: screenshots=%q report=%q text_match=%s notebook_dir=%q\n",
		st.ScreenshotDir, st.ReportFile, st.TextMatch, st.NotebookDir)
	colors.Info().Printf("debug: kernel prefix=%q suffix=%q label=%q token set=%t\n\n",
		st.Kernel.Prefix, st.Kernel.Suffix, st.Kernel.Label, st.Token != "")
}
