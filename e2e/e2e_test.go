//go:build e2e

// Package e2e provides end-to-end tests running nbcheck with a real browser against the fixture server.
package e2e

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"

	"github.com/umputun/nbcheck/pkg/browser"
	"github.com/umputun/nbcheck/pkg/fixture"
	"github.com/umputun/nbcheck/pkg/jupyter"
	"github.com/umputun/nbcheck/pkg/progress"
	"github.com/umputun/nbcheck/pkg/runner"
)

const (
	binaryPath = "/tmp/nbcheck-e2e"

	// polling intervals for condition-based waits.
	pollTimeout     = 5 * time.Second
	pollInterval    = 100 * time.Millisecond
	longPollTimeout = 60 * time.Second

	serverStartTimeout = 30 * time.Second
)

var (
	pw      *playwright.Playwright
	pwBrows playwright.Browser
)

func TestMain(m *testing.M) {
	os.Exit(runE2E(m))
}

// runE2E builds the binary and starts the dashboard browser, undoing both after m runs.
func runE2E(m *testing.M) int {
	steps := []struct {
		name string
		fn   func() (func(), error)
	}{
		{"build nbcheck", buildBinary},
		{"start playwright", startPlaywright},
	}
	for _, st := range steps {
		undo, err := st.fn()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", st.name, err)
			return 1
		}
		defer undo()
	}
	return m.Run()
}

// buildBinary compiles ./cmd/nbcheck from the module root.
func buildBinary() (func(), error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	build := exec.Command("go", "build", "-o", binaryPath, "./cmd/nbcheck")
	build.Dir = filepath.Dir(wd)
	build.Stdout, build.Stderr = os.Stdout, os.Stderr
	if err := build.Run(); err != nil {
		return nil, err
	}
	return func() { _ = os.Remove(binaryPath) }, nil
}

// headless is on unless E2E_HEADLESS=false, which also slows the browser down for watching.
func headless() bool { return os.Getenv("E2E_HEADLESS") != "false" }

// startPlaywright launches the chromium used to inspect the live dashboard.
func startPlaywright() (func(), error) {
	if err := playwright.Install(); err != nil {
		return nil, fmt.Errorf("install: %w", err)
	}
	var err error
	if pw, err = playwright.Run(); err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	launch := playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(headless())}
	if !headless() {
		launch.SlowMo = playwright.Float(50)
	}
	if pwBrows, err = pw.Chromium.Launch(launch); err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	return func() {
		_ = pwBrows.Close()
		_ = pw.Stop()
	}, nil
}

// startFixture serves the fake notebook server for one test.
func startFixture(t *testing.T, opts fixture.Options) (*httptest.Server, *fixture.Server) {
	t.Helper()
	fx := fixture.New(opts)
	srv := httptest.NewServer(fx)
	t.Cleanup(srv.Close)
	return srv, fx
}

// newRunner builds a runner driving a real playwright browser against baseURL.
func newRunner(t *testing.T, baseURL, token, screenshotDir string) *runner.Runner {
	t.Helper()
	b, err := browser.Open(t.Context(), browser.DriverPlaywright, browser.Options{Headless: headless()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	client, err := jupyter.New(baseURL, token)
	require.NoError(t, err)

	log, err := progress.NewLogger(progress.Config{Suite: t.Name(), Dir: t.TempDir(), NoColor: true}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })

	return runner.New(runner.Config{ScreenshotDir: screenshotDir, StepTimeout: 5 * time.Second}, log, b, client)
}

// startCLI runs the nbcheck binary with args, the returned channel gets the exit error.
func startCLI(t *testing.T, dir string, args ...string) (*exec.Cmd, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), longPollTimeout)
	t.Cleanup(cancel)

	cmd := exec.CommandContext(ctx, binaryPath, append([]string{"--no-color"}, args...)...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "HOME="+dir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	require.NoError(t, cmd.Start())

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	t.Cleanup(func() { _ = cmd.Process.Kill() }) // no-op error when already exited
	return cmd, done
}

// waitForServer polls url until it answers 200 or timeout passes.
func waitForServer(url string, timeout time.Duration) error {
	client := &http.Client{Timeout: time.Second}
	for deadline := time.Now().Add(timeout); time.Now().Before(deadline); time.Sleep(pollInterval) {
		resp, err := client.Get(url) //nolint:noctx // polling helper
		if err != nil {
			continue
		}
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return nil
		}
	}
	return fmt.Errorf("%s not ready after %v", url, timeout)
}

func newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := pwBrows.NewPage()
	require.NoError(t, err)
	t.Cleanup(func() { _ = page.Close() })
	return page
}
