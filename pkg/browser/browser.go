// Package browser provides page drivers used to run scenarios: playwright (default),
// chromedp, rod and a browserless static driver backed by goquery.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrElementNotFound is returned when no visible element matches a selector within the wait.
var ErrElementNotFound = errors.New("element not found")

// ErrScreenshotUnsupported is returned by drivers that cannot render pages.
var ErrScreenshotUnsupported = errors.New("screenshot not supported by driver")

// Driver names.
const (
	DriverPlaywright = "playwright"
	DriverChromedp   = "chromedp"
	DriverRod        = "rod"
	DriverStatic     = "static"
)

// Drivers lists supported driver names.
var Drivers = []string{DriverPlaywright, DriverChromedp, DriverRod, DriverStatic}

// Options configures a browser driver.
type Options struct {
	Headless    bool          // run without a visible window
	SlowMo      time.Duration // delay between driver operations, playwright only
	PageTimeout time.Duration // default wait for navigation when ctx has no deadline
	Install     bool          // install playwright browsers before launch
}

// defaultWait is used when ctx carries no deadline and no page timeout is set.
const defaultWait = 30 * time.Second

// Browser is a launched driver able to open pages.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is the driver-neutral page surface scenarios are executed against.
// every blocking method bounds its wait by ctx deadline.
type Page interface {
	Goto(ctx context.Context, url string) error
	SetViewport(ctx context.Context, width, height int) error
	WaitVisible(ctx context.Context, selector string) error
	Click(ctx context.Context, selector string) error
	Text(ctx context.Context, selector string) (string, error)
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

// Open launches the named driver.
func Open(ctx context.Context, driver string, opts Options) (Browser, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverPlaywright, "":
		return NewPlaywright(opts)
	case DriverChromedp:
		return NewChromedp(ctx, opts)
	case DriverRod:
		return NewRod(ctx, opts)
	case DriverStatic:
		return NewStatic(opts), nil
	default:
		return nil, fmt.Errorf("unknown driver %q, supported: %s", driver, strings.Join(Drivers, ", "))
	}
}

// waitFor returns the time left until ctx deadline, or fallback (defaultWait if zero).
func waitFor(ctx context.Context, fallback time.Duration) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left > 0 {
			return left
		}
		return time.Millisecond
	}
	if fallback > 0 {
		return fallback
	}
	return defaultWait
}

// notFound wraps a driver timeout as ErrElementNotFound for selector.
func notFound(selector string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrElementNotFound, selector, err)
}

// selectorErr wraps a failed wait on selector. a deadline hit by the operation or by the step
// ctx means the element never showed up, whichever cancellation reached the driver first.
func selectorErr(ctx context.Context, selector string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return notFound(selector, err)
	}
	return fmt.Errorf("%s: %w", selector, err)
}
