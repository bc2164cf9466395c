package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Playwright is a chromium browser driven through playwright-go.
type Playwright struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
}

// NewPlaywright starts playwright and launches chromium.
func NewPlaywright(opts Options) (*Playwright, error) {
	if opts.Install {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("install playwright: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("run playwright: %w", err)
	}

	launch := playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(opts.Headless)}
	if opts.SlowMo > 0 {
		launch.SlowMo = playwright.Float(float64(opts.SlowMo / time.Millisecond))
	}

	b, err := pw.Chromium.Launch(launch)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	return &Playwright{pw: pw, browser: b, opts: opts}, nil
}

// NewPage opens a page in an isolated browser context (separate cookies and storage).
func (p *Playwright) NewPage(_ context.Context) (Page, error) {
	bctx, err := p.browser.NewContext()
	if err != nil {
		return nil, fmt.Errorf("create browser context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("create page: %w", err)
	}
	return &playwrightPage{ctx: bctx, page: page, pageTimeout: p.opts.PageTimeout}, nil
}

// Close shuts down the browser and the playwright driver.
func (p *Playwright) Close() error {
	var errs []error
	if p.browser != nil {
		if err := p.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	if p.pw != nil {
		if err := p.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop playwright: %w", err))
		}
	}
	return errors.Join(errs...)
}

type playwrightPage struct {
	ctx         playwright.BrowserContext
	page        playwright.Page
	pageTimeout time.Duration
}

func (p *playwrightPage) Goto(ctx context.Context, url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   p.timeoutMs(ctx),
	})
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (p *playwrightPage) SetViewport(_ context.Context, width, height int) error {
	if err := p.page.SetViewportSize(width, height); err != nil {
		return fmt.Errorf("set viewport %dx%d: %w", width, height, err)
	}
	return nil
}

func (p *playwrightPage) WaitVisible(ctx context.Context, selector string) error {
	err := p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: p.timeoutMs(ctx),
	})
	return p.wrap(selector, err)
}

func (p *playwrightPage) Click(ctx context.Context, selector string) error {
	if err := p.WaitVisible(ctx, selector); err != nil {
		return err
	}
	err := p.page.Locator(selector).First().Click(playwright.LocatorClickOptions{Timeout: p.timeoutMs(ctx)})
	return p.wrap(selector, err)
}

func (p *playwrightPage) Text(ctx context.Context, selector string) (string, error) {
	if err := p.WaitVisible(ctx, selector); err != nil {
		return "", err
	}
	text, err := p.page.Locator(selector).First().TextContent(playwright.LocatorTextContentOptions{
		Timeout: p.timeoutMs(ctx),
	})
	if err != nil {
		return "", p.wrap(selector, err)
	}
	return text, nil
}

func (p *playwrightPage) Screenshot(_ context.Context) ([]byte, error) {
	data, err := p.page.Screenshot(playwright.PageScreenshotOptions{Type: playwright.ScreenshotTypePng})
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return data, nil
}

func (p *playwrightPage) Close() error {
	if err := p.page.Close(); err != nil {
		_ = p.ctx.Close()
		return fmt.Errorf("close page: %w", err)
	}
	if err := p.ctx.Close(); err != nil {
		return fmt.Errorf("close browser context: %w", err)
	}
	return nil
}

// timeoutMs converts the remaining ctx time to playwright milliseconds.
func (p *playwrightPage) timeoutMs(ctx context.Context) *float64 {
	return playwright.Float(float64(waitFor(ctx, p.pageTimeout) / time.Millisecond))
}

func (p *playwrightPage) wrap(selector string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return notFound(selector, err)
	}
	return fmt.Errorf("%s: %w", selector, err)
}
