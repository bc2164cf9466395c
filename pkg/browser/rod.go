package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Rod is a chrome instance driven with go-rod.
type Rod struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	opts     Options
}

// NewRod launches chrome through the rod launcher and connects to it.
func NewRod(ctx context.Context, opts Options) (*Rod, error) {
	l := launcher.New().Headless(opts.Headless).Context(context.WithoutCancel(ctx))
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}
	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	return &Rod{browser: b, launcher: l, opts: opts}, nil
}

// NewPage opens a blank page in an incognito context.
func (r *Rod) NewPage(_ context.Context) (Page, error) {
	incognito, err := r.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("create incognito context: %w", err)
	}
	p, err := incognito.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		_ = incognito.Close()
		return nil, fmt.Errorf("create page: %w", err)
	}
	return &rodPage{page: p, incognito: incognito, opts: r.opts}, nil
}

// Close disconnects and kills chrome.
func (r *Rod) Close() error {
	err := r.browser.Close()
	r.launcher.Kill()
	if err != nil {
		return fmt.Errorf("close browser: %w", err)
	}
	return nil
}

type rodPage struct {
	page      *rod.Page
	incognito *rod.Browser // browser context owning page, disposed with it
	opts      Options
}

// bound returns the page bound to ctx with a timeout fallback when ctx has no deadline.
func (p *rodPage) bound(ctx context.Context) (*rod.Page, context.CancelFunc) {
	opCtx, cancel := context.WithTimeout(ctx, waitFor(ctx, p.opts.PageTimeout))
	return p.page.Context(opCtx), cancel
}

func (p *rodPage) Goto(ctx context.Context, url string) error {
	pg, cancel := p.bound(ctx)
	defer cancel()
	if err := pg.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := pg.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	return nil
}

func (p *rodPage) SetViewport(ctx context.Context, width, height int) error {
	pg, cancel := p.bound(ctx)
	defer cancel()
	err := pg.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width: width, Height: height, DeviceScaleFactor: 1,
	})
	if err != nil {
		return fmt.Errorf("set viewport %dx%d: %w", width, height, err)
	}
	return nil
}

// visible waits for the first element matching selector to become visible.
func (p *rodPage) visible(ctx context.Context, selector string) (*rod.Element, context.CancelFunc, error) {
	pg, cancel := p.bound(ctx)
	el, err := pg.Element(selector)
	if err != nil {
		cancel()
		return nil, nil, selectorErr(ctx, selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		cancel()
		return nil, nil, selectorErr(ctx, selector, err)
	}
	return el, cancel, nil
}

func (p *rodPage) WaitVisible(ctx context.Context, selector string) error {
	_, cancel, err := p.visible(ctx, selector)
	if err != nil {
		return err
	}
	cancel()
	return nil
}

func (p *rodPage) Click(ctx context.Context, selector string) error {
	el, cancel, err := p.visible(ctx, selector)
	if err != nil {
		return err
	}
	defer cancel()
	return selectorErr(ctx, selector, el.Click(proto.InputMouseButtonLeft, 1))
}

func (p *rodPage) Text(ctx context.Context, selector string) (string, error) {
	el, cancel, err := p.visible(ctx, selector)
	if err != nil {
		return "", err
	}
	defer cancel()
	res, err := el.Eval(`() => this.textContent`)
	if err != nil {
		return "", selectorErr(ctx, selector, err)
	}
	return res.Value.Str(), nil
}

func (p *rodPage) Screenshot(ctx context.Context) ([]byte, error) {
	pg, cancel := p.bound(ctx)
	defer cancel()
	data, err := pg.Screenshot(false, &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatPng})
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return data, nil
}

// Close closes the page and disposes its incognito browser context.
func (p *rodPage) Close() error {
	pageErr := p.page.Close()
	if err := p.incognito.Close(); err != nil {
		return fmt.Errorf("dispose browser context: %w", errors.Join(pageErr, err))
	}
	if pageErr != nil {
		return fmt.Errorf("close page: %w", pageErr)
	}
	return nil
}
