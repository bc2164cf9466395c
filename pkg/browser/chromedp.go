package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Chromedp is a chrome instance driven over the devtools protocol with chromedp.
type Chromedp struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	opts        Options
}

// NewChromedp prepares an exec allocator. chrome itself starts with the first page.
func NewChromedp(ctx context.Context, opts Options) (*Chromedp, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	// the allocator outlives individual calls, only its own cancel stops chrome
	allocCtx, cancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	return &Chromedp{allocCtx: allocCtx, cancelAlloc: cancel, opts: opts}, nil
}

// NewPage opens a new tab.
func (c *Chromedp) NewPage(_ context.Context) (Page, error) {
	tabCtx, cancel := chromedp.NewContext(c.allocCtx)
	// starts the browser if needed and attaches to the tab
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("start chrome tab: %w", err)
	}
	return &chromedpPage{tabCtx: tabCtx, cancel: cancel, opts: c.opts}, nil
}

// Close stops chrome.
func (c *Chromedp) Close() error {
	c.cancelAlloc()
	return nil
}

type chromedpPage struct {
	tabCtx context.Context
	cancel context.CancelFunc
	opts   Options
}

// run executes actions on the tab, bounded by ctx deadline and cancellation.
func (p *chromedpPage) run(ctx context.Context, actions ...chromedp.Action) error {
	opCtx, cancel := context.WithTimeout(p.tabCtx, waitFor(ctx, p.opts.PageTimeout))
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(opCtx, actions...)
}

func (p *chromedpPage) Goto(ctx context.Context, url string) error {
	if err := p.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (p *chromedpPage) SetViewport(ctx context.Context, width, height int) error {
	if err := p.run(ctx, chromedp.EmulateViewport(int64(width), int64(height))); err != nil {
		return fmt.Errorf("set viewport %dx%d: %w", width, height, err)
	}
	return nil
}

func (p *chromedpPage) WaitVisible(ctx context.Context, selector string) error {
	return selectorErr(ctx, selector, p.run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery)))
}

func (p *chromedpPage) Click(ctx context.Context, selector string) error {
	err := p.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible),
	)
	return selectorErr(ctx, selector, err)
}

func (p *chromedpPage) Text(ctx context.Context, selector string) (string, error) {
	var text string
	err := p.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.TextContent(selector, &text, chromedp.ByQuery),
	)
	if err != nil {
		return "", selectorErr(ctx, selector, err)
	}
	return text, nil
}

func (p *chromedpPage) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		data, err := page.CaptureScreenshot().WithFormat(page.CaptureScreenshotFormatPng).Do(ctx)
		if err != nil {
			return err
		}
		buf = data
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return buf, nil
}

func (p *chromedpPage) Close() error {
	p.cancel()
	return nil
}
