package browser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Static is a browserless driver. It fetches pages over http and evaluates selectors
// against the parsed document. no javascript runs, so it only sees server-rendered markup.
type Static struct {
	client *http.Client
	opts   Options
}

// NewStatic makes a static driver.
func NewStatic(opts Options) *Static {
	return &Static{client: &http.Client{Timeout: waitFor(context.Background(), opts.PageTimeout)}, opts: opts}
}

// NewPage returns an empty page.
func (s *Static) NewPage(_ context.Context) (Page, error) {
	return &staticPage{client: s.client}, nil
}

// Close drops idle keep-alive connections.
func (s *Static) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

type staticPage struct {
	client *http.Client
	url    *url.URL
	doc    *goquery.Document
	clicks []string
}

func (p *staticPage) Goto(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url %s: %w", rawURL, err)
	}
	if err := p.load(ctx, u); err != nil {
		return fmt.Errorf("navigate to %s: %w", rawURL, err)
	}
	return nil
}

func (p *staticPage) load(ctx context.Context, u *url.URL) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return fmt.Errorf("make request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}
	p.url, p.doc = u, doc
	return nil
}

// SetViewport is accepted and ignored, there is no layout.
func (p *staticPage) SetViewport(_ context.Context, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", width, height)
	}
	return nil
}

func (p *staticPage) WaitVisible(_ context.Context, selector string) error {
	_, err := p.visible(selector)
	return err
}

// Click checks the element is visible. links to other pages on the same host are followed,
// fragment and javascript links leave the document as is.
func (p *staticPage) Click(ctx context.Context, selector string) error {
	sel, err := p.visible(selector)
	if err != nil {
		return err
	}
	p.clicks = append(p.clicks, selector)

	href, ok := sel.Attr("href")
	if !ok || href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return nil
	}
	target, err := p.url.Parse(href)
	if err != nil {
		return fmt.Errorf("%s: bad href %q: %w", selector, href, err)
	}
	if target.Host != p.url.Host {
		return nil
	}
	if err := p.load(ctx, target); err != nil {
		return fmt.Errorf("%s: follow %s: %w", selector, target, err)
	}
	return nil
}

func (p *staticPage) Text(_ context.Context, selector string) (string, error) {
	sel, err := p.visible(selector)
	if err != nil {
		return "", err
	}
	return sel.Text(), nil
}

func (p *staticPage) Screenshot(_ context.Context) ([]byte, error) {
	return nil, ErrScreenshotUnsupported
}

func (p *staticPage) Close() error {
	p.doc = nil
	return nil
}

// visible returns the first matching element that is not hidden.
func (p *staticPage) visible(selector string) (*goquery.Selection, error) {
	if p.doc == nil {
		return nil, errors.New("no page loaded")
	}
	matches := p.doc.Find(selector)
	for i := range matches.Length() {
		sel := matches.Eq(i)
		if !hidden(sel) {
			return sel, nil
		}
	}
	return nil, notFound(selector, errStaticNoMatch)
}

var errStaticNoMatch = errors.New("no visible match in document")

// hidden reports whether the element or any ancestor is hidden by markup.
func hidden(sel *goquery.Selection) bool {
	for s := sel; s.Length() > 0; s = s.Parent() {
		if _, ok := s.Attr("hidden"); ok {
			return true
		}
		if t, _ := s.Attr("type"); strings.EqualFold(t, "hidden") && goquery.NodeName(s) == "input" {
			return true
		}
		style, _ := s.Attr("style")
		style = strings.ReplaceAll(strings.ToLower(style), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return true
		}
	}
	return false
}
