// internal/browser/chromedp.go

// Package browser fetches pages through headless Chrome so markup built by
// JavaScript is visible to the extractors.
package browser

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/dechora/itemscout/internal/fetch"
	"github.com/dechora/itemscout/internal/utils"
)

// Fetcher is the document retrieval contract shared with the extract package.
type Fetcher interface {
	Fetch(ctx context.Context, targetURL string) (*goquery.Document, error)
}

// RendererConfig configures the headless browser fetcher.
type RendererConfig struct {
	Headless  bool
	Timeout   time.Duration
	UserAgent string

	// Fallback handles the page when rendering fails; usually the plain
	// HTTP client. May be nil.
	Fallback Fetcher
}

// Renderer fetches pages with chromedp and parses the rendered DOM. A fresh
// browser context is created per fetch so extractions stay independent.
type Renderer struct {
	config RendererConfig
	logger utils.Logger
}

// NewRenderer creates a rendered-page fetcher.
func NewRenderer(config RendererConfig, logger utils.Logger) *Renderer {
	if config.Timeout == 0 {
		config.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = utils.NewComponentLogger("browser")
	}
	return &Renderer{config: config, logger: logger}
}

// Fetch navigates to targetURL in headless Chrome and parses the rendered
// HTML. On any browser failure it falls back to the configured plain fetcher.
func (r *Renderer) Fetch(ctx context.Context, targetURL string) (*goquery.Document, error) {
	html, err := r.renderedHTML(ctx, targetURL)
	if err != nil {
		if r.config.Fallback != nil {
			r.logger.Warnf("rendered fetch failed for %s, falling back to HTTP: %v", targetURL, err)
			return r.config.Fallback.Fetch(ctx, targetURL)
		}
		return nil, utils.WrapError(err, utils.ErrCodeFetchFailed, "rendered fetch failed").
			WithContext("url", targetURL)
	}

	doc, err := fetch.ParseDocument(html)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// renderedHTML runs the navigation and captures the document's outer HTML.
func (r *Renderer) renderedHTML(ctx context.Context, targetURL string) (string, error) {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox, // required in container environments
	}
	if r.config.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if r.config.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(r.config.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, r.config.Timeout)
	defer cancelRun()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(targetURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	return html, err
}
