// internal/extract/builder.go
package extract

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/dechora/itemscout/internal/monitoring"
	"github.com/dechora/itemscout/internal/utils"
	"github.com/dechora/itemscout/pkg/api"
)

// Fetcher retrieves a URL and returns its parsed document. Implementations
// must treat non-2xx responses as errors.
type Fetcher interface {
	Fetch(ctx context.Context, targetURL string) (*goquery.Document, error)
}

// Page is one parsed document together with the URL it came from, used as
// the base for resolving relative links.
type Page struct {
	Doc *goquery.Document
	URL *url.URL
}

// NewPage wraps a parsed document with its source URL.
func NewPage(doc *goquery.Document, rawURL string) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrCodeValidation, "invalid page URL")
	}
	return &Page{Doc: doc, URL: u}, nil
}

// SourceCache memoizes resolved image source URLs per element. Setting the
// same URL twice is harmless; the cache is purely read-through.
type SourceCache struct {
	mu   sync.Mutex
	urls map[*html.Node]string
}

// NewSourceCache creates an empty source URL cache.
func NewSourceCache() *SourceCache {
	return &SourceCache{urls: make(map[*html.Node]string)}
}

func (c *SourceCache) get(node *html.Node) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.urls[node]
	return u, ok
}

func (c *SourceCache) put(node *html.Node, u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.urls[node] = u
}

// BuilderConfig wires a Builder's collaborators. Fetcher may be nil, in which
// case product pages are never fetched and items carry local metadata only.
type BuilderConfig struct {
	Fetcher Fetcher
	Logger  utils.Logger
	Metrics *monitoring.Metrics
	Sources *SourceCache
}

// Builder runs the full extraction pipeline for one image: source URL
// resolution, product root location, local metadata extraction, optional
// product page fetch, and the final merge.
type Builder struct {
	fetcher Fetcher
	logger  utils.Logger
	metrics *monitoring.Metrics
	sources *SourceCache
}

// NewBuilder creates a Builder from its configuration.
func NewBuilder(cfg BuilderConfig) *Builder {
	logger := cfg.Logger
	if logger == nil {
		logger = utils.NewComponentLogger("builder")
	}
	sources := cfg.Sources
	if sources == nil {
		sources = NewSourceCache()
	}
	return &Builder{
		fetcher: cfg.Fetcher,
		logger:  logger,
		metrics: cfg.Metrics,
		sources: sources,
	}
}

// BuildItem produces the final Item for one image on a page. Fetch and parse
// failures on the product page degrade to local-only metadata; only a missing
// image source URL aborts, with a coded error.
func (b *Builder) BuildItem(ctx context.Context, page *Page, img *goquery.Selection) (*api.Item, error) {
	imageURL := b.resolveImageSource(page, img)
	if imageURL == "" {
		b.logger.Warnf("no source URL resolvable for image on %s", page.URL)
		return nil, utils.NewError(utils.ErrCodeNoSourceURL, "image has no resolvable source URL").
			WithContext("page_url", page.URL.String())
	}

	root := FindProductRoot(img)
	local := ExtractLocalMeta(root, img)

	merged := MergedMeta{ProductName: local.ProductName, Manufacturer: local.Manufacturer}
	productPageURL := ""

	if LooksLikeGridCard(root) {
		productPageURL = FindProductLink(page, root, img)
		if productPageURL != "" && b.fetcher != nil {
			b.logger.Debugf("grid card detected, fetching product page %s", productPageURL)
			remote := b.fetchRemoteMeta(ctx, productPageURL)
			merged = MergeMeta(local, remote)
		}
	}

	item := &api.Item{
		ImageURL:        imageURL,
		ProductName:     nullable(merged.ProductName),
		ProductCategory: nullable(merged.ProductCategory),
		Manufacturer:    nullable(merged.Manufacturer),
		PageURL:         page.URL.String(),
		ProductPageURL:  nullable(productPageURL),
	}

	if b.metrics != nil {
		b.metrics.ItemBuilt(merged.ProductName != "")
	}

	return item, nil
}

// fetchRemoteMeta retrieves the product page and extracts its metadata. Every
// failure degrades to empty metadata; the pipeline continues with local data.
func (b *Builder) fetchRemoteMeta(ctx context.Context, productURL string) RemoteMeta {
	doc, err := b.fetcher.Fetch(ctx, productURL)
	if err != nil {
		b.logger.Warnf("product page fetch failed for %s: %v", productURL, err)
		if b.metrics != nil {
			b.metrics.FetchFailed(string(utils.CodeOf(err)))
		}
		return RemoteMeta{}
	}
	if b.metrics != nil {
		b.metrics.FetchSucceeded()
	}
	return ExtractRemoteMeta(doc)
}

// lazySourceAttrs are checked in priority order when src is absent.
var lazySourceAttrs = []string{"data-src", "data-original"}

// resolveImageSource finds the image's effective source URL: src first, then
// lazy-load attributes, then the first URL of a lazy srcset. The result is
// resolved against the page URL and memoized per element.
func (b *Builder) resolveImageSource(page *Page, img *goquery.Selection) string {
	if img == nil || img.Length() == 0 {
		return ""
	}
	node := img.Get(0)

	if cached, ok := b.sources.get(node); ok {
		return cached
	}

	raw := strings.TrimSpace(img.AttrOr("src", ""))
	for _, attr := range lazySourceAttrs {
		if raw != "" {
			break
		}
		raw = strings.TrimSpace(img.AttrOr(attr, ""))
	}
	if raw == "" {
		if srcset := strings.TrimSpace(img.AttrOr("data-srcset", "")); srcset != "" {
			raw = strings.Fields(srcset)[0]
		}
	}
	if raw == "" {
		return ""
	}

	resolved := resolveAgainst(page.URL, raw)
	b.sources.put(node, resolved)
	return resolved
}

// FindProductLink resolves the product page link for a card: the first anchor
// inside the root, or the image's nearest enclosing anchor, made absolute
// against the page URL. Returns "" when no link resolves.
func FindProductLink(page *Page, root, img *goquery.Selection) string {
	var anchor *goquery.Selection
	if root != nil && root.Length() > 0 {
		anchor = root.Find("a[href]").First()
	}
	if (anchor == nil || anchor.Length() == 0) && img != nil {
		anchor = img.Closest("a[href]")
	}
	if anchor == nil || anchor.Length() == 0 {
		return ""
	}

	href := strings.TrimSpace(anchor.AttrOr("href", ""))
	if href == "" {
		return ""
	}
	return resolveAgainst(page.URL, href)
}

// resolveAgainst resolves ref against base, returning "" for unparsable refs.
func resolveAgainst(base *url.URL, ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base != nil {
		parsed = base.ResolveReference(parsed)
	}
	return parsed.String()
}

// nullable maps "" to a null JSON field and anything else to its value.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
