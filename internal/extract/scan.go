// internal/extract/scan.go
package extract

import (
	"context"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/dechora/itemscout/internal/utils"
	"github.com/dechora/itemscout/pkg/api"
)

// ScanResult summarizes one whole-page scan.
type ScanResult struct {
	Items         []*api.Item
	ImagesSeen    int
	ImagesSkipped int
}

// ScannerConfig wires a Scanner.
type ScannerConfig struct {
	Builder     *Builder
	Band        GeometryBand
	Concurrency int
	MaxImages   int
	Logger      utils.Logger
}

// Scanner enumerates every image in a document, filters them for eligibility,
// and builds an Item per survivor. Each image is an independent task; a bound
// on concurrency keeps product-page fetches polite.
type Scanner struct {
	builder     *Builder
	band        GeometryBand
	concurrency int
	maxImages   int
	logger      utils.Logger
}

// NewScanner creates a Scanner from its configuration.
func NewScanner(cfg ScannerConfig) *Scanner {
	band := cfg.Band
	if band == (GeometryBand{}) {
		band = DefaultGeometryBand()
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 4
	}
	logger := cfg.Logger
	if logger == nil {
		logger = utils.NewComponentLogger("scanner")
	}
	return &Scanner{
		builder:     cfg.Builder,
		band:        band,
		concurrency: concurrency,
		maxImages:   cfg.MaxImages,
		logger:      logger,
	}
}

// Scan processes every eligible image on the page. Images that fail the
// geometry filter or repeat an already-seen element are counted as skipped.
// Per-image failures are logged and skipped; they never abort the scan.
func (s *Scanner) Scan(ctx context.Context, page *Page) *ScanResult {
	result := &ScanResult{}

	// Caller-owned processed set; nothing is flagged on the tree itself.
	processed := make(map[*html.Node]struct{})
	var eligible []*goquery.Selection

	page.Doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		result.ImagesSeen++

		node := img.Get(0)
		if _, seen := processed[node]; seen {
			result.ImagesSkipped++
			return
		}
		processed[node] = struct{}{}

		if !EligibleImage(img, s.band) {
			result.ImagesSkipped++
			return
		}
		if s.maxImages > 0 && len(eligible) >= s.maxImages {
			result.ImagesSkipped++
			return
		}
		eligible = append(eligible, img)
	})

	s.logger.Infof("scanning %s: %d images, %d eligible", page.URL, result.ImagesSeen, len(eligible))

	items := make([]*api.Item, len(eligible))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, img := range eligible {
		wg.Add(1)
		go func(slot int, img *goquery.Selection) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			item, err := s.builder.BuildItem(ctx, page, img)
			if err != nil {
				s.logger.Warnf("image skipped: %v", err)
				return
			}
			items[slot] = item
		}(i, img)
	}
	wg.Wait()

	for _, item := range items {
		if item != nil {
			result.Items = append(result.Items, item)
		} else {
			result.ImagesSkipped++
		}
	}

	return result
}
