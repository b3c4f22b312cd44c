// internal/extract/geometry.go
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// GeometryBand is the inclusive size range an image must fall into to be
// eligible for extraction.
type GeometryBand struct {
	MinWidth  int
	MinHeight int
	MaxWidth  int
	MaxHeight int
}

// DefaultGeometryBand mirrors the 100x100..1000x1000 logical pixel window the
// heuristics were tuned for.
func DefaultGeometryBand() GeometryBand {
	return GeometryBand{MinWidth: 100, MinHeight: 100, MaxWidth: 1000, MaxHeight: 1000}
}

var (
	stylePropRE = regexp.MustCompile(`([a-zA-Z-]+)\s*:\s*([^;]+)`)
	pxValueRE   = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*px$`)
)

// EligibleImage reports whether an image selection qualifies for extraction:
// it must be an element, declare non-zero dimensions inside the band, and not
// be hidden via its inline style. Pure predicate, no side effects.
func EligibleImage(img *goquery.Selection, band GeometryBand) bool {
	if img == nil || img.Length() == 0 {
		return false
	}

	w, h, ok := DeclaredDimensions(img)
	if !ok || w == 0 || h == 0 {
		return false
	}
	if w < band.MinWidth || h < band.MinHeight {
		return false
	}
	if w > band.MaxWidth || h > band.MaxHeight {
		return false
	}

	return !isHidden(img)
}

// DeclaredDimensions resolves an image's width and height from its width and
// height attributes, falling back to pixel values in the inline style. ok is
// false when neither source declares both dimensions.
func DeclaredDimensions(img *goquery.Selection) (width, height int, ok bool) {
	style := parseInlineStyle(img)

	width = dimensionFrom(img, "width", style)
	height = dimensionFrom(img, "height", style)

	return width, height, width > 0 && height > 0
}

// dimensionFrom reads one dimension from the attribute or the inline style.
func dimensionFrom(img *goquery.Selection, name string, style map[string]string) int {
	if v, exists := img.Attr(name); exists {
		v = strings.TrimSuffix(strings.TrimSpace(v), "px")
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	if v, ok := style[name]; ok {
		if m := pxValueRE.FindStringSubmatch(v); m != nil {
			if f, err := strconv.ParseFloat(m[1], 64); err == nil && f > 0 {
				return int(f)
			}
		}
	}
	return 0
}

// isHidden reports whether the inline style hides the element outright.
func isHidden(sel *goquery.Selection) bool {
	style := parseInlineStyle(sel)
	if style["display"] == "none" {
		return true
	}
	if style["visibility"] == "hidden" {
		return true
	}
	if v, ok := style["opacity"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f == 0 {
			return true
		}
	}
	return false
}

// parseInlineStyle splits a style attribute into lowercase property/value pairs.
func parseInlineStyle(sel *goquery.Selection) map[string]string {
	props := make(map[string]string)
	style, exists := sel.Attr("style")
	if !exists {
		return props
	}
	for _, m := range stylePropRE.FindAllStringSubmatch(style, -1) {
		props[strings.ToLower(strings.TrimSpace(m[1]))] = strings.ToLower(strings.TrimSpace(m[2]))
	}
	return props
}
