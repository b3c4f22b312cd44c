// internal/extract/text.go

// Package extract implements the heuristic product extraction engine: it
// decides whether an image sits inside a product-card layout, scores candidate
// text nodes for semantic roles, enriches local page data with a fetched
// product page's structured metadata, and merges everything into one item.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// Role tags the semantic slot a text candidate competes for.
type Role string

const (
	RoleName     Role = "name"
	RoleBrand    Role = "brand"
	RoleCategory Role = "category"
	RolePrice    Role = "price"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// NormalizeText collapses runs of whitespace into single spaces and trims the
// result. Text is NFC-normalized first so visually identical strings from
// different pages compare equal.
func NormalizeText(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(norm.NFC.String(s), " "))
}

// TextOf returns the normalized text content of a selection, or "" for a nil
// or empty selection.
func TextOf(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	return NormalizeText(sel.Text())
}

// textsOf collects the normalized text of every node in the selection,
// dropping empties. Order follows document order, which matters because the
// scorer breaks ties in favor of the first candidate seen.
func textsOf(sel *goquery.Selection) []string {
	if sel == nil {
		return nil
	}
	texts := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := NormalizeText(s.Text()); t != "" {
			texts = append(texts, t)
		}
	})
	return texts
}
