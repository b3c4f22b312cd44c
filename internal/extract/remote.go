// internal/extract/remote.go
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RemoteMeta is product metadata extracted from a fetched product page. Empty
// strings mean absent.
type RemoteMeta struct {
	Name     string
	Category string
	Brand    string
}

// IsEmpty reports whether no field was extracted.
func (m RemoteMeta) IsEmpty() bool {
	return m.Name == "" && m.Category == "" && m.Brand == ""
}

const jsonLDSelector = "script[type='application/ld+json']"

// Meta tag lookup chains, in priority order per field.
var (
	metaBrandSelectors = []string{
		"meta[property='product:brand']",
		"meta[name='product:brand']",
		"meta[name='brand']",
		"meta[property='og:site_name']",
	}
	metaCategorySelectors = []string{
		"meta[property='product:category']",
		"meta[name='product:category']",
		"meta[name='category']",
	}
	metaNameSelectors = []string{
		"meta[property='og:title']",
		"meta[name='og:title']",
	}
)

// titleSeparatorRE splits document titles on the separators sites put between
// product name and site/brand name.
var titleSeparatorRE = regexp.MustCompile(`[|\-–»]`)

// ExtractRemoteMeta pulls product metadata out of a product page document.
// Three sub-extractors run in fixed precedence, each only filling fields the
// prior one left empty: JSON-LD Product objects, then head meta tags, then
// the document title. The title never yields a category.
func ExtractRemoteMeta(doc *goquery.Document) RemoteMeta {
	meta := extractJSONLD(doc)

	head := extractHeadMeta(doc)
	if meta.Name == "" {
		meta.Name = head.Name
	}
	if meta.Category == "" {
		meta.Category = head.Category
	}
	if meta.Brand == "" {
		meta.Brand = head.Brand
	}

	titleName, titleBrand := extractTitleMeta(doc)
	if meta.Name == "" {
		meta.Name = titleName
	}
	if meta.Brand == "" {
		meta.Brand = titleBrand
	}

	return meta
}

// extractJSONLD scans every JSON-LD script block for objects whose declared
// type mentions "product" and takes their name, category and brand fields.
// The first qualifying object wins per field; malformed blocks are skipped.
func extractJSONLD(doc *goquery.Document) RemoteMeta {
	var meta RemoteMeta

	doc.Find(jsonLDSelector).EachWithBreak(func(_ int, script *goquery.Selection) bool {
		text := strings.TrimSpace(script.Text())
		if text == "" {
			return true
		}

		var data interface{}
		if err := json.Unmarshal([]byte(text), &data); err != nil {
			return true
		}

		candidates, ok := data.([]interface{})
		if !ok {
			candidates = []interface{}{data}
		}

		for _, candidate := range candidates {
			obj, ok := candidate.(map[string]interface{})
			if !ok || !isProductType(obj) {
				continue
			}

			if meta.Name == "" {
				if name, ok := obj["name"].(string); ok {
					meta.Name = name
				}
			}
			if meta.Category == "" {
				if category, ok := obj["category"].(string); ok {
					meta.Category = category
				}
			}
			if meta.Brand == "" {
				meta.Brand = brandName(obj)
			}
		}

		// Keep scanning: later blocks may fill fields still empty.
		return meta.Name == "" || meta.Category == "" || meta.Brand == ""
	})

	return meta
}

// isProductType checks whether an object's @type (single value or list)
// contains "product", case-insensitively.
func isProductType(obj map[string]interface{}) bool {
	declared := obj["@type"]
	if declared == nil {
		declared = obj["type"]
	}

	types, ok := declared.([]interface{})
	if !ok {
		types = []interface{}{declared}
	}

	for _, t := range types {
		if s, ok := t.(string); ok && strings.Contains(strings.ToLower(s), "product") {
			return true
		}
	}
	return false
}

// brandName reads a brand or manufacturer field that may be a plain string or
// an object carrying a name string.
func brandName(obj map[string]interface{}) string {
	value := obj["brand"]
	if value == nil {
		value = obj["manufacturer"]
	}

	switch v := value.(type) {
	case string:
		return v
	case map[string]interface{}:
		if name, ok := v["name"].(string); ok {
			return name
		}
	}
	return ""
}

// extractHeadMeta reads brand, category and name from head meta tags using
// per-field priority chains.
func extractHeadMeta(doc *goquery.Document) RemoteMeta {
	return RemoteMeta{
		Name:     firstMetaContent(doc, metaNameSelectors),
		Category: firstMetaContent(doc, metaCategorySelectors),
		Brand:    firstMetaContent(doc, metaBrandSelectors),
	}
}

// firstMetaContent returns the content of the first matching meta tag in the
// selector chain.
func firstMetaContent(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if tag := doc.Find(selector).First(); tag.Length() > 0 {
			return tag.AttrOr("content", "")
		}
	}
	return ""
}

// extractTitleMeta splits the document title on separator characters. The
// first non-empty segment is the name; the last segment is treated as brand
// when it differs from the name case-insensitively.
func extractTitleMeta(doc *goquery.Document) (name, brand string) {
	title := NormalizeText(doc.Find("title").First().Text())
	if title == "" {
		return "", ""
	}

	var parts []string
	for _, p := range titleSeparatorRE.Split(title, -1) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "", ""
	}

	name = parts[0]
	if last := parts[len(parts)-1]; len(parts) > 1 && !strings.EqualFold(last, name) {
		brand = last
	}
	return name, brand
}
