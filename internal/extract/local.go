// internal/extract/local.go
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// LocalMeta is what the current document alone says about a product. Empty
// strings mean absent.
type LocalMeta struct {
	ProductName  string
	Manufacturer string
}

const maxAltTextLen = 200

// genericAltRE rejects placeholder alt texts. Matches alt starting with
// "image", containing "picture", or ending with "product".
var genericAltRE = regexp.MustCompile(`(?i)^image|picture|product$`)

// ExtractLocalMeta derives name and brand from the product root, with the
// image's alt text and the root's data attributes as fallbacks. An empty root
// yields empty metadata.
func ExtractLocalMeta(root, img *goquery.Selection) LocalMeta {
	var meta LocalMeta

	if root == nil || root.Length() == 0 {
		return meta
	}

	meta.ProductName = PickBestText(collectNameCandidates(root), maxNameLen, RoleName)
	meta.Manufacturer = PickBestText(collectBrandCandidates(root), maxBrandLen, RoleBrand)

	if meta.ProductName == "" && img != nil && img.Length() > 0 {
		alt := strings.TrimSpace(img.AttrOr("alt", ""))
		if alt != "" && utf8.RuneCountInString(alt) <= maxAltTextLen && !genericAltRE.MatchString(alt) {
			meta.ProductName = alt
		}
	}

	if meta.ProductName == "" {
		if v, ok := root.Attr("data-product-name"); ok && v != "" {
			meta.ProductName = v
		}
	}
	if meta.Manufacturer == "" {
		if v := rootBrandAttr(root); v != "" {
			meta.Manufacturer = v
		}
	}

	return meta
}

// rootBrandAttr reads a brand directly off the root's data attributes.
func rootBrandAttr(root *goquery.Selection) string {
	if v, ok := root.Attr("data-product-brand"); ok && v != "" {
		return v
	}
	return root.AttrOr("data-brand", "")
}
