// internal/extract/card.go
package extract

import (
	"regexp"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Selector sets for product card anatomy. These encode the markup conventions
// observed across storefronts with no shared templating.
const (
	productAttrSelector = "[data-product-id], [data-product-name], [data-product-brand], [data-product-category]"
	microdataSelector   = "[itemtype*='Product']"

	cardClassSelector = ".product-card, .product, .product-item, .productTile, .product-tile, .product__card, .grid__item, .productBox, .ProductTile"

	nameAttrSelector  = "[data-product-name], [itemprop='name']"
	nameClassSelector = ".product-title, .product_name, .product-name, .ProductName, .product__title, .card-title, .title, .product-title__text, .productTitle"
	headingSelector   = "h1, h2, h3, h4"

	brandAttrSelector  = "[data-product-brand], [data-brand], [itemprop='brand'], [itemprop='manufacturer']"
	brandClassSelector = ".brand, .product-brand, .ProductBrand, .manufacturer, .byline, .product__brand, .product-vendor, .vendor"

	priceSelector = ".price, .product-price, [data-price], [data-product-price], .Price, .current-price, .money"
)

// Maximum candidate lengths per role.
const (
	maxNameLen  = 140
	maxBrandLen = 80
)

// Price scoring: strings near ten characters that carry a currency token and
// at least two digits look most like a single rendered price.
const (
	priceIdealLen     = 10
	priceMinDigits    = 2
	bonusHasCurrency  = 5
	bonusThreeDigits  = 3
	ancestorWalkDepth = 5
)

var cardClassWordRE = regexp.MustCompile(`(?i)\b(product|card|item|tile)\b`)

// FindProductRoot walks the ancestry of an image to the smallest enclosing
// element that plausibly represents one product. Search order: explicit
// product data attributes, schema.org microdata markers, known card class
// conventions, an enclosing anchor, then a shallow walk matching card-ish
// class words. Falls back to the image's direct parent, so the result is only
// empty when the image has no parent at all.
func FindProductRoot(img *goquery.Selection) *goquery.Selection {
	if root := img.Closest(productAttrSelector); root.Length() > 0 {
		return root
	}
	if root := img.Closest(microdataSelector); root.Length() > 0 {
		return root
	}

	if root := img.Closest(cardClassSelector); root.Length() > 0 {
		return root
	}

	if root := img.Closest("a[href]"); root.Length() > 0 {
		return root
	}

	node := img.Parent()
	for depth := 0; depth < ancestorWalkDepth && node.Length() > 0; depth++ {
		if cardClassWordRE.MatchString(node.AttrOr("class", "")) {
			return node
		}
		node = node.Parent()
	}

	return img.Parent()
}

// collectNameCandidates gathers name-bearing nodes within a scope: tagged
// attributes and microdata first, then common title class names, then headings.
// The union feeds the scorer; priority lives in the selector set, not in order.
func collectNameCandidates(scope *goquery.Selection) []string {
	if scope == nil || scope.Length() == 0 {
		return nil
	}
	var texts []string
	texts = append(texts, textsOf(scope.Find(nameAttrSelector))...)
	texts = append(texts, textsOf(scope.Find(nameClassSelector))...)
	texts = append(texts, textsOf(scope.Find(headingSelector))...)
	return texts
}

// collectBrandCandidates gathers brand/manufacturer-bearing nodes within a scope.
func collectBrandCandidates(scope *goquery.Selection) []string {
	if scope == nil || scope.Length() == 0 {
		return nil
	}
	var texts []string
	texts = append(texts, textsOf(scope.Find(brandAttrSelector))...)
	texts = append(texts, textsOf(scope.Find(brandClassSelector))...)
	return texts
}

// ExtractPriceText finds the best price-like string within a scope. Candidates
// come from price-tagged selectors and must carry a currency token and at
// least two digits; among those, strings closest to ten characters win.
func ExtractPriceText(scope *goquery.Selection) string {
	if scope == nil || scope.Length() == 0 {
		return ""
	}

	best := ""
	bestScore := 0
	found := false

	for _, t := range textsOf(scope.Find(priceSelector)) {
		digits := countDigits(t)
		if !HasCurrencyToken(t) || digits < priceMinDigits {
			continue
		}

		score := -abs(utf8.RuneCountInString(t) - priceIdealLen)
		score += bonusHasCurrency
		if digits >= 3 {
			score += bonusThreeDigits
		}

		if !found || score > bestScore {
			found = true
			bestScore = score
			best = t
		}
	}

	return best
}

// LooksLikeGridCard reports whether a product root resembles a catalog grid
// card: a price-like string and a name-like string both present near the image.
func LooksLikeGridCard(root *goquery.Selection) bool {
	if root == nil || root.Length() == 0 {
		return false
	}
	price := ExtractPriceText(root)
	if price == "" {
		return false
	}
	name := PickBestText(collectNameCandidates(root), maxNameLen, RoleName)
	return name != ""
}
