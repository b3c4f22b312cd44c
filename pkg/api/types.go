// Package api defines the public record types produced and consumed by itemscout.
package api

import "time"

// Item is the final record produced for one image. ImageURL and PageURL are
// always set; the metadata fields are null in the JSON encoding when nothing
// could be extracted for them.
type Item struct {
	ImageURL        string  `json:"imageUrl"`
	ProductName     *string `json:"productName"`
	ProductCategory *string `json:"productCategory"`
	Manufacturer    *string `json:"manufacturer"`
	PageURL         string  `json:"pageUrl"`
	ProductPageURL  *string `json:"productPageUrl"`
}

// ExtractRequest asks the server to build an Item for one image on a page.
// The image is addressed either by a CSS selector or by its index among the
// page's eligible images.
type ExtractRequest struct {
	PageURL       string `json:"page_url"`
	ImageSelector string `json:"image_selector,omitempty"`
	ImageIndex    int    `json:"image_index,omitempty"`
}

// ScanRequest asks the server to build Items for every eligible image on a page.
type ScanRequest struct {
	PageURL   string `json:"page_url"`
	MaxImages int    `json:"max_images,omitempty"`
}

// ScanResponse carries the items produced by a page scan together with counts
// describing what the scan saw.
type ScanResponse struct {
	PageURL       string    `json:"page_url"`
	Items         []*Item   `json:"items"`
	ImagesSeen    int       `json:"images_seen"`
	ImagesSkipped int       `json:"images_skipped"`
	CompletedAt   time.Time `json:"completed_at"`
}

// ErrorResponse is the JSON body returned for failed API requests.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
