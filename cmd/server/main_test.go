// cmd/server/main_test.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/dechora/itemscout/internal/config"
	"github.com/dechora/itemscout/internal/extract"
	"github.com/dechora/itemscout/internal/monitoring"
	"github.com/dechora/itemscout/internal/utils"
	"github.com/dechora/itemscout/pkg/api"
)

// stubFetcher serves canned documents per URL.
type stubFetcher struct {
	docs map[string]string
}

func (f *stubFetcher) Fetch(_ context.Context, targetURL string) (*goquery.Document, error) {
	html, ok := f.docs[targetURL]
	if !ok {
		return nil, utils.NewError(utils.ErrCodeFetchFailed, "unexpected URL "+targetURL)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

const catalogPage = `<html><body>
	<div class="product-card">
		<a href="/products/oak-table">
			<img src="/img/oak-table.jpg" width="400" height="400" alt="">
			<h2>Oak Dining Table</h2>
			<span class="price">1 499 kr</span>
		</a>
	</div>
	<img src="/img/icon.svg" width="24" height="24" alt="">
</body></html>`

const productPage = `<html><head>
	<script type="application/ld+json">
	{"@type": "Product", "name": "Oak Dining Table 180cm", "brand": "Nordiska", "category": "Tables"}
	</script>
</head><body></body></html>`

func testServer() *server {
	cfg := config.Default()
	return &server{
		cfg:     cfg,
		logger:  utils.NewComponentLogger("server-test"),
		metrics: monitoring.NewMetrics(),
		fetcher: &stubFetcher{docs: map[string]string{
			"https://shop.example/catalog":            catalogPage,
			"https://shop.example/products/oak-table": productPage,
		}},
		band: extract.DefaultGeometryBand(),
	}
}

func postJSON(t *testing.T, handler http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	handler := testServer().setupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q", body["status"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler := testServer().setupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestExtractEndpoint(t *testing.T) {
	handler := testServer().setupRoutes()

	rec := postJSON(t, handler, "/api/v1/extract", api.ExtractRequest{
		PageURL: "https://shop.example/catalog",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var item api.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &item); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if item.ImageURL != "https://shop.example/img/oak-table.jpg" {
		t.Errorf("imageUrl = %q", item.ImageURL)
	}
	if item.ProductName == nil || *item.ProductName != "Oak Dining Table 180cm" {
		t.Errorf("productName = %v", item.ProductName)
	}
	if item.Manufacturer == nil || *item.Manufacturer != "Nordiska" {
		t.Errorf("manufacturer = %v", item.Manufacturer)
	}
}

func TestExtractEndpoint_BySelector(t *testing.T) {
	handler := testServer().setupRoutes()

	rec := postJSON(t, handler, "/api/v1/extract", api.ExtractRequest{
		PageURL:       "https://shop.example/catalog",
		ImageSelector: ".product-card",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var item api.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &item); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if item.ImageURL != "https://shop.example/img/oak-table.jpg" {
		t.Errorf("imageUrl = %q", item.ImageURL)
	}
}

func TestExtractEndpoint_Errors(t *testing.T) {
	handler := testServer().setupRoutes()

	tests := []struct {
		name       string
		payload    interface{}
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing page_url",
			payload:    api.ExtractRequest{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unreachable page",
			payload:    api.ExtractRequest{PageURL: "https://shop.example/gone"},
			wantStatus: http.StatusBadGateway,
			wantCode:   string(utils.ErrCodeFetchFailed),
		},
		{
			name:       "selector matches nothing",
			payload:    api.ExtractRequest{PageURL: "https://shop.example/catalog", ImageSelector: ".no-such-thing"},
			wantStatus: http.StatusNotFound,
			wantCode:   string(utils.ErrCodeImageRejected),
		},
		{
			name:       "index beyond eligible images",
			payload:    api.ExtractRequest{PageURL: "https://shop.example/catalog", ImageIndex: 7},
			wantStatus: http.StatusNotFound,
			wantCode:   string(utils.ErrCodeImageRejected),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, handler, "/api/v1/extract", tt.payload)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			var errResp api.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if errResp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", errResp.Code, tt.wantCode)
			}
		})
	}
}

func TestExtractEndpoint_BadBody(t *testing.T) {
	handler := testServer().setupRoutes()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestScanEndpoint(t *testing.T) {
	handler := testServer().setupRoutes()

	rec := postJSON(t, handler, "/api/v1/scan", api.ScanRequest{
		PageURL: "https://shop.example/catalog",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp api.ScanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if resp.PageURL != "https://shop.example/catalog" {
		t.Errorf("page_url = %q", resp.PageURL)
	}
	if resp.ImagesSeen != 2 {
		t.Errorf("images_seen = %d, want 2", resp.ImagesSeen)
	}
	if resp.ImagesSkipped != 1 {
		t.Errorf("images_skipped = %d, want 1", resp.ImagesSkipped)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(resp.Items))
	}
	if resp.Items[0].ProductName == nil || *resp.Items[0].ProductName != "Oak Dining Table 180cm" {
		t.Errorf("items[0].productName = %v", resp.Items[0].ProductName)
	}
	if resp.CompletedAt.IsZero() {
		t.Error("completed_at is zero")
	}
}

func TestScanEndpoint_MissingURL(t *testing.T) {
	handler := testServer().setupRoutes()

	rec := postJSON(t, handler, "/api/v1/scan", api.ScanRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
