// internal/extract/geometry_test.go
package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func imageFixture(t *testing.T, imgTag string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		fmt.Sprintf("<html><body>%s</body></html>", imgTag)))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc.Find("img").First()
}

func TestEligibleImage(t *testing.T) {
	band := DefaultGeometryBand()

	tests := []struct {
		name string
		img  string
		want bool
	}{
		{"within band", `<img src="a.jpg" width="500" height="400">`, true},
		{"too small", `<img src="a.jpg" width="50" height="50">`, false},
		{"too wide", `<img src="a.jpg" width="1200" height="400">`, false},
		{"too tall", `<img src="a.jpg" width="400" height="1200">`, false},
		{"at minimum", `<img src="a.jpg" width="100" height="100">`, true},
		{"at maximum", `<img src="a.jpg" width="1000" height="1000">`, true},
		{"just above maximum", `<img src="a.jpg" width="1001" height="1000">`, false},
		{"zero width", `<img src="a.jpg" width="0" height="400">`, false},
		{"no dimensions", `<img src="a.jpg">`, false},
		{"style dimensions", `<img src="a.jpg" style="width: 300px; height: 200px">`, true},
		{"px suffix attributes", `<img src="a.jpg" width="300px" height="200px">`, true},
		{"display none", `<img src="a.jpg" width="500" height="400" style="display: none">`, false},
		{"visibility hidden", `<img src="a.jpg" width="500" height="400" style="visibility: hidden">`, false},
		{"zero opacity", `<img src="a.jpg" width="500" height="400" style="opacity: 0">`, false},
		{"nonzero opacity", `<img src="a.jpg" width="500" height="400" style="opacity: 0.5">`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := imageFixture(t, tt.img)
			if got := EligibleImage(img, band); got != tt.want {
				t.Fatalf("EligibleImage = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEligibleImage_EmptySelection(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	if EligibleImage(doc.Find("img"), DefaultGeometryBand()) {
		t.Fatal("empty selection should not be eligible")
	}
	if EligibleImage(nil, DefaultGeometryBand()) {
		t.Fatal("nil selection should not be eligible")
	}
}

func TestDeclaredDimensions(t *testing.T) {
	img := imageFixture(t, `<img src="a.jpg" width="640" height="480">`)
	w, h, ok := DeclaredDimensions(img)
	if !ok || w != 640 || h != 480 {
		t.Fatalf("DeclaredDimensions = %d, %d, %v; want 640, 480, true", w, h, ok)
	}

	img = imageFixture(t, `<img src="a.jpg" width="640">`)
	if _, _, ok := DeclaredDimensions(img); ok {
		t.Fatal("missing height should not resolve")
	}
}
