// internal/extract/score_test.go
package extract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPickBestText_RespectsMaxLength(t *testing.T) {
	texts := []string{
		strings.Repeat("a", 200),
		"Oak Dining Table",
		strings.Repeat("b", 141),
	}

	got := PickBestText(texts, 140, RoleName)
	if got == "" {
		t.Fatal("expected a candidate to be selected")
	}
	if utf8.RuneCountInString(got) > 140 {
		t.Fatalf("selected string exceeds max length: %d runes", utf8.RuneCountInString(got))
	}
	if got != "Oak Dining Table" {
		t.Fatalf("expected 'Oak Dining Table', got %q", got)
	}
}

func TestPickBestText_PenalizesCurrencyAndCTAForNames(t *testing.T) {
	texts := []string{
		"1 299 kr",
		"Add to cart",
		"Köp nu",
		"Scandinavian Oak Sideboard",
		"$449.00 USD",
	}

	got := PickBestText(texts, 140, RoleName)
	if got != "Scandinavian Oak Sideboard" {
		t.Fatalf("expected the clean candidate to win, got %q", got)
	}
}

func TestPickBestText_DigitHeavyNamesPenalized(t *testing.T) {
	texts := []string{
		"Article 48291057",
		"Walnut Desk Organizer",
	}

	got := PickBestText(texts, 140, RoleName)
	if got != "Walnut Desk Organizer" {
		t.Fatalf("expected digit-heavy candidate to lose, got %q", got)
	}
}

func TestPickBestText_AllCapsPenalized(t *testing.T) {
	// Same length so only the caps penalty separates them.
	texts := []string{
		"LIMITED OFFER TODAY",
		"Limited Offer Today",
	}

	got := PickBestText(texts, 140, RoleName)
	if got != "Limited Offer Today" {
		t.Fatalf("expected mixed-case candidate to win, got %q", got)
	}
}

func TestPickBestText_CategoryPrefersShorterIdeal(t *testing.T) {
	shorter := "Living Room Furniture" // 21 runes, distance 9 from the ideal 30
	longer := strings.Repeat("x", 50)  // distance 20
	texts := []string{longer, shorter}

	if got := PickBestText(texts, 0, RoleCategory); got != shorter {
		t.Fatalf("expected %q, got %q", shorter, got)
	}
}

func TestPickBestText_CategoryWithPriceLikeContentPenalized(t *testing.T) {
	// Both 30 runes from padding; one looks like a price dump.
	priceLike := "Offer 129 SEK 249 SEK tables.."
	clean := "Dining tables and table pieces"

	if got := PickBestText([]string{priceLike, clean}, 0, RoleCategory); got != clean {
		t.Fatalf("expected clean category to win, got %q", got)
	}
}

func TestPickBestText_TieGoesToFirstCandidate(t *testing.T) {
	a := strings.Repeat("a", 50)
	b := strings.Repeat("b", 50)

	if got := PickBestText([]string{a, b}, 0, RoleName); got != a {
		t.Fatalf("expected first candidate to win the tie, got %q", got)
	}
}

func TestPickBestText_EmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
	}{
		{"nil slice", nil},
		{"only empties", []string{"", ""}},
		{"all over max", []string{strings.Repeat("a", 20)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PickBestText(tt.texts, 10, RoleName); got != "" {
				t.Fatalf("expected empty result, got %q", got)
			}
		})
	}
}

func TestHasCurrencyToken(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"199 kr", true},
		{"1 299 SEK", true},
		{"€49.00", true},
		{"$12", true},
		{"£7", true},
		{"449 NOK", true},
		{"Oak Dining Table", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := HasCurrencyToken(tt.text); got != tt.want {
			t.Errorf("HasCurrencyToken(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Oak   Dining\n\tTable  ", "Oak Dining Table"},
		{"", ""},
		{"\n\n", ""},
		{"single", "single"},
	}

	for _, tt := range tests {
		if got := NormalizeText(tt.input); got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
