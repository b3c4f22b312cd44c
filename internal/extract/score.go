// internal/extract/score.go
package extract

import (
	"regexp"
	"unicode/utf8"
)

// Scoring constants. These are a fixed heuristic contract tuned against real
// storefronts; changing them changes which candidate wins.
const (
	idealLenCategory = 30
	idealLenDefault  = 50

	penaltyCurrency      = 12
	penaltyManyDigits    = 8
	penaltyCallToAction  = 20
	penaltyPricyCategory = 8
	penaltyAllCaps       = 4

	minLettersForCapsCheck = 4
	capsRatioThreshold     = 0.9
)

var (
	// currencyRE matches regional currency codes and symbols anywhere in the
	// string (Nordic codes plus the common western symbols).
	currencyRE = regexp.MustCompile(`(?i)(kr|sek|nok|dkk|eur|usd|\$|€|£)`)

	// ctaRE matches call-to-action phrases in English and Swedish.
	ctaRE = regexp.MustCompile(`(?i)(add to cart|buy now|köp nu|lägg i varukorg)`)

	digitRE  = regexp.MustCompile(`[0-9]`)
	letterRE = regexp.MustCompile(`[A-Za-zÅÄÖåäö]`)
	capsRE   = regexp.MustCompile(`[A-ZÅÄÖ]`)
)

// HasCurrencyToken reports whether s contains a currency-like token.
func HasCurrencyToken(s string) bool {
	return currencyRE.MatchString(s)
}

// countDigits returns the number of decimal digit characters in s.
func countDigits(s string) int {
	return len(digitRE.FindAllString(s, -1))
}

// PickBestText selects the single best candidate for a role among normalized
// text strings. Candidates that are empty or exceed maxLen (when maxLen > 0)
// are discarded. Each survivor is scored from the negative distance between
// its length and the role's ideal length, with penalties for currency tokens,
// digit runs, call-to-action phrases and all-caps decoration. Ties go to the
// earliest candidate; "" is returned when nothing qualifies.
func PickBestText(texts []string, maxLen int, role Role) string {
	best := ""
	bestScore := 0
	found := false

	for _, t := range texts {
		if t == "" {
			continue
		}
		length := utf8.RuneCountInString(t)
		if maxLen > 0 && length > maxLen {
			continue
		}

		ideal := idealLenDefault
		if role == RoleCategory {
			ideal = idealLenCategory
		}
		score := -abs(length - ideal)

		hasCurrency := HasCurrencyToken(t)
		digits := countDigits(t)

		// Prices and CTAs should not be picked as names or brands
		if role == RoleName || role == RoleBrand {
			if hasCurrency {
				score -= penaltyCurrency
			}
			if digits >= 4 {
				score -= penaltyManyDigits
			}
		}

		if ctaRE.MatchString(t) {
			score -= penaltyCallToAction
		}

		if digits >= 3 && hasCurrency && role == RoleCategory {
			score -= penaltyPricyCategory
		}

		letters := len(letterRE.FindAllString(t, -1))
		if letters >= minLettersForCapsCheck {
			caps := len(capsRE.FindAllString(t, -1))
			if float64(caps)/float64(letters) > capsRatioThreshold {
				score -= penaltyAllCaps
			}
		}

		if !found || score > bestScore {
			found = true
			bestScore = score
			best = t
		}
	}

	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
