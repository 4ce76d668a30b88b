// Package words has the small English helpers used to compose task text.
package words

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"selecquest/internal/rng"
)

// Indefinite prefixes s with "a"/"an" when quantity is 1, otherwise with the
// quantity itself. s is expected to already be plural when quantity != 1.
func Indefinite(s string, quantity int) string {
	if quantity != 1 {
		return fmt.Sprintf("%d %s", quantity, s)
	}
	if startsWithVowel(s) {
		return "an " + s
	}
	return "a " + s
}

func startsWithVowel(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// Pluralize applies the usual English suffix rules. It is only a fallback for
// content that does not carry an explicit plural.
func Pluralize(s string) string {
	lower := strings.ToLower(s)
	switch {
	case s == "":
		return s
	case strings.HasSuffix(lower, "man"):
		return s[:len(s)-2] + "en"
	case strings.HasSuffix(lower, "us"):
		return s[:len(s)-2] + "i"
	case strings.HasSuffix(lower, "y") && len(s) > 1 && !startsWithVowel(lower[len(lower)-2:]):
		return s[:len(s)-1] + "ies"
	case strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"),
		strings.HasSuffix(lower, "x"), strings.HasSuffix(lower, "s"):
		return s + "es"
	case strings.HasSuffix(lower, "f"):
		return s[:len(s)-1] + "ves"
	default:
		return s + "s"
	}
}

// CapitalizeInitial upper-cases the first rune of s and leaves the rest alone.
func CapitalizeInitial(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// GenerateName builds a random proper name. When staticNames is non-empty a
// coin flip may pick one of them; otherwise six fragments are drawn in turn
// from the parts lists.
func GenerateName(r rng.Source, staticNames []string, parts [][]string) string {
	if len(staticNames) > 0 && (len(parts) == 0 || rng.Coin(r)) {
		return rng.FromList(r, staticNames)
	}
	if len(parts) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < 6; i++ {
		b.WriteString(rng.FromList(r, parts[i%len(parts)]))
	}
	return CapitalizeInitial(b.String())
}
