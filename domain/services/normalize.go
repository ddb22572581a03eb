package services

import "strings"

// normalizeReplacer folds the decorative characters that appear in species
// names into their plain forms. Gender symbols map onto the suffix spelling
// used by the catalog ("Nidoran-f"), so both "nidoran♀" and "nidoran-f"
// resolve identically. One canonical rule applies to both the guess and the
// catalog names.
var normalizeReplacer = strings.NewReplacer(
	"♀", "-f",
	"♂", "-m",
	"’", "",
	"'", "",
	".", "",
	"%", "",
	":", "",
)

// NormalizeName canonicalizes a species name or catch guess for comparison:
// trim, lower-case, fold decorative marks, collapse inner whitespace to a
// single hyphen.
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = normalizeReplacer.Replace(s)
	return strings.Join(strings.Fields(s), "-")
}

// GuessMatches reports whether a normalized guess matches any of the
// monster's localized names under the canonical rule.
func GuessMatches(guess string, names []string) bool {
	normalized := NormalizeName(guess)
	if normalized == "" {
		return false
	}
	for _, name := range names {
		if NormalizeName(name) == normalized {
			return true
		}
	}
	return false
}
