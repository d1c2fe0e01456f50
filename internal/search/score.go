package search

import (
	"strings"
	"unicode"
)

// matchScore computes the fuzzy match score between a query string and one
// candidate field. Both strings are tokenized on Unicode whitespace. A
// field token matches a query token when the query token occurs inside it
// as a contiguous, case-insensitive run of codepoints; each match adds
// len(query)^2 / len(field) (rune lengths) so an exact-length hit
// outweighs a short query buried in a long token, and a query token may
// credit every field token it occurs in. Query tokens are conjunctive: if
// any of them matches nothing, the whole field scores zero.
//
// Field tokens shorter than minTokenLen are skipped when minTokenLen > 0.
func matchScore(query, field string, minTokenLen int) float64 {
	if field == "" {
		return 0
	}

	queryTokens := foldTokens(query)
	fieldTokens := foldTokens(field)

	var score float64
	for _, qt := range queryTokens {
		matched := false
		for _, ft := range fieldTokens {
			if minTokenLen > 0 && len(ft) < minTokenLen {
				continue
			}
			if !containsRun(ft, qt) {
				continue
			}
			score += float64(len(qt)*len(qt)) / float64(len(ft))
			matched = true
		}
		if !matched {
			return 0
		}
	}
	return score
}

// foldTokens splits s on Unicode whitespace and lowercases each token
// codepoint-by-codepoint.
func foldTokens(s string) [][]rune {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	tokens := make([][]rune, 0, len(fields))
	for _, f := range fields {
		runes := []rune(f)
		for i, r := range runes {
			runes[i] = unicode.ToLower(r)
		}
		tokens = append(tokens, runes)
	}
	return tokens
}

// containsRun reports whether needle occurs as a contiguous run inside
// haystack. Both are already lowercased. An empty needle never matches.
func containsRun(haystack, needle []rune) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for start := 0; start+len(needle) <= len(haystack); start++ {
		hit := true
		for i, c := range needle {
			if haystack[start+i] != c {
				hit = false
				break
			}
		}
		if hit {
			return true
		}
	}
	return false
}
