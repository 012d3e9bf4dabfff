package match

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultThreshold is the maximum tolerated normalized edit distance
// for a word-level match: words must be at least 70% similar.
const DefaultThreshold = 0.3

const (
	// textScore is returned when the query occurs in the text other
	// than strictly inside one token.
	textScore = 1.0
	// tokenScore is returned when the query occurs strictly inside a
	// single token.
	tokenScore = 0.9
)

// Score rates how well query matches text, returning a similarity in
// [0, 1]. Both inputs are case-folded before comparison. Rules, first
// match wins:
//
//  1. an occurrence of query not wholly contained in a single token
//     scores 1.0 (it touches a token boundary or spans tokens; an
//     empty query always qualifies);
//  2. query inside a single whitespace-delimited token scores 0.9;
//  3. otherwise the best edit-distance ratio 1 - d/maxLen over tokens
//     at least as long as the query, kept only if it reaches
//     1 - threshold, else 0.
//
// Tokenization splits on whitespace only; punctuation is part of the
// token it touches.
func Score(query, text string, threshold float64) float64 {
	query = strings.ToLower(query)
	text = strings.ToLower(text)

	if containsOutsideToken(text, query) {
		return textScore
	}

	tokens := strings.Fields(text)
	for _, token := range tokens {
		if strings.Contains(token, query) {
			return tokenScore
		}
	}

	queryLen := utf8.RuneCountInString(query)
	maxScore := 0.0
	for _, token := range tokens {
		tokenLen := utf8.RuneCountInString(token)
		if tokenLen < queryLen {
			continue
		}
		maxLen := max(queryLen, tokenLen)
		ratio := 1 - float64(Distance(query, token))/float64(maxLen)
		if ratio > maxScore {
			maxScore = ratio
		}
	}

	if maxScore >= 1-threshold {
		return maxScore
	}
	return 0
}

// containsOutsideToken reports whether needle occurs in text other
// than strictly inside one token. Occurrences that start or end at a
// whitespace boundary or a string edge count, as does any occurrence
// of a needle with internal whitespace (it necessarily spans tokens).
// Occurrences buried inside a single token fall through to the
// per-token rules.
func containsOutsideToken(text, needle string) bool {
	// A needle carrying whitespace can never sit inside one token, so
	// any occurrence qualifies.
	if strings.IndexFunc(needle, unicode.IsSpace) >= 0 {
		return strings.Contains(text, needle)
	}

	for from := 0; from <= len(text); {
		i := strings.Index(text[from:], needle)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(needle)
		if boundaryAt(text, start, -1) || boundaryAt(text, end, +1) {
			return true
		}
		from = start + 1
	}
	return false
}

// boundaryAt reports whether position pos sits at a string edge or
// next to whitespace. dir selects the neighbor: -1 looks at the rune
// before pos, +1 at the rune starting at pos.
func boundaryAt(text string, pos, dir int) bool {
	if dir < 0 {
		if pos == 0 {
			return true
		}
		r, _ := utf8.DecodeLastRuneInString(text[:pos])
		return unicode.IsSpace(r)
	}
	if pos == len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return unicode.IsSpace(r)
}
