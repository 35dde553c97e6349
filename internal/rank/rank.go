// Package rank orders the symbol index against the live query. The whole
// index is re-ranked on every keystroke; with indexes in the thousands of
// records that is cheaper than maintaining incremental state.
package rank

import (
	"sort"
	"strings"
	"unicode"

	"github.com/mvp-joe/symseek/internal/symbols"
)

// Result pairs a record with its match score. Index is the record's
// position in the symbol index and serves as the deterministic tie-break.
type Result struct {
	Record symbols.Record
	Score  int
	Index  int
}

// Rank scores every record's signature against query and returns the
// matches ordered by (score desc, original index asc). Records that do
// not match are excluded. An empty query returns the full index in
// insertion order with zero scores.
func Rank(index *symbols.Index, query string) []Result {
	records := index.Records()
	results := make([]Result, 0, len(records))

	if query == "" {
		for i, rec := range records {
			results = append(results, Result{Record: rec, Index: i})
		}
		return results
	}

	for i, rec := range records {
		score, matched := Match(query, rec.Signature)
		if !matched {
			continue
		}
		results = append(results, Result{Record: rec, Score: score, Index: i})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Index < results[j].Index
	})

	return results
}

// Match performs fuzzy subsequence matching of query against target.
// Every query character must appear in order in target; the score rewards
// consecutive characters, word-boundary hits, matches at the start of the
// target, and exact-case hits, and penalizes long targets. Matching is
// case-insensitive.
func Match(query, target string) (score int, matched bool) {
	if query == "" {
		return 0, true
	}

	queryRunes := []rune(strings.ToLower(query))
	targetRunes := []rune(strings.ToLower(target))
	if len(queryRunes) > len(targetRunes) {
		return 0, false
	}

	queryOrig := []rune(query)
	targetOrig := []rune(target)

	queryPos := 0
	lastMatch := -1

	for targetPos := 0; targetPos < len(targetRunes) && queryPos < len(queryRunes); targetPos++ {
		if targetRunes[targetPos] != queryRunes[queryPos] {
			continue
		}

		hit := 1
		if lastMatch == targetPos-1 {
			hit += 5
		}
		if targetPos == 0 {
			hit += 10
		}
		if isWordBoundary(targetOrig, targetPos) {
			hit += 7
		}
		if targetOrig[targetPos] == queryOrig[queryPos] {
			hit += 2
		}

		score += hit
		lastMatch = targetPos
		queryPos++
	}

	if queryPos != len(queryRunes) {
		return 0, false
	}

	// Shorter signatures are better matches for the same hits.
	score -= len(targetRunes) / 4

	return score, true
}

// isWordBoundary reports whether pos starts a word: after a separator or
// at a lower-to-upper case transition.
func isWordBoundary(runes []rune, pos int) bool {
	if pos == 0 {
		return true
	}

	prev := runes[pos-1]
	switch prev {
	case ' ', '_', ':', '(', '<', '&':
		return true
	}

	return unicode.IsLower(prev) && unicode.IsUpper(runes[pos])
}
