package astfmt

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

var (
	// ErrUnsupportedVersion is returned for documents that are not format v1.
	ErrUnsupportedVersion = errors.New("unsupported document version")

	// ErrSchema is returned when a document does not match the document schema.
	ErrSchema = errors.New("document does not match schema")

	// ErrUnknownKind is returned for a node kind, literal kind or phase this
	// reader does not know.
	ErrUnknownKind = errors.New("unknown kind")

	// ErrTooDeep is returned when nesting exceeds the reader's depth limit.
	ErrTooDeep = errors.New("document nesting too deep")
)

// unknownKind reports an unrecognised tag and suggests the closest known one.
func unknownKind(category, got string, known []string) error {
	if match := closestMatch(got, known); match != "" {
		return fmt.Errorf("%w: %s %q (did you mean %q?)", ErrUnknownKind, category, got, match)
	}
	return fmt.Errorf("%w: %s %q", ErrUnknownKind, category, got)
}

// closestMatch prefers a fuzzy subsequence match and falls back to edit
// distance for transpositions and typos.
func closestMatch(target string, candidates []string) string {
	if target == "" || len(candidates) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", len(target)/2+1
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(target, c); d <= bestDist && (best == "" || d < bestDist) {
			best, bestDist = c, d
		}
	}
	return best
}
