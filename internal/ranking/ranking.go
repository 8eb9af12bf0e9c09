package ranking

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	// DefaultThreshold is the exclusive lower bound a similarity ratio must
	// exceed for a record without a substring match to be kept.
	DefaultThreshold = 0.4

	// ExactMatchScore is assigned to records containing the query verbatim.
	ExactMatchScore = 1.0
)

// Document is anything Rank can score.
type Document interface {
	SearchText() string
}

type options struct {
	limit     int
	threshold float64
}

// Option customises a Rank call.
type Option func(*options)

// WithLimit keeps at most n records of the ranked result. n must not be negative.
func WithLimit(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("ranking: negative limit %d", n))
	}
	return func(o *options) {
		o.limit = n
	}
}

// WithThreshold overrides DefaultThreshold. t must be within [0, 1].
func WithThreshold(t float64) Option {
	if t < 0 || t > 1 {
		panic(fmt.Sprintf("ranking: threshold %v outside [0, 1]", t))
	}
	return func(o *options) {
		o.threshold = t
	}
}

type scored[T any] struct {
	score float64
	doc   T
}

// Rank returns the candidates matching query, best first.
func Rank[T Document](query string, candidates []T, opts ...Option) []T {
	if query == "" {
		return candidates
	}

	o := options{limit: -1, threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(&o)
	}

	q := strings.ToLower(query)
	qChars := chars(q)

	matches := make([]scored[T], 0, len(candidates))
	for _, c := range candidates {
		if s, ok := match(q, qChars, c.SearchText(), o.threshold); ok {
			matches = append(matches, scored[T]{score: s, doc: c})
		}
	}

	slices.SortStableFunc(matches, func(a, b scored[T]) int {
		return cmp.Compare(b.score, a.score)
	})

	if o.limit >= 0 && len(matches) > o.limit {
		matches = matches[:o.limit]
	}

	out := make([]T, len(matches))
	for i, m := range matches {
		out[i] = m.doc
	}
	return out
}

// Score returns ExactMatchScore when content contains query (ignoring case),
// otherwise their similarity ratio. No threshold is applied.
func Score(query, content string) float64 {
	q := strings.ToLower(query)
	c := strings.ToLower(content)
	if strings.Contains(c, q) {
		return ExactMatchScore
	}
	return difflib.NewMatcher(chars(q), chars(c)).Ratio()
}

// Similarity is the Ratcliff/Obershelp ratio 2*M/T of a and b, compared
// character by character as given.
func Similarity(a, b string) float64 {
	return difflib.NewMatcher(chars(a), chars(b)).Ratio()
}

// match expects q already lower-cased.
func match(q string, qChars []string, content string, threshold float64) (float64, bool) {
	c := strings.ToLower(content)
	if strings.Contains(c, q) {
		return ExactMatchScore, true
	}

	m := difflib.NewMatcher(qChars, chars(c))
	// Both quick ratios are upper bounds of Ratio.
	if m.RealQuickRatio() <= threshold || m.QuickRatio() <= threshold {
		return 0, false
	}
	ratio := m.Ratio()
	if ratio <= threshold {
		return 0, false
	}
	return ratio, true
}

// chars splits s into one element per rune.
func chars(s string) []string {
	return strings.Split(s, "")
}
