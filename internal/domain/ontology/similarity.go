package ontology

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/turtacn/OncoTerm/pkg/errors"
)

// SimilarityMetric names the algorithm used for fuzzy term scoring.
type SimilarityMetric string

const (
	MetricLevenshtein SimilarityMetric = "levenshtein"
	MetricJaroWinkler SimilarityMetric = "jaro_winkler"
	MetricTokenSet    SimilarityMetric = "token_set"
)

// IsValid checks if the similarity metric is valid.
func (m SimilarityMetric) IsValid() bool {
	switch m {
	case MetricLevenshtein, MetricJaroWinkler, MetricTokenSet:
		return true
	default:
		return false
	}
}

// String returns the string representation of the similarity metric.
func (m SimilarityMetric) String() string {
	return string(m)
}

// ParseSimilarityMetric parses a string into a SimilarityMetric.
func ParseSimilarityMetric(s string) (SimilarityMetric, error) {
	m := SimilarityMetric(s)
	if m.IsValid() {
		return m, nil
	}
	return "", errors.New(errors.ErrCodeScorerInvalid, "unsupported similarity metric: "+s)
}

// Scorer computes a similarity score in [0,1] between two normalized terms.
// The cascade's fuzzy step and threshold are swappable by injecting a
// different Scorer; the cascade's control logic never changes.
type Scorer interface {
	Score(a, b string) float64
	Metric() SimilarityMetric
}

// ─────────────────────────────────────────────────────────────────────────────
// LevenshteinScorer — normalized edit distance (default)
// ─────────────────────────────────────────────────────────────────────────────

// LevenshteinScorer scores 1 - distance/maxLen, so identical strings score
// 1.0 and fully disjoint strings approach 0.0.
type LevenshteinScorer struct{}

// Score computes the normalized Levenshtein similarity.
func (LevenshteinScorer) Score(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	d := levenshtein.ComputeDistance(a, b)
	if d >= maxLen {
		return 0.0
	}
	return 1.0 - float64(d)/float64(maxLen)
}

// Metric returns MetricLevenshtein.
func (LevenshteinScorer) Metric() SimilarityMetric { return MetricLevenshtein }

// ─────────────────────────────────────────────────────────────────────────────
// JaroWinklerScorer — prefix-boosted Jaro similarity
// ─────────────────────────────────────────────────────────────────────────────

// JaroWinklerScorer favours strings sharing a common prefix, which suits
// gene-symbol style terms (TROP2 vs TROP-2).
type JaroWinklerScorer struct{}

// Score computes the Jaro-Winkler similarity.
func (JaroWinklerScorer) Score(a, b string) float64 {
	j := jaro(a, b)
	if j == 0 {
		return 0
	}
	// Winkler prefix boost, capped at 4 characters, scaling factor 0.1.
	prefix := 0
	for i := 0; i < len(a) && i < len(b) && i < 4; i++ {
		if a[i] != b[i] {
			break
		}
		prefix++
	}
	return j + float64(prefix)*0.1*(1.0-j)
}

// Metric returns MetricJaroWinkler.
func (JaroWinklerScorer) Metric() SimilarityMetric { return MetricJaroWinkler }

func jaro(a, b string) float64 {
	if a == b {
		return 1.0
	}
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0.0
	}
	window := la
	if lb > window {
		window = lb
	}
	window = window/2 - 1
	if window < 0 {
		window = 0
	}

	matchA := make([]bool, la)
	matchB := make([]bool, lb)
	matches := 0
	for i := 0; i < la; i++ {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window + 1
		if hi > lb {
			hi = lb
		}
		for j := lo; j < hi; j++ {
			if matchB[j] || a[i] != b[j] {
				continue
			}
			matchA[i] = true
			matchB[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0.0
	}

	transpositions := 0
	k := 0
	for i := 0; i < la; i++ {
		if !matchA[i] {
			continue
		}
		for !matchB[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}
	m := float64(matches)
	return (m/float64(la) + m/float64(lb) + (m-float64(transpositions)/2.0)/m) / 3.0
}

// ─────────────────────────────────────────────────────────────────────────────
// TokenSetScorer — order-insensitive token overlap
// ─────────────────────────────────────────────────────────────────────────────

// TokenSetScorer splits both terms on whitespace and scores the Jaccard
// overlap of the token sets.  Useful for multi-word disease labels where word
// order varies ("cancer of the breast" vs "breast cancer").
type TokenSetScorer struct{}

// Score computes the Jaccard similarity of the token sets.
func (TokenSetScorer) Score(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}
	intersection := 0
	for tok := range ta {
		if tb[tok] {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// Metric returns MetricTokenSet.
func (TokenSetScorer) Metric() SimilarityMetric { return MetricTokenSet }

func tokenSet(s string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		out[tok] = true
	}
	return out
}

// NewScorer is the factory for similarity scorers.
func NewScorer(metric SimilarityMetric) (Scorer, error) {
	switch metric {
	case MetricLevenshtein:
		return LevenshteinScorer{}, nil
	case MetricJaroWinkler:
		return JaroWinklerScorer{}, nil
	case MetricTokenSet:
		return TokenSetScorer{}, nil
	default:
		return nil, errors.New(errors.ErrCodeScorerInvalid, "unsupported similarity metric: "+string(metric))
	}
}

//Personal.AI order the ending
