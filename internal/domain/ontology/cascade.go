package ontology

import (
	"github.com/turtacn/OncoTerm/pkg/errors"
)

// DefaultFuzzyThreshold is the minimum similarity score accepted by the fuzzy
// step of the cascade.
const DefaultFuzzyThreshold = 0.85

// Cascade runs the ordered matching strategy for one term against one
// dictionary: exact, then alias, then fuzzy, then the same three steps
// against an optional fallback dictionary, else unknown.  The cascade is pure
// given its inputs; all data is already loaded into the dictionaries and no
// remote call ever happens here.
type Cascade struct {
	scorer    Scorer
	threshold float64
}

// NewCascade constructs a Cascade with the given scorer and fuzzy threshold.
func NewCascade(scorer Scorer, threshold float64) (*Cascade, error) {
	if scorer == nil {
		return nil, errors.New(errors.ErrCodeScorerInvalid, "cascade requires a similarity scorer")
	}
	if threshold <= 0 || threshold > 1 {
		return nil, errors.New(errors.ErrCodeThresholdInvalid, "fuzzy threshold must be in (0,1]")
	}
	return &Cascade{scorer: scorer, threshold: threshold}, nil
}

// Threshold returns the configured fuzzy threshold.
func (c *Cascade) Threshold() float64 { return c.threshold }

// Resolve resolves a raw term against the primary dictionary, falling back to
// the fallback dictionary when supplied.  candidates is the ordered list of
// normalized candidate terms for the raw input (the first element is the
// plain normalized form; disease resolution appends acronym expansions and
// synonym variants).  When candidates is empty the plain normalized form is
// used.
//
// An unresolved term yields StatusUnknown with no matched entity; that is a
// normal outcome, never an error.
func (c *Cascade) Resolve(input string, candidates []string, primary, fallback *Dictionary) *ResolutionResult {
	if len(candidates) == 0 && primary != nil {
		candidates = []string{Normalize(primary.FieldType(), input)}
	}
	normalized := ""
	if len(candidates) > 0 {
		normalized = candidates[0]
	}
	if normalized == "" {
		return Unresolved(input, normalized)
	}

	if res := c.resolveAgainst(input, normalized, candidates, primary); res != nil {
		return res
	}
	if fallback != nil {
		if res := c.resolveAgainst(input, normalized, candidates, fallback); res != nil {
			res.MatchStatus = StatusFallbackMatch
			return res
		}
	}
	return Unresolved(input, normalized)
}

// resolveAgainst runs steps 1-3 against one dictionary, returning nil when
// nothing matched.
func (c *Cascade) resolveAgainst(input, normalized string, candidates []string, dict *Dictionary) *ResolutionResult {
	if dict == nil || dict.Size() == 0 {
		return nil
	}

	// Step 1: exact match on the preferred label.
	for _, cand := range candidates {
		if e, ok := dict.LookupExact(cand); ok {
			return &ResolutionResult{
				InputTerm:      input,
				NormalizedTerm: normalized,
				MatchedEntity:  e,
				MatchStatus:    StatusExactMatch,
				Confidence:     ConfidenceExact,
			}
		}
	}

	// Step 2: alias match; the first entity in priority order wins.
	for _, cand := range candidates {
		if es, ok := dict.LookupAlias(cand); ok && len(es) > 0 {
			return &ResolutionResult{
				InputTerm:      input,
				NormalizedTerm: normalized,
				MatchedEntity:  es[0],
				MatchStatus:    StatusAliasMatch,
				Confidence:     ConfidenceAlias,
			}
		}
	}

	// Step 3: fuzzy match over every label and alias; maximum score wins,
	// ties broken by lexicographically smallest primary ID.
	var best *CanonicalEntity
	bestScore := 0.0
	consider := func(e *CanonicalEntity, score float64) {
		if score < c.threshold {
			return
		}
		if best == nil || score > bestScore || (score == bestScore && e.PrimaryID < best.PrimaryID) {
			best = e
			bestScore = score
		}
	}
	for _, e := range dict.Entities() {
		labelKey := Normalize(dict.FieldType(), e.PreferredLabel)
		for _, cand := range candidates {
			consider(e, c.scorer.Score(cand, labelKey))
			for _, a := range e.Aliases {
				consider(e, c.scorer.Score(cand, a))
			}
		}
	}
	if best != nil {
		return &ResolutionResult{
			InputTerm:      input,
			NormalizedTerm: normalized,
			MatchedEntity:  best,
			MatchStatus:    StatusFuzzyMatch,
			Confidence:     bestScore,
		}
	}
	return nil
}

//Personal.AI order the ending
