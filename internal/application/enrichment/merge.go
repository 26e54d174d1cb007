package enrichment

import (
	"strings"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
)

// Merger combines per-field resolution results into one enriched entity per
// source record.  Merging is a pure function of its inputs: no remote calls,
// no mutation of shared dictionary state, which makes it trivially
// parallelizable across source entities.
type Merger struct {
	hierarchy *ontology.DiseaseHierarchy
}

// NewMerger constructs a Merger.  hierarchy may be nil when no precomputed
// disease hierarchy is available; disease summaries then omit the path.
func NewMerger(hierarchy *ontology.DiseaseHierarchy) *Merger {
	return &Merger{hierarchy: hierarchy}
}

// Merge builds the enriched entity for one source record.  resolutions maps
// each field type present in the source to its ordered resolution results
// (multi-valued fields such as cancer indications carry one result per
// value).  Field types absent from the source are omitted from the ontology
// block entirely — absence is not a failed match.
//
// The original source fields are copied verbatim into the result and never
// overwritten; only the ontology block and processing notes are added.
func (m *Merger) Merge(source map[string]interface{}, resolutions map[ontology.FieldType][]*ontology.ResolutionResult) *ontology.EnrichedEntity {
	enriched := &ontology.EnrichedEntity{
		Source:   copySource(source),
		Ontology: make(map[ontology.FieldType]*ontology.FieldSummary, len(resolutions)),
	}

	for field, results := range resolutions {
		if len(results) == 0 {
			continue
		}
		enriched.Ontology[field] = m.summarize(field, results)
	}
	return enriched
}

// summarize collapses the ordered results for one field into its summary.
// The first matched result is the primary; for multi-valued fields the
// remaining matched IDs are recorded under the all_ids attribute.
func (m *Merger) summarize(field ontology.FieldType, results []*ontology.ResolutionResult) *ontology.FieldSummary {
	primary := results[0]
	for _, r := range results {
		if r.IsMatched() {
			primary = r
			break
		}
	}

	summary := &ontology.FieldSummary{
		MatchStatus: primary.MatchStatus,
		Confidence:  primary.Confidence,
	}
	if !primary.IsMatched() {
		return summary
	}

	e := primary.MatchedEntity
	summary.PrimaryID = e.PrimaryID
	summary.PreferredLabel = e.PreferredLabel
	if len(e.Attributes) > 0 {
		summary.Attributes = make(map[string]string, len(e.Attributes))
		for k, v := range e.Attributes {
			summary.Attributes[k] = v
		}
	}

	if field == ontology.FieldDisease {
		if path := m.hierarchy.PrimaryPathFor(e.PrimaryID); len(path) > 0 {
			summary.HierarchyPath = path
		}
	}

	if len(results) > 1 {
		var all []string
		for _, r := range results {
			if r.IsMatched() {
				all = append(all, r.MatchedEntity.PrimaryID)
			}
		}
		if len(all) > 1 {
			if summary.Attributes == nil {
				summary.Attributes = make(map[string]string, 1)
			}
			summary.Attributes["all_ids"] = strings.Join(all, "|")
		}
	}
	return summary
}

// copySource shallow-copies the top-level source map so later callers cannot
// mutate the enriched entity's view of the original record.
func copySource(source map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(source))
	for k, v := range source {
		out[k] = v
	}
	return out
}

//Personal.AI order the ending
