package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
)

func matchedResult(field ontology.FieldType, id, label string, attrs map[string]string) *ontology.ResolutionResult {
	return &ontology.ResolutionResult{
		InputTerm:      label,
		NormalizedTerm: label,
		MatchedEntity: &ontology.CanonicalEntity{
			FieldType:      field,
			PrimaryID:      id,
			PreferredLabel: label,
			Attributes:     attrs,
		},
		MatchStatus: ontology.StatusExactMatch,
		Confidence:  1.0,
	}
}

func TestMerger_OriginalFieldsUntouched(t *testing.T) {
	source := map[string]interface{}{
		"drugName":      "Enhertu",
		"targetAntigen": "HER2",
		"phase":         "3",
	}
	m := NewMerger(nil)
	enriched := m.Merge(source, map[ontology.FieldType][]*ontology.ResolutionResult{
		ontology.FieldDrug: {matchedResult(ontology.FieldDrug, "CHEMBL4297844", "trastuzumab deruxtecan", nil)},
	})

	// All original keys present unchanged.
	assert.Equal(t, "Enhertu", enriched.Source["drugName"])
	assert.Equal(t, "HER2", enriched.Source["targetAntigen"])
	assert.Equal(t, "3", enriched.Source["phase"])
	assert.Len(t, enriched.Source, 3)

	// Mutating the enriched copy must not leak back to the caller's map.
	enriched.Source["drugName"] = "overwritten"
	assert.Equal(t, "Enhertu", source["drugName"])
}

func TestMerger_AbsentFieldOmitted(t *testing.T) {
	m := NewMerger(nil)
	enriched := m.Merge(map[string]interface{}{"drugName": "Enhertu"}, map[ontology.FieldType][]*ontology.ResolutionResult{
		ontology.FieldDrug: {matchedResult(ontology.FieldDrug, "CHEMBL4297844", "trastuzumab deruxtecan", nil)},
	})

	_, hasDisease := enriched.Ontology[ontology.FieldDisease]
	assert.False(t, hasDisease, "a field absent from the source must be omitted, not defaulted to unknown")
	assert.Len(t, enriched.Ontology, 1)
}

func TestMerger_UnknownFieldSummary(t *testing.T) {
	m := NewMerger(nil)
	enriched := m.Merge(map[string]interface{}{}, map[ontology.FieldType][]*ontology.ResolutionResult{
		ontology.FieldPayload: {ontology.Unresolved("XYZZY123", "xyzzy123")},
	})

	sum := enriched.Ontology[ontology.FieldPayload]
	require.NotNil(t, sum)
	assert.Equal(t, ontology.StatusUnknown, sum.MatchStatus)
	assert.Empty(t, sum.PrimaryID)
	assert.Equal(t, 0.0, sum.Confidence)
}

func TestMerger_DiseaseHierarchyPathAttached(t *testing.T) {
	hierarchy := ontology.NewDiseaseHierarchy(map[string][][]string{
		"DOID:1612": {
			{"disease", "disease of cellular proliferation", "cancer", "breast cancer"},
		},
	})
	m := NewMerger(hierarchy)
	enriched := m.Merge(map[string]interface{}{}, map[ontology.FieldType][]*ontology.ResolutionResult{
		ontology.FieldDisease: {matchedResult(ontology.FieldDisease, "DOID:1612", "breast cancer", nil)},
	})

	sum := enriched.Ontology[ontology.FieldDisease]
	require.NotNil(t, sum)
	assert.Equal(t, []string{"disease", "disease of cellular proliferation", "cancer", "breast cancer"}, sum.HierarchyPath)
}

func TestMerger_MultiValuedField(t *testing.T) {
	m := NewMerger(nil)
	results := []*ontology.ResolutionResult{
		ontology.Unresolved("weird indication", "weird indication"),
		matchedResult(ontology.FieldDisease, "DOID:1612", "breast cancer", nil),
		matchedResult(ontology.FieldDisease, "DOID:3908", "non-small cell lung cancer", nil),
	}
	enriched := m.Merge(map[string]interface{}{}, map[ontology.FieldType][]*ontology.ResolutionResult{
		ontology.FieldDisease: results,
	})

	sum := enriched.Ontology[ontology.FieldDisease]
	require.NotNil(t, sum)
	// Primary is the first matched result, not the first listed.
	assert.Equal(t, "DOID:1612", sum.PrimaryID)
	assert.Equal(t, "DOID:1612|DOID:3908", sum.Attributes["all_ids"])
}

func TestMerger_EntityAttributesCopied(t *testing.T) {
	attrs := map[string]string{"max_phase": "4", "mechanism_of_action": "topoisomerase I inhibitor payload"}
	m := NewMerger(nil)
	enriched := m.Merge(map[string]interface{}{}, map[ontology.FieldType][]*ontology.ResolutionResult{
		ontology.FieldDrug: {matchedResult(ontology.FieldDrug, "CHEMBL4297844", "trastuzumab deruxtecan", attrs)},
	})

	sum := enriched.Ontology[ontology.FieldDrug]
	require.NotNil(t, sum)
	assert.Equal(t, "4", sum.Attributes["max_phase"])

	// The summary holds a copy, not the shared entity map.
	sum.Attributes["max_phase"] = "0"
	assert.Equal(t, "4", attrs["max_phase"])
}

//Personal.AI order the ending
