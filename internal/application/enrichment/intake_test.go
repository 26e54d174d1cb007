package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

const entryDoc = `[
  {
    "id": "aacr-2026-0042",
    "title": "Novel HER2-directed ADCs in metastatic disease",
    "extractedDrugs": [
      {
        "drugName": "trastuzumab deruxtecan",
        "targetAntigen": "HER2",
        "cancerIndication": ["metastatic breast cancer", "NSCLC"],
        "payload": "DXd",
        "linker": "tetrapeptide-based cleavable linker",
        "phase": "Phase 3",
        "company": "Daiichi Sankyo"
      },
      {
        "drugName": "disitamab vedotin",
        "targetAntigen": "HER2"
      }
    ]
  },
  {
    "id": "aacr-2026-0043",
    "extractedDrugs": []
  }
]`

func TestParseEntries(t *testing.T) {
	entries, err := ParseEntries([]byte(entryDoc))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "aacr-2026-0042", entries[0].ID)
	assert.Len(t, entries[0].ExtractedDrugs, 2)
	assert.Empty(t, entries[1].ExtractedDrugs)
}

func TestParseEntries_WrappedObject(t *testing.T) {
	doc := `{"entries": ` + entryDoc + `}`
	entries, err := ParseEntries([]byte(doc))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestParseEntries_Malformed(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":     "",
		"truncated": `[{"id": "x"`,
		"scalar":    `42`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseEntries([]byte(doc))
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeIntakeMalformed))
		})
	}
}

func TestMentions(t *testing.T) {
	entries, err := ParseEntries([]byte(entryDoc))
	require.NoError(t, err)

	mentions := Mentions(entries)
	require.Len(t, mentions, 2)

	first := mentions[0]
	assert.Equal(t, "aacr-2026-0042/0", first.EntryID)
	assert.Equal(t, "aacr-2026-0042/0", first.Source["entryId"])
	assert.Equal(t, "trastuzumab deruxtecan", first.Source["drugName"])
	assert.Equal(t, "Daiichi Sankyo", first.Source["company"])
	assert.Equal(t, []string{"trastuzumab deruxtecan"}, first.Terms[ontology.FieldDrug])
	assert.Equal(t, []string{"HER2"}, first.Terms[ontology.FieldAntigen])
	assert.Equal(t, []string{"metastatic breast cancer", "NSCLC"}, first.Terms[ontology.FieldDisease])
	assert.Equal(t, []string{"DXd"}, first.Terms[ontology.FieldPayload])
	assert.Equal(t, []string{"tetrapeptide-based cleavable linker"}, first.Terms[ontology.FieldLinker])

	// The second mention has no payload, linker, or indication terms.
	second := mentions[1]
	assert.Equal(t, "aacr-2026-0042/1", second.EntryID)
	assert.NotContains(t, second.Terms, ontology.FieldPayload)
	assert.NotContains(t, second.Terms, ontology.FieldLinker)
	assert.NotContains(t, second.Terms, ontology.FieldDisease)
}

func TestMentions_BlankTermsOmitted(t *testing.T) {
	entries := []Entry{{
		ID: "e1",
		ExtractedDrugs: []DrugMention{{
			DrugName:         "  ",
			TargetAntigen:    "HER2",
			CancerIndication: []string{"", "  "},
		}},
	}}

	mentions := Mentions(entries)
	require.Len(t, mentions, 1)
	assert.NotContains(t, mentions[0].Terms, ontology.FieldDrug)
	assert.NotContains(t, mentions[0].Terms, ontology.FieldDisease)
	assert.Contains(t, mentions[0].Terms, ontology.FieldAntigen)
}

func TestSeedTerms(t *testing.T) {
	entries, err := ParseEntries([]byte(entryDoc))
	require.NoError(t, err)

	terms := SeedTerms(entries)

	assert.Equal(t, []string{"trastuzumab deruxtecan", "disitamab vedotin"}, terms[ontology.FieldDrug])
	// "HER2" appears on both mentions but is collected once.
	assert.Equal(t, []string{"HER2"}, terms[ontology.FieldAntigen])
	assert.Equal(t, []string{"metastatic breast cancer", "NSCLC"}, terms[ontology.FieldDisease])
	assert.Equal(t, []string{"DXd"}, terms[ontology.FieldPayload])
}

func TestSeedTerms_DeduplicatesByNormalizedForm(t *testing.T) {
	entries := []Entry{{
		ID: "e1",
		ExtractedDrugs: []DrugMention{
			{DrugName: "Enhertu"},
			{DrugName: "  enhertu  "},
		},
	}}

	terms := SeedTerms(entries)
	assert.Equal(t, []string{"Enhertu"}, terms[ontology.FieldDrug])
}

func TestParseHierarchy(t *testing.T) {
	doc := []byte(`{"DOID:1612": [["disease", "cancer", "breast cancer"]]}`)

	h, err := ParseHierarchy(doc)
	require.NoError(t, err)
	assert.Equal(t, 1, h.Size())
	assert.Equal(t, []string{"disease", "cancer", "breast cancer"}, h.PrimaryPathFor("DOID:1612"))

	_, err = ParseHierarchy([]byte("not json"))
	assert.Error(t, err)
}

//Personal.AI order the ending
