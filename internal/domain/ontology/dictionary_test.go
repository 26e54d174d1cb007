package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/OncoTerm/pkg/errors"
)

func hgncExtract() SourceExtract {
	return SourceExtract{
		Name: "hgnc",
		Records: []SourceRecord{
			{
				ID:      "HGNC:11005",
				Label:   "TACSTD2",
				Aliases: []string{"TROP2", "TROP-2", "EGP-1"},
				Attributes: map[string]string{
					"ensembl_gene_id": "ENSG00000184292",
				},
			},
			{
				ID:      "HGNC:3236",
				Label:   "EGFR",
				Aliases: []string{"HER1", "ERBB1"},
			},
			{
				ID:      "HGNC:2064",
				Label:   "ERBB2",
				Aliases: []string{"HER2", "HER-2", "NEU"},
			},
		},
	}
}

func TestBuildDictionary(t *testing.T) {
	d, err := BuildDictionary(FieldAntigen, hgncExtract())
	require.NoError(t, err)
	assert.Equal(t, FieldAntigen, d.FieldType())
	assert.Equal(t, 3, d.Size())

	e, ok := d.LookupExact("TACSTD2")
	require.True(t, ok)
	assert.Equal(t, "HGNC:11005", e.PrimaryID)

	es, ok := d.LookupAlias("TROP2")
	require.True(t, ok)
	require.Len(t, es, 1)
	assert.Equal(t, "HGNC:11005", es[0].PrimaryID)

	// Aliases are stored normalized.
	es, ok = d.LookupAlias("HER-2")
	require.True(t, ok)
	assert.Equal(t, "HGNC:2064", es[0].PrimaryID)

	byID, ok := d.EntityByID("HGNC:3236")
	require.True(t, ok)
	assert.Equal(t, "EGFR", byID.PreferredLabel)
}

func TestBuildDictionary_InvalidInputs(t *testing.T) {
	_, err := BuildDictionary(FieldType("gene"), hgncExtract())
	assert.True(t, errors.IsCode(err, errors.ErrCodeFieldTypeInvalid))

	_, err = BuildDictionary(FieldAntigen)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDictionaryEmpty))
}

func TestBuildDictionary_SourceFormatError(t *testing.T) {
	bad := SourceExtract{
		Name: "broken",
		Records: []SourceRecord{
			{Aliases: []string{"TROP2"}},
			{Label: "TACSTD2"}, // no id
			{ID: "HGNC:11005"}, // no label
		},
	}
	_, err := BuildDictionary(FieldAntigen, bad)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceFormat))
}

func TestBuildDictionary_SkipsUnusableRecords(t *testing.T) {
	mixed := SourceExtract{
		Name: "mixed",
		Records: []SourceRecord{
			{ID: "HGNC:3236", Label: "EGFR"},
			{Label: "orphan"}, // skipped, but source still usable
		},
	}
	d, err := BuildDictionary(FieldAntigen, mixed)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Size())
}

func TestBuildDictionary_AliasPriorityFirstSourceWins(t *testing.T) {
	primary := SourceExtract{
		Name: "doid",
		Records: []SourceRecord{
			{ID: "DOID:1612", Label: "breast cancer", Aliases: []string{"BC"}},
		},
	}
	secondary := SourceExtract{
		Name: "ncit",
		Records: []SourceRecord{
			{ID: "NCIT:C2910", Label: "bladder carcinoma", Aliases: []string{"BC"}},
		},
	}
	d, err := BuildDictionary(FieldDisease, primary, secondary)
	require.NoError(t, err)

	es, ok := d.LookupAlias("bc")
	require.True(t, ok)
	require.Len(t, es, 2)
	// The first-listed source has resolution priority for duplicate aliases.
	assert.Equal(t, "DOID:1612", es[0].PrimaryID)
	assert.Equal(t, "NCIT:C2910", es[1].PrimaryID)
}

func TestBuildDictionary_DuplicateIDMergesAliases(t *testing.T) {
	a := SourceExtract{
		Name: "first",
		Records: []SourceRecord{
			{ID: "DOID:1612", Label: "breast cancer", Aliases: []string{"TNBC"}},
		},
	}
	b := SourceExtract{
		Name: "second",
		Records: []SourceRecord{
			{ID: "DOID:1612", Label: "mammary cancer", Aliases: []string{"mammary neoplasm"}},
		},
	}
	d, err := BuildDictionary(FieldDisease, a, b)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Size())

	e, ok := d.EntityByID("DOID:1612")
	require.True(t, ok)
	// First occurrence wins the label; later records only contribute aliases.
	assert.Equal(t, "breast cancer", e.PreferredLabel)
	assert.Contains(t, e.Aliases, "mammary neoplasm")
}

//Personal.AI order the ending
