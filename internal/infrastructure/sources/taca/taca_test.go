package taca

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
)

func TestNewSource_BuildsFallbackDictionary(t *testing.T) {
	src := NewSource()
	assert.Equal(t, SourceName, src.Name())
	assert.Equal(t, ontology.FieldAntigen, src.FieldType())

	extract, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, extract.Records)

	dict, err := ontology.BuildDictionary(ontology.FieldAntigen, *extract)
	require.NoError(t, err)

	entity, ok := dict.LookupExact(ontology.Normalize(ontology.FieldAntigen, "TROP2"))
	require.True(t, ok)
	assert.Equal(t, "TACA:TROP2", entity.PrimaryID)

	entity, ok = dict.LookupExact(ontology.Normalize(ontology.FieldAntigen, "GD2"))
	require.True(t, ok)
	assert.Equal(t, "TACA:GD2", entity.PrimaryID)
}

func TestCuratedRecords_AreWellFormed(t *testing.T) {
	ids := make(map[string]struct{})
	for _, rec := range Records() {
		assert.NotEmpty(t, rec.ID, "record %q missing id", rec.Label)
		assert.NotEmpty(t, rec.Label, "record %q missing label", rec.ID)
		_, dup := ids[rec.ID]
		assert.False(t, dup, "duplicate id %q", rec.ID)
		ids[rec.ID] = struct{}{}
	}
}

func TestRecords_ReturnsCopy(t *testing.T) {
	a := Records()
	a[0].ID = "mutated"
	b := Records()
	assert.NotEqual(t, "mutated", b[0].ID)
}

//Personal.AI order the ending
