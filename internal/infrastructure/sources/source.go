// Package sources defines the contract lookup sources implement and the
// resilience wrapper their HTTP clients share.  A lookup source produces a
// SourceExtract for one field type's dictionary build; a search source answers
// on-demand single-term queries against a remote ontology API.
package sources

import (
	"context"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
)

// Source produces a batch extract for one field type's dictionary build.
// A failed Fetch is fatal for that field type only; the caller contains the
// failure and keeps building the remaining dictionaries.
type Source interface {
	// Name identifies the source in logs and in SourceExtract provenance.
	Name() string

	// FieldType is the field type this source feeds.
	FieldType() ontology.FieldType

	// Fetch retrieves the full extract.  Implementations honour ctx
	// cancellation and return SRC_* coded errors on failure.
	Fetch(ctx context.Context) (*ontology.SourceExtract, error)
}

// SearchSource answers a single-term query against a remote ontology.
// Implementations memoize responses so repeated terms within a run cost one
// remote call.
type SearchSource interface {
	Name() string

	// Search returns candidate records for a term, best match first.  An
	// empty slice with a nil error means the source has no candidate.
	Search(ctx context.Context, term string) ([]ontology.SourceRecord, error)
}

// StaticSource wraps a pre-built extract, used for curated in-repo lists and
// in tests.
type StaticSource struct {
	name    string
	field   ontology.FieldType
	extract *ontology.SourceExtract
}

// NewStaticSource builds a Source that always returns the given records.
func NewStaticSource(name string, field ontology.FieldType, records []ontology.SourceRecord) *StaticSource {
	return &StaticSource{
		name:  name,
		field: field,
		extract: &ontology.SourceExtract{
			Name:    name,
			Records: records,
		},
	}
}

func (s *StaticSource) Name() string                  { return s.name }
func (s *StaticSource) FieldType() ontology.FieldType { return s.field }

func (s *StaticSource) Fetch(_ context.Context) (*ontology.SourceExtract, error) {
	return s.extract, nil
}

//Personal.AI order the ending
