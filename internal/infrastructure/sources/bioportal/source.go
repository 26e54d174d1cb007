package bioportal

import (
	"context"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
)

// DiseaseSource builds the disease dictionary extract by searching BioPortal
// for each mention term and its acronym expansions, merging DOID and NCIT
// hits into one extract.
type DiseaseSource struct {
	client *Client
	terms  []string
	logger logging.Logger
}

// NewDiseaseSource builds the disease-dictionary source from a term list.
func NewDiseaseSource(client *Client, terms []string, logger logging.Logger) *DiseaseSource {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &DiseaseSource{client: client, terms: terms, logger: logger.Named("bioportal.disease")}
}

func (s *DiseaseSource) Name() string                  { return "bioportal" }
func (s *DiseaseSource) FieldType() ontology.FieldType { return ontology.FieldDisease }

func (s *DiseaseSource) Fetch(ctx context.Context) (*ontology.SourceExtract, error) {
	extract := &ontology.SourceExtract{Name: s.Name()}
	seen := make(map[string]int)

	for _, term := range s.terms {
		for _, candidate := range ontology.ExpandDisease(term) {
			hits, err := s.client.Search(ctx, candidate)
			if err != nil {
				return nil, err
			}
			for _, hit := range hits {
				if idx, dup := seen[hit.ID]; dup {
					// Same concept reached through another phrasing:
					// keep the phrasing as an extra alias.
					extract.Records[idx].Aliases = append(extract.Records[idx].Aliases, candidate)
					continue
				}
				rec := hit
				rec.Aliases = append(rec.Aliases, candidate)
				seen[rec.ID] = len(extract.Records)
				extract.Records = append(extract.Records, rec)
			}
		}
	}

	s.logger.Info("disease extract built",
		logging.Int("terms", len(s.terms)),
		logging.Int("records", len(extract.Records)),
	)
	return extract, nil
}

//Personal.AI order the ending
