// Package catalog assembles the concrete lookup sources for a dictionary
// build from the service configuration and a per-corpus term set.  It is the
// single place the CLI, the API server and the worker wire sources from.
package catalog

import (
	"context"

	"github.com/turtacn/OncoTerm/internal/application/enrichment"
	"github.com/turtacn/OncoTerm/internal/config"
	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/OncoTerm/internal/infrastructure/sources"
	"github.com/turtacn/OncoTerm/internal/infrastructure/sources/bioportal"
	"github.com/turtacn/OncoTerm/internal/infrastructure/sources/chembl"
	"github.com/turtacn/OncoTerm/internal/infrastructure/sources/hgnc"
	"github.com/turtacn/OncoTerm/internal/infrastructure/sources/taca"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

// Catalog holds the assembled extractors plus the curated antigen fallback
// dictionary.
type Catalog struct {
	Extractors      []enrichment.Extractor
	AntigenFallback *ontology.Dictionary
}

// Options tunes the assembly.
type Options struct {
	// Terms seeds the term-driven sources (ChEMBL, BioPortal, HGNC
	// search).  A field with no terms still gets its extractor when the
	// source does not need seeding (HGNC bulk, TACA).
	Terms enrichment.TermSet

	// AntigenSearch optionally replaces the raw HGNC search client, e.g.
	// with a Redis-cached wrapper.  Nil uses the plain client.
	AntigenSearch sources.SearchSource
}

// New assembles every configured source.  The curated TACA list always
// contributes the antigen fallback dictionary; the remaining sources depend
// on configuration and on which fields the term set covers.
func New(cfg config.SourcesConfig, opts Options, logger logging.Logger) (*Catalog, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	fallback, err := ontology.BuildDictionary(ontology.FieldAntigen, ontology.SourceExtract{
		Name:    taca.SourceName,
		Records: taca.Records(),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "curated antigen fallback build")
	}

	cat := &Catalog{AntigenFallback: fallback}

	chemblClient := chembl.NewClient(cfg.ChEMBL, logger)
	if terms := opts.Terms[ontology.FieldDrug]; len(terms) > 0 {
		cat.Extractors = append(cat.Extractors, chembl.NewADCSource(chemblClient, terms, logger))
	}
	if terms := opts.Terms[ontology.FieldPayload]; len(terms) > 0 {
		cat.Extractors = append(cat.Extractors,
			chembl.NewSmallMoleculeSource(chemblClient, ontology.FieldPayload, terms, logger))
	}
	if terms := opts.Terms[ontology.FieldLinker]; len(terms) > 0 {
		cat.Extractors = append(cat.Extractors,
			chembl.NewSmallMoleculeSource(chemblClient, ontology.FieldLinker, terms, logger))
	}

	antigen, err := antigenExtractor(cfg.HGNC, opts, logger)
	if err != nil {
		return nil, err
	}
	if antigen != nil {
		cat.Extractors = append(cat.Extractors, antigen)
	}

	if terms := opts.Terms[ontology.FieldDisease]; len(terms) > 0 {
		bioClient, err := bioportal.NewClient(cfg.BioPortal, logger)
		if err != nil {
			return nil, err
		}
		cat.Extractors = append(cat.Extractors, bioportal.NewDiseaseSource(bioClient, terms, logger))
	}

	return cat, nil
}

// antigenExtractor prefers the HGNC bulk extract; without one it falls back
// to per-term REST search.
func antigenExtractor(cfg config.HGNCConfig, opts Options, logger logging.Logger) (enrichment.Extractor, error) {
	if cfg.BulkFile != "" {
		return hgnc.NewBulkSource(cfg.BulkFile, logger), nil
	}

	terms := opts.Terms[ontology.FieldAntigen]
	if len(terms) == 0 {
		return nil, nil
	}

	search := opts.AntigenSearch
	if search == nil {
		client, err := hgnc.NewSearchClient(cfg.Search, logger)
		if err != nil {
			return nil, err
		}
		search = client
	}
	return &searchExtractor{
		name:   search.Name(),
		field:  ontology.FieldAntigen,
		terms:  terms,
		search: search,
	}, nil
}

// searchExtractor adapts an on-demand SearchSource into a batch extractor by
// querying each seed term and keeping the best hit.
type searchExtractor struct {
	name   string
	field  ontology.FieldType
	terms  []string
	search sources.SearchSource
}

func (s *searchExtractor) Name() string                  { return s.name }
func (s *searchExtractor) FieldType() ontology.FieldType { return s.field }

func (s *searchExtractor) Fetch(ctx context.Context) (*ontology.SourceExtract, error) {
	extract := &ontology.SourceExtract{Name: s.name}
	seen := make(map[string]int)

	for _, term := range s.terms {
		hits, err := s.search.Search(ctx, term)
		if err != nil {
			return nil, err
		}
		if len(hits) == 0 {
			continue
		}
		hit := hits[0]
		if idx, dup := seen[hit.ID]; dup {
			extract.Records[idx].Aliases = append(extract.Records[idx].Aliases, term)
			continue
		}
		hit.Aliases = append(hit.Aliases, term)
		seen[hit.ID] = len(extract.Records)
		extract.Records = append(extract.Records, hit)
	}
	return extract, nil
}

//Personal.AI order the ending
