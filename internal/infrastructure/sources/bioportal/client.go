// Package bioportal queries the BioPortal search API for DOID and NCIT
// disease concepts, feeding the disease dictionary and the on-demand search
// path.
package bioportal

import (
	"context"
	"net/url"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/OncoTerm/internal/infrastructure/sources"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

// DefaultSearchURL is the public BioPortal search endpoint.
const DefaultSearchURL = "https://data.bioontology.org/search"

// DefaultOntologies restricts hits to the disease ontologies the dictionary
// accepts.
const DefaultOntologies = "DOID,NCIT"

// AttrOntology records which ontology a disease concept came from.
const AttrOntology = "ontology"

const defaultMemoSize = 4096

// ClientConfig holds the configuration for the BioPortal client.
type ClientConfig struct {
	BaseURL    string             `mapstructure:"base_url"`
	APIKey     string             `mapstructure:"api_key"`
	Ontologies string             `mapstructure:"ontologies"`
	MemoSize   int                `mapstructure:"memo_size"`
	HTTP       sources.HTTPConfig `mapstructure:"http"`
}

// Client searches BioPortal for disease concepts.  Responses are memoized.
type Client struct {
	baseURL    string
	apiKey     string
	ontologies string
	http       *sources.HTTPClient
	memo       *lru.Cache[string, []ontology.SourceRecord]
	logger     logging.Logger
}

// NewClient creates a BioPortal search client.  An API key is required by the
// endpoint; a missing key surfaces as SRC_003 on first use rather than here,
// so offline runs can still construct the dependency graph.
func NewClient(cfg ClientConfig, logger logging.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultSearchURL
	}
	if cfg.Ontologies == "" {
		cfg.Ontologies = DefaultOntologies
	}
	if cfg.MemoSize <= 0 {
		cfg.MemoSize = defaultMemoSize
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	memo, err := lru.New[string, []ontology.SourceRecord](cfg.MemoSize)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "bioportal memo init")
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		ontologies: cfg.Ontologies,
		http:       sources.NewHTTPClient("bioportal", cfg.HTTP, logger),
		memo:       memo,
		logger:     logger.Named("bioportal"),
	}, nil
}

func (c *Client) Name() string { return "bioportal" }

type searchResponse struct {
	Collection []searchHit `json:"collection"`
}

type searchHit struct {
	ID        string   `json:"@id"`
	PrefLabel string   `json:"prefLabel"`
	Synonyms  []string `json:"synonym"`
	Links     struct {
		Ontology string `json:"ontology"`
	} `json:"links"`
}

// Search queries BioPortal for a disease term, best match first.  Concept
// IRIs are shortened to CURIEs (DOID:1612, NCIT:C4872).
func (c *Client) Search(ctx context.Context, term string) ([]ontology.SourceRecord, error) {
	key := strings.ToLower(strings.TrimSpace(term))
	if key == "" {
		return nil, nil
	}
	if cached, ok := c.memo.Get(key); ok {
		return cached, nil
	}

	q := url.Values{
		"q":                   {key},
		"ontologies":          {c.ontologies},
		"require_exact_match": {"false"},
		"apikey":              {c.apiKey},
	}
	var resp searchResponse
	if err := c.http.GetJSON(ctx, c.baseURL, q, nil, &resp); err != nil {
		return nil, err
	}

	records := make([]ontology.SourceRecord, 0, len(resp.Collection))
	for _, hit := range resp.Collection {
		id := CURIEFromIRI(hit.ID)
		if id == "" || hit.PrefLabel == "" {
			continue
		}
		rec := ontology.SourceRecord{
			ID:      id,
			Label:   hit.PrefLabel,
			Aliases: hit.Synonyms,
		}
		if ont := ontologyAcronym(hit.Links.Ontology); ont != "" {
			rec.Attributes = map[string]string{AttrOntology: ont}
		}
		records = append(records, rec)
	}

	c.memo.Add(key, records)
	return records, nil
}

// CURIEFromIRI shortens an OBO or NCIT concept IRI to its CURIE form.
// Unrecognised IRIs come back empty.
func CURIEFromIRI(iri string) string {
	const oboPrefix = "http://purl.obolibrary.org/obo/"
	if rest, ok := strings.CutPrefix(iri, oboPrefix); ok {
		return strings.Replace(rest, "_", ":", 1)
	}
	const ncitPrefix = "http://ncicb.nci.nih.gov/xml/owl/EVS/Thesaurus.owl#"
	if rest, ok := strings.CutPrefix(iri, ncitPrefix); ok {
		return "NCIT:" + rest
	}
	return ""
}

// ontologyAcronym extracts the acronym from a BioPortal ontology link.
func ontologyAcronym(link string) string {
	if link == "" {
		return ""
	}
	parts := strings.Split(strings.TrimRight(link, "/"), "/")
	return parts[len(parts)-1]
}

//Personal.AI order the ending
