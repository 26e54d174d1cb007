package hgnc

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

// DefaultSearchURL is the public HGNC REST search endpoint.
const DefaultSearchURL = "https://rest.genenames.org/search"

// defaultMemoSize bounds the per-client response memo.
const defaultMemoSize = 4096

// SearchConfig holds the configuration for the REST search client.
type SearchConfig struct {
	BaseURL  string             `mapstructure:"base_url"`
	MemoSize int                `mapstructure:"memo_size"`
	HTTP     sources.HTTPConfig `mapstructure:"http"`
}

// SearchClient queries the HGNC REST search endpoint for a single symbol.
// Responses are memoized so a symbol repeated across articles costs one call.
type SearchClient struct {
	baseURL string
	http    *sources.HTTPClient
	memo    *lru.Cache[string, []ontology.SourceRecord]
	logger  logging.Logger
}

// NewSearchClient creates an HGNC REST search client.
func NewSearchClient(cfg SearchConfig, logger logging.Logger) (*SearchClient, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultSearchURL
	}
	if cfg.MemoSize <= 0 {
		cfg.MemoSize = defaultMemoSize
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	memo, err := lru.New[string, []ontology.SourceRecord](cfg.MemoSize)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "hgnc memo init")
	}
	return &SearchClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    sources.NewHTTPClient("hgnc-search", cfg.HTTP, logger),
		memo:    memo,
		logger:  logger.Named("hgnc.search"),
	}, nil
}

func (c *SearchClient) Name() string { return "hgnc-search" }

type searchResponse struct {
	Response struct {
		Docs []searchDoc `json:"docs"`
	} `json:"response"`
}

type searchDoc struct {
	HGNCID        string   `json:"hgnc_id"`
	Symbol        string   `json:"symbol"`
	AliasSymbol   []string `json:"alias_symbol"`
	EnsemblGeneID string   `json:"ensembl_gene_id"`
	LocusType     string   `json:"locus_type"`
}

// Search queries rest.genenames.org for a symbol, best match first.
func (c *SearchClient) Search(ctx context.Context, term string) ([]ontology.SourceRecord, error) {
	key := strings.ToUpper(strings.TrimSpace(term))
	if key == "" {
		return nil, nil
	}
	if cached, ok := c.memo.Get(key); ok {
		return cached, nil
	}

	var resp searchResponse
	err := c.http.GetJSON(ctx, c.baseURL+"/"+url.PathEscape(key), nil, nil, &resp)
	if err != nil {
		if errors.IsNotFound(err) {
			c.memo.Add(key, nil)
			return nil, nil
		}
		return nil, err
	}

	records := make([]ontology.SourceRecord, 0, len(resp.Response.Docs))
	for _, doc := range resp.Response.Docs {
		if doc.HGNCID == "" || doc.Symbol == "" {
			continue
		}
		rec := ontology.SourceRecord{
			ID:      doc.HGNCID,
			Label:   doc.Symbol,
			Aliases: doc.AliasSymbol,
		}
		attrs := make(map[string]string, 2)
		if doc.EnsemblGeneID != "" {
			attrs[AttrEnsemblGeneID] = doc.EnsemblGeneID
		}
		if doc.LocusType != "" {
			attrs[AttrLocusType] = doc.LocusType
		}
		if len(attrs) > 0 {
			rec.Attributes = attrs
		}
		records = append(records, rec)
	}

	c.memo.Add(key, records)
	return records, nil
}

//Personal.AI order the ending
