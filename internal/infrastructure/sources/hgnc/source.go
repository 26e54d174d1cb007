// Package hgnc feeds the antigen dictionary from the HGNC complete set and
// exposes the HGNC REST search for on-demand symbol lookups.
package hgnc

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

// Attribute keys on HGNC-derived records.
const (
	AttrLocusType     = "locus_type"
	AttrEnsemblGeneID = "ensembl_gene_id"
	AttrGeneName      = "gene_name"
)

// Columns of the HGNC complete-set TSV the extract consumes.
const (
	colHGNCID      = "hgnc_id"
	colSymbol      = "symbol"
	colName        = "name"
	colAliasSymbol = "alias_symbol"
	colPrevSymbol  = "prev_symbol"
	colLocusType   = "locus_type"
	colEnsemblID   = "ensembl_gene_id"
)

// BulkSource parses the hgnc_complete_set.tsv download into an antigen
// dictionary extract.  Alias and previous symbols become aliases of the
// approved symbol.
type BulkSource struct {
	path   string
	logger logging.Logger
}

// NewBulkSource builds a source reading the TSV at path.
func NewBulkSource(path string, logger logging.Logger) *BulkSource {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &BulkSource{path: path, logger: logger.Named("hgnc")}
}

func (s *BulkSource) Name() string                  { return "hgnc" }
func (s *BulkSource) FieldType() ontology.FieldType { return ontology.FieldAntigen }

func (s *BulkSource) Fetch(ctx context.Context) (*ontology.SourceExtract, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceUnavailable, "open hgnc tsv")
	}
	defer f.Close()
	return s.parse(ctx, f)
}

func (s *BulkSource) parse(ctx context.Context, r io.Reader) (*ontology.SourceExtract, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	headerRow, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceFormat, "hgnc tsv has no header")
	}
	cols := make(map[string]int, len(headerRow))
	for i, h := range headerRow {
		cols[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{colHGNCID, colSymbol} {
		if _, ok := cols[required]; !ok {
			return nil, errors.Newf(errors.ErrCodeSourceFormat, "hgnc tsv missing column %q", required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	extract := &ontology.SourceExtract{Name: s.Name()}
	for {
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), errors.ErrCodeSourceUnavailable, "hgnc parse cancelled")
		default:
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSourceFormat, "hgnc tsv row unreadable")
		}

		id := cell(row, colHGNCID)
		symbol := cell(row, colSymbol)
		if id == "" || symbol == "" {
			continue
		}

		rec := ontology.SourceRecord{
			ID:      id,
			Label:   symbol,
			Aliases: splitSymbols(cell(row, colAliasSymbol), cell(row, colPrevSymbol)),
		}
		attrs := make(map[string]string, 3)
		if lt := cell(row, colLocusType); lt != "" {
			attrs[AttrLocusType] = lt
		}
		if eg := cell(row, colEnsemblID); eg != "" {
			attrs[AttrEnsemblGeneID] = eg
		}
		if gn := cell(row, colName); gn != "" {
			attrs[AttrGeneName] = gn
		}
		if len(attrs) > 0 {
			rec.Attributes = attrs
		}
		extract.Records = append(extract.Records, rec)
	}

	s.logger.Info("hgnc extract built", logging.Int("records", len(extract.Records)))
	return extract, nil
}

// splitSymbols splits the pipe- or comma-delimited symbol list cells the
// complete set uses, dropping empties.
func splitSymbols(cells ...string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, c := range cells {
		for _, part := range strings.FieldsFunc(c, func(r rune) bool { return r == '|' || r == ',' }) {
			part = strings.Trim(strings.TrimSpace(part), `"`)
			if part == "" {
				continue
			}
			if _, dup := seen[part]; dup {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}

//Personal.AI order the ending
