package enrichment

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

// RawMention is one extracted drug mention awaiting enrichment: the original
// record fields verbatim plus the term per resolvable field.  Multi-valued
// fields (cancer indications) carry every listed term in order.
type RawMention struct {
	EntryID string                          `json:"entry_id"`
	Source  map[string]interface{}          `json:"source"`
	Terms   map[ontology.FieldType][]string `json:"terms"`
}

// Observer receives resolution events for metric export.  A nil Observer is
// valid and ignored.
type Observer interface {
	ObserveResolution(field ontology.FieldType, status ontology.MatchStatus)
	ObserveEntity()
}

// PipelineConfig tunes the enrichment run.
type PipelineConfig struct {
	// Concurrency bounds the worker pool over source entities.
	Concurrency int `mapstructure:"concurrency" json:"concurrency"`
}

// DefaultPipelineConfig returns production defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{Concurrency: 8}
}

// Pipeline drives one enrichment run: per-mention field resolution through
// the registered resolvers, unified merge, and statistics.  Dictionaries are
// built before the pipeline is constructed and are immutable for its
// lifetime; the resolution cache is purged at Run start.
type Pipeline struct {
	resolvers map[ontology.FieldType]FieldResolver
	merger    *Merger
	cache     ResolutionCache
	logger    logging.Logger
	observer  Observer
	cfg       PipelineConfig
}

// NewPipeline constructs a Pipeline.  Every field type a mention may carry
// needs a registered resolver; fields whose dictionary build failed are
// registered with NewUnknownResolver by the assembly layer so the field still
// receives a match_status of unknown.
func NewPipeline(
	resolvers []FieldResolver,
	merger *Merger,
	cache ResolutionCache,
	cfg PipelineConfig,
	logger logging.Logger,
	observer Observer,
) (*Pipeline, error) {
	if merger == nil || cache == nil {
		return nil, errors.InvalidParam("pipeline requires merger and cache")
	}
	if len(resolvers) == 0 {
		return nil, errors.InvalidParam("pipeline requires at least one field resolver")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultPipelineConfig().Concurrency
	}
	byField := make(map[ontology.FieldType]FieldResolver, len(resolvers))
	for _, r := range resolvers {
		if _, dup := byField[r.FieldType()]; dup {
			return nil, errors.InvalidParam("duplicate resolver for field type " + string(r.FieldType()))
		}
		byField[r.FieldType()] = r
	}
	return &Pipeline{
		resolvers: byField,
		merger:    merger,
		cache:     cache,
		logger:    logger.Named("pipeline"),
		observer:  observer,
		cfg:       cfg,
	}, nil
}

// Run enriches a batch of mentions.  Entities are processed by a bounded
// worker pool; a malformed entity is emitted with its successfully resolved
// fields plus a processing note and never aborts the batch.  Output order
// matches input order.
func (p *Pipeline) Run(ctx context.Context, mentions []RawMention) ([]*ontology.EnrichedEntity, *RunStats, error) {
	p.cache.Purge()
	stats := newRunStats()

	out := make([]*ontology.EnrichedEntity, len(mentions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)

	for i := range mentions {
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			out[i] = p.enrichOne(&mentions[i], stats)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrCodePipelineAborted, "enrichment run interrupted")
	}

	p.logger.Info("enrichment run complete",
		logging.Int("entities", len(out)),
		logging.Int("cached_resolutions", p.cache.Len()),
	)
	return out, stats, nil
}

// enrichOne resolves every field present in one mention and merges the
// results.  Panics from a malformed entity are contained per entity.
func (p *Pipeline) enrichOne(m *RawMention, stats *RunStats) (enriched *ontology.EnrichedEntity) {
	var notes []string
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("entity enrichment panicked",
				logging.String("entry_id", m.EntryID),
				logging.Any("panic", r),
			)
			enriched = p.merger.Merge(m.Source, nil)
			enriched.ProcessingNotes = append(notes, fmt.Sprintf("enrichment failed: %v", r))
		}
	}()

	resolutions := make(map[ontology.FieldType][]*ontology.ResolutionResult)
	for field, terms := range m.Terms {
		if len(terms) == 0 {
			continue
		}
		resolver, ok := p.resolvers[field]
		if !ok {
			notes = append(notes, "no resolver registered for field "+string(field))
			continue
		}
		results := make([]*ontology.ResolutionResult, 0, len(terms))
		for _, term := range terms {
			res := resolver.ResolveField(term)
			results = append(results, res)
			stats.record(field, res.MatchStatus, res.NormalizedTerm)
			if p.observer != nil {
				p.observer.ObserveResolution(field, res.MatchStatus)
			}
		}
		resolutions[field] = results
	}

	enriched = p.merger.Merge(m.Source, resolutions)
	enriched.ProcessingNotes = notes
	stats.recordEntity()
	if p.observer != nil {
		p.observer.ObserveEntity()
	}
	return enriched
}

// ─────────────────────────────────────────────────────────────────────────────
// Dictionary assembly with per-field-type failure containment
// ─────────────────────────────────────────────────────────────────────────────

// SourceSet maps each field type to the ordered source extracts its
// dictionary is built from.  Order carries alias priority.
type SourceSet map[ontology.FieldType][]ontology.SourceExtract

// DictionarySet is the per-run collection of built dictionaries plus the
// per-field build failures that were contained.
type DictionarySet struct {
	Dictionaries map[ontology.FieldType]*ontology.Dictionary
	Failures     map[ontology.FieldType]error
}

// BuildDictionaries builds every field type's dictionary concurrently.  A
// build failure (source format, unreachable source) is fatal for that field
// type only: it is recorded in Failures and the remaining field types still
// build.  No resolver may run until this returns.
func BuildDictionaries(ctx context.Context, set SourceSet, logger logging.Logger) *DictionarySet {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	log := logger.Named("dictionary")

	var mu sync.Mutex
	ds := &DictionarySet{
		Dictionaries: make(map[ontology.FieldType]*ontology.Dictionary, len(set)),
		Failures:     make(map[ontology.FieldType]error),
	}

	g, _ := errgroup.WithContext(ctx)
	for field, extracts := range set {
		field, extracts := field, extracts
		g.Go(func() error {
			d, err := ontology.BuildDictionary(field, extracts...)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Error("dictionary build failed; field type will resolve unknown",
					logging.String("field", string(field)),
					logging.Err(err),
				)
				ds.Failures[field] = err
				return nil
			}
			log.Info("dictionary built",
				logging.String("field", string(field)),
				logging.Int("entities", d.Size()),
			)
			ds.Dictionaries[field] = d
			return nil
		})
	}
	_ = g.Wait() // individual failures are contained, never propagated
	return ds
}

//Personal.AI order the ending
