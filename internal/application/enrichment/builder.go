package enrichment

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

// Extractor produces one source extract for a field type's dictionary build.
// It is satisfied by every source in the infrastructure layer.
type Extractor interface {
	Name() string
	FieldType() ontology.FieldType
	Fetch(ctx context.Context) (*ontology.SourceExtract, error)
}

// SnapshotStore persists built source extracts so a run can be replayed
// without re-fetching every remote ontology.
type SnapshotStore interface {
	// Save persists the extracts for one field type and returns the object key.
	Save(ctx context.Context, field ontology.FieldType, sources []ontology.SourceExtract) (string, error)

	// LatestSources returns the most recently saved extracts for a field
	// type.  A NotFound error means no snapshot exists yet.
	LatestSources(ctx context.Context, field ontology.FieldType) ([]ontology.SourceExtract, error)
}

// BuilderConfig controls where dictionary source data comes from.
type BuilderConfig struct {
	// UseSnapshots loads the latest persisted snapshot per field type and
	// only falls back to live fetching when none exists.
	UseSnapshots bool `yaml:"use_snapshots" mapstructure:"use_snapshots"`

	// SaveSnapshots persists freshly fetched extracts after a successful
	// fetch.  A failed save is logged and never fails the build.
	SaveSnapshots bool `yaml:"save_snapshots" mapstructure:"save_snapshots"`
}

// Builder assembles per-field dictionaries from registered extractors.  It
// owns the fetch step; the containment semantics of the build itself live in
// BuildDictionaries.
type Builder struct {
	extractors map[ontology.FieldType][]Extractor
	store      SnapshotStore
	cfg        BuilderConfig
	logger     logging.Logger
}

// NewBuilder registers extractors grouped by field type.  Registration order
// within a field type carries alias priority.  store may be nil when
// snapshots are disabled.
func NewBuilder(extractors []Extractor, store SnapshotStore, cfg BuilderConfig, logger logging.Logger) (*Builder, error) {
	if len(extractors) == 0 {
		return nil, errors.InvalidParam("builder requires at least one extractor")
	}
	if store == nil && (cfg.UseSnapshots || cfg.SaveSnapshots) {
		return nil, errors.InvalidParam("snapshot options require a snapshot store")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	byField := make(map[ontology.FieldType][]Extractor)
	for _, e := range extractors {
		if !e.FieldType().IsValid() {
			return nil, errors.InvalidParam("extractor " + e.Name() + " has invalid field type " + string(e.FieldType()))
		}
		byField[e.FieldType()] = append(byField[e.FieldType()], e)
	}
	return &Builder{
		extractors: byField,
		store:      store,
		cfg:        cfg,
		logger:     logger.Named("builder"),
	}, nil
}

// Build fetches every field type's extracts concurrently and builds the
// dictionaries.  A fetch failure is fatal for that field type only; when a
// snapshot store is configured the field falls back to its latest snapshot
// before giving up.
func (b *Builder) Build(ctx context.Context) *DictionarySet {
	var mu sync.Mutex
	set := make(SourceSet, len(b.extractors))
	failures := make(map[ontology.FieldType]error)

	g, gctx := errgroup.WithContext(ctx)
	for field, extractors := range b.extractors {
		field, extractors := field, extractors
		g.Go(func() error {
			extracts, err := b.fieldExtracts(gctx, field, extractors)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[field] = err
				return nil
			}
			set[field] = extracts
			return nil
		})
	}
	_ = g.Wait()

	ds := BuildDictionaries(ctx, set, b.logger)
	for field, err := range failures {
		ds.Failures[field] = err
	}
	return ds
}

// fieldExtracts gathers one field type's extracts, honouring the snapshot
// configuration.
func (b *Builder) fieldExtracts(ctx context.Context, field ontology.FieldType, extractors []Extractor) ([]ontology.SourceExtract, error) {
	log := b.logger.With(logging.String("field", string(field)))

	if b.cfg.UseSnapshots {
		extracts, err := b.store.LatestSources(ctx, field)
		if err == nil {
			log.Info("dictionary sources loaded from snapshot",
				logging.Int("sources", len(extracts)))
			return extracts, nil
		}
		if !errors.IsNotFound(err) {
			return nil, err
		}
		log.Info("no snapshot for field type, fetching live")
	}

	extracts := make([]ontology.SourceExtract, 0, len(extractors))
	for _, e := range extractors {
		extract, err := e.Fetch(ctx)
		if err != nil {
			log.Error("source fetch failed",
				logging.String("source", e.Name()),
				logging.Err(err),
			)
			if b.store != nil && !b.cfg.UseSnapshots {
				return b.snapshotFallback(ctx, field, log, err)
			}
			return nil, err
		}
		extracts = append(extracts, *extract)
	}

	if b.cfg.SaveSnapshots {
		if key, err := b.store.Save(ctx, field, extracts); err != nil {
			log.Warn("snapshot save failed", logging.Err(err))
		} else {
			log.Info("snapshot saved", logging.String("key", key))
		}
	}
	return extracts, nil
}

// snapshotFallback serves a stale snapshot when a live fetch fails, keeping
// the field type resolvable on the last known-good data.
func (b *Builder) snapshotFallback(ctx context.Context, field ontology.FieldType, log logging.Logger, fetchErr error) ([]ontology.SourceExtract, error) {
	extracts, err := b.store.LatestSources(ctx, field)
	if err != nil {
		// Report the fetch error: it is the actionable one.
		return nil, fetchErr
	}
	log.Warn("falling back to latest snapshot after fetch failure",
		logging.Int("sources", len(extracts)))
	return extracts, nil
}

// Resolvers builds the pipeline's resolver set from the built dictionaries.
// Field types with no dictionary, whether never sourced or failed, resolve
// unknown.  antigenFallback is the curated tumor-associated antigen
// dictionary and may be nil.
func (ds *DictionarySet) Resolvers(cascade *ontology.Cascade, antigenFallback *ontology.Dictionary, cache ResolutionCache) ([]FieldResolver, error) {
	if cascade == nil || cache == nil {
		return nil, errors.InvalidParam("resolver assembly requires cascade and cache")
	}
	fields := ontology.AllFieldTypes()
	out := make([]FieldResolver, 0, len(fields))
	for _, field := range fields {
		dict, ok := ds.Dictionaries[field]
		if !ok {
			out = append(out, NewUnknownResolver(field))
			continue
		}
		var (
			r   FieldResolver
			err error
		)
		switch field {
		case ontology.FieldDrug:
			r, err = NewDrugResolver(cascade, dict, cache)
		case ontology.FieldAntigen:
			r, err = NewAntigenResolver(cascade, dict, antigenFallback, cache)
		case ontology.FieldDisease:
			r, err = NewDiseaseResolver(cascade, dict, cache)
		case ontology.FieldPayload:
			r, err = NewPayloadResolver(cascade, dict, cache)
		case ontology.FieldLinker:
			r, err = NewLinkerResolver(cascade, dict, cache)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

//Personal.AI order the ending
