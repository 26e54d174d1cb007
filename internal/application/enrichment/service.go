package enrichment

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

// RunStore persists run output.  The PostgreSQL repository satisfies it via a
// thin adapter in the binaries; a nil store disables persistence.
type RunStore interface {
	SaveRun(ctx context.Context, result *RunResult) error
	SaveUnknownTerms(ctx context.Context, terms []UnknownTerm) error
}

// EventSink publishes enrichment events.  The Kafka producer satisfies it; a
// nil sink disables publishing.
type EventSink interface {
	EntityEnriched(ctx context.Context, runID string, entity *ontology.EnrichedEntity) error
	RunCompleted(ctx context.Context, runID string, summary Summary) error
}

// RunResult is the outcome of one enrichment run.
type RunResult struct {
	RunID      string                     `json:"run_id"`
	StartedAt  time.Time                  `json:"started_at"`
	FinishedAt time.Time                  `json:"finished_at"`
	Entities   []*ontology.EnrichedEntity `json:"entities"`
	Summary    Summary                    `json:"summary"`
	Unknowns   []UnknownTerm              `json:"unknowns,omitempty"`
}

// ServiceConfig carries the tunables of the enrichment service.
type ServiceConfig struct {
	Pipeline PipelineConfig
	Builder  BuilderConfig

	// Metric selects the fuzzy scorer; empty means Levenshtein.
	Metric ontology.SimilarityMetric

	// FuzzyThreshold below which fuzzy candidates are rejected; zero means
	// the default.
	FuzzyThreshold float64

	// Hierarchy supplies precomputed disease ancestor paths for the merge
	// step.  Nil leaves HierarchyPath empty on disease summaries.
	Hierarchy *ontology.DiseaseHierarchy
}

// Service owns the dictionary lifecycle and drives enrichment runs.  It is
// safe for concurrent use once Prepare has succeeded.
type Service struct {
	builder         *Builder
	antigenFallback *ontology.Dictionary
	store           RunStore
	events          EventSink
	observer        Observer
	cfg             ServiceConfig
	logger          logging.Logger

	now func() time.Time

	mu       sync.RWMutex
	pipeline *Pipeline
	dicts    *DictionarySet
	builtAt  time.Time
}

// NewService wires the enrichment service.  builder is required;
// antigenFallback, store, events, and observer may be nil.
func NewService(
	builder *Builder,
	antigenFallback *ontology.Dictionary,
	store RunStore,
	events EventSink,
	observer Observer,
	cfg ServiceConfig,
	logger logging.Logger,
) (*Service, error) {
	if builder == nil {
		return nil, errors.InvalidParam("service requires a dictionary builder")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.Metric == "" {
		cfg.Metric = ontology.MetricLevenshtein
	}
	if cfg.FuzzyThreshold == 0 {
		cfg.FuzzyThreshold = ontology.DefaultFuzzyThreshold
	}
	return &Service{
		builder:         builder,
		antigenFallback: antigenFallback,
		store:           store,
		events:          events,
		observer:        observer,
		cfg:             cfg,
		logger:          logger.Named("enrichment"),
		now:             time.Now,
	}, nil
}

// Prepare builds the dictionaries and assembles the pipeline.  It must be
// called before Enrich or Resolve; calling it again rebuilds from fresh
// source data and atomically swaps the pipeline.
func (s *Service) Prepare(ctx context.Context) (*DictionarySet, error) {
	started := s.now()
	ds := s.builder.Build(ctx)
	if len(ds.Dictionaries) == 0 {
		return nil, errors.New(errors.ErrCodeServiceUnavailable,
			"every dictionary build failed; nothing to resolve against")
	}

	scorer, err := ontology.NewScorer(s.cfg.Metric)
	if err != nil {
		return nil, err
	}
	cascade, err := ontology.NewCascade(scorer, s.cfg.FuzzyThreshold)
	if err != nil {
		return nil, err
	}

	cache := NewResolutionCache()
	resolvers, err := ds.Resolvers(cascade, s.antigenFallback, cache)
	if err != nil {
		return nil, err
	}
	pipeline, err := NewPipeline(resolvers, NewMerger(s.cfg.Hierarchy), cache, s.cfg.Pipeline, s.logger, s.observer)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.pipeline = pipeline
	s.dicts = ds
	s.builtAt = s.now()
	s.mu.Unlock()

	s.logger.Info("dictionaries ready",
		logging.Int("built", len(ds.Dictionaries)),
		logging.Int("failed", len(ds.Failures)),
		logging.Duration("elapsed", s.now().Sub(started)),
	)
	return ds, nil
}

// Ready reports whether Prepare has completed at least once.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pipeline != nil
}

// BuiltAt returns when the current dictionaries were built.
func (s *Service) BuiltAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.builtAt
}

// Dictionaries returns the current dictionary set, nil before Prepare.
func (s *Service) Dictionaries() *DictionarySet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dicts
}

func (s *Service) currentPipeline() (*Pipeline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pipeline == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "dictionaries not built yet")
	}
	return s.pipeline, nil
}

// Resolve answers a single ad-hoc term lookup against the current
// dictionaries.
func (s *Service) Resolve(field ontology.FieldType, term string) (*ontology.ResolutionResult, error) {
	if !field.IsValid() {
		return nil, errors.InvalidParam("unknown field type " + string(field))
	}
	p, err := s.currentPipeline()
	if err != nil {
		return nil, err
	}
	r, ok := p.resolvers[field]
	if !ok {
		return nil, errors.NotFound("no resolver for field type " + string(field))
	}
	return r.ResolveField(term), nil
}

// EnrichEntries runs the pipeline over literature entries.
func (s *Service) EnrichEntries(ctx context.Context, entries []Entry) (*RunResult, error) {
	return s.Enrich(ctx, Mentions(entries))
}

// Enrich runs the pipeline over raw mentions, persists the output when a
// store is configured, and publishes run events when a sink is configured.
// Persistence and publish failures are logged; the run result is still
// returned so callers keep their output.
func (s *Service) Enrich(ctx context.Context, mentions []RawMention) (*RunResult, error) {
	p, err := s.currentPipeline()
	if err != nil {
		return nil, err
	}
	if len(mentions) == 0 {
		return nil, errors.InvalidParam("no mentions to enrich")
	}

	runID := uuid.NewString()
	started := s.now()
	log := s.logger.With(logging.String("run_id", runID))
	log.Info("enrichment run started", logging.Int("mentions", len(mentions)))

	entities, stats, err := p.Run(ctx, mentions)
	if err != nil {
		return nil, err
	}

	result := &RunResult{
		RunID:      runID,
		StartedAt:  started,
		FinishedAt: s.now(),
		Entities:   entities,
		Summary:    stats.Summarize(),
		Unknowns:   stats.UnknownTerms(),
	}

	s.persist(ctx, log, result)
	s.publish(ctx, log, result)

	log.Info("enrichment run finished",
		logging.Int("entities", len(entities)),
		logging.Int("unknown_terms", len(result.Unknowns)),
		logging.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)),
	)
	return result, nil
}

func (s *Service) persist(ctx context.Context, log logging.Logger, result *RunResult) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveRun(ctx, result); err != nil {
		log.Error("run persistence failed", logging.Err(err))
		return
	}
	if len(result.Unknowns) > 0 {
		if err := s.store.SaveUnknownTerms(ctx, result.Unknowns); err != nil {
			log.Error("unknown-term persistence failed", logging.Err(err))
		}
	}
}

func (s *Service) publish(ctx context.Context, log logging.Logger, result *RunResult) {
	if s.events == nil {
		return
	}
	for _, entity := range result.Entities {
		if err := s.events.EntityEnriched(ctx, result.RunID, entity); err != nil {
			log.Error("entity event publish failed", logging.Err(err))
			break
		}
	}
	if err := s.events.RunCompleted(ctx, result.RunID, result.Summary); err != nil {
		log.Error("run event publish failed", logging.Err(err))
	}
}

//Personal.AI order the ending
