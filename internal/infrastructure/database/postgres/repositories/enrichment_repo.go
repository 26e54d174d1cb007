// Package repositories holds the PostgreSQL persistence for enrichment runs:
// enriched entities, per-run summaries, and the unknown-term report feeding
// dictionary curation.
package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/OncoTerm/internal/application/enrichment"
	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Records
// ─────────────────────────────────────────────────────────────────────────────

// RunRecord is one persisted enrichment run.
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Entities   int
	Summary    enrichment.Summary
}

// EntityRecord pairs an enriched entity with its source entry ID for
// persistence.
type EntityRecord struct {
	EntryID string
	Entity  *ontology.EnrichedEntity
}

// ─────────────────────────────────────────────────────────────────────────────
// EnrichmentRepository
// ─────────────────────────────────────────────────────────────────────────────

// EnrichmentRepository is the PostgreSQL store for enrichment output.
type EnrichmentRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewEnrichmentRepository constructs a ready-to-use repository.
func NewEnrichmentRepository(pool *pgxpool.Pool, logger logging.Logger) *EnrichmentRepository {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &EnrichmentRepository{pool: pool, logger: logger.Named("enrichment_repo")}
}

// SaveRun persists the run header and summary.
func (r *EnrichmentRepository) SaveRun(ctx context.Context, run *RunRecord) error {
	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "marshal run summary")
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO enrichment_runs (id, started_at, finished_at, entities, summary)
		VALUES ($1, $2, $3, $4, $5)`,
		run.ID, run.StartedAt, run.FinishedAt, run.Entities, summaryJSON,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert enrichment run")
	}
	return nil
}

// GetRun loads one run header by ID.
func (r *EnrichmentRepository) GetRun(ctx context.Context, runID string) (*RunRecord, error) {
	var (
		run         RunRecord
		summaryJSON []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, started_at, finished_at, entities, summary
		FROM enrichment_runs WHERE id = $1`, runID,
	).Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Entities, &summaryJSON)
	if err == pgx.ErrNoRows {
		return nil, errors.New(errors.ErrCodeRunNotFound, "pipeline run not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load enrichment run")
	}
	if err := json.Unmarshal(summaryJSON, &run.Summary); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "unmarshal run summary")
	}
	return &run, nil
}

// SaveEntities bulk-inserts the enriched entities of one run using the COPY
// protocol.
func (r *EnrichmentRepository) SaveEntities(ctx context.Context, runID string, records []EntityRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		sourceJSON, err := json.Marshal(rec.Entity.Source)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "marshal entity source")
		}
		ontologyJSON, err := json.Marshal(rec.Entity.Ontology)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "marshal entity ontology")
		}
		rows = append(rows, []interface{}{
			runID, rec.EntryID, sourceJSON, ontologyJSON, rec.Entity.ProcessingNotes,
		})
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"enriched_entities"},
		[]string{"run_id", "entry_id", "source", "ontology", "processing_notes"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to copy enriched entities")
	}

	r.logger.Info("persisted enriched entities",
		logging.String("run_id", runID),
		logging.Int64("rows", n),
	)
	return nil
}

// GetEntity loads one enriched entity of a run by its source entry ID.
func (r *EnrichmentRepository) GetEntity(ctx context.Context, runID, entryID string) (*ontology.EnrichedEntity, error) {
	var (
		sourceJSON   []byte
		ontologyJSON []byte
		notes        []string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT source, ontology, processing_notes
		FROM enriched_entities WHERE run_id = $1 AND entry_id = $2`, runID, entryID,
	).Scan(&sourceJSON, &ontologyJSON, &notes)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("enriched entity not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load enriched entity")
	}

	entity := &ontology.EnrichedEntity{ProcessingNotes: notes}
	if err := json.Unmarshal(sourceJSON, &entity.Source); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "unmarshal entity source")
	}
	if err := json.Unmarshal(ontologyJSON, &entity.Ontology); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "unmarshal entity ontology")
	}
	return entity, nil
}

// SaveUnknownTerms folds a run's unknown terms into the curation backlog,
// accumulating occurrence counts across runs.
func (r *EnrichmentRepository) SaveUnknownTerms(ctx context.Context, terms []enrichment.UnknownTerm) error {
	if len(terms) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, t := range terms {
		batch.Queue(`
			INSERT INTO unknown_terms (field_type, term, occurrences, last_seen_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (field_type, term)
			DO UPDATE SET occurrences = unknown_terms.occurrences + EXCLUDED.occurrences,
			              last_seen_at = now()`,
			t.FieldType.String(), t.Term, t.Count,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range terms {
		if _, err := results.Exec(); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to upsert unknown term")
		}
	}
	return nil
}

// UnknownTerms returns the curation backlog for one field type, most frequent
// first.  limit <= 0 means no limit.
func (r *EnrichmentRepository) UnknownTerms(ctx context.Context, field ontology.FieldType, limit int) ([]enrichment.UnknownTerm, error) {
	query := `
		SELECT field_type, term, occurrences
		FROM unknown_terms WHERE field_type = $1
		ORDER BY occurrences DESC, term ASC`
	args := []interface{}{field.String()}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query unknown terms")
	}
	defer rows.Close()

	var out []enrichment.UnknownTerm
	for rows.Next() {
		var (
			ft   string
			term string
			n    int
		)
		if err := rows.Scan(&ft, &term, &n); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan unknown term")
		}
		out = append(out, enrichment.UnknownTerm{
			FieldType: ontology.FieldType(ft),
			Term:      term,
			Count:     n,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read unknown terms")
	}
	return out, nil
}

//Personal.AI order the ending
