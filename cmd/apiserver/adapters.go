package main

import (
	"context"
	"time"

	"github.com/turtacn/OncoTerm/internal/application/enrichment"
	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/internal/infrastructure/database/postgres"
	"github.com/turtacn/OncoTerm/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/OncoTerm/internal/infrastructure/database/redis"
	"github.com/turtacn/OncoTerm/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/OncoTerm/internal/interfaces/http/handlers"
)

// ─────────────────────────────────────────────────────────────────────────────
// Persistence adapters
// ─────────────────────────────────────────────────────────────────────────────

// runStoreAdapter persists enrichment runs through the PostgreSQL repository.
type runStoreAdapter struct {
	repo *repositories.EnrichmentRepository
}

func (a *runStoreAdapter) SaveRun(ctx context.Context, result *enrichment.RunResult) error {
	record := &repositories.RunRecord{
		ID:         result.RunID,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		Entities:   len(result.Entities),
		Summary:    result.Summary,
	}
	if err := a.repo.SaveRun(ctx, record); err != nil {
		return err
	}

	entities := make([]repositories.EntityRecord, 0, len(result.Entities))
	for _, entity := range result.Entities {
		entities = append(entities, repositories.EntityRecord{
			EntryID: enrichment.EntityEntryID(entity),
			Entity:  entity,
		})
	}
	return a.repo.SaveEntities(ctx, result.RunID, entities)
}

func (a *runStoreAdapter) SaveUnknownTerms(ctx context.Context, terms []enrichment.UnknownTerm) error {
	return a.repo.SaveUnknownTerms(ctx, terms)
}

// reportStoreAdapter serves the report endpoints from the same repository.
type reportStoreAdapter struct {
	repo *repositories.EnrichmentRepository
}

func (a *reportStoreAdapter) Run(ctx context.Context, runID string) (*handlers.RunReport, error) {
	record, err := a.repo.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	return &handlers.RunReport{
		RunID:      record.ID,
		StartedAt:  record.StartedAt,
		FinishedAt: record.FinishedAt,
		Entities:   record.Entities,
		Summary:    record.Summary,
	}, nil
}

func (a *reportStoreAdapter) UnknownTerms(ctx context.Context, field ontology.FieldType, limit int) ([]enrichment.UnknownTerm, error) {
	return a.repo.UnknownTerms(ctx, field, limit)
}

// ─────────────────────────────────────────────────────────────────────────────
// Event adapter
// ─────────────────────────────────────────────────────────────────────────────

// eventSinkAdapter publishes enrichment events to Kafka.
type eventSinkAdapter struct {
	producer *kafka.Producer
}

func (a *eventSinkAdapter) EntityEnriched(ctx context.Context, runID string, entity *ontology.EnrichedEntity) error {
	return a.producer.PublishEntityEnriched(ctx, kafka.EntityEnrichedPayload{
		RunID:      runID,
		EntryID:    enrichment.EntityEntryID(entity),
		Entity:     entity,
		EnrichedAt: time.Now().UTC(),
	})
}

func (a *eventSinkAdapter) RunCompleted(ctx context.Context, runID string, summary enrichment.Summary) error {
	return a.producer.PublishRunCompleted(ctx, kafka.RunCompletedPayload{
		RunID:       runID,
		Summary:     summary,
		CompletedAt: time.Now().UTC(),
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Health adapters
// ─────────────────────────────────────────────────────────────────────────────

type postgresHealth struct {
	conn *postgres.Connection
}

func (h *postgresHealth) Name() string { return "postgres" }

func (h *postgresHealth) HealthCheck(ctx context.Context) error {
	return h.conn.HealthCheck(ctx)
}

type redisHealth struct {
	client *redis.Client
}

func (h *redisHealth) Name() string { return "redis" }

func (h *redisHealth) HealthCheck(ctx context.Context) error {
	return h.client.Ping(ctx)
}

//Personal.AI order the ending
