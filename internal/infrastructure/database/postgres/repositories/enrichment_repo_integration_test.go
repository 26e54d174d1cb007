//go:build integration

package repositories_test

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/OncoTerm/internal/application/enrichment"
	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/internal/infrastructure/database/postgres"
	"github.com/turtacn/OncoTerm/internal/infrastructure/database/postgres/repositories"
)

func setupTestDB(t *testing.T) (*postgres.Connection, string) {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "oncoterm",
				"POSTGRES_PASSWORD": "oncoterm",
				"POSTGRES_DB":       "oncoterm_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := postgres.PostgresConfig{
		Host:     host,
		Port:     port.Int(),
		Database: "oncoterm_test",
		Username: "oncoterm",
		Password: "oncoterm",
	}

	_, thisFile, _, _ := runtime.Caller(0)
	migrations := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "..", "..", "migrations")
	require.NoError(t, postgres.RunMigrations(cfg.DSN(), "file://"+migrations))

	conn, err := postgres.NewConnection(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	return conn, cfg.DSN()
}

func TestEnrichmentRepository_RoundTrip(t *testing.T) {
	conn, _ := setupTestDB(t)
	repo := repositories.NewEnrichmentRepository(conn.Pool(), nil)
	ctx := context.Background()

	runID := uuid.NewString()
	started := time.Now().UTC().Truncate(time.Millisecond)
	run := &repositories.RunRecord{
		ID:         runID,
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
		Entities:   1,
		Summary: enrichment.Summary{
			Entities: 1,
			Fields: map[string]enrichment.FieldReport{
				"drug": {Total: 1, MatchRate: 1.0, ByStatus: map[ontology.MatchStatus]int{
					ontology.StatusAliasMatch: 1,
				}},
			},
		},
	}
	require.NoError(t, repo.SaveRun(ctx, run))

	entity := &ontology.EnrichedEntity{
		Source: map[string]interface{}{"drugName": "Enhertu"},
		Ontology: map[ontology.FieldType]*ontology.FieldSummary{
			ontology.FieldDrug: {
				PrimaryID:      "CHEMBL4297844",
				PreferredLabel: "TRASTUZUMAB DERUXTECAN",
				MatchStatus:    ontology.StatusAliasMatch,
				Confidence:     1.0,
			},
		},
	}
	require.NoError(t, repo.SaveEntities(ctx, runID, []repositories.EntityRecord{
		{EntryID: "entry-1", Entity: entity},
	}))

	loadedRun, err := repo.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, 1, loadedRun.Entities)
	assert.Equal(t, 1.0, loadedRun.Summary.Fields["drug"].MatchRate)

	loaded, err := repo.GetEntity(ctx, runID, "entry-1")
	require.NoError(t, err)
	assert.Equal(t, "Enhertu", loaded.Source["drugName"])
	require.Contains(t, loaded.Ontology, ontology.FieldDrug)
	assert.Equal(t, "CHEMBL4297844", loaded.Ontology[ontology.FieldDrug].PrimaryID)
}

func TestEnrichmentRepository_UnknownTermsAccumulate(t *testing.T) {
	conn, _ := setupTestDB(t)
	repo := repositories.NewEnrichmentRepository(conn.Pool(), nil)
	ctx := context.Background()

	first := []enrichment.UnknownTerm{
		{FieldType: ontology.FieldAntigen, Term: "xyzzy123", Count: 2},
		{FieldType: ontology.FieldDisease, Term: "mystery syndrome", Count: 1},
	}
	require.NoError(t, repo.SaveUnknownTerms(ctx, first))

	// A second run seeing the same antigen term folds into the backlog.
	second := []enrichment.UnknownTerm{
		{FieldType: ontology.FieldAntigen, Term: "xyzzy123", Count: 3},
	}
	require.NoError(t, repo.SaveUnknownTerms(ctx, second))

	terms, err := repo.UnknownTerms(ctx, ontology.FieldAntigen, 10)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "xyzzy123", terms[0].Term)
	assert.Equal(t, 5, terms[0].Count)

	diseases, err := repo.UnknownTerms(ctx, ontology.FieldDisease, 0)
	require.NoError(t, err)
	require.Len(t, diseases, 1)
	assert.Equal(t, "mystery syndrome", diseases[0].Term)
}

func TestGetRun_NotFound(t *testing.T) {
	conn, _ := setupTestDB(t)
	repo := repositories.NewEnrichmentRepository(conn.Pool(), nil)

	_, err := repo.GetRun(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.Contains(t, fmt.Sprint(err), "run not found")
}

//Personal.AI order the ending
