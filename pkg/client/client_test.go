package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/OncoTerm/pkg/types/ontology"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, opts...)
	require.NoError(t, err)
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)

	_, err = NewClient("ftp://example.com")
	assert.Error(t, err)

	c, err := NewClient("http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.baseURL)
}

func TestClient_Resolve(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/resolve", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var req ontology.ResolveRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, ontology.FieldDrug, req.Field)

		writeJSON(t, w, http.StatusOK, ontology.ResolveResponse{
			Field: req.Field,
			Resolution: &ontology.Resolution{
				InputTerm:   req.Term,
				MatchStatus: ontology.StatusAliasMatch,
				Confidence:  1.0,
				MatchedEntity: &ontology.CanonicalEntity{
					PrimaryID:      "CHEMBL4297844",
					PreferredLabel: "trastuzumab deruxtecan",
					FieldType:      ontology.FieldDrug,
				},
			},
		})
	})

	out, err := client.Resolve(context.Background(), ontology.FieldDrug, "Enhertu")
	require.NoError(t, err)
	assert.Equal(t, ontology.StatusAliasMatch, out.Resolution.MatchStatus)
	assert.Equal(t, "CHEMBL4297844", out.Resolution.MatchedEntity.PrimaryID)
}

func TestClient_Resolve_InvalidRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.Resolve(context.Background(), "molecule", "x")
	assert.Error(t, err)

	_, err = client.Resolve(context.Background(), ontology.FieldDrug, "")
	assert.Error(t, err)
}

func TestClient_Enrich(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/enrich", r.URL.Path)

		var req ontology.EnrichRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Entries, 1)

		writeJSON(t, w, http.StatusOK, ontology.EnrichResponse{
			RunID:    "run-1",
			Entities: []*ontology.EnrichedEntity{{Source: map[string]interface{}{"drugName": "Enhertu"}}},
			Summary:  ontology.Summary{Entities: 1},
		})
	})

	entries := []ontology.Entry{{
		ID:             "e1",
		ExtractedDrugs: []ontology.DrugMention{{DrugName: "Enhertu"}},
	}}
	out, err := client.Enrich(context.Background(), entries)
	require.NoError(t, err)
	assert.Equal(t, "run-1", out.RunID)
	assert.Len(t, out.Entities, 1)

	_, err = client.Enrich(context.Background(), nil)
	assert.Error(t, err)
}

func TestClient_Run_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, ontology.ErrorResponse{
			Code:    "COMMON_002",
			Message: "run not found",
		})
	})

	_, err := client.Run(context.Background(), "missing")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "COMMON_002", apiErr.Code)
}

func TestClient_UnknownTerms(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/unknowns", r.URL.Path)
		assert.Equal(t, "disease", r.URL.Query().Get("field"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))

		writeJSON(t, w, http.StatusOK, ontology.UnknownTermsResponse{
			Field: ontology.FieldDisease,
			Terms: []ontology.UnknownTerm{{FieldType: ontology.FieldDisease, Term: "xyzoma", Count: 3}},
		})
	})

	out, err := client.UnknownTerms(context.Background(), ontology.FieldDisease, 50)
	require.NoError(t, err)
	require.Len(t, out.Terms, 1)
	assert.Equal(t, 3, out.Terms[0].Count)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(t, w, http.StatusOK, ontology.StatusResponse{Ready: true})
	}, WithRetryWait(time.Millisecond, 5*time.Millisecond))

	out, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Ready)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(t, w, http.StatusBadRequest, ontology.ErrorResponse{Code: "COMMON_001", Message: "bad"})
	})

	_, err := client.Status(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

//Personal.AI order the ending
