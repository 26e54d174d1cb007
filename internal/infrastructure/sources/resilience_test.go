package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

func fastHTTPConfig() HTTPConfig {
	return HTTPConfig{
		RequestTimeout: time.Second,
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
	}
}

func TestHTTPClient_GetJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"value":"ok"}`))
	}))
	defer server.Close()

	client := NewHTTPClient("test", fastHTTPConfig(), nil)
	var out struct {
		Value string `json:"value"`
	}
	err := client.GetJSON(context.Background(), server.URL, nil, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Value)
}

func TestHTTPClient_GetJSON_RetriesServerError(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewHTTPClient("test", fastHTTPConfig(), nil)
	var out map[string]interface{}
	err := client.GetJSON(context.Background(), server.URL, nil, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestHTTPClient_GetJSON_NoRetryOnAuthFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewHTTPClient("test", fastHTTPConfig(), nil)
	var out map[string]interface{}
	err := client.GetJSON(context.Background(), server.URL, nil, nil, &out)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceAuthFailed))
	assert.Equal(t, int32(1), attempts.Load())
}

func TestHTTPClient_GetJSON_RateLimitedExhaustsRetries(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewHTTPClient("test", fastHTTPConfig(), nil)
	var out map[string]interface{}
	err := client.GetJSON(context.Background(), server.URL, nil, nil, &out)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceRateLimited))
	// first attempt + MaxRetries
	assert.Equal(t, int32(3), attempts.Load())
}

func TestHTTPClient_GetJSON_MalformedBodyNotRetried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewHTTPClient("test", fastHTTPConfig(), nil)
	var out map[string]interface{}
	err := client.GetJSON(context.Background(), server.URL, nil, nil, &out)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceParseError))
	assert.Equal(t, int32(1), attempts.Load())
}

func TestHTTPClient_GetJSON_CircuitOpensAfterConsecutiveFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := fastHTTPConfig()
	cfg.BreakerFailures = 2
	client := NewHTTPClient("test", cfg, nil)

	var out map[string]interface{}
	// Exhaust retries; enough consecutive failures to open the circuit.
	_ = client.GetJSON(context.Background(), server.URL, nil, nil, &out)

	err := client.GetJSON(context.Background(), server.URL, nil, nil, &out)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceUnavailable))
}

func TestStaticSource_Fetch(t *testing.T) {
	records := []ontology.SourceRecord{
		{ID: "X:1", Label: "one"},
	}
	src := NewStaticSource("curated", ontology.FieldAntigen, records)

	assert.Equal(t, "curated", src.Name())
	assert.Equal(t, ontology.FieldAntigen, src.FieldType())

	extract, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, extract.Records, 1)
	assert.Equal(t, "X:1", extract.Records[0].ID)
}

//Personal.AI order the ending
