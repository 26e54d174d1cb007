package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/OncoTerm/internal/config"
	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
)

func TestServerStartStop(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := NewServer(config.ServerConfig{Port: 0}, handler, logging.NewNopLogger())

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	// Give the listener a moment to bind before shutting down.
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop in time")
	}
}

func TestServerDefaultShutdownTimeout(t *testing.T) {
	srv := NewServer(config.ServerConfig{Port: 8080}, http.NewServeMux(), logging.NewNopLogger())
	assert.Equal(t, defaultShutdownTimeout, srv.shutdownTimeout)

	srv = NewServer(config.ServerConfig{Port: 8080, ShutdownTimeout: 3 * time.Second}, http.NewServeMux(), logging.NewNopLogger())
	assert.Equal(t, 3*time.Second, srv.shutdownTimeout)
}

//Personal.AI order the ending
