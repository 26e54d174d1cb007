package client

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogger records formatted lines from every level.
type captureLogger struct {
	lines []string
}

func (l *captureLogger) Debugf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}
func (l *captureLogger) Infof(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}
func (l *captureLogger) Errorf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestOptions_Applied(t *testing.T) {
	hc := &http.Client{Timeout: time.Minute}
	log := &captureLogger{}

	c, err := NewClient("http://localhost:8080",
		WithHTTPClient(hc),
		WithLogger(log),
		WithRetryMax(5),
		WithRetryWait(time.Second, 10*time.Second),
		WithUserAgent("oncoterm-cli/test"),
	)
	require.NoError(t, err)

	assert.Same(t, hc, c.httpClient)
	assert.Equal(t, Logger(log), c.logger)
	assert.Equal(t, 5, c.retryMax)
	assert.Equal(t, time.Second, c.retryWaitMin)
	assert.Equal(t, 10*time.Second, c.retryWaitMax)
	assert.Equal(t, "oncoterm-cli/test", c.userAgent)
}

func TestWithRetryMax_RejectsNegative(t *testing.T) {
	c, err := NewClient("http://localhost:8080", WithRetryMax(-1))
	require.NoError(t, err)
	assert.Equal(t, 3, c.retryMax, "negative retry count keeps the default")

	c, err = NewClient("http://localhost:8080", WithRetryMax(0))
	require.NoError(t, err)
	assert.Equal(t, 0, c.retryMax, "zero disables retries")
}

func TestWithRetryWait_InvalidBounds(t *testing.T) {
	// A zero minimum leaves both defaults in place.
	c, err := NewClient("http://localhost:8080", WithRetryWait(0, 10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, c.retryWaitMin)
	assert.Equal(t, 5*time.Second, c.retryWaitMax)

	// A maximum below the minimum keeps the default maximum.
	c, err = NewClient("http://localhost:8080", WithRetryWait(8*time.Second, time.Second))
	require.NoError(t, err)
	assert.Equal(t, 8*time.Second, c.retryWaitMin)
	assert.Equal(t, 5*time.Second, c.retryWaitMax)
}

func TestWithUserAgent_IgnoresEmpty(t *testing.T) {
	c, err := NewClient("http://localhost:8080", WithUserAgent(""))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("oncoterm-go-sdk/%s", Version), c.userAgent)
}

func TestWithTimeout(t *testing.T) {
	c, err := NewClient("http://localhost:8080", WithTimeout(90*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, c.httpClient.Timeout)

	c, err = NewClient("http://localhost:8080", WithTimeout(0))
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, c.httpClient.Timeout, "non-positive timeout keeps the default")
}

//Personal.AI order the ending
