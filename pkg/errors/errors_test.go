package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	e := New(ErrCodeSourceFormat, "extract unusable")
	assert.Equal(t, "[SRC_005] extract unusable", e.Error())

	withDetail := e.WithDetail("source=hgnc field=antigen")
	assert.Equal(t, "[SRC_005] extract unusable: source=hgnc field=antigen", withDetail.Error())
	// WithDetail must not mutate the receiver.
	assert.Empty(t, e.Detail)
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	e := Wrap(cause, ErrCodeSourceUnavailable, "ChEMBL fetch failed")
	require.NotNil(t, e)
	assert.Equal(t, ErrCodeSourceUnavailable, e.Code)
	assert.True(t, stderrors.Is(e, cause))

	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
}

func TestWrap_PreservesCodeOnUnknown(t *testing.T) {
	inner := New(ErrCodeSourceFormat, "no id column")
	outer := Wrap(inner, CodeUnknown, "building antigen dictionary")
	assert.Equal(t, ErrCodeSourceFormat, outer.Code)
}

func TestIsCode(t *testing.T) {
	inner := New(ErrCodeSourceFormat, "no id column")
	wrapped := fmt.Errorf("dictionary build: %w", inner)

	assert.True(t, IsCode(wrapped, ErrCodeSourceFormat))
	assert.False(t, IsCode(wrapped, ErrCodeSourceUnavailable))
	assert.False(t, IsCode(nil, ErrCodeSourceFormat))
}

func TestIsSourceFailure(t *testing.T) {
	assert.True(t, IsSourceFailure(SourceFormat("bad extract")))
	assert.True(t, IsSourceFailure(SourceUnavailable("fetch failed")))
	assert.True(t, IsSourceFailure(New(ErrCodeSourceRateLimited, "429")))
	assert.False(t, IsSourceFailure(New(ErrCodeInternal, "boom")))
	assert.False(t, IsSourceFailure(stderrors.New("plain")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, ErrCodeDictionaryNotBuilt, GetCode(New(ErrCodeDictionaryNotBuilt, "disease")))

	wrapped := fmt.Errorf("outer: %w", New(ErrCodeCacheError, "redis down"))
	assert.Equal(t, ErrCodeCacheError, GetCode(wrapped))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("run missing")))
	assert.True(t, IsNotFound(New(ErrCodeDictionaryNotBuilt, "payload")))
	assert.False(t, IsNotFound(Internal("boom")))
}

//Personal.AI order the ending
