package etl

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BartekS5/dataflow/pkg/logger"
)

func TestFixtureExtractor_FixedData(t *testing.T) {
	var buf bytes.Buffer
	ext := NewFixtureExtractor(logger.New(&buf))

	for _, source := range []string{"api://example-source/data", "", "not a uri at all"} {
		batch, err := ext.Extract(source)
		require.NoError(t, err)
		require.Len(t, batch, 3)
		assert.Equal(t, "alpha", batch[0]["user"])
		assert.Equal(t, "beta", batch[1]["user"])
		assert.Nil(t, batch[2]["value"])
		assert.True(t, batch[2].Has("value"))
	}
	assert.Contains(t, buf.String(), "Successfully extracted 3 records.")
}

func TestFixtureExtractor_ReturnsFreshCopies(t *testing.T) {
	ext := NewFixtureExtractor(logger.Discard())
	first, err := ext.Extract("a")
	require.NoError(t, err)
	first[0]["user"] = "MUTATED"

	second, err := ext.Extract("a")
	require.NoError(t, err)
	assert.Equal(t, "alpha", second[0]["user"])
}

func TestFixtureExtractor_Unreachable(t *testing.T) {
	ext := &FixtureExtractor{Log: logger.Discard(), Unreachable: true}
	batch, err := ext.Extract("api://down")

	assert.Nil(t, batch)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnreachable))

	var serr *SourceError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "api://down", serr.Source)
}

func TestSourceError_WrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := &SourceError{Source: "db://x", Err: cause}
	assert.True(t, errors.Is(err, ErrSourceUnreachable))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "refused")
}
