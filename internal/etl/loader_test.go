package etl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BartekS5/dataflow/pkg/logger"
	"github.com/BartekS5/dataflow/pkg/models"
)

func TestLogLoader_LogsEachRecordInOrder(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogLoader(logger.New(&buf))

	batch := models.Batch{
		{"id": 1, "user": "A"},
		{"id": 2, "user": "B"},
	}
	n, err := l.Load(batch, "database://production/processed_data")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	logs := buf.String()
	first := strings.Index(logs, `LOADED_RECORD: {"id": 1, "user": "A"}`)
	second := strings.Index(logs, `LOADED_RECORD: {"id": 2, "user": "B"}`)
	require.True(t, first >= 0 && second >= 0)
	assert.Less(t, first, second)
	assert.Contains(t, logs, "Successfully loaded 2 records to database://production/processed_data.")
}

func TestLogLoader_DoesNotModifyRecords(t *testing.T) {
	l := NewLogLoader(logger.Discard())
	batch := models.Batch{{"id": 1, "user": "A"}}
	snapshot := batch.Clone()

	_, err := l.Load(batch, "x")
	require.NoError(t, err)
	assert.Equal(t, snapshot, batch)
}

func TestLogLoader_Empty(t *testing.T) {
	n, err := NewLogLoader(logger.Discard()).Load(nil, "x")
	require.NoError(t, err)
	assert.Zero(t, n)
}
