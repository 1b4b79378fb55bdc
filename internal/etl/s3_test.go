package etl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BartekS5/dataflow/pkg/logger"
	"github.com/BartekS5/dataflow/pkg/models"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = b
	return &s3.PutObjectOutput{}, nil
}

func TestS3Loader_WritesNDJSON(t *testing.T) {
	client := &fakeS3{}
	l := NewS3Loader(client, "etl-bucket", "processed", logger.Discard())
	l.SetRunID("run-1")

	batch := Accepted(NewTransformer(logger.Discard()).Transform(FixtureRecords()))
	n, err := l.Load(batch, "s3://etl-bucket/processed")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NotNil(t, client.input)
	assert.Equal(t, "etl-bucket", aws.ToString(client.input.Bucket))
	assert.Equal(t, "processed/run-1.jsonl", aws.ToString(client.input.Key))
	assert.Equal(t, "application/x-ndjson", aws.ToString(client.input.ContentType))

	var lines []models.Record
	sc := bufio.NewScanner(bytes.NewReader(client.body))
	for sc.Scan() {
		var rec models.Record
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		lines = append(lines, rec)
	}
	require.Len(t, lines, 3)
	assert.Equal(t, "ALPHA", lines[0]["user"])
	assert.Equal(t, float64(0), lines[2]["value"])
	assert.Equal(t, true, lines[2]["is_active"])
}

func TestS3Loader_DefaultKey(t *testing.T) {
	l := NewS3Loader(&fakeS3{}, "b", "", logger.Discard())
	key := l.objectKey()
	assert.True(t, strings.HasSuffix(key, ".jsonl"))
	assert.False(t, strings.HasPrefix(key, "/"))
}

func TestS3Loader_PutError(t *testing.T) {
	l := NewS3Loader(&fakeS3{err: errors.New("access denied")}, "b", "p", logger.Discard())
	n, err := l.Load(models.Batch{{"id": 1}}, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.Zero(t, n)
}
