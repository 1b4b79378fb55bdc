package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Infof("starting %s", "run")
	l.Warnf("skipping %d", 1)
	l.Errorf("failed")
	l.Criticalf("boom")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	ts := `^\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} `
	assert.Regexp(t, regexp.MustCompile(ts+`INFO: starting run$`), lines[0])
	assert.Regexp(t, regexp.MustCompile(ts+`WARN: skipping 1$`), lines[1])
	assert.Regexp(t, regexp.MustCompile(ts+`ERROR: failed$`), lines[2])
	assert.Regexp(t, regexp.MustCompile(ts+`CRITICAL: boom$`), lines[3])
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf).With("run=abc").With("stage=load")

	l.Infof("hello")

	assert.Contains(t, buf.String(), "INFO: [run=abc] [stage=load] hello")
}

func TestLogger_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataflow.log")

	l, err := NewFile(path)
	require.NoError(t, err)
	l.Warnf("written to file")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "WARN: ")
	assert.Contains(t, string(data), "written to file")
}

func TestLogger_NewFileBadPath(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	assert.Error(t, err)
}

func TestDefault_IsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
	assert.NotPanics(t, func() { Infof("default logger %d", 1) })
}
