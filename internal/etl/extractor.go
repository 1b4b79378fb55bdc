package etl

import (
	"github.com/BartekS5/dataflow/pkg/logger"
	"github.com/BartekS5/dataflow/pkg/models"
)

// FixtureExtractor returns the same three records for any source. It stands in
// for a real connector and keeps runs deterministic.
type FixtureExtractor struct {
	Log *logger.Logger
	// Unreachable makes Extract fail with ErrSourceUnreachable.
	Unreachable bool
}

func NewFixtureExtractor(log *logger.Logger) *FixtureExtractor {
	return &FixtureExtractor{Log: log}
}

// FixtureRecords returns a fresh copy of the fixture batch.
func FixtureRecords() models.Batch {
	return models.Batch{
		{"id": 1, "user": "alpha", "value": 100, "status": "active"},
		{"id": 2, "user": "beta", "value": 200, "status": "inactive"},
		{"id": 3, "user": "gamma", "value": nil, "status": "active"},
	}
}

func (f *FixtureExtractor) Extract(source string) (models.Batch, error) {
	log := orDefault(f.Log)
	log.Infof("Extracting data from %s...", source)

	if f.Unreachable {
		err := &SourceError{Source: source}
		log.Errorf("Failed to extract data from %s: %v", source, err)
		return nil, err
	}

	batch := FixtureRecords()
	log.Infof("Successfully extracted %d records.", len(batch))
	return batch, nil
}

func orDefault(l *logger.Logger) *logger.Logger {
	if l == nil {
		return logger.Default()
	}
	return l
}

// SetLogger swaps the logger and returns the previous one.
func (f *FixtureExtractor) SetLogger(next *logger.Logger) *logger.Logger {
	prev := f.Log
	f.Log = next
	return prev
}
