package etl

import (
	"github.com/BartekS5/dataflow/pkg/logger"
	"github.com/BartekS5/dataflow/pkg/models"
)

// LogLoader "loads" records by writing each one to the log.
type LogLoader struct {
	Log *logger.Logger
}

func NewLogLoader(log *logger.Logger) *LogLoader {
	return &LogLoader{Log: log}
}

func (l *LogLoader) Load(batch models.Batch, destination string) (int, error) {
	log := orDefault(l.Log)
	log.Infof("Loading data to %s...", destination)
	for _, rec := range batch {
		log.Infof("LOADED_RECORD: %s", rec)
	}
	log.Infof("Successfully loaded %d records to %s.", len(batch), destination)
	return len(batch), nil
}

// SetLogger swaps the logger and returns the previous one.
func (l *LogLoader) SetLogger(next *logger.Logger) *logger.Logger {
	prev := l.Log
	l.Log = next
	return prev
}
