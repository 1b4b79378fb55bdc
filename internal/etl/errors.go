package etl

import (
	"errors"
	"fmt"

	"github.com/BartekS5/dataflow/pkg/models"
)

// Error kinds. Stage errors wrap one of these so callers can use errors.Is.
var (
	ErrSourceUnreachable = errors.New("source unreachable")
	ErrRecordValidation  = errors.New("record validation failed")
	ErrUnexpected        = errors.New("unexpected error")
)

// ValidationError explains why a single record was rejected.
type ValidationError struct {
	Field  string
	Reason string
	Record models.Record
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: field %q %s in record: %s", ErrRecordValidation, e.Field, e.Reason, e.Record)
}

func (e *ValidationError) Unwrap() error { return ErrRecordValidation }

// SourceError reports that a source could not be read.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("could not read from data source: %s", e.Source)
	}
	return fmt.Sprintf("could not read from data source: %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSourceUnreachable}
	}
	return []error{ErrSourceUnreachable, e.Err}
}
