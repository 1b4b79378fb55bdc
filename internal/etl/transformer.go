package etl

import (
	"fmt"
	"strings"

	"github.com/BartekS5/dataflow/pkg/logger"
	"github.com/BartekS5/dataflow/pkg/models"
	"github.com/BartekS5/dataflow/pkg/utils"
)

// Result is the outcome of transforming one record: either the accepted
// record or the reason it was dropped.
type Result struct {
	Index  int
	Record models.Record
	Err    error
}

// Accepted reports whether the record survived the transform stage.
func (r Result) Accepted() bool { return r.Err == nil }

// Rejection describes a record dropped during transform.
type Rejection struct {
	Index  int
	Record models.Record
	Reason error
}

// Transformer validates, cleans, enriches and normalizes records.
type Transformer struct {
	Log       *logger.Logger
	Validator *Validator
}

func NewTransformer(log *logger.Logger) *Transformer {
	return &Transformer{Log: log, Validator: NewValidator()}
}

// TransformRecord runs validate, clean, enrich and normalize on rec, in that
// order. Accepted records are modified in place. A rejected record is left
// as it was received.
func (t *Transformer) TransformRecord(rec models.Record) (models.Record, error) {
	validator := t.Validator
	if validator == nil {
		validator = NewValidator()
	}
	if err := validator.ValidateRecord(rec); err != nil {
		return nil, err
	}

	value, err := cleanValue(rec)
	if err != nil {
		return nil, err
	}
	user, _ := utils.ToText(rec[models.FieldUser])

	rec[models.FieldValue] = value
	rec[models.FieldIsActive] = rec[models.FieldStatus] == models.StatusActive
	rec[models.FieldUser] = strings.ToUpper(user)
	return rec, nil
}

func cleanValue(rec models.Record) (int, error) {
	raw := rec[models.FieldValue]
	if utils.IsFalsy(raw) {
		return 0, nil
	}
	value, err := utils.ConvertToInt(raw)
	if err != nil {
		return 0, &ValidationError{
			Field:  models.FieldValue,
			Reason: fmt.Sprintf("is not an integer (%v)", err),
			Record: rec,
		}
	}
	return value, nil
}

// Transform folds over the batch and returns one Result per input record, in
// input order. Rejections are logged and never stop the fold.
func (t *Transformer) Transform(batch models.Batch) []Result {
	log := orDefault(t.Log)
	log.Infof("Transforming data...")

	results := make([]Result, 0, len(batch))
	accepted := 0
	for i, rec := range batch {
		out, err := t.TransformRecord(rec)
		if err != nil {
			log.Warnf("Skipping record due to validation error: %v", err)
			results = append(results, Result{Index: i, Record: rec, Err: err})
			continue
		}
		accepted++
		results = append(results, Result{Index: i, Record: out})
	}

	log.Infof("Successfully transformed %d records.", accepted)
	return results
}

// Accepted collects the surviving records in order.
func Accepted(results []Result) models.Batch {
	out := make(models.Batch, 0, len(results))
	for _, r := range results {
		if r.Accepted() {
			out = append(out, r.Record)
		}
	}
	return out
}

// Rejections collects the dropped records and their reasons.
func Rejections(results []Result) []Rejection {
	var out []Rejection
	for _, r := range results {
		if !r.Accepted() {
			out = append(out, Rejection{Index: r.Index, Record: r.Record, Reason: r.Err})
		}
	}
	return out
}
