package etl

import (
	"github.com/BartekS5/dataflow/pkg/models"
	"github.com/BartekS5/dataflow/pkg/utils"
)

// Validator checks the fields the transform stage depends on.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateRecord rejects a record without an id, or whose user is missing,
// null or not text.
func (v *Validator) ValidateRecord(rec models.Record) error {
	if id, ok := rec[models.FieldID]; !ok || id == nil {
		return &ValidationError{Field: models.FieldID, Reason: "is missing", Record: rec}
	}

	user, ok := rec[models.FieldUser]
	if !ok || user == nil {
		return &ValidationError{Field: models.FieldUser, Reason: "is null", Record: rec}
	}
	if _, ok := utils.ToText(user); !ok {
		return &ValidationError{Field: models.FieldUser, Reason: "is not text", Record: rec}
	}
	return nil
}
