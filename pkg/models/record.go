package models

import (
	"fmt"
	"sort"
	"strings"
)

// Field names the transform stage reads or writes. Any other field is carried
// through untouched.
const (
	FieldID       = "id"
	FieldUser     = "user"
	FieldValue    = "value"
	FieldStatus   = "status"
	FieldIsActive = "is_active"

	StatusActive = "active"
)

// Record is one unit of data flowing through the pipeline.
// Values are text, integers, booleans or nil.
type Record map[string]interface{}

// Batch is an ordered sequence of records from a single run.
type Batch []Record

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Has reports whether the field is present, even if its value is nil.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// String renders the record with sorted keys so log output is stable.
func (r Record) String() string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q: %s", k, formatValue(r[k]))
	}
	sb.WriteByte('}')
	return sb.String()
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Clone copies every record in the batch.
func (b Batch) Clone() Batch {
	out := make(Batch, len(b))
	for i, r := range b {
		out[i] = r.Clone()
	}
	return out
}
