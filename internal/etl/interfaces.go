package etl

import "github.com/BartekS5/dataflow/pkg/models"

// Extractor produces the raw batch for a run from an opaque source identifier.
type Extractor interface {
	Extract(source string) (models.Batch, error)
}

// Loader writes the accepted batch to an opaque destination identifier and
// reports how many records it wrote.
type Loader interface {
	Load(batch models.Batch, destination string) (int, error)
}
