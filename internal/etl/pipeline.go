package etl

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/BartekS5/dataflow/pkg/logger"
)

// State is a step of a pipeline run.
type State int

const (
	StateExtracting State = iota
	StateTransforming
	StateLoading
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateExtracting:
		return "extracting"
	case StateTransforming:
		return "transforming"
	case StateLoading:
		return "loading"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// FailureKind classifies why a run ended in StateFailed.
type FailureKind string

const (
	FailureNone              FailureKind = ""
	FailureSourceUnreachable FailureKind = "SourceUnreachable"
	FailureUnexpected        FailureKind = "Unexpected"
)

// Outcome is what a caller learns about a run. Run never returns an error;
// failures are reported here and in the log.
type Outcome struct {
	RunID    string
	State    State
	FailedAt State
	Kind     FailureKind
	Err      error

	Extracted int
	Accepted  int
	Rejected  []Rejection
	Loaded    int
}

func (o Outcome) Succeeded() bool { return o.State == StateDone }

// Message returns the failure text, or "" for a successful run.
func (o Outcome) Message() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// runIDSetter is implemented by loaders that name their output after the run.
type runIDSetter interface {
	SetRunID(runID string)
}

// loggerSetter is implemented by stages that log. SetLogger returns the
// logger it replaced so the run can restore it.
type loggerSetter interface {
	SetLogger(l *logger.Logger) *logger.Logger
}

// useRunLogger points stage at log until the returned func is called.
func useRunLogger(stage interface{}, log *logger.Logger) func() {
	s, ok := stage.(loggerSetter)
	if !ok {
		return func() {}
	}
	prev := s.SetLogger(log)
	return func() { s.SetLogger(prev) }
}

type Pipeline struct {
	Extractor   Extractor
	Transformer *Transformer
	Loader      Loader
	Log         *logger.Logger
	DryRun      bool
}

// NewPipeline wires the three stages. A nil log falls back to the stdout default.
func NewPipeline(ext Extractor, loader Loader, log *logger.Logger, dryRun bool) *Pipeline {
	log = orDefault(log)
	return &Pipeline{
		Extractor:   ext,
		Transformer: NewTransformer(log),
		Loader:      loader,
		Log:         log,
		DryRun:      dryRun,
	}
}

// Run extracts from source, transforms, and loads to destination, strictly in
// that order. Errors and panics from any stage end the run in StateFailed.
func (p *Pipeline) Run(source, destination string) (out Outcome) {
	out = Outcome{RunID: uuid.NewString(), State: StateExtracting}
	log := orDefault(p.Log).With("run=" + out.RunID)

	defer func() {
		if r := recover(); r != nil {
			out.fail(FailureUnexpected, fmt.Errorf("%w: panic in %s stage: %v", ErrUnexpected, out.State, r))
			log.Criticalf("An unexpected error occurred in the pipeline: %v", out.Err)
		}
	}()

	log.Infof("Data pipeline starting... (dry run: %v)", p.DryRun)

	defer useRunLogger(p.Extractor, log)()
	defer useRunLogger(p.Loader, log)()

	// 1. Extract
	batch, err := p.Extractor.Extract(source)
	if err != nil {
		if errors.Is(err, ErrSourceUnreachable) {
			out.fail(FailureSourceUnreachable, err)
			log.Errorf("Data pipeline failed: %v", err)
		} else {
			out.fail(FailureUnexpected, fmt.Errorf("%w: %w", ErrUnexpected, err))
			log.Criticalf("An unexpected error occurred in the pipeline: %v", err)
		}
		return out
	}
	out.Extracted = len(batch)

	// 2. Transform
	out.State = StateTransforming
	transformer := NewTransformer(log)
	if p.Transformer != nil {
		runTransformer := *p.Transformer
		runTransformer.Log = log
		transformer = &runTransformer
	}
	results := transformer.Transform(batch)
	accepted := Accepted(results)
	out.Accepted = len(accepted)
	out.Rejected = Rejections(results)

	// 3. Load (skip if DryRun)
	out.State = StateLoading
	if p.DryRun {
		log.Infof("[DRY RUN] Would load %d records to %s", len(accepted), destination)
	} else {
		if s, ok := p.Loader.(runIDSetter); ok {
			s.SetRunID(out.RunID)
		}
		n, err := p.Loader.Load(accepted, destination)
		out.Loaded = n
		if err != nil {
			out.fail(FailureUnexpected, fmt.Errorf("%w: %w", ErrUnexpected, err))
			log.Criticalf("An unexpected error occurred in the pipeline: %v", err)
			return out
		}
	}

	out.State = StateDone
	log.Infof("Data pipeline finished successfully. Extracted: %d, Accepted: %d, Rejected: %d, Loaded: %d",
		out.Extracted, out.Accepted, len(out.Rejected), out.Loaded)
	return out
}

func (o *Outcome) fail(kind FailureKind, err error) {
	o.FailedAt = o.State
	o.State = StateFailed
	o.Kind = kind
	o.Err = err
}

// RunPipeline runs the fixture extractor and log loader against the default
// logger. It returns nothing and never panics.
func RunPipeline(source, destination string) {
	log := logger.Default()
	NewPipeline(NewFixtureExtractor(log), NewLogLoader(log), log, false).Run(source, destination)
}
