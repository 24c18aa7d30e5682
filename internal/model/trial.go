package model

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Outcome classifies one trial relative to the baseline.
type Outcome string

const (
	// OutcomePass means the target returned the baseline output.
	OutcomePass Outcome = "pass"
	// OutcomeIncorrect means the target returned normally with a different output.
	OutcomeIncorrect Outcome = "incorrect"
	// OutcomeException means mutation or invocation failed.
	OutcomeException Outcome = "exception"
	// OutcomeUnclassified marks a reproduction whose target returned normally
	// but had no baseline output to compare against.
	OutcomeUnclassified Outcome = "unclassified"
)

// Outcomes lists every outcome in report order.
var Outcomes = []Outcome{OutcomePass, OutcomeIncorrect, OutcomeException}

// Target is the function under test.
type Target interface {
	Name() string
	Invoke(ctx context.Context, in Input) (any, error)
}

// TargetFunc adapts a plain function to Target.
type TargetFunc func(ctx context.Context, in Input) (any, error)

// Name implements Target.
func (f TargetFunc) Name() string {
	return "func"
}

// Invoke implements Target.
func (f TargetFunc) Invoke(ctx context.Context, in Input) (any, error) {
	return f(ctx, in)
}

// TrialResult is the outcome of one (spec, seed) execution.
type TrialResult struct {
	Index         int
	Seed          uint32
	SpecName      string
	Kind          FaultKind
	Outcome       Outcome
	Output        any // nil when Outcome is OutcomeException
	Baseline      any
	ExceptionText string
	MutatedInput  string // base64, set only for non-passing trials with a non-null input
	Duration      time.Duration
}

// Record renders the result as a tabular row.
func (r TrialResult) Record() TrialRecord {
	output := ""
	if r.Outcome != OutcomeException {
		output = RenderValue(r.Output)
	}

	return TrialRecord{
		Index:      r.Index,
		Seed:       r.Seed,
		Spec:       r.SpecName,
		Kind:       string(r.Kind),
		Outcome:    string(r.Outcome),
		Output:     output,
		Baseline:   RenderValue(r.Baseline),
		Exception:  r.ExceptionText,
		MutatedB64: r.MutatedInput,
		Duration:   r.Duration,
	}
}

// RenderValue renders a target output for reports.
func RenderValue(v any) string {
	if v == nil {
		return ""
	}

	return fmt.Sprint(v)
}

// TrialRecord is the string form of a TrialResult used by the table and the journal.
type TrialRecord struct {
	Index      int    `msgpack:"index"`
	Seed       uint32 `msgpack:"seed"`
	Spec       string `msgpack:"spec"`
	Kind       string `msgpack:"kind"`
	Outcome    string `msgpack:"outcome"`
	Output     string `msgpack:"output"`
	Baseline   string `msgpack:"baseline"`
	Exception  string `msgpack:"exception"`
	MutatedB64 string `msgpack:"mutated_input_b64"`
	// Duration is kept in the journal only; the results table has no column for it.
	Duration time.Duration `msgpack:"duration"`
}

// RecordHeader is the header row of the results table.
var RecordHeader = []string{"seed", "spec", "kind", "outcome", "output", "baseline", "exception", "mutated_input_b64"}

// Row returns the record fields in RecordHeader order.
func (r TrialRecord) Row() []string {
	return []string{
		strconv.FormatUint(uint64(r.Seed), 10),
		r.Spec,
		r.Kind,
		r.Outcome,
		r.Output,
		r.Baseline,
		r.Exception,
		r.MutatedB64,
	}
}

// RunManifest describes one run so it can be viewed or merged later.
type RunManifest struct {
	RunID         string          `msgpack:"run_id"`
	Target        string          `msgpack:"target"`
	MasterSeed    uint64          `msgpack:"master_seed"`
	TrialsPerSpec int             `msgpack:"trials_per_spec"`
	Specs         []InjectionSpec `msgpack:"specs"`
	ShardIndex    int             `msgpack:"shard_index"`
	ShardCount    int             `msgpack:"shard_count"`
	StartedAt     time.Time       `msgpack:"started_at"`
	FinishedAt    time.Time       `msgpack:"finished_at"`
}

// Reproduction is the result of replaying one (spec, seed) pair.
type Reproduction struct {
	SpecName      string
	Kind          FaultKind
	Seed          uint32
	Input         Input
	Output        any
	Baseline      any
	BaselineError string // set when the baseline could not be computed
	Outcome       Outcome
	ExceptionText string
	Diff          string
	Path          Path // empty when the mutated input is null
}
