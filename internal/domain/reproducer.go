package domain

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/pmezard/go-difflib/difflib"

	"faultline.dev/pkg/faultline/internal/adapter"
	m "faultline.dev/pkg/faultline/internal/model"
)

// Reproducer replays a single (spec, seed) pair outside of a run.
type Reproducer interface {
	Reproduce(ctx context.Context, specName string, seed uint32, outputDir m.Path) (m.Reproduction, error)
}

type reproducer struct {
	adapter.SpecCatalog
	adapter.ArtifactStore
	runner       *trialRunner
	baselineRuns int
}

// NewReproducer creates a Reproducer that resolves spec names in catalog.
func NewReproducer(
	target m.Target,
	baseline m.Input,
	catalog adapter.SpecCatalog,
	artifacts adapter.ArtifactStore,
	options ExecutorOptions,
) Reproducer {
	runs := options.BaselineRuns
	if runs <= 0 {
		runs = DefaultBaselineRuns
	}

	return &reproducer{
		SpecCatalog:   catalog,
		ArtifactStore: artifacts,
		runner:        &trialRunner{target: target, input: baseline, timeout: options.TrialTimeout},
		baselineRuns:  runs,
	}
}

// Reproduce re-applies the fault model with the trial seed, invokes the target
// once and stores the mutated input under <outputDir>/reproductions.
//
// A failing baseline does not abort the reproduction: the mutation and the
// target's output or error are still reported, and a normal return is left
// as OutcomeUnclassified.
func (r *reproducer) Reproduce(ctx context.Context, specName string, seed uint32, outputDir m.Path) (m.Reproduction, error) {
	spec, err := r.Lookup(specName)
	if err != nil {
		return m.Reproduction{}, err
	}

	var baselineErr string

	baseline, err := r.runner.baseline(ctx, r.baselineRuns)
	if err != nil {
		slog.Warn("Reproducing without a baseline", "spec", spec.Name, "seed", seed, "error", err)
		baselineErr = err.Error()
	}

	outcome := r.runner.execute(ctx, spec, seed, baseline)
	if baselineErr != "" && outcome.outcome != m.OutcomeException {
		outcome.outcome = m.OutcomeUnclassified
	}

	reproduction := m.Reproduction{
		SpecName:      spec.Name,
		Kind:          spec.Kind,
		Seed:          seed,
		Input:         outcome.mutated,
		Output:        outcome.output,
		Baseline:      baseline,
		BaselineError: baselineErr,
		Outcome:       outcome.outcome,
		ExceptionText: outcome.exceptionText,
		Diff:          HexDiff(r.runner.input, outcome.mutated),
	}

	if outcome.mutated.IsNull() {
		slog.Debug("Reproduced input is null, nothing to save", "spec", spec.Name, "seed", seed)
		return reproduction, nil
	}

	path, err := r.WriteReproduction(outputDir, spec.Name, seed, outcome.mutated)
	if err != nil {
		return reproduction, fmt.Errorf("save reproduction: %w", err)
	}

	reproduction.Path = path

	return reproduction, nil
}

// HexDiff renders a unified diff between hex dumps of the baseline and mutated inputs.
// It is empty when both are equal.
func HexDiff(baseline, mutated m.Input) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(hexDump(baseline)),
		B:        difflib.SplitLines(hexDump(mutated)),
		FromFile: "baseline",
		ToFile:   "mutated",
		Context:  1,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		slog.Warn("Failed to render hex diff", "error", err)
		return ""
	}

	return text
}

func hexDump(input m.Input) string {
	if input.IsNull() {
		return "(null)\n"
	}

	if input.Len() == 0 {
		return "(empty)\n"
	}

	return hex.Dump(input.Bytes())
}
