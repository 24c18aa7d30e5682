package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"faultline.dev/pkg/faultline/internal/adapter"
	"faultline.dev/pkg/faultline/internal/controller"
	m "faultline.dev/pkg/faultline/internal/model"
)

var (
	// ErrNoSpecs is returned when a run has no injection specs.
	ErrNoSpecs = errors.New("no injection specs")
	// ErrInvalidTrialCount is returned for a negative trials-per-spec count.
	ErrInvalidTrialCount = errors.New("trial count must not be negative")
	// ErrDuplicateSpec is returned when two specs share a name.
	ErrDuplicateSpec = errors.New("duplicate spec name")
	// ErrInvalidShard is returned when the shard index is outside [0, shard count).
	ErrInvalidShard = errors.New("invalid shard")
)

// ExecutorOptions tunes how trials are scheduled.
type ExecutorOptions struct {
	Parallel     int
	BaselineRuns int
	TrialTimeout time.Duration
	ShardIndex   int
	ShardCount   int
}

// Executor runs every planned trial of a set of specs against a target.
type Executor interface {
	RunTrials(ctx context.Context, specs []m.InjectionSpec, trialsPerSpec int, outputDir m.Path) ([]m.TrialResult, error)
}

type executor struct {
	adapter.ArtifactStore
	controller.UI
	Seeder
	runner  *trialRunner
	options ExecutorOptions
}

// NewExecutor creates an Executor mutating baseline with seeds drawn from seeder.
func NewExecutor(
	target m.Target,
	baseline m.Input,
	seeder Seeder,
	artifacts adapter.ArtifactStore,
	ui controller.UI,
	options ExecutorOptions,
) Executor {
	return &executor{
		ArtifactStore: artifacts,
		UI:            ui,
		Seeder:        seeder,
		runner:        &trialRunner{target: target, input: baseline, timeout: options.TrialTimeout},
		options:       options,
	}
}

// RunTrials validates the run, computes the baseline, pre-draws every seed and
// executes the plan. Results come back in plan order.
func (e *executor) RunTrials(ctx context.Context, specs []m.InjectionSpec, trialsPerSpec int, outputDir m.Path) ([]m.TrialResult, error) {
	if err := validateRun(specs, trialsPerSpec, e.options); err != nil {
		return nil, err
	}

	if err := e.EnsureDir(outputDir); err != nil {
		slog.Error("Failed to create output directory", "path", outputDir, "error", err)
		return nil, fmt.Errorf("prepare output directory: %w", err)
	}

	baseline, err := e.runner.baseline(ctx, e.baselineRuns())
	if err != nil {
		return nil, err
	}

	plans := ShardPlan(e.Plan(specs, trialsPerSpec), e.options.ShardIndex, e.options.ShardCount)
	results := make([]m.TrialResult, len(plans))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(e.options.Parallel, 1))

	for i, plan := range plans {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			e.DisplayStartingTrial(groupCtx, plan.Spec.Name, plan.Seed)

			results[i] = e.runTrial(groupCtx, plan, baseline, outputDir)

			e.DisplayCompletedTrial(groupCtx, results[i])

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("run trials: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run trials: %w", err)
	}

	return results, nil
}

func (e *executor) baselineRuns() int {
	if e.options.BaselineRuns <= 0 {
		return DefaultBaselineRuns
	}

	return e.options.BaselineRuns
}

func (e *executor) runTrial(ctx context.Context, plan TrialPlan, baseline any, outputDir m.Path) m.TrialResult {
	outcome := e.runner.execute(ctx, plan.Spec, plan.Seed, baseline)

	result := m.TrialResult{
		Index:         plan.Index,
		Seed:          plan.Seed,
		SpecName:      plan.Spec.Name,
		Kind:          plan.Spec.Kind,
		Outcome:       outcome.outcome,
		Output:        outcome.output,
		Baseline:      baseline,
		ExceptionText: outcome.exceptionText,
		Duration:      outcome.duration,
	}

	if result.Outcome == m.OutcomePass || outcome.mutated.IsNull() {
		return result
	}

	result.MutatedInput = outcome.mutated.Encode()

	if _, err := e.WriteExample(outputDir, plan.Spec.Name, plan.Seed, outcome.mutated); err != nil {
		slog.Error("Failed to save failing example", "spec", plan.Spec.Name, "seed", plan.Seed, "error", err)
		result.ExceptionText = appendNote(result.ExceptionText, "example not saved: "+err.Error())
	}

	return result
}

func appendNote(text, note string) string {
	if text == "" {
		return note
	}

	return text + "; " + note
}

func validateRun(specs []m.InjectionSpec, trialsPerSpec int, options ExecutorOptions) error {
	if len(specs) == 0 {
		return ErrNoSpecs
	}

	if trialsPerSpec < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTrialCount, trialsPerSpec)
	}

	seen := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		if _, ok := seen[spec.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateSpec, spec.Name)
		}

		seen[spec.Name] = struct{}{}
	}

	if options.ShardCount > 1 && (options.ShardIndex < 0 || options.ShardIndex >= options.ShardCount) {
		return fmt.Errorf("%w: index %d of %d", ErrInvalidShard, options.ShardIndex, options.ShardCount)
	}

	return nil
}
