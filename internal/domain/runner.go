package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"runtime/debug"
	"time"

	"faultline.dev/pkg/faultline/internal/domain/faults"
	m "faultline.dev/pkg/faultline/internal/model"
)

var (
	// ErrBaseline is returned when the target fails on the unmodified input.
	ErrBaseline = errors.New("baseline invocation failed")
	// ErrTargetPanic marks a target that panicked during a trial.
	ErrTargetPanic = errors.New("target panicked")
	// ErrTrialTimeout marks a trial that exceeded the configured timeout.
	ErrTrialTimeout = errors.New("trial timed out")
)

// DefaultBaselineRuns is how many times the target runs on the unmodified input.
const DefaultBaselineRuns = 5

// PanicError carries a recovered panic value and the goroutine stack.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: %v\n%s", ErrTargetPanic, e.Value, e.Stack)
}

// Unwrap lets errors.Is match ErrTargetPanic.
func (e *PanicError) Unwrap() error {
	return ErrTargetPanic
}

// trialRunner mutates the baseline input and invokes the target.
// Executor and reproducer share it so one seed always yields one mutation.
type trialRunner struct {
	target  m.Target
	input   m.Input
	timeout time.Duration
}

// trialOutcome is what one execution of a (spec, seed) pair produced.
type trialOutcome struct {
	mutated       m.Input
	output        any
	outcome       m.Outcome
	exceptionText string
	duration      time.Duration
}

// baseline invokes the target runs times on the unmodified input.
// Divergent outputs are logged and the first one is kept.
func (r *trialRunner) baseline(ctx context.Context, runs int) (any, error) {
	runs = max(runs, 1)

	var first any

	for i := range runs {
		output, err := r.invoke(ctx, r.input)
		if err != nil {
			slog.Error("Failed to compute baseline", "target", r.target.Name(), "run", i, "error", err)
			return nil, fmt.Errorf("%w: %w", ErrBaseline, err)
		}

		if i == 0 {
			first = output
			continue
		}

		if !reflect.DeepEqual(first, output) {
			slog.Warn("Baseline output is not stable, using the first run",
				"target", r.target.Name(), "run", i, "first", first, "got", output)
		}
	}

	return first, nil
}

// execute runs one trial: mutate, optional delay, invoke, classify.
func (r *trialRunner) execute(ctx context.Context, spec m.InjectionSpec, seed uint32, baseline any) trialOutcome {
	start := time.Now()

	result := r.run(ctx, spec, seed, baseline)
	result.duration = time.Since(start)

	return result
}

func (r *trialRunner) run(ctx context.Context, spec m.InjectionSpec, seed uint32, baseline any) trialOutcome {
	mutated, err := faults.Apply(spec, r.input, NewTrialSource(seed))
	if err != nil {
		return trialOutcome{mutated: m.NullInput(), outcome: m.OutcomeException, exceptionText: err.Error()}
	}

	delay, err := faults.DelayFor(spec)
	if err != nil {
		return trialOutcome{mutated: mutated, outcome: m.OutcomeException, exceptionText: err.Error()}
	}

	if delay > 0 {
		if err := sleep(ctx, time.Duration(delay*float64(time.Second))); err != nil {
			return trialOutcome{mutated: mutated, outcome: m.OutcomeException, exceptionText: err.Error()}
		}
	}

	output, err := r.invoke(ctx, mutated)
	if err != nil {
		return trialOutcome{mutated: mutated, outcome: m.OutcomeException, exceptionText: err.Error()}
	}

	outcome := m.OutcomePass
	if !reflect.DeepEqual(output, baseline) {
		outcome = m.OutcomeIncorrect
	}

	return trialOutcome{mutated: mutated, output: output, outcome: outcome}
}

// invoke calls the target, turning panics into errors and honoring the trial timeout.
func (r *trialRunner) invoke(ctx context.Context, input m.Input) (any, error) {
	if r.timeout <= 0 {
		return safeInvoke(ctx, r.target, input)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type reply struct {
		output any
		err    error
	}

	replies := make(chan reply, 1)

	go func() {
		output, err := safeInvoke(ctx, r.target, input)
		replies <- reply{output: output, err: err}
	}()

	select {
	case got := <-replies:
		return got.output, got.err
	case <-ctx.Done():
		// The target goroutine is abandoned; it can only write to the buffered channel.
		return nil, fmt.Errorf("%w after %s", ErrTrialTimeout, r.timeout)
	}
}

func safeInvoke(ctx context.Context, target m.Target, input m.Input) (output any, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			output = nil
			err = &PanicError{Value: recovered, Stack: debug.Stack()}
		}
	}()

	return target.Invoke(ctx, input)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("delay interrupted: %w", ctx.Err())
	}
}
