package domain

import (
	"context"
	"sync"

	"faultline.dev/pkg/faultline/internal/adapter"
	"faultline.dev/pkg/faultline/internal/controller"
	m "faultline.dev/pkg/faultline/internal/model"
	"faultline.dev/pkg/faultline/internal/target"
)

// recordingUI captures everything the domain displays.
type recordingUI struct {
	mu            sync.Mutex
	starts        int
	closes        int
	runInfos      []m.RunManifest
	started       []string
	completed     []m.TrialResult
	summaries     []m.Summary
	reproductions []m.Reproduction
	specs         []m.InjectionSpec
}

var _ controller.UI = (*recordingUI)(nil)

func (r *recordingUI) Start(context.Context, ...controller.StartOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.starts++

	return nil
}

func (r *recordingUI) Close(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closes++
}

func (r *recordingUI) Wait(context.Context) {}

func (r *recordingUI) DisplayRunInfo(_ context.Context, manifest m.RunManifest, _ int, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runInfos = append(r.runInfos, manifest)
}

func (r *recordingUI) DisplayStartingTrial(_ context.Context, specName string, _ uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.started = append(r.started, specName)
}

func (r *recordingUI) DisplayCompletedTrial(_ context.Context, result m.TrialResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.completed = append(r.completed, result)
}

func (r *recordingUI) DisplaySummary(_ context.Context, summary m.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.summaries = append(r.summaries, summary)
}

func (r *recordingUI) DisplayReproduction(_ context.Context, reproduction m.Reproduction) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reproductions = append(r.reproductions, reproduction)
}

func (r *recordingUI) DisplaySpecs(_ context.Context, specs []m.InjectionSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.specs = append(r.specs, specs...)
}

func baselineInput() m.Input {
	return m.NewInput([]byte(target.DefaultBaseline))
}

func newTestExecutor(masterSeed uint64, options ExecutorOptions) (Executor, *recordingUI) {
	ui := &recordingUI{}

	return NewExecutor(
		target.NewPacketProcessor(),
		baselineInput(),
		NewSeeder(masterSeed),
		adapter.NewLocalArtifactStore(),
		ui,
		options,
	), ui
}

func withoutDurations(results []m.TrialResult) []m.TrialResult {
	out := make([]m.TrialResult, len(results))
	for i, result := range results {
		result.Duration = 0
		out[i] = result
	}

	return out
}
