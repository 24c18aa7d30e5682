// Package domain runs fault injection campaigns: seeding, trial execution,
// reproduction and the report workflow around them.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"faultline.dev/pkg/faultline/internal/adapter"
	"faultline.dev/pkg/faultline/internal/controller"
	m "faultline.dev/pkg/faultline/internal/model"
)

var (
	// ErrMissingReproduceArgs is returned when a reproduction lacks the spec name or seed.
	ErrMissingReproduceArgs = errors.New("reproduce requires both a spec name and a trial seed")
	// ErrNoMatchingTrials is returned when a replay finds nothing to reproduce.
	ErrNoMatchingTrials = errors.New("no matching trials")
	// ErrNoShards is returned when merge finds no shard directories.
	ErrNoShards = errors.New("no shard reports found")
	// ErrIncompatibleShards is returned when shard manifests describe different runs.
	ErrIncompatibleShards = errors.New("shards belong to different runs")
	// ErrMissingShards is returned when merge does not find every shard of a run.
	ErrMissingShards = errors.New("missing shard reports")
)

// shardDirPattern matches the per-shard output directories.
const shardDirPattern = "shard_*"

// HarnessArgs locate the catalog, the baseline input and the output directory.
type HarnessArgs struct {
	OutputDir    m.Path
	SpecsFile    m.Path
	BaselineText string
	BaselineFile m.Path
	BaselineRuns int
	TrialTimeout time.Duration
}

// RunArgs contains the arguments for a fault injection run.
type RunArgs struct {
	HarnessArgs
	TrialsPerSpec int
	MasterSeed    uint64
	RandomSeed    bool
	Parallel      int
	ShardIndex    int
	ShardCount    int
}

// ReproduceArgs identify one trial to replay.
type ReproduceArgs struct {
	HarnessArgs
	SpecName string
	Seed     uint32
}

// ReplayArgs select trials from a results table to replay.
type ReplayArgs struct {
	HarnessArgs
	SpecName string
	Outcome  m.Outcome
	Limit    int
}

// ViewArgs point at a finished run.
type ViewArgs struct {
	OutputDir m.Path
}

// MergeArgs point at a directory holding shard_* runs.
type MergeArgs struct {
	OutputDir m.Path
}

// Workflow is the entry point used by the CLI.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) error
	Reproduce(ctx context.Context, args ReproduceArgs) error
	Replay(ctx context.Context, args ReplayArgs) error
	ListSpecs(ctx context.Context, specsFile m.Path) error
	View(ctx context.Context, args ViewArgs) error
	Merge(ctx context.Context, args MergeArgs) error
}

type workflow struct {
	adapter.ArtifactStore
	adapter.ReportStore
	controller.UI
	target          m.Target
	defaultBaseline m.Input
}

// NewWorkflow creates a Workflow exercising target.
// defaultBaseline is used when HarnessArgs name no baseline input.
func NewWorkflow(
	target m.Target,
	defaultBaseline m.Input,
	artifacts adapter.ArtifactStore,
	reports adapter.ReportStore,
	ui controller.UI,
) Workflow {
	return &workflow{
		ArtifactStore:   artifacts,
		ReportStore:     reports,
		UI:              ui,
		target:          target,
		defaultBaseline: defaultBaseline,
	}
}

func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	catalog, input, err := w.resolve(args.HarnessArgs)
	if err != nil {
		return err
	}

	masterSeed := args.MasterSeed
	if args.RandomSeed {
		masterSeed = RandomMasterSeed()
	}

	specs := catalog.Specs()
	outputDir := shardOutputDir(args.OutputDir, args.ShardIndex, args.ShardCount)

	manifest := m.RunManifest{
		RunID:         uuid.NewString(),
		Target:        w.target.Name(),
		MasterSeed:    masterSeed,
		TrialsPerSpec: args.TrialsPerSpec,
		Specs:         specs,
		ShardIndex:    args.ShardIndex,
		ShardCount:    max(args.ShardCount, 1),
		StartedAt:     time.Now().UTC(),
	}

	planned := plannedTrials(len(specs)*max(args.TrialsPerSpec, 0), args.ShardIndex, args.ShardCount)

	if err := w.Start(ctx, controller.WithRunMode(planned)); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	w.DisplayRunInfo(ctx, manifest, planned, max(args.Parallel, 1))

	executor := NewExecutor(w.target, input, NewSeeder(masterSeed), w.ArtifactStore, w.UI, ExecutorOptions{
		Parallel:     args.Parallel,
		BaselineRuns: args.BaselineRuns,
		TrialTimeout: args.TrialTimeout,
		ShardIndex:   args.ShardIndex,
		ShardCount:   args.ShardCount,
	})

	results, err := executor.RunTrials(ctx, specs, args.TrialsPerSpec, outputDir)
	if err != nil {
		w.Close(ctx)
		slog.Error("Failed to run trials", "error", err)

		return err
	}

	manifest.FinishedAt = time.Now().UTC()

	records := Records(results)
	summary := Summarize(records)

	if err := w.saveReports(outputDir, manifest, records, summary); err != nil {
		w.Close(ctx)
		return err
	}

	slog.Info("Run finished", "run", manifest.RunID, "output", outputDir, "trials", len(records))

	w.DisplaySummary(ctx, summary)
	w.Wait(ctx)
	w.Close(ctx)

	return nil
}

func (w *workflow) Reproduce(ctx context.Context, args ReproduceArgs) error {
	if args.SpecName == "" {
		return ErrMissingReproduceArgs
	}

	catalog, input, err := w.resolve(args.HarnessArgs)
	if err != nil {
		return err
	}

	reproduction, err := w.newReproducer(catalog, input, args.HarnessArgs).
		Reproduce(ctx, args.SpecName, args.Seed, args.OutputDir)
	if err != nil {
		slog.Error("Failed to reproduce trial", "spec", args.SpecName, "seed", args.Seed, "error", err)
		return fmt.Errorf("reproduce %s seed %d: %w", args.SpecName, args.Seed, err)
	}

	w.DisplayReproduction(ctx, reproduction)

	return nil
}

func (w *workflow) Replay(ctx context.Context, args ReplayArgs) error {
	if args.SpecName == "" {
		return ErrMissingReproduceArgs
	}

	outcome := args.Outcome
	if outcome == "" {
		outcome = m.OutcomeIncorrect
	}

	records, err := w.LoadRecords(args.OutputDir)
	if err != nil {
		return fmt.Errorf("load results: %w", err)
	}

	seeds := SelectReplaySeeds(records, args.SpecName, outcome, args.Limit)
	if len(seeds) == 0 {
		return fmt.Errorf("%w: spec %q with outcome %s in %s", ErrNoMatchingTrials, args.SpecName, outcome, args.OutputDir)
	}

	catalog, input, err := w.resolve(args.HarnessArgs)
	if err != nil {
		return err
	}

	reproducer := w.newReproducer(catalog, input, args.HarnessArgs)

	for _, seed := range seeds {
		reproduction, err := reproducer.Reproduce(ctx, args.SpecName, seed, args.OutputDir)
		if err != nil {
			return fmt.Errorf("reproduce %s seed %d: %w", args.SpecName, seed, err)
		}

		if reproduction.Outcome != outcome {
			slog.Warn("Replayed outcome differs from the recorded one",
				"spec", args.SpecName, "seed", seed, "recorded", outcome, "replayed", reproduction.Outcome)
		}

		w.DisplayReproduction(ctx, reproduction)
	}

	return nil
}

func (w *workflow) ListSpecs(ctx context.Context, specsFile m.Path) error {
	catalog, err := loadCatalog(specsFile)
	if err != nil {
		return err
	}

	w.DisplaySpecs(ctx, catalog.Specs())

	return nil
}

func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	manifest, records, err := w.LoadJournal(args.OutputDir)
	if err != nil {
		return fmt.Errorf("load run: %w", err)
	}

	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		return err
	}

	w.DisplayRunInfo(ctx, manifest, len(records), 0)
	w.DisplaySummary(ctx, Summarize(records))
	w.Wait(ctx)
	w.Close(ctx)

	return nil
}

func (w *workflow) Merge(ctx context.Context, args MergeArgs) error {
	shardDirs, err := filepath.Glob(filepath.Join(string(args.OutputDir), shardDirPattern))
	if err != nil {
		return fmt.Errorf("find shards: %w", err)
	}

	if len(shardDirs) == 0 {
		return fmt.Errorf("%w in %s", ErrNoShards, args.OutputDir)
	}

	sort.Strings(shardDirs)

	var (
		merged  m.RunManifest
		records []m.TrialRecord
		seen    = map[int]bool{}
	)

	for i, dir := range shardDirs {
		manifest, shardRecords, err := w.LoadJournal(m.Path(dir))
		if err != nil {
			return fmt.Errorf("load shard %s: %w", dir, err)
		}

		if i == 0 {
			merged = manifest
		} else if err := mergeManifest(&merged, manifest); err != nil {
			return fmt.Errorf("shard %s: %w", dir, err)
		}

		if seen[manifest.ShardIndex] {
			return fmt.Errorf("shard %s: %w: index %d appears twice", dir, ErrIncompatibleShards, manifest.ShardIndex)
		}

		seen[manifest.ShardIndex] = true
		records = append(records, shardRecords...)
	}

	if err := checkShardsComplete(merged.ShardCount, seen); err != nil {
		return fmt.Errorf("%w in %s", err, args.OutputDir)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Index < records[j].Index
	})

	merged.RunID = uuid.NewString()
	merged.ShardIndex = 0
	merged.ShardCount = 1

	summary := Summarize(records)

	if err := w.saveReports(args.OutputDir, merged, records, summary); err != nil {
		return err
	}

	slog.Info("Merged shards", "shards", len(shardDirs), "trials", len(records), "output", args.OutputDir)

	w.DisplaySummary(ctx, summary)

	return nil
}

func mergeManifest(into *m.RunManifest, shard m.RunManifest) error {
	if shard.MasterSeed != into.MasterSeed || shard.TrialsPerSpec != into.TrialsPerSpec || shard.Target != into.Target {
		return fmt.Errorf("%w: master seed %d vs %d", ErrIncompatibleShards, shard.MasterSeed, into.MasterSeed)
	}

	if shard.ShardCount != into.ShardCount {
		return fmt.Errorf("%w: shard count %d vs %d", ErrIncompatibleShards, shard.ShardCount, into.ShardCount)
	}

	if shard.StartedAt.Before(into.StartedAt) {
		into.StartedAt = shard.StartedAt
	}

	if shard.FinishedAt.After(into.FinishedAt) {
		into.FinishedAt = shard.FinishedAt
	}

	return nil
}

// checkShardsComplete reports the shard indexes of a count-way run that were not found.
func checkShardsComplete(count int, seen map[int]bool) error {
	var missing []int

	for i := range max(count, 1) {
		if !seen[i] {
			missing = append(missing, i)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %d of %d shards, missing %v", ErrMissingShards, count-len(missing), count, missing)
	}

	return nil
}

func (w *workflow) saveReports(dir m.Path, manifest m.RunManifest, records []m.TrialRecord, summary m.Summary) error {
	if err := w.SaveResults(dir, records); err != nil {
		return fmt.Errorf("save results: %w", err)
	}

	if err := w.SaveSummary(dir, manifest, summary); err != nil {
		return fmt.Errorf("save summary: %w", err)
	}

	if err := w.SaveJournal(dir, records); err != nil {
		return fmt.Errorf("save journal: %w", err)
	}

	if err := w.SaveManifest(dir, manifest); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}

	if err := w.SaveMetrics(dir, records); err != nil {
		return fmt.Errorf("save metrics: %w", err)
	}

	return nil
}

func (w *workflow) newReproducer(catalog adapter.SpecCatalog, input m.Input, args HarnessArgs) Reproducer {
	return NewReproducer(w.target, input, catalog, w.ArtifactStore, ExecutorOptions{
		BaselineRuns: args.BaselineRuns,
		TrialTimeout: args.TrialTimeout,
	})
}

// resolve loads the spec catalog and the baseline input named by args.
func (w *workflow) resolve(args HarnessArgs) (adapter.SpecCatalog, m.Input, error) {
	catalog, err := loadCatalog(args.SpecsFile)
	if err != nil {
		return nil, m.Input{}, err
	}

	switch {
	case args.BaselineFile != "":
		input, err := w.ReadInput(args.BaselineFile)
		if err != nil {
			return nil, m.Input{}, fmt.Errorf("load baseline: %w", err)
		}

		return catalog, input, nil
	case args.BaselineText != "":
		return catalog, m.NewInput([]byte(args.BaselineText)), nil
	default:
		return catalog, w.defaultBaseline, nil
	}
}

func loadCatalog(specsFile m.Path) (adapter.SpecCatalog, error) {
	if specsFile == "" {
		return adapter.NewDefaultSpecCatalog(), nil
	}

	catalog, err := adapter.LoadSpecCatalog(specsFile)
	if err != nil {
		slog.Error("Failed to load spec catalog", "path", specsFile, "error", err)
		return nil, fmt.Errorf("load spec catalog: %w", err)
	}

	return catalog, nil
}

func shardOutputDir(outputDir m.Path, shardIndex, shardCount int) m.Path {
	if shardCount <= 1 {
		return outputDir
	}

	return m.Path(filepath.Join(string(outputDir), fmt.Sprintf("shard_%d", shardIndex)))
}

// plannedTrials counts plan indexes in [0, total) that belong to the shard.
func plannedTrials(total, shardIndex, shardCount int) int {
	if shardCount <= 1 {
		return total
	}

	if shardIndex < 0 || shardIndex >= total {
		return 0
	}

	return (total-shardIndex-1)/shardCount + 1
}
