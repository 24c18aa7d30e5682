package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faultline.dev/pkg/faultline/internal/adapter"
	m "faultline.dev/pkg/faultline/internal/model"
	"faultline.dev/pkg/faultline/internal/target"
)

func TestExecutor_SameMasterSeedSameResults(t *testing.T) {
	specs := adapter.DefaultSpecs()

	first, _ := newTestExecutor(2024, ExecutorOptions{})
	second, _ := newTestExecutor(2024, ExecutorOptions{})

	a, err := first.RunTrials(context.Background(), specs, 20, m.Path(t.TempDir()))
	require.NoError(t, err)

	b, err := second.RunTrials(context.Background(), specs, 20, m.Path(t.TempDir()))
	require.NoError(t, err)

	require.Len(t, a, len(specs)*20)
	assert.Equal(t, withoutDurations(a), withoutDurations(b))

	for i, result := range a {
		assert.Equal(t, i, result.Index)
		assert.Equal(t, specs[i/20].Name, result.SpecName)
		assert.Equal(t, 3134, result.Baseline)
	}
}

func TestExecutor_ParallelMatchesSequential(t *testing.T) {
	specs := adapter.DefaultSpecs()

	sequential, _ := newTestExecutor(77, ExecutorOptions{Parallel: 1})
	parallel, ui := newTestExecutor(77, ExecutorOptions{Parallel: 8})

	a, err := sequential.RunTrials(context.Background(), specs, 15, m.Path(t.TempDir()))
	require.NoError(t, err)

	b, err := parallel.RunTrials(context.Background(), specs, 15, m.Path(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, withoutDurations(a), withoutDurations(b))
	assert.Len(t, ui.completed, len(b))
	assert.Len(t, ui.started, len(b))
}

func TestExecutor_ZeroTrials(t *testing.T) {
	executor, _ := newTestExecutor(1, ExecutorOptions{})

	results, err := executor.RunTrials(context.Background(), adapter.DefaultSpecs(), 0, m.Path(t.TempDir()))
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestExecutor_Validation(t *testing.T) {
	executor, _ := newTestExecutor(1, ExecutorOptions{})
	out := m.Path(t.TempDir())

	_, err := executor.RunTrials(context.Background(), nil, 1, out)
	require.ErrorIs(t, err, ErrNoSpecs)

	_, err = executor.RunTrials(context.Background(), adapter.DefaultSpecs(), -1, out)
	require.ErrorIs(t, err, ErrInvalidTrialCount)

	dup := []m.InjectionSpec{{Name: "x", Kind: m.FaultNull}, {Name: "x", Kind: m.FaultDelay}}
	_, err = executor.RunTrials(context.Background(), dup, 1, out)
	require.ErrorIs(t, err, ErrDuplicateSpec)

	sharded, _ := newTestExecutor(1, ExecutorOptions{ShardIndex: 3, ShardCount: 3})
	_, err = sharded.RunTrials(context.Background(), adapter.DefaultSpecs(), 1, out)
	require.ErrorIs(t, err, ErrInvalidShard)
}

func TestExecutor_OutputDirCreated(t *testing.T) {
	executor, _ := newTestExecutor(1, ExecutorOptions{})
	out := filepath.Join(t.TempDir(), "nested", "reports")

	_, err := executor.RunTrials(context.Background(), adapter.DefaultSpecs(), 1, m.Path(out))
	require.NoError(t, err)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestExecutor_Classification(t *testing.T) {
	out := t.TempDir()
	executor, _ := newTestExecutor(5, ExecutorOptions{})

	specs := []m.InjectionSpec{
		{Name: "null-input", Kind: m.FaultNull},
		{Name: "stuck-zero-at-5", Kind: m.FaultStuck, Params: m.Params{m.ParamIdx: 5, m.ParamValue: 0}},
		{Name: "stuck-out-of-range", Kind: m.FaultStuck, Params: m.Params{m.ParamIdx: 1000, m.ParamValue: 0}},
		{Name: "forced-exception", Kind: m.FaultException},
		{Name: "cosmic-ray", Kind: "cosmic-ray"},
		{Name: "corrupt-everything", Kind: m.FaultCorrupt, Params: m.Params{m.ParamStart: 0, m.ParamLength: 1000}},
	}

	results, err := executor.RunTrials(context.Background(), specs, 2, m.Path(out))
	require.NoError(t, err)
	require.Len(t, results, 12)

	byName := map[string]m.TrialResult{}
	for _, result := range results {
		byName[result.SpecName] = result
	}

	null := byName["null-input"]
	assert.Equal(t, m.OutcomeException, null.Outcome)
	assert.Contains(t, null.ExceptionText, "pkt_bytes is None")
	assert.Empty(t, null.MutatedInput)
	assert.Nil(t, null.Output)

	stuck := byName["stuck-zero-at-5"]
	assert.Equal(t, m.OutcomeException, stuck.Outcome)
	assert.Contains(t, stuck.ExceptionText, "non-printable byte detected")
	require.NotEmpty(t, stuck.MutatedInput)

	saved, err := os.ReadFile(filepath.Join(out, adapter.ExamplesDir, adapter.ArtifactName("stuck-zero-at-5", stuck.Seed)))
	require.NoError(t, err)
	assert.Equal(t, byte(0), saved[5])
	assert.Equal(t, stuck.MutatedInput, m.NewInput(saved).Encode())

	assert.Equal(t, m.OutcomePass, byName["stuck-out-of-range"].Outcome)
	assert.Empty(t, byName["stuck-out-of-range"].MutatedInput)

	forced := byName["forced-exception"]
	assert.Equal(t, m.OutcomeException, forced.Outcome)
	assert.Contains(t, forced.ExceptionText, "injected fault")
	assert.Empty(t, forced.MutatedInput)

	assert.Equal(t, m.OutcomePass, byName["cosmic-ray"].Outcome)

	corrupt := byName["corrupt-everything"]
	assert.Equal(t, m.OutcomeException, corrupt.Outcome)
	assert.NotEmpty(t, corrupt.MutatedInput)
}

func TestExecutor_BitFlipsProduceIncorrectOutputs(t *testing.T) {
	executor, _ := newTestExecutor(31337, ExecutorOptions{})
	specs := []m.InjectionSpec{{Name: "1-bit-flip", Kind: m.FaultBitFlip, Params: m.Params{m.ParamNumBits: 1}}}

	results, err := executor.RunTrials(context.Background(), specs, 60, m.Path(t.TempDir()))
	require.NoError(t, err)

	counts := map[m.Outcome]int{}
	for _, result := range results {
		counts[result.Outcome]++

		if result.Outcome == m.OutcomeIncorrect {
			assert.NotEqual(t, result.Baseline, result.Output)
			assert.NotEmpty(t, result.MutatedInput)
		}
	}

	assert.Positive(t, counts[m.OutcomeIncorrect])
}

func TestExecutor_DelayPassesAndTakesTime(t *testing.T) {
	executor, _ := newTestExecutor(9, ExecutorOptions{})
	specs := []m.InjectionSpec{{Name: "timing-delay", Kind: m.FaultDelay, Params: m.Params{m.ParamDelay: 0.02}}}

	started := time.Now()
	results, err := executor.RunTrials(context.Background(), specs, 3, m.Path(t.TempDir()))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(started), 60*time.Millisecond)

	for _, result := range results {
		assert.Equal(t, m.OutcomePass, result.Outcome)
		assert.GreaterOrEqual(t, result.Duration, 20*time.Millisecond)
	}
}

func TestExecutor_PanickingTarget(t *testing.T) {
	panicky := m.TargetFunc(func(_ context.Context, in m.Input) (any, error) {
		if in.IsNull() {
			panic("boom")
		}

		return in.Len(), nil
	})

	executor := NewExecutor(panicky, baselineInput(), NewSeeder(1), adapter.NewLocalArtifactStore(), &recordingUI{}, ExecutorOptions{})

	results, err := executor.RunTrials(context.Background(), []m.InjectionSpec{{Name: "null-input", Kind: m.FaultNull}}, 2, m.Path(t.TempDir()))
	require.NoError(t, err)

	for _, result := range results {
		assert.Equal(t, m.OutcomeException, result.Outcome)
		assert.Contains(t, result.ExceptionText, "target panicked: boom")
	}
}

func TestExecutor_TrialTimeout(t *testing.T) {
	slow := m.TargetFunc(func(_ context.Context, in m.Input) (any, error) {
		if in.IsNull() {
			time.Sleep(300 * time.Millisecond)
		}

		return in.Len(), nil
	})

	executor := NewExecutor(slow, baselineInput(), NewSeeder(1), adapter.NewLocalArtifactStore(), &recordingUI{},
		ExecutorOptions{TrialTimeout: 20 * time.Millisecond})

	results, err := executor.RunTrials(context.Background(), []m.InjectionSpec{{Name: "null-input", Kind: m.FaultNull}}, 1, m.Path(t.TempDir()))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, m.OutcomeException, results[0].Outcome)
	assert.Contains(t, results[0].ExceptionText, ErrTrialTimeout.Error())
}

func TestExecutor_BaselineFailureAborts(t *testing.T) {
	executor := NewExecutor(target.NewPacketProcessor(), m.NewInput([]byte("short")), NewSeeder(1),
		adapter.NewLocalArtifactStore(), &recordingUI{}, ExecutorOptions{})

	_, err := executor.RunTrials(context.Background(), adapter.DefaultSpecs(), 1, m.Path(t.TempDir()))
	require.ErrorIs(t, err, ErrBaseline)
	require.ErrorIs(t, err, target.ErrInvalidPacket)
}

func TestExecutor_UnstableBaselineUsesFirstRun(t *testing.T) {
	calls := 0
	counter := m.TargetFunc(func(_ context.Context, _ m.Input) (any, error) {
		calls++
		return calls, nil
	})

	executor := NewExecutor(counter, baselineInput(), NewSeeder(1), adapter.NewLocalArtifactStore(), &recordingUI{},
		ExecutorOptions{BaselineRuns: 3})

	results, err := executor.RunTrials(context.Background(), []m.InjectionSpec{{Name: "delay", Kind: m.FaultDelay, Params: m.Params{m.ParamDelay: 0}}}, 1, m.Path(t.TempDir()))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Baseline)
	assert.Equal(t, 4, results[0].Output)
	assert.Equal(t, m.OutcomeIncorrect, results[0].Outcome)
}

type failingArtifacts struct {
	*adapter.LocalArtifactStore
}

func (f failingArtifacts) WriteExample(m.Path, string, uint32, m.Input) (m.Path, error) {
	return "", errors.New("disk full")
}

func TestExecutor_ExampleWriteFailureIsNoted(t *testing.T) {
	executor := NewExecutor(target.NewPacketProcessor(), baselineInput(), NewSeeder(1),
		failingArtifacts{adapter.NewLocalArtifactStore()}, &recordingUI{}, ExecutorOptions{})

	specs := []m.InjectionSpec{{Name: "stuck-zero-at-5", Kind: m.FaultStuck, Params: m.Params{m.ParamIdx: 5, m.ParamValue: 0}}}

	results, err := executor.RunTrials(context.Background(), specs, 1, m.Path(t.TempDir()))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, m.OutcomeException, results[0].Outcome)
	assert.Contains(t, results[0].ExceptionText, "non-printable byte detected; example not saved: disk full")
}

func TestExecutor_ShardMatchesFullRun(t *testing.T) {
	specs := adapter.DefaultSpecs()

	full, _ := newTestExecutor(404, ExecutorOptions{})
	all, err := full.RunTrials(context.Background(), specs, 4, m.Path(t.TempDir()))
	require.NoError(t, err)

	shard, _ := newTestExecutor(404, ExecutorOptions{ShardIndex: 1, ShardCount: 3})
	part, err := shard.RunTrials(context.Background(), specs, 4, m.Path(t.TempDir()))
	require.NoError(t, err)

	require.NotEmpty(t, part)

	for _, result := range part {
		assert.Equal(t, 1, result.Index%3)

		want := all[result.Index]
		want.Duration = 0
		result.Duration = 0
		assert.Equal(t, want, result)
	}
}

func TestExecutor_CancelledContext(t *testing.T) {
	executor, _ := newTestExecutor(1, ExecutorOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := executor.RunTrials(ctx, adapter.DefaultSpecs(), 3, m.Path(t.TempDir()))
	require.ErrorIs(t, err, context.Canceled)
}
