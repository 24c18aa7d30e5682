package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faultline.dev/pkg/faultline/internal/adapter"
	m "faultline.dev/pkg/faultline/internal/model"
	"faultline.dev/pkg/faultline/internal/target"
)

func newTestReproducer() Reproducer {
	return NewReproducer(
		target.NewPacketProcessor(),
		baselineInput(),
		adapter.NewDefaultSpecCatalog(),
		adapter.NewLocalArtifactStore(),
		ExecutorOptions{},
	)
}

func TestReproducer_MatchesRunResults(t *testing.T) {
	executor, _ := newTestExecutor(99, ExecutorOptions{})

	results, err := executor.RunTrials(context.Background(), adapter.DefaultSpecs(), 10, m.Path(t.TempDir()))
	require.NoError(t, err)

	reproducer := newTestReproducer()
	out := t.TempDir()
	checked := 0

	for _, result := range results {
		if result.Outcome == m.OutcomePass {
			continue
		}

		rep, err := reproducer.Reproduce(context.Background(), result.SpecName, result.Seed, m.Path(out))
		require.NoError(t, err)

		assert.Equal(t, result.Outcome, rep.Outcome, "spec %s seed %d", result.SpecName, result.Seed)
		assert.Equal(t, result.MutatedInput, rep.Input.Encode(), "spec %s seed %d", result.SpecName, result.Seed)
		assert.Equal(t, result.Output, rep.Output)
		assert.Equal(t, result.Baseline, rep.Baseline)

		checked++
	}

	assert.Positive(t, checked)
}

func TestReproducer_SavesInputAndIsIdempotent(t *testing.T) {
	reproducer := newTestReproducer()
	out := t.TempDir()

	first, err := reproducer.Reproduce(context.Background(), "stuck-zero-at-5", 12345, m.Path(out))
	require.NoError(t, err)

	second, err := reproducer.Reproduce(context.Background(), "stuck-zero-at-5", 12345, m.Path(out))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, m.OutcomeException, first.Outcome)
	assert.Equal(t, filepath.Join(out, adapter.ReproductionsDir, "stuck-zero-at-5_seed_12345.bin"), string(first.Path))

	saved, err := os.ReadFile(string(first.Path))
	require.NoError(t, err)
	assert.Equal(t, first.Input.Bytes(), saved)
	assert.Equal(t, byte(0), saved[5])

	assert.Contains(t, first.Diff, "--- baseline")
	assert.Contains(t, first.Diff, "+++ mutated")
}

func TestReproducer_NullInputIsNotSaved(t *testing.T) {
	reproducer := newTestReproducer()
	out := t.TempDir()

	rep, err := reproducer.Reproduce(context.Background(), "null-input", 7, m.Path(out))
	require.NoError(t, err)

	assert.True(t, rep.Input.IsNull())
	assert.Empty(t, rep.Path)
	assert.Equal(t, m.OutcomeException, rep.Outcome)
	assert.Contains(t, rep.ExceptionText, "pkt_bytes is None")
	assert.Contains(t, rep.Diff, "+(null)")

	_, err = os.Stat(filepath.Join(out, adapter.ReproductionsDir))
	assert.True(t, os.IsNotExist(err))
}

func TestReproducer_UnknownSpec(t *testing.T) {
	_, err := newTestReproducer().Reproduce(context.Background(), "does-not-exist", 1, m.Path(t.TempDir()))
	require.ErrorIs(t, err, adapter.ErrSpecNotFound)
}

func TestReproducer_BaselineFailureStillReproduces(t *testing.T) {
	reproducer := NewReproducer(
		target.NewPacketProcessor(),
		m.NewInput([]byte("tiny")),
		adapter.NewDefaultSpecCatalog(),
		adapter.NewLocalArtifactStore(),
		ExecutorOptions{BaselineRuns: 1},
	)

	rep, err := reproducer.Reproduce(context.Background(), "null-input", 1, m.Path(t.TempDir()))
	require.NoError(t, err)

	assert.Contains(t, rep.BaselineError, ErrBaseline.Error())
	assert.Nil(t, rep.Baseline)
	assert.Equal(t, m.OutcomeException, rep.Outcome)
	assert.Contains(t, rep.ExceptionText, "pkt_bytes is None")
}

func TestReproducer_BaselineFailureLeavesOutputUnclassified(t *testing.T) {
	rejectsBaseline := m.TargetFunc(func(_ context.Context, in m.Input) (any, error) {
		if in.Equal(baselineInput()) {
			return nil, errors.New("baseline rejected")
		}

		return in.Len(), nil
	})

	reproducer := NewReproducer(
		rejectsBaseline,
		baselineInput(),
		adapter.NewDefaultSpecCatalog(),
		adapter.NewLocalArtifactStore(),
		ExecutorOptions{BaselineRuns: 1},
	)

	out := t.TempDir()

	rep, err := reproducer.Reproduce(context.Background(), "stuck-zero-at-5", 3, m.Path(out))
	require.NoError(t, err)

	assert.Equal(t, m.OutcomeUnclassified, rep.Outcome)
	assert.Contains(t, rep.BaselineError, "baseline rejected")
	assert.Equal(t, baselineInput().Len(), rep.Output)
	assert.Equal(t, byte(0), rep.Input.Bytes()[5])
	assert.NotEmpty(t, rep.Path)
}

func TestHexDiff(t *testing.T) {
	in := m.NewInput([]byte("abcdef"))

	assert.Empty(t, HexDiff(in, in))
	assert.Empty(t, HexDiff(m.NullInput(), m.NullInput()))

	diff := HexDiff(in, m.NewInput([]byte("abcdeg")))
	assert.Contains(t, diff, "-00000000  61 62 63 64 65 66")
	assert.Contains(t, diff, "+00000000  61 62 63 64 65 67")

	assert.Contains(t, HexDiff(in, m.NewInput(nil)), "+(empty)")
}
