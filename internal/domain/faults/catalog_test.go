package faults

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "faultline.dev/pkg/faultline/internal/model"
)

// scriptedSource returns the queued values in order, reduced modulo n.
type scriptedSource struct {
	values []int
	calls  int
}

func (s *scriptedSource) IntN(n int) int {
	v := s.values[s.calls%len(s.values)]
	s.calls++

	return v % n
}

var baselineBytes = []byte("Hello, this is baseline data 1234567890")

func TestApply_NullKindIgnoresParams(t *testing.T) {
	spec := m.InjectionSpec{Name: "null-input", Kind: m.FaultNull, Params: m.Params{"num_bits": 4}}

	out, err := Apply(spec, m.NewInput(baselineBytes), &scriptedSource{values: []int{0}})
	require.NoError(t, err)
	assert.True(t, out.IsNull())
	assert.False(t, out.Equal(m.NewInput(nil)), "null must differ from empty")
}

func TestApply_ExceptionKindReturnsInjectedFault(t *testing.T) {
	spec := m.InjectionSpec{Name: "forced-exception", Kind: m.FaultException}

	_, err := Apply(spec, m.NewInput(baselineBytes), &scriptedSource{values: []int{0}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInjectedFault))

	var injected *InjectedFaultError
	require.ErrorAs(t, err, &injected)
	assert.Equal(t, "forced-exception", injected.Spec)
}

func TestApply_DelayAndUnknownKindsKeepInput(t *testing.T) {
	input := m.NewInput(baselineBytes)

	for _, kind := range []m.FaultKind{m.FaultDelay, m.FaultKind("gamma-ray")} {
		t.Run(string(kind), func(t *testing.T) {
			src := &scriptedSource{values: []int{1}}
			out, err := Apply(m.InjectionSpec{Name: "x", Kind: kind}, input, src)
			require.NoError(t, err)
			assert.True(t, out.Equal(input))
			assert.Zero(t, src.calls)
		})
	}
}

func TestApply_UsesParamDefaults(t *testing.T) {
	src := &scriptedSource{values: []int{0}}

	out, err := Apply(m.InjectionSpec{Name: "b", Kind: m.FaultBitFlip}, m.NewInput([]byte{0x00}), src)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, out.Bytes())
	assert.Equal(t, 1, src.calls)

	out, err = Apply(m.InjectionSpec{Name: "s", Kind: m.FaultStuck}, m.NewInput([]byte{0xAA, 0xBB}), src)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xBB}, out.Bytes())
}

func TestApply_RejectsMalformedParams(t *testing.T) {
	spec := m.InjectionSpec{Name: "bad", Kind: m.FaultCorrupt, Params: m.Params{"start": "three"}}

	_, err := Apply(spec, m.NewInput(baselineBytes), &scriptedSource{values: []int{0}})
	require.Error(t, err)
}

func TestApply_SameSeedSameMutation(t *testing.T) {
	specs := []m.InjectionSpec{
		{Name: "2-bit-flip", Kind: m.FaultBitFlip, Params: m.Params{"num_bits": 2}},
		{Name: "corrupt-range-3", Kind: m.FaultCorrupt, Params: m.Params{"start": 3, "length": 4}},
	}

	for _, spec := range specs {
		t.Run(spec.Name, func(t *testing.T) {
			first, err := Apply(spec, m.NewInput(baselineBytes), rand.New(rand.NewPCG(42, 7)))
			require.NoError(t, err)

			second, err := Apply(spec, m.NewInput(baselineBytes), rand.New(rand.NewPCG(42, 7)))
			require.NoError(t, err)

			assert.Equal(t, first.Bytes(), second.Bytes())
		})
	}
}

func TestDelayFor(t *testing.T) {
	seconds, err := DelayFor(m.InjectionSpec{Kind: m.FaultDelay, Params: m.Params{"delay_s": 0.005}})
	require.NoError(t, err)
	assert.InDelta(t, 0.005, seconds, 1e-12)

	seconds, err = DelayFor(m.InjectionSpec{Kind: m.FaultDelay})
	require.NoError(t, err)
	assert.InDelta(t, DefaultDelaySeconds, seconds, 1e-12)

	seconds, err = DelayFor(m.InjectionSpec{Kind: m.FaultBitFlip, Params: m.Params{"delay_s": 3}})
	require.NoError(t, err)
	assert.Zero(t, seconds)

	_, err = DelayFor(m.InjectionSpec{Kind: m.FaultDelay, Params: m.Params{"delay_s": -1}})
	require.Error(t, err)
}
