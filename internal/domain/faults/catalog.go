// Package faults implements the fault models applied to target inputs.
package faults

import (
	"errors"
	"fmt"

	m "faultline.dev/pkg/faultline/internal/model"
)

// ErrInjectedFault marks failures raised on purpose by the exception fault model.
var ErrInjectedFault = errors.New("injected fault")

// InjectedFaultError is returned by the exception fault model.
type InjectedFaultError struct {
	Spec string
}

func (e *InjectedFaultError) Error() string {
	if e.Spec == "" {
		return ErrInjectedFault.Error()
	}

	return fmt.Sprintf("%s (spec %s)", ErrInjectedFault, e.Spec)
}

// Unwrap lets errors.Is match ErrInjectedFault.
func (e *InjectedFaultError) Unwrap() error {
	return ErrInjectedFault
}

// RandomSource is the random stream consumed by fault models.
// *math/rand/v2.Rand satisfies it.
type RandomSource interface {
	// IntN returns a value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// Apply runs the fault model described by spec against input.
// The input is never modified; unknown kinds return it unchanged.
func Apply(spec m.InjectionSpec, input m.Input, src RandomSource) (m.Input, error) {
	switch spec.Kind {
	case m.FaultBitFlip:
		numBits, err := spec.Params.Int(m.ParamNumBits, 1)
		if err != nil {
			return m.Input{}, err
		}

		return FlipBits(input, numBits, src), nil

	case m.FaultStuck:
		idx, err := spec.Params.Int(m.ParamIdx, 0)
		if err != nil {
			return m.Input{}, err
		}

		value, err := spec.Params.Int(m.ParamValue, 0)
		if err != nil {
			return m.Input{}, err
		}

		return StuckAt(input, idx, value), nil

	case m.FaultCorrupt:
		start, err := spec.Params.Int(m.ParamStart, 0)
		if err != nil {
			return m.Input{}, err
		}

		length, err := spec.Params.Int(m.ParamLength, 1)
		if err != nil {
			return m.Input{}, err
		}

		return CorruptRange(input, start, length, src), nil

	case m.FaultNull:
		return m.NullInput(), nil

	case m.FaultDelay:
		return input, nil

	case m.FaultException:
		return m.Input{}, &InjectedFaultError{Spec: spec.Name}

	default:
		return input, nil
	}
}

// DelayFor returns the pause a delay spec asks for, or zero for other kinds.
func DelayFor(spec m.InjectionSpec) (float64, error) {
	if spec.Kind != m.FaultDelay {
		return 0, nil
	}

	seconds, err := spec.Params.Float(m.ParamDelay, DefaultDelaySeconds)
	if err != nil {
		return 0, err
	}

	if seconds < 0 {
		return 0, fmt.Errorf("param %q: negative delay %v", m.ParamDelay, seconds)
	}

	return seconds, nil
}

// DefaultDelaySeconds is used when a delay spec has no delay_s parameter.
const DefaultDelaySeconds = 0.01
