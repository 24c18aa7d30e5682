package model

import (
	"fmt"
	"math"

	"fortio.org/safecast"
)

// FaultKind identifies a fault model in the catalog.
type FaultKind string

const (
	// FaultBitFlip flips randomly chosen bits.
	FaultBitFlip FaultKind = "bitflip"
	// FaultStuck overwrites one byte with a fixed value.
	FaultStuck FaultKind = "stuck"
	// FaultCorrupt overwrites a byte range with random values.
	FaultCorrupt FaultKind = "corrupt"
	// FaultNull replaces the input with an absent value.
	FaultNull FaultKind = "null"
	// FaultDelay leaves the input untouched and delays the target call.
	FaultDelay FaultKind = "delay"
	// FaultException fails before the target is called.
	FaultException FaultKind = "exception"
)

// KnownFaultKinds lists the kinds the catalog implements, in documentation order.
var KnownFaultKinds = []FaultKind{
	FaultBitFlip,
	FaultStuck,
	FaultCorrupt,
	FaultNull,
	FaultDelay,
	FaultException,
}

// Known reports whether the kind has a dedicated fault model.
func (k FaultKind) Known() bool {
	for _, known := range KnownFaultKinds {
		if k == known {
			return true
		}
	}

	return false
}

// Parameter keys understood by the fault models.
const (
	ParamNumBits = "num_bits"
	ParamIdx     = "idx"
	ParamValue   = "value"
	ParamStart   = "start"
	ParamLength  = "length"
	ParamDelay   = "delay_s"
)

// Params holds fault model parameters as decoded from configuration.
type Params map[string]any

// Int returns the integer parameter stored under key, or def when missing.
func (p Params) Int(key string, def int) (int, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return def, nil
	}

	switch v := raw.(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return safecast.Conv[int](v)
	case uint:
		return safecast.Conv[int](v)
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return safecast.Conv[int](v)
	case uint64:
		return safecast.Conv[int](v)
	case float64:
		if math.Trunc(v) != v {
			return 0, fmt.Errorf("param %q: %v is not an integer", key, v)
		}

		return safecast.Convert[int](v)
	default:
		return 0, fmt.Errorf("param %q: unsupported type %T", key, raw)
	}
}

// Float returns the numeric parameter stored under key, or def when missing.
func (p Params) Float(key string, def float64) (float64, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return def, nil
	}

	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	default:
		n, err := p.Int(key, 0)
		if err != nil {
			return 0, err
		}

		return float64(n), nil
	}
}

// Clone returns a shallow copy of the parameters.
func (p Params) Clone() Params {
	if p == nil {
		return Params{}
	}

	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}

	return out
}

// InjectionSpec is a named, immutable description of one fault model.
type InjectionSpec struct {
	Name   string    `yaml:"name" toml:"name" msgpack:"name" validate:"required,max=128"`
	Kind   FaultKind `yaml:"kind" toml:"kind" msgpack:"kind" validate:"required"`
	Params Params    `yaml:"params,omitempty" toml:"params,omitempty" msgpack:"params,omitempty"`
}

// String implements fmt.Stringer.
func (s InjectionSpec) String() string {
	return fmt.Sprintf("%s(%s)", s.Name, s.Kind)
}
