package faults

import (
	m "faultline.dev/pkg/faultline/internal/model"
)

// FlipBits flips numBits bit positions drawn from src. The same bit may be
// drawn more than once, in which case it flips back.
func FlipBits(input m.Input, numBits int, src RandomSource) m.Input {
	if input.IsNull() {
		return m.NullInput()
	}

	data := input.Bytes()
	if len(data) == 0 {
		return m.NewInput(nil)
	}

	totalBits := len(data) * 8
	for range numBits {
		bit := src.IntN(totalBits)
		data[bit/8] ^= 1 << (bit % 8)
	}

	return m.NewInput(data)
}
