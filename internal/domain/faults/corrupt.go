package faults

import (
	m "faultline.dev/pkg/faultline/internal/model"
)

// CorruptRange replaces bytes in [start, start+length), clipped to the buffer,
// with values drawn from src.
func CorruptRange(input m.Input, start, length int, src RandomSource) m.Input {
	if input.IsNull() {
		return m.NullInput()
	}

	data := input.Bytes()

	if start < 0 {
		length = max(length, 0) + start
		start = 0
	}

	end := start
	if length > 0 {
		end = len(data)
		if length < end-start {
			end = start + length
		}
	}

	for i := start; i < end; i++ {
		data[i] = byte(src.IntN(256))
	}

	return m.NewInput(data)
}
