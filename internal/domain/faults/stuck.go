package faults

import (
	m "faultline.dev/pkg/faultline/internal/model"
)

// StuckAt overwrites the byte at idx with value & 0xFF.
// Indexes outside the buffer leave it unchanged.
func StuckAt(input m.Input, idx, value int) m.Input {
	if input.IsNull() {
		return m.NullInput()
	}

	data := input.Bytes()
	if idx >= 0 && idx < len(data) {
		data[idx] = byte(value & 0xFF)
	}

	return m.NewInput(data)
}
