// Package model defines the data structures for fault injection runs.
package model

import (
	"bytes"
	"encoding/base64"
)

// Path represents a file system path.
type Path string

// Input is the byte sequence handed to a target.
//
// A null Input models an absent value and is distinct from a zero-length
// Input. Inputs never share their backing array with the caller.
type Input struct {
	data  []byte
	valid bool
}

// NewInput copies b into a non-null Input. A nil b yields an empty, non-null Input.
func NewInput(b []byte) Input {
	data := make([]byte, len(b))
	copy(data, b)

	return Input{data: data, valid: true}
}

// NullInput returns the absent Input.
func NullInput() Input {
	return Input{}
}

// IsNull reports whether the input is absent.
func (in Input) IsNull() bool {
	return !in.valid
}

// Len returns the number of bytes (0 for a null input).
func (in Input) Len() int {
	return len(in.data)
}

// Bytes returns a copy of the input bytes, or nil for a null input.
func (in Input) Bytes() []byte {
	if !in.valid {
		return nil
	}

	return bytes.Clone(in.data)
}

// Equal reports whether both inputs are null, or both hold the same bytes.
func (in Input) Equal(other Input) bool {
	if in.valid != other.valid {
		return false
	}

	return bytes.Equal(in.data, other.data)
}

// Encode returns the standard base64 encoding, or "" for a null input.
func (in Input) Encode() string {
	if !in.valid {
		return ""
	}

	return base64.StdEncoding.EncodeToString(in.data)
}

// DecodeInput parses the output of Encode. An empty string decodes to a null input.
func DecodeInput(encoded string) (Input, error) {
	if encoded == "" {
		return NullInput(), nil
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Input{}, err
	}

	return Input{data: raw, valid: true}, nil
}
