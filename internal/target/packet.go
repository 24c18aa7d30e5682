// Package target provides the example target exercised by the harness.
package target

import (
	"context"
	"errors"
	"fmt"

	m "faultline.dev/pkg/faultline/internal/model"
)

// ErrInvalidPacket is wrapped by every rejection of PacketProcessor.
var ErrInvalidPacket = errors.New("invalid packet")

// DefaultBaseline is the packet used when no baseline input is configured.
const DefaultBaseline = "Hello, this is baseline data 1234567890"

const (
	// MinPacketLength is the shortest accepted packet.
	MinPacketLength = 20

	minPrintable = 32
	maxPrintable = 126
)

// PacketProcessor is a defensive packet parser returning a 16-bit checksum.
type PacketProcessor struct{}

// NewPacketProcessor constructs a PacketProcessor.
func NewPacketProcessor() *PacketProcessor {
	return &PacketProcessor{}
}

// Name implements model.Target.
func (p *PacketProcessor) Name() string {
	return "packet"
}

// Invoke implements model.Target.
func (p *PacketProcessor) Invoke(_ context.Context, in m.Input) (any, error) {
	return Process(in)
}

// Process validates the packet and returns its checksum.
func Process(in m.Input) (int, error) {
	if in.IsNull() {
		return 0, fmt.Errorf("%w: pkt_bytes is None", ErrInvalidPacket)
	}

	if in.Len() < MinPacketLength {
		return 0, fmt.Errorf("%w: too short", ErrInvalidPacket)
	}

	data := in.Bytes()
	for _, b := range data {
		if b < minPrintable || b > maxPrintable {
			return 0, fmt.Errorf("%w: non-printable byte detected", ErrInvalidPacket)
		}
	}

	sum := 0
	for _, b := range data {
		sum = (sum + int(b)) & 0xFFFF
		if sum&0xFF == 0x7E {
			sum ^= 0xA5A5
		}
	}

	return sum, nil
}
