// Package device talks to the Interface A controller.
//
// The controller exposes six output bits and two input bits (IN7 and IN6)
// over a byte-oriented link. One byte written sets all outputs at once; one
// byte read returns the input lines in bits 7 and 6.
package device

import (
	"context"
	"time"
)

// A Device is the controller as seen by the execution engine. Every call
// blocks until it is done; none of them is retried.
type Device interface {
	// WriteOutputs sets the six outputs to bits. The new pattern is in
	// effect before the call returns.
	WriteOutputs(ctx context.Context, bits uint8) error

	// Hold keeps the current outputs for d.
	Hold(ctx context.Context, d time.Duration) error

	// ReadInputs samples IN7 and IN6, blocking until a sample arrives.
	ReadInputs(ctx context.Context) (in7, in6 bool, err error)
}

const (
	in7Bit uint8 = 1 << 7
	in6Bit uint8 = 1 << 6
)

// DecodeInputs extracts IN7 and IN6 from an input byte.
func DecodeInputs(b uint8) (in7, in6 bool) {
	return b&in7Bit != 0, b&in6Bit != 0
}

// EncodeInputs builds the input byte for the given line values.
func EncodeInputs(in7, in6 bool) uint8 {
	var b uint8
	if in7 {
		b |= in7Bit
	}
	if in6 {
		b |= in6Bit
	}

	return b
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
