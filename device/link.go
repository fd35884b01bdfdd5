package device

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/sarchlab/bricklines/instr"
)

// ErrOutputRange is returned when an output pattern does not fit six bits.
var ErrOutputRange = errors.New("output pattern exceeds six bits")

// Link drives the controller over a byte stream, normally a serial port.
type Link struct {
	rw  io.ReadWriter
	buf [1]byte
}

// NewLink wraps a byte stream. If rw is also an io.Closer, Close closes it.
func NewLink(rw io.ReadWriter) *Link {
	return &Link{rw: rw}
}

// WriteOutputs sends one output byte.
func (l *Link) WriteOutputs(ctx context.Context, bits uint8) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if bits&^instr.OutputMask != 0 {
		return errors.Wrapf(ErrOutputRange, "pattern %#02x", bits)
	}

	if _, err := l.rw.Write([]byte{bits}); err != nil {
		return errors.Wrap(err, "write outputs")
	}

	slog.Debug("Link", "Behavior", "WriteOutputs", "Bits", bits)

	return nil
}

// Hold sleeps for d. The link keeps no timing state of its own; the
// controller keeps its outputs until the next byte arrives.
func (l *Link) Hold(ctx context.Context, d time.Duration) error {
	return sleep(ctx, d)
}

// ReadInputs blocks until one input byte arrives. A read already in flight
// is not interrupted by ctx. With a read timeout set on the port, ctx is
// checked after every timeout.
func (l *Link) ReadInputs(ctx context.Context) (in7, in6 bool, err error) {
	if err := ctx.Err(); err != nil {
		return false, false, err
	}

	for {
		n, err := l.rw.Read(l.buf[:])
		if n == 1 {
			break
		}

		if err != nil {
			return false, false, errors.Wrap(err, "read inputs")
		}

		// A port with a read timeout returns no data and no error.
		if err := ctx.Err(); err != nil {
			return false, false, err
		}
	}

	in7, in6 = DecodeInputs(l.buf[0])
	slog.Debug("Link", "Behavior", "ReadInputs", "IN7", in7, "IN6", in6)

	return in7, in6, nil
}

// Reset switches all outputs off.
func (l *Link) Reset(ctx context.Context) error {
	return l.WriteOutputs(ctx, 0)
}

// Close closes the underlying stream if it can be closed.
func (l *Link) Close() error {
	if c, ok := l.rw.(io.Closer); ok {
		return errors.Wrap(c.Close(), "close link")
	}

	return nil
}
