package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrBusy is returned when a run starts while the engine is still running
// another program.
var ErrBusy = errors.New("engine is busy")

// DeviceOp names the device call that failed.
type DeviceOp string

const (
	OpWrite DeviceOp = "write outputs"
	OpHold  DeviceOp = "hold"
	OpRead  DeviceOp = "read inputs"
)

// DeviceError reports a device failure that aborted a run.
type DeviceError struct {
	Line int
	Op   DeviceOp
	Err  error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Op, e.Err)
}

// Unwrap returns the error of the device.
func (e *DeviceError) Unwrap() error {
	return e.Err
}
