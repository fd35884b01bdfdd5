// Package api defines the host driver that connects to a controller and runs
// programs on it.
package api

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	"github.com/sarchlab/bricklines/core"
	"github.com/sarchlab/bricklines/device"
	"github.com/sarchlab/bricklines/instr"
)

// Driver provides the interface to control an Interface A controller.
type Driver interface {
	// Connect prepares the controller by switching all outputs off.
	Connect(ctx context.Context) error

	// Run verifies and executes the program. It blocks until the program
	// ends, fails, or Stop is called, in which case it returns
	// context.Canceled.
	Run(ctx context.Context, p instr.Program) error

	// Stop interrupts the running program, if any. Outputs keep their last
	// pattern.
	Stop()

	// OutputsOff switches all outputs off.
	OutputsOff(ctx context.Context) error
}

type driverImpl struct {
	name    string
	device  device.Device
	engine  *core.Engine
	display *ListingHook

	lock   sync.Mutex
	cancel context.CancelFunc
}

func (d *driverImpl) Connect(ctx context.Context) error {
	if err := d.OutputsOff(ctx); err != nil {
		return errors.Wrap(err, "failed to connect")
	}

	slog.Info("Connected", "Driver", d.name)

	return nil
}

func (d *driverImpl) OutputsOff(ctx context.Context) error {
	return d.device.WriteOutputs(ctx, 0)
}

func (d *driverImpl) Run(ctx context.Context, p instr.Program) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.lock.Lock()
	if d.cancel != nil {
		d.lock.Unlock()
		return core.ErrBusy
	}
	d.cancel = cancel
	d.lock.Unlock()

	defer func() {
		d.lock.Lock()
		d.cancel = nil
		d.lock.Unlock()
	}()

	if d.display != nil {
		d.display.SetProgram(p)
	}

	slog.Info("Program started", "Driver", d.name, "Lines", len(p))

	err := d.engine.Run(ctx, p)
	if err != nil {
		slog.Info("Program stopped", "Driver", d.name, "Error", err)
		return err
	}

	slog.Info("Program finished", "Driver", d.name)

	return nil
}

func (d *driverImpl) Stop() {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.cancel != nil {
		d.cancel()
	}
}
