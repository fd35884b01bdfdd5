package api

import (
	"io"
	"time"

	"github.com/sarchlab/bricklines/core"
	"github.com/sarchlab/bricklines/device"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	device       device.Device
	defaultHold  time.Duration
	pollInterval time.Duration

	display io.Writer
	color   bool
	clear   bool
}

// WithDevice sets the controller the driver talks to.
func (b DriverBuilder) WithDevice(dev device.Device) DriverBuilder {
	b.device = dev
	return b
}

// WithDefaultHold sets the hold time of lines without value.
func (b DriverBuilder) WithDefaultHold(d time.Duration) DriverBuilder {
	b.defaultHold = d
	return b
}

// WithPollInterval sets the pause between input samples of COUNT.
func (b DriverBuilder) WithPollInterval(d time.Duration) DriverBuilder {
	b.pollInterval = d
	return b
}

// WithDisplay redraws the program listing to w before every step. With
// clear set, the screen is cleared before each redraw.
func (b DriverBuilder) WithDisplay(w io.Writer, color, clear bool) DriverBuilder {
	b.display = w
	b.color = color
	b.clear = clear
	return b
}

// Build creates a driver.
func (b DriverBuilder) Build(name string) Driver {
	if b.device == nil {
		panic("driver requires a device")
	}

	d := &driverImpl{
		name:   name,
		device: b.device,
	}

	d.engine = core.NewBuilder().
		WithDevice(b.device).
		WithDefaultHold(b.defaultHold).
		WithPollInterval(b.pollInterval).
		Build(name + ".Engine")

	if b.display != nil {
		d.display = NewListingHook(b.display, b.color, b.clear)
		d.engine.AcceptHook(d.display)
	}

	return d
}
