package core

import (
	"time"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bricklines/device"
)

// DefaultHold is how long a line without value keeps its outputs.
const DefaultHold = time.Second

// Builder can create new engines.
type Builder struct {
	device       device.Device
	defaultHold  time.Duration
	pollInterval time.Duration
}

// NewBuilder returns a builder with the legacy defaults.
func NewBuilder() Builder {
	return Builder{
		defaultHold: DefaultHold,
	}
}

// WithDevice sets the device the engine drives.
func (b Builder) WithDevice(d device.Device) Builder {
	b.device = d
	return b
}

// WithDefaultHold sets the hold time of output lines without value. Zero
// keeps DefaultHold.
func (b Builder) WithDefaultHold(d time.Duration) Builder {
	b.defaultHold = d
	return b
}

// WithPollInterval sets the pause between two input samples of COUNT.
func (b Builder) WithPollInterval(d time.Duration) Builder {
	b.pollInterval = d
	return b
}

// Build creates an engine.
func (b Builder) Build(name string) *Engine {
	if b.device == nil {
		panic("engine requires a device")
	}

	hold := b.defaultHold
	if hold <= 0 {
		hold = DefaultHold
	}

	return &Engine{
		HookableBase: sim.NewHookableBase(),
		name:         name,
		device:       b.device,
		defaultHold:  hold,
		pollInterval: b.pollInterval,
	}
}
