package device

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bricklines/instr"
)

// TraceOp names a device interaction.
type TraceOp string

const (
	OpWrite TraceOp = "WRITE"
	OpHold  TraceOp = "HOLD"
	OpRead  TraceOp = "READ"
)

// TraceEntry records one interaction with a simulated device.
type TraceEntry struct {
	Time time.Duration // virtual time when the call started
	Op   TraceOp
	Bits uint8         // OpWrite
	Hold time.Duration // OpHold
	In7  bool          // OpRead
	In6  bool          // OpRead
}

// ErrTimeLimit is returned once a simulated device reaches its time limit.
var ErrTimeLimit = errors.New("virtual time limit reached")

// Stimulus sets the input lines from virtual time At onwards.
type Stimulus struct {
	At       time.Duration
	In7, In6 bool
}

// SimDevice simulates the controller on an akita engine. Holds and input
// samples advance virtual time instead of waiting, and the input lines follow
// a schedule of stimuli.
type SimDevice struct {
	name         string
	engine       sim.Engine
	samplePeriod time.Duration
	stimuli      []Stimulus
	timeLimit    time.Duration

	outputs uint8
	trace   []TraceEntry
}

// SimDeviceBuilder creates simulated devices.
type SimDeviceBuilder struct {
	engine     sim.Engine
	sampleFreq sim.Freq
	stimuli    []Stimulus
	timeLimit  time.Duration
}

// NewSimDeviceBuilder returns a builder that samples inputs at 100 Hz.
func NewSimDeviceBuilder() SimDeviceBuilder {
	return SimDeviceBuilder{
		sampleFreq: 100 * sim.Hz,
	}
}

// WithEngine sets the engine that keeps virtual time.
func (b SimDeviceBuilder) WithEngine(engine sim.Engine) SimDeviceBuilder {
	b.engine = engine
	return b
}

// WithSampleFreq sets how often the simulated inputs can be sampled. Every
// read advances virtual time by one period.
func (b SimDeviceBuilder) WithSampleFreq(freq sim.Freq) SimDeviceBuilder {
	b.sampleFreq = freq
	return b
}

// WithStimuli sets the input schedule.
func (b SimDeviceBuilder) WithStimuli(stimuli ...Stimulus) SimDeviceBuilder {
	b.stimuli = append([]Stimulus(nil), stimuli...)
	return b
}

// WithTimeLimit stops virtual time at limit. Holds and samples that would pass
// it end at the limit with ErrTimeLimit. Zero means no limit.
func (b SimDeviceBuilder) WithTimeLimit(limit time.Duration) SimDeviceBuilder {
	b.timeLimit = limit
	return b
}

// Build creates the device.
func (b SimDeviceBuilder) Build(name string) *SimDevice {
	engine := b.engine
	if engine == nil {
		engine = sim.NewSerialEngine()
	}

	stimuli := append([]Stimulus(nil), b.stimuli...)
	sort.SliceStable(stimuli, func(i, j int) bool {
		return stimuli[i].At < stimuli[j].At
	})

	var period time.Duration
	if b.sampleFreq > 0 {
		period = fromVTime(b.sampleFreq.Period())
	}

	return &SimDevice{
		name:         name,
		engine:       engine,
		samplePeriod: period,
		stimuli:      stimuli,
		timeLimit:    b.timeLimit,
	}
}

// Name returns the name of the device.
func (d *SimDevice) Name() string {
	return d.name
}

// WriteOutputs records the new output pattern.
func (d *SimDevice) WriteOutputs(ctx context.Context, bits uint8) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := d.checkLimit(); err != nil {
		return err
	}

	if bits&^instr.OutputMask != 0 {
		return errors.Wrapf(ErrOutputRange, "pattern %#02x", bits)
	}

	d.outputs = bits
	d.record(TraceEntry{Op: OpWrite, Bits: bits})

	return nil
}

// Hold advances virtual time by dur.
func (d *SimDevice) Hold(ctx context.Context, dur time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := d.checkLimit(); err != nil {
		return err
	}

	d.record(TraceEntry{Op: OpHold, Hold: dur})

	return d.advance(dur)
}

// ReadInputs samples the stimulus schedule at the current virtual time, then
// advances time by one sample period.
func (d *SimDevice) ReadInputs(ctx context.Context) (in7, in6 bool, err error) {
	if err := ctx.Err(); err != nil {
		return false, false, err
	}

	if err := d.checkLimit(); err != nil {
		return false, false, err
	}

	in7, in6 = d.inputsAt(d.Now())
	d.record(TraceEntry{Op: OpRead, In7: in7, In6: in6})

	if err := d.advance(d.samplePeriod); err != nil {
		return false, false, err
	}

	return in7, in6, nil
}

// Handle wakes the device at the end of a hold or sample period.
func (d *SimDevice) Handle(e sim.Event) error {
	return nil
}

// Now returns the current virtual time.
func (d *SimDevice) Now() time.Duration {
	return fromVTime(d.engine.CurrentTime())
}

// Outputs returns the last written output pattern.
func (d *SimDevice) Outputs() uint8 {
	return d.outputs
}

// Trace returns all recorded interactions in order.
func (d *SimDevice) Trace() []TraceEntry {
	return append([]TraceEntry(nil), d.trace...)
}

func (d *SimDevice) record(e TraceEntry) {
	e.Time = d.Now()
	d.trace = append(d.trace, e)

	slog.Debug("SimDevice",
		"Device", d.name,
		"Op", e.Op,
		"Time", e.Time,
		"Bits", e.Bits,
		"Hold", e.Hold,
		"IN7", e.In7,
		"IN6", e.In6,
	)
}

func (d *SimDevice) checkLimit() error {
	if d.timeLimit > 0 && d.Now() >= d.timeLimit {
		return errors.Wrapf(ErrTimeLimit, "at %v", d.Now())
	}

	return nil
}

func (d *SimDevice) advance(dur time.Duration) error {
	if dur <= 0 {
		return d.checkLimit()
	}

	clamped := false
	if d.timeLimit > 0 && d.Now()+dur > d.timeLimit {
		dur = d.timeLimit - d.Now()
		clamped = true
	}

	wake := d.engine.CurrentTime() + toVTime(dur)
	d.engine.Schedule(sim.NewEventBase(wake, d))

	if err := d.engine.Run(); err != nil {
		return errors.Wrap(err, "simulate")
	}

	if clamped {
		return errors.Wrapf(ErrTimeLimit, "at %v", d.timeLimit)
	}

	return nil
}

func (d *SimDevice) inputsAt(t time.Duration) (in7, in6 bool) {
	for _, s := range d.stimuli {
		if s.At > t {
			break
		}
		in7, in6 = s.In7, s.In6
	}

	return in7, in6
}

func toVTime(d time.Duration) sim.VTimeInSec {
	return sim.VTimeInSec(d.Seconds())
}

func fromVTime(t sim.VTimeInSec) time.Duration {
	return time.Duration(math.Round(float64(t) * float64(time.Second)))
}
