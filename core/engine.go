package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bricklines/device"
	"github.com/sarchlab/bricklines/instr"
	"github.com/sarchlab/bricklines/verify"
)

// HookPosStep marks the moment before an instruction executes.
var HookPosStep = &sim.HookPos{Name: "Step"}

// Step is the item passed to hooks at HookPosStep.
type Step struct {
	PC   int
	Line int
	Inst instr.Instruction
}

// Engine interprets programs against a device, one instruction at a time.
type Engine struct {
	*sim.HookableBase

	name         string
	device       device.Device
	defaultHold  time.Duration
	pollInterval time.Duration

	running atomic.Bool
}

// Name returns the name of the engine.
func (e *Engine) Name() string {
	return e.name
}

// Device returns the device the engine drives.
func (e *Engine) Device() device.Device {
	return e.device
}

// Run verifies the program and executes it. A program that fails
// verification never touches the device.
func (e *Engine) Run(ctx context.Context, p instr.Program) error {
	checked, err := verify.Verify(p)
	if err != nil {
		return err
	}

	return e.Execute(ctx, checked)
}

// loopFrame is an active REPEAT.
type loopFrame struct {
	head  int
	count int
}

// run is the state of one execution.
type run struct {
	*Engine

	ctx    context.Context
	prog   *verify.Checked
	pc     int
	frames []loopFrame
}

// Execute runs a verified program until its end, an error or cancellation of
// ctx. Outputs are left as the last completed OUTPUT line set them.
func (e *Engine) Execute(ctx context.Context, c *verify.Checked) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer e.running.Store(false)

	r := &run{Engine: e, ctx: ctx, prog: c}

	slog.Debug("Run", "Engine", e.name, "Lines", c.Len())

	for r.pc < c.Len() {
		if err := ctx.Err(); err != nil {
			return err
		}

		inst := c.At(r.pc)

		e.InvokeHook(sim.HookCtx{
			Domain: e,
			Pos:    HookPosStep,
			Item:   Step{PC: r.pc, Line: instr.Line(r.pc), Inst: inst},
		})

		Trace("Step",
			"Engine", e.name,
			"Line", instr.Line(r.pc),
			"Inst", inst.String(),
			"Depth", len(r.frames),
		)

		if err := r.step(inst); err != nil {
			return err
		}
	}

	slog.Debug("Done", "Engine", e.name)

	return nil
}

func (r *run) step(inst instr.Instruction) error {
	switch inst := inst.(type) {
	case instr.SetOutput:
		return r.runSetOutput(inst)
	case instr.Repeat:
		r.frames = append(r.frames, loopFrame{head: r.pc})
		r.pc++
	case instr.Until:
		return r.runUntil(inst)
	case instr.EndRepeat:
		r.runEndRepeat()
	case instr.Forever:
		r.pc = r.top().head + 1
	case instr.If:
		return r.runIf(inst)
	case instr.EndIf:
		r.pc++
	case instr.Count:
		return r.runCount(inst)
	default:
		panic(fmt.Sprintf("unknown instruction %T", inst))
	}

	return nil
}

func (r *run) runSetOutput(inst instr.SetOutput) error {
	if err := r.device.WriteOutputs(r.ctx, inst.Bits); err != nil {
		return r.deviceError(OpWrite, err)
	}

	hold := r.defaultHold
	if inst.Hold.Valid {
		hold = inst.Hold.Seconds()
	}

	if err := r.device.Hold(r.ctx, hold); err != nil {
		return r.deviceError(OpHold, err)
	}

	r.pc++

	return nil
}

func (r *run) runUntil(inst instr.Until) error {
	ok, err := r.evaluate(inst.In7, inst.In6)
	if err != nil {
		return err
	}

	if ok {
		r.pop()
		r.pc++

		return nil
	}

	r.pc = r.top().head + 1

	return nil
}

func (r *run) runEndRepeat() {
	f := r.top()
	f.count++

	if f.count >= r.prog.At(f.head).(instr.Repeat).Count {
		r.pop()
		r.pc++

		return
	}

	r.pc = f.head + 1
}

func (r *run) runIf(inst instr.If) error {
	ok, err := r.evaluate(inst.In7, inst.In6)
	if err != nil {
		return err
	}

	if ok {
		r.pc++
	} else {
		r.pc = r.prog.MatchingCloser(r.pc)
	}

	return nil
}

// runCount waits until the watched line has changed inst.Target times. Both
// directions count.
func (r *run) runCount(inst instr.Count) error {
	prev, err := r.readLine(inst)
	if err != nil {
		return err
	}

	for changes := 0; changes < inst.Target; {
		if r.pollInterval > 0 {
			if err := r.device.Hold(r.ctx, r.pollInterval); err != nil {
				return r.deviceError(OpHold, err)
			}
		}

		cur, err := r.readLine(inst)
		if err != nil {
			return err
		}

		if cur != prev {
			changes++
			Trace("Count", "Line", instr.Line(r.pc), "Changes", changes)
		}

		prev = cur
	}

	r.pc++

	return nil
}

func (r *run) readLine(inst instr.Count) (bool, error) {
	in7, in6, err := r.read()
	if err != nil {
		return false, err
	}

	if inst.WatchesIn7() {
		return in7, nil
	}

	return in6, nil
}

func (r *run) evaluate(in7c, in6c instr.Condition) (bool, error) {
	in7, in6, err := r.read()
	if err != nil {
		return false, err
	}

	return instr.Satisfied(in7c, in6c, in7, in6), nil
}

func (r *run) read() (in7, in6 bool, err error) {
	if err := r.ctx.Err(); err != nil {
		return false, false, err
	}

	in7, in6, err = r.device.ReadInputs(r.ctx)
	if err != nil {
		return false, false, r.deviceError(OpRead, err)
	}

	return in7, in6, nil
}

func (r *run) top() *loopFrame {
	if len(r.frames) == 0 {
		panic(fmt.Sprintf("line %d closes a loop that is not active",
			instr.Line(r.pc)))
	}

	return &r.frames[len(r.frames)-1]
}

func (r *run) pop() {
	r.frames = r.frames[:len(r.frames)-1]
}

// deviceError wraps a device failure. Cancellation is passed through as is.
func (r *run) deviceError(op DeviceOp, err error) error {
	if ctxErr := r.ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	return &DeviceError{Line: instr.Line(r.pc), Op: op, Err: err}
}
