package api

import (
	"fmt"
	"io"
	"sync"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bricklines/core"
	"github.com/sarchlab/bricklines/instr"
)

// clearScreen resets the terminal and drops its scrollback.
const clearScreen = "\033c\033[3J"

// ListingHook prints the program listing with the active line marked every
// time the engine starts a step.
type ListingHook struct {
	w     io.Writer
	color bool
	clear bool

	lock    sync.Mutex
	program instr.Program
}

// NewListingHook creates a hook that writes to w.
func NewListingHook(w io.Writer, color, clear bool) *ListingHook {
	return &ListingHook{w: w, color: color, clear: clear}
}

// SetProgram sets the program that is listed.
func (h *ListingHook) SetProgram(p instr.Program) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.program = p
}

// Func redraws the listing.
func (h *ListingHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != core.HookPosStep {
		return
	}

	step, ok := ctx.Item.(core.Step)
	if !ok {
		return
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	if h.clear {
		fmt.Fprint(h.w, clearScreen)
	}

	listing := instr.Listing{Active: step.PC, Color: h.color}
	fmt.Fprintln(h.w, listing.Render(h.program))
}
