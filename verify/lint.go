package verify

import (
	"fmt"

	"github.com/sarchlab/bricklines/instr"
)

// openBlock is an entry of the nesting stack.
type openBlock struct {
	idx  int
	kind instr.Kind
}

// Verify checks the block structure of the program in a single pass. It does
// not modify p and returns the same result every time it is called on the
// same program.
func Verify(p instr.Program) (*Checked, error) {
	c := &Checked{
		program: append(instr.Program(nil), p...),
		partner: make([]int, len(p)),
	}
	for i := range c.partner {
		c.partner[i] = NoPartner
	}

	var nesting []openBlock

	for idx, in := range p {
		if err := checkLine(idx, in); err != nil {
			return nil, err
		}

		kind := in.Kind()

		switch {
		case kind.IsLoopCloser():
			open, err := closeBlock(p, nesting, idx, instr.KindRepeat)
			if err != nil {
				return nil, err
			}

			if kind == instr.KindEndRepeat && !p[open.idx].(instr.Repeat).Counted() {
				return nil, newError(KindMissingLoopCount, open.idx, p[open.idx],
					"ENDREPEAT at line %d closes a REPEAT without count",
					instr.Line(idx))
			}

			nesting = nesting[:len(nesting)-1]
			link(c, open.idx, idx)

		case kind == instr.KindEndIf:
			open, err := closeBlock(p, nesting, idx, instr.KindIf)
			if err != nil {
				return nil, err
			}

			nesting = nesting[:len(nesting)-1]
			link(c, open.idx, idx)

		case kind.IsOpener():
			if len(nesting) >= MaxNesting {
				return nil, newError(KindNestingTooDeep, idx, in,
					"structures nested deeper than %d levels", MaxNesting)
			}

			nesting = append(nesting, openBlock{idx: idx, kind: kind})
		}
	}

	if len(nesting) > 0 {
		open := nesting[len(nesting)-1]
		return nil, newError(KindUnterminatedBlock, open.idx, p[open.idx],
			"%s structure has no ending", open.kind)
	}

	return c, nil
}

// checkLine validates the operands of a single line.
func checkLine(idx int, in instr.Instruction) error {
	if err := instr.CheckConditions(in); err != nil {
		e := newError(KindInvalidInstruction, idx, in, "%v", err)
		e.cause = err
		return e
	}

	switch in := in.(type) {
	case instr.SetOutput:
		if in.Bits&^instr.OutputMask != 0 {
			return newError(KindInvalidInstruction, idx, in,
				"output pattern %#02x exceeds six bits", in.Bits)
		}
		if err := instr.CheckHold(in.Hold); err != nil {
			e := newError(KindInvalidInstruction, idx, in, "%v", err)
			e.cause = err
			return e
		}
	case instr.Repeat:
		if in.Count < 0 {
			return newError(KindInvalidInstruction, idx, in,
				"negative repeat count %d", in.Count)
		}
	case instr.Count:
		if in.Target <= 0 {
			return newError(KindMissingCountTarget, idx, in,
				"COUNT has no value")
		}
	case nil:
		panic(fmt.Sprintf("nil instruction at line %d", instr.Line(idx)))
	}

	return nil
}

// closeBlock finds the opener closed by the line at idx. The opener must be
// of kind want.
func closeBlock(
	p instr.Program,
	nesting []openBlock,
	idx int,
	want instr.Kind,
) (openBlock, error) {
	if len(nesting) == 0 {
		e := newError(KindMismatchedBlock, idx, p[idx],
			"%s structure has no beginning", want)
		e.Stray = true
		return openBlock{}, e
	}

	open := nesting[len(nesting)-1]
	if open.kind != want {
		return openBlock{}, newError(KindMismatchedBlock, open.idx, p[open.idx],
			"%s structure has no ending (closed by %s at line %d)",
			open.kind, p[idx].Label(), instr.Line(idx))
	}

	return open, nil
}

func link(c *Checked, opener, closer int) {
	c.partner[opener] = closer
	c.partner[closer] = opener
}

func newError(
	kind Kind,
	idx int,
	in instr.Instruction,
	format string,
	args ...interface{},
) *Error {
	e := &Error{
		Kind: kind,
		Line: instr.Line(idx),
		msg:  fmt.Sprintf(format, args...),
	}

	if in != nil {
		e.Label = in.Label()
	}

	return e
}
