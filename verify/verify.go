// Package verify checks the block structure of a program before it runs.
//
// A program is a flat list of lines. REPEAT and IF open blocks; UNTIL,
// ENDREPEAT and FOREVER close a REPEAT, ENDIF closes an IF. Verify walks the
// lines once with a stack of open blocks and rejects:
//
//   - blocks that are never closed, or closed by the wrong kind of line
//   - nesting deeper than MaxNesting
//   - ENDREPEAT closing a REPEAT without a count
//   - COUNT without a target
//   - conditions that select no input (or, for COUNT, not exactly one)
//
// Errors name the line of the opener, since that is the line the user has to
// fix ("REPEAT at line 3 has no ending").
//
// # Checked programs
//
// A successful run returns a Checked program. Besides the instructions it
// holds the partner table: for every opener the index of its closer and for
// every closer the index of its opener. The engine uses it to jump in
// constant time instead of scanning for the next ENDIF.
//
//	checked, err := verify.Verify(p)
//	if err != nil {
//	    return err
//	}
//	engine.Execute(ctx, checked)
package verify

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/sarchlab/bricklines/instr"
)

// MaxNesting is the deepest allowed block nesting.
const MaxNesting = 8

// NoPartner marks lines that neither open nor close a block.
const NoPartner = -1

// Sentinel errors, one per kind of structural problem.
var (
	ErrUnterminatedBlock  = errors.New("unterminated block")
	ErrMismatchedBlock    = errors.New("mismatched block")
	ErrNestingTooDeep     = errors.New("nesting too deep")
	ErrMissingLoopCount   = errors.New("missing loop count")
	ErrMissingCountTarget = errors.New("missing count target")
	ErrInvalidInstruction = instr.ErrInvalidInstruction
)

// Kind categorizes a verification error.
type Kind int

const (
	KindUnterminatedBlock Kind = iota
	KindMismatchedBlock
	KindNestingTooDeep
	KindMissingLoopCount
	KindMissingCountTarget
	KindInvalidInstruction
)

func (k Kind) sentinel() error {
	switch k {
	case KindUnterminatedBlock:
		return ErrUnterminatedBlock
	case KindMismatchedBlock:
		return ErrMismatchedBlock
	case KindNestingTooDeep:
		return ErrNestingTooDeep
	case KindMissingLoopCount:
		return ErrMissingLoopCount
	case KindMissingCountTarget:
		return ErrMissingCountTarget
	case KindInvalidInstruction:
		return ErrInvalidInstruction
	default:
		panic(fmt.Sprintf("invalid error kind %d", int(k)))
	}
}

// Error is a structural problem found at one line.
type Error struct {
	Kind Kind
	// Line is the 1-based line the message refers to. For block errors it
	// is the line of the opener whenever there is one.
	Line int
	// Label is the keyword or label of that line.
	Label string
	// Stray is set when a closer had no open block at all; Line then names
	// the closer.
	Stray bool

	msg   string
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.msg)
}

// Is matches the sentinel of the error kind. Every mismatched block also
// matches ErrUnterminatedBlock: a closer that hits an opener of the other
// family leaves that opener open, and a stray closer ends a block that was
// never opened.
func (e *Error) Is(target error) bool {
	if target == e.Kind.sentinel() {
		return true
	}

	return target == ErrUnterminatedBlock && e.Kind == KindMismatchedBlock
}

// Unwrap returns the underlying instruction error, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Checked is a program that passed Verify. Only Verify fills it; the zero
// value is an empty program.
type Checked struct {
	program instr.Program
	// partner maps each opener to its closer and each closer to its opener.
	// All other entries are NoPartner.
	partner []int
}

// Len returns the number of instructions.
func (c *Checked) Len() int {
	return len(c.program)
}

// At returns the instruction at idx.
func (c *Checked) At(idx int) instr.Instruction {
	return c.program[idx]
}

// Program returns a copy of the verified instructions.
func (c *Checked) Program() instr.Program {
	return append(instr.Program(nil), c.program...)
}

// Partners returns a copy of the partner table.
func (c *Checked) Partners() []int {
	return append([]int(nil), c.partner...)
}

// MatchingCloser returns the index of the closer of the opener at idx.
func (c *Checked) MatchingCloser(idx int) int {
	return c.mustPartner(idx, true)
}

// MatchingOpener returns the index of the opener of the closer at idx.
func (c *Checked) MatchingOpener(idx int) int {
	return c.mustPartner(idx, false)
}

func (c *Checked) mustPartner(idx int, opener bool) int {
	if c.program[idx].Kind().IsOpener() != opener {
		panic(fmt.Sprintf("line %d has no partner of the requested side",
			instr.Line(idx)))
	}

	p := c.partner[idx]
	if p == NoPartner {
		panic(fmt.Sprintf("line %d has no partner", instr.Line(idx)))
	}

	return p
}
