// Package instr defines the statements of a LEGO Lines program and the
// operands they carry.
package instr

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
)

// OutputMask selects the six output bits of the Interface A.
const OutputMask uint8 = 0x3F

// MaxHoldSeconds is the longest hold an output line can ask for.
const MaxHoldSeconds = float64(math.MaxInt64 / int64(time.Second))

// ErrInvalidInstruction is returned when an instruction is built with
// operands that cannot describe a valid statement.
var ErrInvalidInstruction = errors.New("invalid instruction")

// Kind is the tag of an instruction variant.
type Kind int

const (
	KindSetOutput Kind = iota
	KindRepeat
	KindUntil
	KindEndRepeat
	KindForever
	KindIf
	KindEndIf
	KindCount
)

// String returns the keyword of the kind.
func (k Kind) String() string {
	switch k {
	case KindSetOutput:
		return "OUTPUT"
	case KindRepeat:
		return "REPEAT"
	case KindUntil:
		return "UNTIL"
	case KindEndRepeat:
		return "ENDREPEAT"
	case KindForever:
		return "FOREVER"
	case KindIf:
		return "IF"
	case KindEndIf:
		return "ENDIF"
	case KindCount:
		return "COUNT"
	default:
		panic(fmt.Sprintf("invalid instruction kind %d", int(k)))
	}
}

// IsOpener tells if the kind opens a block.
func (k Kind) IsOpener() bool {
	return k == KindRepeat || k == KindIf
}

// IsLoopCloser tells if the kind closes a REPEAT block.
func (k Kind) IsLoopCloser() bool {
	return k == KindUntil || k == KindEndRepeat || k == KindForever
}

// Instruction is one line of a program. The set of implementations is
// closed; only the types in this package satisfy it.
type Instruction interface {
	// Kind returns the variant tag.
	Kind() Kind
	// Label returns the text shown in the label column.
	Label() string
	// String describes the instruction on a single line.
	String() string

	isInstruction()
}

// SetOutput drives the six outputs to Bits and keeps them for Hold.
type SetOutput struct {
	Name string
	Bits uint8
	Hold Value
}

// Repeat opens a loop. A zero Count marks an unbounded loop that is closed by
// UNTIL or FOREVER, a positive Count a counted loop closed by ENDREPEAT.
type Repeat struct {
	Count int
}

// Until closes an unbounded loop once the condition holds.
type Until struct {
	In7, In6 Condition
}

// EndRepeat closes a counted loop.
type EndRepeat struct{}

// Forever closes an unbounded loop that never exits.
type Forever struct{}

// If skips to the matching ENDIF unless the condition holds.
type If struct {
	In7, In6 Condition
}

// EndIf closes an IF block.
type EndIf struct{}

// Count waits until the selected input line has changed Target times. A zero
// Target means the program line carried no value.
type Count struct {
	In7, In6 Condition
	Target   int
}

// NewSetOutput creates an output line.
func NewSetOutput(name string, bits uint8, hold Value) (SetOutput, error) {
	if bits&^OutputMask != 0 {
		return SetOutput{}, errors.Wrapf(ErrInvalidInstruction,
			"output pattern %#02x exceeds six bits", bits)
	}

	if err := CheckHold(hold); err != nil {
		return SetOutput{}, err
	}

	return SetOutput{Name: name, Bits: bits, Hold: hold}, nil
}

// NewRepeat creates a loop head. Pass zero for an unbounded loop.
func NewRepeat(count int) (Repeat, error) {
	if count < 0 {
		return Repeat{}, errors.Wrapf(ErrInvalidInstruction,
			"negative repeat count %d", count)
	}

	return Repeat{Count: count}, nil
}

// NewUntil creates a loop tail that exits when the condition holds.
func NewUntil(in7, in6 Condition) (Until, error) {
	u := Until{In7: in7, In6: in6}
	return u, CheckConditions(u)
}

// NewEndRepeat creates a counted loop tail.
func NewEndRepeat() (EndRepeat, error) {
	return EndRepeat{}, nil
}

// NewForever creates an infinite loop tail.
func NewForever() (Forever, error) {
	return Forever{}, nil
}

// NewIf creates a conditional block head.
func NewIf(in7, in6 Condition) (If, error) {
	i := If{In7: in7, In6: in6}
	return i, CheckConditions(i)
}

// NewEndIf creates a conditional block tail.
func NewEndIf() (EndIf, error) {
	return EndIf{}, nil
}

// NewCount creates a transition counter on exactly one input line.
func NewCount(in7, in6 Condition, target int) (Count, error) {
	if target < 0 {
		return Count{}, errors.Wrapf(ErrInvalidInstruction,
			"negative count target %d", target)
	}

	c := Count{In7: in7, In6: in6, Target: target}
	return c, CheckConditions(c)
}

// Must unwraps the result of a constructor and panics on error.
func Must[T Instruction](in T, err error) T {
	if err != nil {
		panic(err)
	}

	return in
}

// CheckHold verifies that a hold is absent or between zero and
// MaxHoldSeconds.
func CheckHold(hold Value) error {
	if !hold.Valid {
		return nil
	}

	if !(hold.Num >= 0 && hold.Num <= MaxHoldSeconds) {
		return errors.Wrapf(ErrInvalidInstruction,
			"hold %v s is out of range", hold)
	}

	return nil
}

// CheckConditions verifies that a condition-bearing instruction selects its
// inputs correctly. UNTIL and IF need at least one condition that is not
// ignored, COUNT needs exactly one. Other instructions always pass.
func CheckConditions(in Instruction) error {
	switch in := in.(type) {
	case Until:
		if in.In7.IsIgnored() && in.In6.IsIgnored() {
			return errors.Wrap(ErrInvalidInstruction,
				"UNTIL ignores both IN7 and IN6")
		}
	case If:
		if in.In7.IsIgnored() && in.In6.IsIgnored() {
			return errors.Wrap(ErrInvalidInstruction,
				"IF ignores both IN7 and IN6")
		}
	case Count:
		if in.In7.IsIgnored() == in.In6.IsIgnored() {
			return errors.Wrap(ErrInvalidInstruction,
				"COUNT must watch exactly one of IN7 and IN6")
		}
	}

	return nil
}

func (SetOutput) Kind() Kind { return KindSetOutput }
func (Repeat) Kind() Kind    { return KindRepeat }
func (Until) Kind() Kind     { return KindUntil }
func (EndRepeat) Kind() Kind { return KindEndRepeat }
func (Forever) Kind() Kind   { return KindForever }
func (If) Kind() Kind        { return KindIf }
func (EndIf) Kind() Kind     { return KindEndIf }
func (Count) Kind() Kind     { return KindCount }

func (s SetOutput) Label() string { return s.Name }
func (Repeat) Label() string      { return KindRepeat.String() }
func (Until) Label() string       { return KindUntil.String() }
func (EndRepeat) Label() string   { return KindEndRepeat.String() }
func (Forever) Label() string     { return KindForever.String() }
func (If) Label() string          { return KindIf.String() }
func (EndIf) Label() string       { return KindEndIf.String() }
func (Count) Label() string       { return KindCount.String() }

func (s SetOutput) String() string {
	if s.Hold.Valid {
		return fmt.Sprintf("%s OUT=%06b HOLD=%s", s.Name, s.Bits, s.Hold)
	}

	return fmt.Sprintf("%s OUT=%06b", s.Name, s.Bits)
}

func (r Repeat) String() string {
	if r.Counted() {
		return fmt.Sprintf("REPEAT %d", r.Count)
	}

	return "REPEAT"
}

func (u Until) String() string {
	return fmt.Sprintf("UNTIL IN7=%s IN6=%s", u.In7, u.In6)
}

func (EndRepeat) String() string { return "ENDREPEAT" }
func (Forever) String() string   { return "FOREVER" }

func (i If) String() string {
	return fmt.Sprintf("IF IN7=%s IN6=%s", i.In7, i.In6)
}

func (EndIf) String() string { return "ENDIF" }

func (c Count) String() string {
	return fmt.Sprintf("COUNT IN7=%s IN6=%s %d", c.In7, c.In6, c.Target)
}

// Counted tells if the loop runs a declared number of times.
func (r Repeat) Counted() bool {
	return r.Count > 0
}

// WatchesIn7 returns true when the counter watches IN7 and false when it
// watches IN6. Only meaningful on a COUNT that passed CheckConditions.
func (c Count) WatchesIn7() bool {
	return !c.In7.IsIgnored()
}

func (SetOutput) isInstruction() {}
func (Repeat) isInstruction()    {}
func (Until) isInstruction()     {}
func (EndRepeat) isInstruction() {}
func (Forever) isInstruction()   {}
func (If) isInstruction()        {}
func (EndIf) isInstruction()     {}
func (Count) isInstruction()     {}
