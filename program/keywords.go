package program

import (
	"github.com/pkg/errors"

	"github.com/sarchlab/bricklines/instr"
)

// keyword describes how a reserved label turns into an instruction.
type keyword struct {
	name string
	// conditional keywords carry their condition in the pattern column.
	conditional bool
	build       func(in7, in6 instr.Condition, v instr.Value) (instr.Instruction, error)
}

// keywordSet maps reserved labels to their behavior. Labels that are not
// registered are output lines.
type keywordSet struct {
	setName string
	byName  map[string]keyword
}

func newKeywordSet(name string) *keywordSet {
	return &keywordSet{
		setName: name,
		byName:  make(map[string]keyword),
	}
}

func (s *keywordSet) register(k keyword) {
	s.byName[k.name] = k
}

func (s *keywordSet) lookup(label string) (keyword, bool) {
	k, ok := s.byName[label]
	return k, ok
}

var lineKeywords = newKeywordSet("LEGO Lines")

func init() {
	lineKeywords.register(keyword{name: "REPEAT", build: buildRepeat})
	lineKeywords.register(keyword{name: "UNTIL", conditional: true, build: buildUntil})
	lineKeywords.register(keyword{name: "ENDREPEAT", build: buildEndRepeat})
	lineKeywords.register(keyword{name: "FOREVER", build: buildForever})
	lineKeywords.register(keyword{name: "IF", conditional: true, build: buildIf})
	lineKeywords.register(keyword{name: "ENDIF", build: buildEndIf})
	lineKeywords.register(keyword{name: "COUNT", conditional: true, build: buildCount})
}

func buildRepeat(_, _ instr.Condition, v instr.Value) (instr.Instruction, error) {
	if v.Valid && !v.IsInt() {
		return nil, errors.Errorf("repeat count %v is not a whole number", v)
	}
	if v.Valid && v.Int() <= 0 {
		return nil, errors.Wrapf(instr.ErrInvalidInstruction,
			"repeat count %v must be positive", v)
	}

	return instr.NewRepeat(v.Int())
}

func buildUntil(in7, in6 instr.Condition, _ instr.Value) (instr.Instruction, error) {
	return instr.NewUntil(in7, in6)
}

func buildEndRepeat(_, _ instr.Condition, _ instr.Value) (instr.Instruction, error) {
	return instr.NewEndRepeat()
}

func buildForever(_, _ instr.Condition, _ instr.Value) (instr.Instruction, error) {
	return instr.NewForever()
}

func buildIf(in7, in6 instr.Condition, _ instr.Value) (instr.Instruction, error) {
	return instr.NewIf(in7, in6)
}

func buildEndIf(_, _ instr.Condition, _ instr.Value) (instr.Instruction, error) {
	return instr.NewEndIf()
}

func buildCount(in7, in6 instr.Condition, v instr.Value) (instr.Instruction, error) {
	if v.Valid && !v.IsInt() {
		return nil, errors.Errorf("count target %v is not a whole number", v)
	}
	if v.Valid && v.Int() <= 0 {
		return nil, errors.Wrapf(instr.ErrInvalidInstruction,
			"count target %v must be positive", v)
	}

	return instr.NewCount(in7, in6, v.Int())
}

func buildOutput(label string, bits int, v instr.Value) (instr.Instruction, error) {
	if bits < 0 || bits > int(instr.OutputMask) {
		return nil, errors.Wrapf(instr.ErrInvalidInstruction,
			"output pattern %d exceeds six bits", bits)
	}

	return instr.NewSetOutput(label, uint8(bits), v)
}
