package program

import (
	"bytes"

	"github.com/sarchlab/bricklines/instr"
)

// Commodore images have a fixed size. Forty 16-byte lines come first, then a
// reserved zero block, one pattern byte per line and a closing 0xFF.
const (
	commodoreSize     = 762
	commodoreLines    = 40
	commodoreLineLen  = 16
	commodoreLabelLen = 12
	commodoreReserved = 0x280
	commodorePatterns = 0x2D1
	commodoreEnd      = 0x2F9
	commodoreUnused   = 0xFF
)

var commodoreLayout = instr.BitLayout{
	Ignore7: 1,
	Ignore6: 0,
	Expect7: 7,
	Expect6: 6,
}

func looksLikeCommodore(data []byte) bool {
	return len(data) == commodoreSize &&
		isZero(data[commodoreReserved:commodorePatterns]) &&
		data[commodoreEnd] == commodoreUnused
}

func decodeCommodore(data []byte) (instr.Program, error) {
	if !looksLikeCommodore(data) {
		return nil, malformed(Commodore, 0,
			"expected %d bytes with reserved block and end marker", commodoreSize)
	}

	patterns := data[commodorePatterns:commodoreEnd]

	used := bytes.IndexByte(patterns, commodoreUnused)
	if used < 0 {
		used = commodoreLines
	}

	for i := used; i < commodoreLines; i++ {
		if patterns[i] != commodoreUnused {
			return nil, malformed(Commodore, i+1, "used line after end of program")
		}
	}

	if !isZero(data[used*commodoreLineLen : commodoreReserved]) {
		return nil, malformed(Commodore, used+1, "data in unused lines")
	}

	p := make(instr.Program, 0, used)

	for i := 0; i < used; i++ {
		raw := data[i*commodoreLineLen : (i+1)*commodoreLineLen]
		label := string(bytes.TrimRight(raw[:commodoreLabelLen], "\x00"))
		value := parseValue(string(bytes.TrimRight(raw[commodoreLabelLen:], "\x00")))

		in, err := commodoreLine(label, patterns[i], value)
		if err != nil {
			return nil, &DecodeError{Format: Commodore, Line: i + 1, Err: err}
		}

		p = append(p, in)
	}

	return p, nil
}

func commodoreLine(label string, pattern uint8, v instr.Value) (instr.Instruction, error) {
	k, ok := lineKeywords.lookup(label)
	if !ok {
		return buildOutput(label, int(pattern), v)
	}

	var in7, in6 instr.Condition
	if k.conditional {
		in7, in6 = instr.DecodeCondition(pattern, commodoreLayout)
	}

	return k.build(in7, in6, v)
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}

	return true
}
