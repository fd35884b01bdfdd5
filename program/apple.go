package program

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sarchlab/bricklines/instr"
)

// Apple II files are text. The first line holds the number of program lines,
// then every program line takes four text lines: label length, the line as
// shown on screen, line type and pattern.
const (
	appleTypeOutput      = 0
	appleTypeConditional = 1
	appleTypeKeyword     = 2
)

var appleLayout = instr.BitLayout{
	Ignore7: 3,
	Ignore6: 2,
	Expect7: 1,
	Expect6: 0,
}

// appleConditions are the condition codes the editor writes.
var appleConditions = map[int]bool{
	0: true, 1: true, 2: true, 3: true,
	4: true, 6: true,
	8: true, 9: true, 10: true,
}

func decodeApple(data []byte) (instr.Program, error) {
	var lines []string

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t\r"))
	}

	if err := scanner.Err(); err != nil {
		return nil, &DecodeError{Format: AppleII, Err: err}
	}

	if len(lines) == 0 {
		return nil, malformed(AppleII, 0, "empty file")
	}

	n, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil || n < 0 {
		return nil, malformed(AppleII, 0, "bad line count %q", lines[0])
	}

	if len(lines) != n*4+1 {
		return nil, malformed(AppleII, 0,
			"%d program lines need %d text lines, got %d", n, n*4+1, len(lines))
	}

	p := make(instr.Program, 0, n)

	for i := 0; i < n; i++ {
		in, err := appleLine(lines[i*4+1 : i*4+5])
		if err != nil {
			return nil, &DecodeError{Format: AppleII, Line: i + 1, Err: err}
		}

		p = append(p, in)
	}

	return p, nil
}

func appleLine(rec []string) (instr.Instruction, error) {
	labelLen, err := strconv.Atoi(strings.TrimSpace(rec[0]))
	if err != nil {
		return nil, errors.Wrapf(ErrMalformed, "bad label length %q", rec[0])
	}

	label, value, err := splitAppleView(rec[1], labelLen)
	if err != nil {
		return nil, err
	}

	lineType, err := strconv.Atoi(strings.TrimSpace(rec[2]))
	if err != nil {
		return nil, errors.Wrapf(ErrMalformed, "bad line type %q", rec[2])
	}

	pattern, err := strconv.Atoi(strings.TrimSpace(rec[3]))
	if err != nil {
		return nil, errors.Wrapf(ErrMalformed, "bad pattern %q", rec[3])
	}

	switch lineType {
	case appleTypeOutput:
		return buildOutput(label, pattern, value)

	case appleTypeConditional:
		k, ok := lineKeywords.lookup(label)
		if !ok || !k.conditional {
			return nil, errors.Wrapf(ErrMalformed, "%q takes no condition", label)
		}

		if !appleConditions[pattern] {
			return nil, errors.Wrapf(ErrMalformed, "unknown condition code %d", pattern)
		}

		in7, in6 := instr.DecodeCondition(uint8(pattern), appleLayout)

		return k.build(in7, in6, value)

	case appleTypeKeyword:
		k, ok := lineKeywords.lookup(label)
		if !ok || k.conditional {
			return nil, errors.Wrapf(ErrMalformed, "%q is not a plain keyword", label)
		}

		if pattern != 0 {
			return nil, errors.Wrapf(ErrMalformed,
				"%s carries pattern %d", label, pattern)
		}

		return k.build(instr.Ignored, instr.Ignored, value)

	default:
		return nil, errors.Wrapf(ErrMalformed, "unknown line type %d", lineType)
	}
}

// splitAppleView takes the label and value out of the screen image of a line.
//
//	;LABEL     ~As<pattern view    >t~@VALUE
func splitAppleView(view string, labelLen int) (string, instr.Value, error) {
	if len(view) < 34 || view[0] != ';' ||
		view[11:14] != "~As" || view[31:34] != "t~@" {
		return "", instr.NoValue, errors.Wrapf(ErrMalformed, "bad line view %q", view)
	}

	label := strings.TrimSpace(view[1:11])
	if len(label) != labelLen {
		return "", instr.NoValue, errors.Wrapf(ErrMalformed,
			"label %q is not %d characters long", label, labelLen)
	}

	return label, parseValue(view[34:]), nil
}
