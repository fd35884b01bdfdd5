package program

import (
	"strconv"
	"strings"

	"github.com/sarchlab/bricklines/instr"
)

// parseValue reads the value column. Text with a decimal point or comma is
// a fraction, anything else a whole number. Unreadable text is no value.
func parseValue(s string) instr.Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return instr.NoValue
	}

	if strings.ContainsAny(s, ".,") {
		f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return instr.NoValue
		}

		return instr.Num(f)
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return instr.NoValue
	}

	return instr.Num(float64(n))
}
