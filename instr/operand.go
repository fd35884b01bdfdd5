package instr

import (
	"math"
	"strconv"
	"time"
)

// Condition is the expectation on one input line.
type Condition uint8

const (
	Ignored Condition = iota
	ExpectTrue
	ExpectFalse
)

// Expect returns the condition that is met when the line reads v.
func Expect(v bool) Condition {
	if v {
		return ExpectTrue
	}

	return ExpectFalse
}

// IsIgnored tells if the line does not take part in the condition.
func (c Condition) IsIgnored() bool {
	return c == Ignored
}

// Matches tells if the actual line value meets the expectation. It panics
// for an ignored condition.
func (c Condition) Matches(actual bool) bool {
	switch c {
	case ExpectTrue:
		return actual
	case ExpectFalse:
		return !actual
	default:
		panic("matching against an ignored condition")
	}
}

func (c Condition) String() string {
	switch c {
	case Ignored:
		return "X"
	case ExpectTrue:
		return "1"
	case ExpectFalse:
		return "0"
	default:
		return "?"
	}
}

// Value is the optional number in the value column of a program line.
type Value struct {
	Num   float64
	Valid bool
}

// NoValue is an empty value column.
var NoValue = Value{}

// Num creates a present value.
func Num(v float64) Value {
	return Value{Num: v, Valid: true}
}

// IsInt tells if the value is present and integral.
func (v Value) IsInt() bool {
	return v.Valid && v.Num == math.Trunc(v.Num)
}

// Int returns the value truncated to an integer, or zero when absent.
func (v Value) Int() int {
	if !v.Valid {
		return 0
	}

	return int(v.Num)
}

// Seconds converts the value to a duration, rounded to the nanosecond. Callers
// check the range with CheckHold first.
func (v Value) Seconds() time.Duration {
	return time.Duration(math.Round(v.Num * float64(time.Second)))
}

func (v Value) String() string {
	if !v.Valid {
		return ""
	}

	if v.IsInt() {
		return strconv.FormatInt(int64(v.Num), 10)
	}

	return strconv.FormatFloat(v.Num, 'f', -1, 64)
}
