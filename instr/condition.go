package instr

// BitLayout locates the condition bits inside an encoded condition word. Each
// input line has one bit that marks it as ignored and one bit that holds the
// expected value. The positions depend on the file format.
type BitLayout struct {
	Ignore7 uint
	Ignore6 uint
	Expect7 uint
	Expect6 uint
}

// DecodeCondition splits an encoded condition word into the conditions on
// IN7 and IN6.
func DecodeCondition(word uint8, l BitLayout) (in7, in6 Condition) {
	in7 = decodeLine(word, l.Ignore7, l.Expect7)
	in6 = decodeLine(word, l.Ignore6, l.Expect6)

	return in7, in6
}

func decodeLine(word uint8, ignoreBit, expectBit uint) Condition {
	if word&(1<<ignoreBit) != 0 {
		return Ignored
	}

	return Expect(word&(1<<expectBit) != 0)
}

// Satisfied evaluates a branch condition against freshly read inputs. When
// both lines are selected, both must match. Passing two ignored conditions
// is a contract violation and panics.
func Satisfied(in7c, in6c Condition, in7, in6 bool) bool {
	switch {
	case !in7c.IsIgnored() && !in6c.IsIgnored():
		return in7c.Matches(in7) && in6c.Matches(in6)
	case !in7c.IsIgnored():
		return in7c.Matches(in7)
	case !in6c.IsIgnored():
		return in6c.Matches(in6)
	default:
		panic("branch condition ignores both inputs")
	}
}
