package instr_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bricklines/instr"
)

var _ = Describe("Condition", func() {
	layout := instr.BitLayout{Ignore7: 3, Ignore6: 2, Expect7: 1, Expect6: 0}

	DescribeTable("decoding a condition word",
		func(word uint8, in7, in6 instr.Condition) {
			got7, got6 := instr.DecodeCondition(word, layout)
			Expect(got7).To(Equal(in7))
			Expect(got6).To(Equal(in6))
		},
		Entry("00", uint8(0b0000), instr.ExpectFalse, instr.ExpectFalse),
		Entry("01", uint8(0b0001), instr.ExpectFalse, instr.ExpectTrue),
		Entry("10", uint8(0b0010), instr.ExpectTrue, instr.ExpectFalse),
		Entry("0X", uint8(0b0100), instr.ExpectFalse, instr.Ignored),
		Entry("1X", uint8(0b0110), instr.ExpectTrue, instr.Ignored),
		Entry("X1", uint8(0b1001), instr.Ignored, instr.ExpectTrue),
	)

	DescribeTable("evaluating a branch",
		func(in7c, in6c instr.Condition, in7, in6, want bool) {
			Expect(instr.Satisfied(in7c, in6c, in7, in6)).To(Equal(want))
		},
		Entry("both lines match", instr.ExpectTrue, instr.ExpectFalse, true, false, true),
		Entry("one of two lines fails", instr.ExpectTrue, instr.ExpectFalse, true, true, false),
		Entry("only IN7 counts", instr.ExpectTrue, instr.Ignored, true, false, true),
		Entry("only IN6 counts", instr.Ignored, instr.ExpectFalse, true, true, false),
	)

	It("should panic when both lines are ignored", func() {
		Expect(func() {
			instr.Satisfied(instr.Ignored, instr.Ignored, true, true)
		}).To(Panic())
	})

	It("should build conditions from values", func() {
		Expect(instr.Expect(true)).To(Equal(instr.ExpectTrue))
		Expect(instr.Expect(false)).To(Equal(instr.ExpectFalse))
		Expect(instr.ExpectFalse.Matches(false)).To(BeTrue())
	})
})
