package instr_test

import (
	"math"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/sarchlab/bricklines/instr"
)

var _ = Describe("Instruction", func() {
	Context("construction", func() {
		It("should reject an UNTIL that ignores both inputs", func() {
			_, err := instr.NewUntil(instr.Ignored, instr.Ignored)
			Expect(errors.Is(err, instr.ErrInvalidInstruction)).To(BeTrue())
		})

		It("should reject an IF that ignores both inputs", func() {
			_, err := instr.NewIf(instr.Ignored, instr.Ignored)
			Expect(errors.Is(err, instr.ErrInvalidInstruction)).To(BeTrue())
		})

		It("should accept an IF on a single input", func() {
			i, err := instr.NewIf(instr.Ignored, instr.ExpectTrue)
			Expect(err).NotTo(HaveOccurred())
			Expect(i.In6).To(Equal(instr.ExpectTrue))
		})

		It("should require exactly one watched line on COUNT", func() {
			_, err := instr.NewCount(instr.ExpectTrue, instr.ExpectTrue, 3)
			Expect(errors.Is(err, instr.ErrInvalidInstruction)).To(BeTrue())

			_, err = instr.NewCount(instr.Ignored, instr.Ignored, 3)
			Expect(errors.Is(err, instr.ErrInvalidInstruction)).To(BeTrue())

			c, err := instr.NewCount(instr.Ignored, instr.ExpectTrue, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.WatchesIn7()).To(BeFalse())
		})

		It("should allow a COUNT without target", func() {
			c, err := instr.NewCount(instr.ExpectTrue, instr.Ignored, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Target).To(Equal(0))
		})

		It("should reject output patterns wider than six bits", func() {
			_, err := instr.NewSetOutput("all", 0x40, instr.NoValue)
			Expect(errors.Is(err, instr.ErrInvalidInstruction)).To(BeTrue())

			s, err := instr.NewSetOutput("all", 0x3F, instr.Num(2))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Bits).To(Equal(uint8(0x3F)))
		})

		It("should reject holds that are negative or too long", func() {
			for _, hold := range []float64{-0.5, 1e10, math.Inf(1), math.NaN()} {
				_, err := instr.NewSetOutput("lamp", 1, instr.Num(hold))
				Expect(errors.Is(err, instr.ErrInvalidInstruction)).To(BeTrue())
			}

			s, err := instr.NewSetOutput("lamp", 1, instr.Num(instr.MaxHoldSeconds))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Hold.Seconds()).To(BeNumerically(">", 0))
		})

		It("should reject negative counts", func() {
			_, err := instr.NewRepeat(-1)
			Expect(errors.Is(err, instr.ErrInvalidInstruction)).To(BeTrue())

			_, err = instr.NewCount(instr.ExpectTrue, instr.Ignored, -2)
			Expect(errors.Is(err, instr.ErrInvalidInstruction)).To(BeTrue())
		})

		It("should panic in Must on an invalid instruction", func() {
			Expect(func() {
				instr.Must(instr.NewUntil(instr.Ignored, instr.Ignored))
			}).To(Panic())
		})
	})

	Context("description", func() {
		It("should describe each kind", func() {
			Expect(instr.Must(instr.NewRepeat(0)).String()).To(Equal("REPEAT"))
			Expect(instr.Must(instr.NewRepeat(10)).String()).To(Equal("REPEAT 10"))
			Expect(instr.Must(instr.NewUntil(instr.Ignored, instr.ExpectTrue)).String()).
				To(Equal("UNTIL IN7=X IN6=1"))
			Expect(instr.Must(instr.NewSetOutput("motor", 0b000001, instr.Num(0.5))).String()).
				To(Equal("motor OUT=000001 HOLD=0.5"))
			Expect(instr.Must(instr.NewCount(instr.ExpectTrue, instr.Ignored, 4)).String()).
				To(Equal("COUNT IN7=1 IN6=X 4"))
		})

		It("should label keywords by their kind", func() {
			Expect(instr.EndRepeat{}.Label()).To(Equal("ENDREPEAT"))
			Expect(instr.Forever{}.Kind()).To(Equal(instr.KindForever))
			Expect(instr.SetOutput{Name: "lighton"}.Label()).To(Equal("lighton"))
		})

		It("should classify openers and closers", func() {
			Expect(instr.KindRepeat.IsOpener()).To(BeTrue())
			Expect(instr.KindIf.IsOpener()).To(BeTrue())
			Expect(instr.KindUntil.IsLoopCloser()).To(BeTrue())
			Expect(instr.KindEndIf.IsLoopCloser()).To(BeFalse())
		})
	})

	Context("value", func() {
		It("should format integral values without fraction", func() {
			Expect(instr.Num(3).String()).To(Equal("3"))
			Expect(instr.Num(0.25).String()).To(Equal("0.25"))
			Expect(instr.NoValue.String()).To(BeEmpty())
		})

		It("should report integral values", func() {
			Expect(instr.Num(4).IsInt()).To(BeTrue())
			Expect(instr.Num(4.5).IsInt()).To(BeFalse())
			Expect(instr.NoValue.IsInt()).To(BeFalse())
			Expect(instr.Num(7).Int()).To(Equal(7))
		})

		It("should convert seconds to a rounded duration", func() {
			Expect(instr.Num(0.5).Seconds()).To(Equal(500 * time.Millisecond))
			Expect(instr.Num(2).Seconds()).To(Equal(2 * time.Second))
		})
	})
})

var _ = Describe("Listing", func() {
	var p instr.Program

	BeforeEach(func() {
		p = instr.Program{
			instr.Must(instr.NewSetOutput("a", 0b000001, instr.Num(1))),
			instr.Must(instr.NewRepeat(0)),
			instr.Must(instr.NewUntil(instr.Ignored, instr.ExpectTrue)),
		}
	})

	It("should render every line", func() {
		out := instr.Describe(p, instr.NoActiveLine)

		Expect(out).To(ContainSubstring("LABEL"))
		Expect(out).To(ContainSubstring("REPEAT"))
		Expect(out).To(ContainSubstring("UNTIL"))
		Expect(out).To(ContainSubstring("▒"))
		Expect(out).NotTo(ContainSubstring(">"))
	})

	It("should mark the active line", func() {
		out := instr.Describe(p, 2)

		Expect(out).To(ContainSubstring("> 3"))
	})

	It("should be deterministic", func() {
		Expect(instr.Describe(p, 1)).To(Equal(instr.Describe(p, 1)))
	})

	It("should paint the active line when colored", func() {
		text.EnableColors()
		out := instr.Listing{Active: 0, Color: true}.Render(p)

		Expect(out).To(ContainSubstring("\x1b["))
		Expect(strings.Count(out, "> 1")).To(Equal(1))
	})
})
