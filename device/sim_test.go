package device_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bricklines/device"
)

var _ = Describe("SimDevice", func() {
	var (
		dev *device.SimDevice
		ctx context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		dev = device.NewSimDeviceBuilder().
			WithEngine(sim.NewSerialEngine()).
			WithSampleFreq(10 * sim.Hz).
			WithStimuli(
				device.Stimulus{At: 2 * time.Second, In6: true},
				device.Stimulus{At: 1 * time.Second, In7: true},
			).
			Build("Interface")
	})

	It("should advance virtual time on hold", func() {
		Expect(dev.WriteOutputs(ctx, 0b000011)).To(Succeed())
		Expect(dev.Hold(ctx, 1500*time.Millisecond)).To(Succeed())

		Expect(dev.Now()).To(Equal(1500 * time.Millisecond))
		Expect(dev.Outputs()).To(Equal(uint8(0b000011)))
	})

	It("should follow the stimulus schedule", func() {
		in7, in6, err := dev.ReadInputs(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(in7).To(BeFalse())
		Expect(in6).To(BeFalse())

		Expect(dev.Hold(ctx, time.Second)).To(Succeed())
		in7, in6, _ = dev.ReadInputs(ctx)
		Expect(in7).To(BeTrue())
		Expect(in6).To(BeFalse())

		Expect(dev.Hold(ctx, time.Second)).To(Succeed())
		in7, in6, _ = dev.ReadInputs(ctx)
		Expect(in7).To(BeFalse())
		Expect(in6).To(BeTrue())
	})

	It("should advance one sample period per read", func() {
		for i := 0; i < 3; i++ {
			_, _, err := dev.ReadInputs(ctx)
			Expect(err).NotTo(HaveOccurred())
		}

		Expect(dev.Now()).To(Equal(300 * time.Millisecond))
	})

	It("should record every interaction", func() {
		Expect(dev.WriteOutputs(ctx, 0b000001)).To(Succeed())
		Expect(dev.Hold(ctx, time.Second)).To(Succeed())
		_, _, _ = dev.ReadInputs(ctx)

		trace := dev.Trace()
		Expect(trace).To(HaveLen(3))
		Expect(trace[0]).To(Equal(device.TraceEntry{Op: device.OpWrite, Bits: 0b000001}))
		Expect(trace[1]).To(Equal(device.TraceEntry{Op: device.OpHold, Hold: time.Second}))
		Expect(trace[2]).To(Equal(device.TraceEntry{
			Time: time.Second, Op: device.OpRead, In7: true,
		}))
	})

	It("should refuse calls after ctx is done", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		Expect(dev.WriteOutputs(cctx, 1)).To(MatchError(context.Canceled))
		Expect(dev.Hold(cctx, time.Second)).To(MatchError(context.Canceled))
		Expect(dev.Trace()).To(BeEmpty())
	})

	Context("with a time limit", func() {
		BeforeEach(func() {
			dev = device.NewSimDeviceBuilder().
				WithEngine(sim.NewSerialEngine()).
				WithSampleFreq(10 * sim.Hz).
				WithTimeLimit(time.Second).
				Build("Interface")
		})

		It("should end a hold at the limit", func() {
			err := dev.Hold(ctx, 5*time.Second)

			Expect(err).To(MatchError(device.ErrTimeLimit))
			Expect(dev.Now()).To(Equal(time.Second))
		})

		It("should stop endless sampling at the limit", func() {
			var err error
			reads := 0
			for err == nil && reads < 100 {
				_, _, err = dev.ReadInputs(ctx)
				reads++
			}

			Expect(err).To(MatchError(device.ErrTimeLimit))
			Expect(reads).To(BeNumerically("<=", 11))
			Expect(dev.Now()).To(Equal(time.Second))
		})

		It("should refuse every call once the limit is reached", func() {
			_ = dev.Hold(ctx, 2*time.Second)

			Expect(dev.WriteOutputs(ctx, 1)).To(MatchError(device.ErrTimeLimit))
			Expect(dev.Hold(ctx, 0)).To(MatchError(device.ErrTimeLimit))
			_, _, err := dev.ReadInputs(ctx)
			Expect(err).To(MatchError(device.ErrTimeLimit))
			Expect(dev.Outputs()).To(Equal(uint8(0)))
		})
	})
})
