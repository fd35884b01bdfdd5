package config

import (
	"bytes"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/bricklines/device"
)

// Stimulus describes the input lines of a simulated controller.
//
//	sample_period: 10ms
//	inputs:
//	  - at: 2s
//	    in6: true
//	  - at: 2.5s
type Stimulus struct {
	// SamplePeriod is the virtual time every input read takes.
	SamplePeriod time.Duration `yaml:"sample_period"`
	Inputs       []InputChange `yaml:"inputs"`
}

// InputChange sets both input lines from At onwards.
type InputChange struct {
	At  time.Duration `yaml:"at"`
	In7 bool          `yaml:"in7"`
	In6 bool          `yaml:"in6"`
}

// LoadStimulus reads a stimulus file.
func LoadStimulus(path string) (Stimulus, error) {
	s := Stimulus{SamplePeriod: 10 * time.Millisecond}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, errors.Wrap(err, "failed to read stimulus")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&s); err != nil {
		return s, errors.Wrapf(err, "failed to parse stimulus %s", path)
	}

	if s.SamplePeriod <= 0 {
		return s, errors.Wrapf(ErrInvalid, "sample period %v", s.SamplePeriod)
	}

	for _, in := range s.Inputs {
		if in.At < 0 {
			return s, errors.Wrapf(ErrInvalid, "input change at %v", in.At)
		}
	}

	return s, nil
}

// SimDeviceBuilder returns a builder for a simulated controller that follows
// the stimulus.
func (s Stimulus) SimDeviceBuilder() device.SimDeviceBuilder {
	b := device.NewSimDeviceBuilder()

	if s.SamplePeriod > 0 {
		b = b.WithSampleFreq(sim.Freq(1 / s.SamplePeriod.Seconds()))
	}

	stimuli := make([]device.Stimulus, 0, len(s.Inputs))
	for _, in := range s.Inputs {
		stimuli = append(stimuli, device.Stimulus{At: in.At, In7: in.In7, In6: in.In6})
	}

	return b.WithStimuli(stimuli...)
}
