// Package config loads run settings and builds the devices they describe.
package config

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/bricklines/core"
	"github.com/sarchlab/bricklines/program"
)

// DefaultBaud is the speed of the Interface A serial link.
const DefaultBaud = 19200

// ErrInvalid is returned for settings that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the settings of a run.
type Config struct {
	// Port is the serial device the controller is attached to.
	Port        string        `yaml:"port"`
	Baud        int           `yaml:"baud"`
	ReadTimeout time.Duration `yaml:"read_timeout"`

	DefaultHold  time.Duration `yaml:"default_hold"`
	PollInterval time.Duration `yaml:"poll_interval"`
	Format       string        `yaml:"format"`

	// OutputsOffOnExit switches all outputs off when the program ends or the
	// process is interrupted.
	OutputsOffOnExit bool `yaml:"outputs_off_on_exit"`

	Log LogConfig `yaml:"log"`
}

// LogConfig selects where log records go.
type LogConfig struct {
	Level string `yaml:"level"`
	// File receives JSON records in addition to the text records on stderr.
	File string `yaml:"file"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Baud:             DefaultBaud,
		ReadTimeout:      100 * time.Millisecond,
		DefaultHold:      time.Second,
		Format:           program.AutoDetect.String(),
		OutputsOffOnExit: true,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "failed to read config")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&c); err != nil {
		return c, errors.Wrapf(err, "failed to parse config %s", path)
	}

	return c, c.Validate()
}

// Save writes the settings as YAML.
func (c Config) Save(path string) error {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(c); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}

	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}

	return errors.Wrap(os.WriteFile(path, buf.Bytes(), 0o644),
		"failed to write config")
}

// Validate checks that the settings can be used.
func (c Config) Validate() error {
	if c.Baud <= 0 {
		return errors.Wrapf(ErrInvalid, "baud %d", c.Baud)
	}

	if c.DefaultHold < 0 || c.PollInterval < 0 || c.ReadTimeout < 0 {
		return errors.Wrap(ErrInvalid, "negative duration")
	}

	if _, err := c.ProgramFormat(); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}

	return nil
}

// ProgramFormat returns the configured program file format.
func (c Config) ProgramFormat() (program.Format, error) {
	return program.ParseFormat(c.Format)
}

// ParseLevel converts a level name. Besides the slog names it accepts
// "trace", which logs every executed line.
func ParseLevel(s string) (slog.Level, error) {
	if strings.EqualFold(strings.TrimSpace(s), "trace") {
		return core.LevelTrace, nil
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, errors.Wrapf(ErrInvalid, "log level %q", s)
	}

	return l, nil
}
