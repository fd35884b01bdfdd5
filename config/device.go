package config

import (
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"

	"github.com/sarchlab/bricklines/device"
)

// ErrNoPort is returned when a device is built without a serial port.
var ErrNoPort = errors.New("no serial port configured")

// DeviceBuilder opens the serial link to an Interface A controller.
type DeviceBuilder struct {
	port        string
	baud        int
	readTimeout time.Duration
}

// NewDeviceBuilder returns a builder with the settings of c.
func NewDeviceBuilder(c Config) DeviceBuilder {
	return DeviceBuilder{
		port:        c.Port,
		baud:        c.Baud,
		readTimeout: c.ReadTimeout,
	}
}

// WithPort sets the serial device name.
func (b DeviceBuilder) WithPort(port string) DeviceBuilder {
	b.port = port
	return b
}

// WithBaud sets the line speed.
func (b DeviceBuilder) WithBaud(baud int) DeviceBuilder {
	b.baud = baud
	return b
}

// WithReadTimeout sets how long a read waits before the link checks for
// cancellation. Zero blocks until a byte arrives.
func (b DeviceBuilder) WithReadTimeout(d time.Duration) DeviceBuilder {
	b.readTimeout = d
	return b
}

// Build opens the port with 8 data bits, no parity and one stop bit.
func (b DeviceBuilder) Build() (*device.Link, error) {
	if b.port == "" {
		return nil, ErrNoPort
	}

	baud := b.baud
	if baud == 0 {
		baud = DefaultBaud
	}

	port, err := serial.Open(b.port, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", b.port)
	}

	if b.readTimeout > 0 {
		if err := port.SetReadTimeout(b.readTimeout); err != nil {
			port.Close()
			return nil, errors.Wrapf(err, "failed to configure %s", b.port)
		}
	}

	slog.Info("Serial port opened", "Port", b.port, "Baud", baud)

	return device.NewLink(port), nil
}

// Ports lists the serial ports of the host.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	return ports, errors.Wrap(err, "failed to list serial ports")
}
