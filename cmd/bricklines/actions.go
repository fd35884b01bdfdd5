package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/bricklines/api"
	"github.com/sarchlab/bricklines/config"
	"github.com/sarchlab/bricklines/core"
	"github.com/sarchlab/bricklines/device"
	"github.com/sarchlab/bricklines/instr"
	"github.com/sarchlab/bricklines/program"
	"github.com/sarchlab/bricklines/verify"
)

// ErrCheckFailed is returned when a program does not pass verification.
var ErrCheckFailed = errors.New("program check failed")

func loadProgram(cfg config.Config, path string) (instr.Program, error) {
	format, err := cfg.ProgramFormat()
	if err != nil {
		return nil, err
	}

	p, err := program.LoadFile(path, format)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}

	slog.Debug("Program loaded", "File", path, "Lines", len(p))

	return p, nil
}

func programTitle(path string) string {
	return filepath.Base(path)
}

// Show prints the program listing.
func Show(cfg config.Config, args *ShowArguments) error {
	p, err := loadProgram(cfg, args.File)
	if err != nil {
		return err
	}

	listing := instr.Listing{
		Active: instr.NoActiveLine,
		Color:  args.Color,
		Title:  programTitle(args.File),
	}
	fmt.Println(listing.Render(p))

	return nil
}

// Check verifies the program and prints the report.
func Check(cfg config.Config, args *CheckArguments) error {
	p, err := loadProgram(cfg, args.File)
	if err != nil {
		return err
	}

	r := verify.GenerateReport(programTitle(args.File), p)
	r.WriteReport(os.Stdout)

	if args.Report != "" {
		if err := r.SaveReportToFile(args.Report); err != nil {
			return err
		}
	}

	if !r.OK() {
		return ErrCheckFailed
	}

	return nil
}

// Run runs the program on the controller until it ends or ctx is cancelled.
func Run(ctx context.Context, cfg config.Config, args *RunArguments) error {
	p, err := loadProgram(cfg, args.File)
	if err != nil {
		return err
	}

	if _, err := verify.Verify(p); err != nil {
		return err
	}

	link, err := config.NewDeviceBuilder(cfg).Build()
	if err != nil {
		return err
	}
	atexit.Register(func() {
		if cfg.OutputsOffOnExit {
			if err := link.Reset(context.Background()); err != nil {
				slog.Warn("Failed to switch outputs off", "Error", err)
			}
		}
		link.Close()
	})

	b := api.DriverBuilder{}.
		WithDevice(link).
		WithDefaultHold(cfg.DefaultHold).
		WithPollInterval(cfg.PollInterval)
	if !args.NoDisplay {
		b = b.WithDisplay(os.Stdout, args.Color, true)
	}
	driver := b.Build("Driver")

	if err := driver.Connect(ctx); err != nil {
		return err
	}

	err = driver.Run(ctx, p)
	if errors.Is(err, context.Canceled) {
		slog.Info("Interrupted")
		return nil
	}

	return err
}

// Simulate runs the program on a simulated controller and prints what the
// controller saw.
func Simulate(ctx context.Context, cfg config.Config, args *SimulateArguments) error {
	p, err := loadProgram(cfg, args.File)
	if err != nil {
		return err
	}

	limit, err := time.ParseDuration(args.Limit)
	if err != nil {
		return errors.Wrapf(err, "bad limit %q", args.Limit)
	}
	if limit <= 0 {
		return errors.Errorf("limit %v must be positive", limit)
	}

	stimulus := config.Stimulus{SamplePeriod: 10 * time.Millisecond}
	if args.Stimulus != "" {
		stimulus, err = config.LoadStimulus(args.Stimulus)
		if err != nil {
			return err
		}
	}

	dev := stimulus.SimDeviceBuilder().WithTimeLimit(limit).Build("Sim")

	engine := core.NewBuilder().
		WithDevice(dev).
		WithDefaultHold(cfg.DefaultHold).
		WithPollInterval(cfg.PollInterval).
		Build("Engine")

	err = engine.Run(ctx, p)
	if errors.Is(err, device.ErrTimeLimit) || errors.Is(err, context.Canceled) {
		slog.Info("Simulation stopped", "Time", dev.Now())
		err = nil
	}
	if err != nil {
		return err
	}

	if args.Trace {
		printTrace(dev.Trace())
	}

	fmt.Printf("Simulated %v, outputs %06b\n", dev.Now(), dev.Outputs())

	return nil
}

func printTrace(trace []device.TraceEntry) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"TIME", "OP", "OUT", "HOLD", "IN7", "IN6"})

	for _, e := range trace {
		row := table.Row{e.Time, e.Op, "", "", "", ""}
		switch e.Op {
		case device.OpWrite:
			row[2] = fmt.Sprintf("%06b", e.Bits)
		case device.OpHold:
			row[3] = e.Hold
		case device.OpRead:
			row[4], row[5] = e.In7, e.In6
		}
		tw.AppendRow(row)
	}

	fmt.Println(tw.Render())
}

// Ports lists the serial ports.
func Ports() error {
	ports, err := config.Ports()
	if err != nil {
		return err
	}

	for _, p := range ports {
		fmt.Println(p)
	}

	return nil
}

// InitConfig writes the default configuration.
func InitConfig(args *InitConfigArguments) error {
	return config.Default().Save(args.File)
}
