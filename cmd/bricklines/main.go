// Command bricklines runs LEGO Lines programs on the LEGO Interface A.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/bricklines/config"
)

// AppVersion is set at build time.
var AppVersion = "dev"

func main() {
	args, err := ParseArguments(os.Args, AppVersion)
	if err != nil {
		if errors.Is(err, MissingCommand) || errors.Is(err, flag.ErrHelp) {
			atexit.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err.Error())
		atexit.Exit(1)
	}

	if args.InitConfig == nil && args.Show == nil && args.Check == nil &&
		args.Run == nil && args.Simulate == nil && !args.Ports {
		// --help or --version
		atexit.Exit(0)
	}

	cfg, err := loadConfig(args.Global)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		atexit.Exit(2)
	}

	if err := setupLogging(cfg.Log); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		atexit.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case args.Show != nil:
		err = Show(cfg, args.Show)
	case args.Check != nil:
		err = Check(cfg, args.Check)
	case args.Run != nil:
		err = Run(ctx, cfg, args.Run)
	case args.Simulate != nil:
		err = Simulate(ctx, cfg, args.Simulate)
	case args.Ports:
		err = Ports()
	case args.InitConfig != nil:
		err = InitConfig(args.InitConfig)
	}

	if err != nil {
		if !errors.Is(err, ErrCheckFailed) {
			slog.Error("Command failed", "Error", err)
		}
		stop()
		atexit.Exit(3)
	}

	stop()
	atexit.Exit(0)
}

// loadConfig reads the configuration file, if any, and applies the flags
// over it.
func loadConfig(g GlobalArguments) (config.Config, error) {
	cfg := config.Default()

	if g.ConfigFile != "" {
		var err error
		cfg, err = config.Load(g.ConfigFile)
		if err != nil {
			return cfg, err
		}
	}

	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.LogFile != "" {
		cfg.Log.File = g.LogFile
	}
	if g.Port != "" {
		cfg.Port = g.Port
	}
	if g.Format != "" {
		cfg.Format = g.Format
	}

	return cfg, cfg.Validate()
}
