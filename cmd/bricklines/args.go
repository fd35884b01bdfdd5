package main

import (
	"errors"

	"github.com/urfave/cli"
)

// GlobalArguments apply to every command.
type GlobalArguments struct {
	ConfigFile string
	LogLevel   string
	LogFile    string
	Port       string
	Format     string
}

// ShowArguments prints a program listing.
type ShowArguments struct {
	File  string
	Color bool
}

// CheckArguments verifies a program.
type CheckArguments struct {
	File   string
	Report string
}

// RunArguments runs a program on the controller.
type RunArguments struct {
	File      string
	NoDisplay bool
	Color     bool
}

// SimulateArguments runs a program on a simulated controller.
type SimulateArguments struct {
	File     string
	Stimulus string
	Limit    string
	Trace    bool
}

// InitConfigArguments writes a configuration file with the defaults.
type InitConfigArguments struct {
	File string
}

// Arguments are the parsed command line. Exactly one command is set.
type Arguments struct {
	Global GlobalArguments

	Show       *ShowArguments
	Check      *CheckArguments
	Run        *RunArguments
	Simulate   *SimulateArguments
	Ports      bool
	InitConfig *InitConfigArguments
}

var (
	MissingCommand  = errors.New("missing command")
	MissingArgument = errors.New("missing argument")
)

// ParseArguments parses the command line. Usage errors are already printed.
func ParseArguments(argv []string, appVersion string) (*Arguments, error) {
	var args = Arguments{}
	app := cli.NewApp()
	app.Name = "bricklines"
	app.Usage = "Run LEGO Lines programs on the LEGO Interface A"
	app.Version = appVersion
	app.UseShortOptionHandling = true

	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config,c", Usage: "YAML configuration file"},
		cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn or error"},
		cli.StringFlag{Name: "log-file", Usage: "Also write JSON log records to this file"},
		cli.StringFlag{Name: "port,p", Usage: "Serial port of the controller"},
		cli.StringFlag{Name: "format,f", Usage: "Program file format: auto, commodore or apple"},
	}

	app.Commands = []cli.Command{
		{
			Name:      "show",
			Usage:     "Print the program listing",
			ArgsUsage: "<program>",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "color", Usage: "Use terminal colors"},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return MissingArgument
				}
				args.Show = &ShowArguments{
					File:  c.Args().Get(0),
					Color: c.Bool("color"),
				}
				return nil
			},
		},
		{
			Name:      "check",
			Usage:     "Verify the block structure of a program",
			ArgsUsage: "<program>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "report,r", Usage: "Save the report to a file"},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return MissingArgument
				}
				args.Check = &CheckArguments{
					File:   c.Args().Get(0),
					Report: c.String("report"),
				}
				return nil
			},
		},
		{
			Name:      "run",
			Usage:     "Run a program on the controller",
			ArgsUsage: "<program>",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "no-display", Usage: "Do not redraw the listing"},
				cli.BoolFlag{Name: "color", Usage: "Use terminal colors"},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return MissingArgument
				}
				args.Run = &RunArguments{
					File:      c.Args().Get(0),
					NoDisplay: c.Bool("no-display"),
					Color:     c.Bool("color"),
				}
				return nil
			},
		},
		{
			Name:      "simulate",
			Usage:     "Run a program on a simulated controller",
			ArgsUsage: "<program>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "stimulus,s", Usage: "YAML file with input changes"},
				cli.StringFlag{Name: "limit,l", Value: "60s", Usage: "Stop after this much simulated time"},
				cli.BoolFlag{Name: "trace,t", Usage: "Print all device interactions"},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return MissingArgument
				}
				args.Simulate = &SimulateArguments{
					File:     c.Args().Get(0),
					Stimulus: c.String("stimulus"),
					Limit:    c.String("limit"),
					Trace:    c.Bool("trace"),
				}
				return nil
			},
		},
		{
			Name:  "ports",
			Usage: "List serial ports",
			Action: func(c *cli.Context) error {
				args.Ports = true
				return nil
			},
		},
		{
			Name:      "init-config",
			Usage:     "Write a configuration file with the defaults",
			ArgsUsage: "<file>",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return MissingArgument
				}
				args.InitConfig = &InitConfigArguments{File: c.Args().Get(0)}
				return nil
			},
		},
	}
	app.Action = func(c *cli.Context) error {
		cli.ShowAppHelp(c)
		return MissingCommand
	}
	app.Before = func(c *cli.Context) error {
		args.Global.ConfigFile = c.GlobalString("config")
		args.Global.LogLevel = c.GlobalString("log-level")
		args.Global.LogFile = c.GlobalString("log-file")
		args.Global.Port = c.GlobalString("port")
		args.Global.Format = c.GlobalString("format")
		return nil
	}
	err := app.Run(argv)
	return &args, err
}
