// Command herradura runs the Herradura protocols, their self-test and the
// adversary experiments from the command line.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/TheusHen/herradura/herradura/log"
	"github.com/TheusHen/herradura/herradura/metrics"
)

// default output of the commands; logs go to stderr.
var output io.Writer = os.Stdout

// Set through -ldflags "-X main.version=..."
var (
	version   = "dev"
	gitCommit = "none"
)

var configFlag = &cli.StringFlag{
	Name:  "config",
	Usage: "Read settings from the given TOML file. Flags take precedence.",
}

var bitsFlag = &cli.IntFlag{
	Name:  "bits",
	Usage: "Vector width in bits, a power of two >= 8.",
}

var verboseFlag = &cli.BoolFlag{
	Name:  "verbose",
	Usage: "If set, verbosity is at the debug level and revolve steps are printed.",
}

var jsonLogsFlag = &cli.BoolFlag{
	Name:  "json-logs",
	Usage: "Emit logs as JSON.",
}

var metricsFlag = &cli.StringFlag{
	Name:  "metrics",
	Usage: "Launch a metrics server at the specified (host:)port.",
}

var roundsFlag = &cli.IntFlag{
	Name:  "rounds",
	Usage: "Rounds per property and width.",
}

var workersFlag = &cli.IntFlag{
	Name:  "workers",
	Usage: "Number of parallel workers (default: GOMAXPROCS).",
}

var widthsFlag = &cli.IntSliceFlag{
	Name:  "widths",
	Usage: "Widths to check, e.g. --widths 8 --widths 64.",
}

var seedFlag = &cli.Int64Flag{
	Name:  "seed",
	Usage: "Seed for reproducible checks (0 uses crypto/rand).",
}

var outFlag = &cli.StringFlag{
	Name:  "out",
	Usage: "Directory to write public.toml and private.toml into.",
	Value: ".",
}

var dumpFlag = &cli.BoolFlag{
	Name:  "dump",
	Usage: "Pretty-print the generated key tuples.",
}

var hexAFlag = &cli.StringFlag{
	Name:  "a",
	Usage: "Hex value of A (random if empty).",
}

var hexBFlag = &cli.StringFlag{
	Name:  "b",
	Usage: "Hex value of B (random if empty).",
}

var appCommands = []*cli.Command{
	{
		Name:   "demo",
		Usage:  "Run every protocol once and the adversary experiments, narrating each step.",
		Action: demoCmd,
	},
	{
		Name:   "selftest",
		Usage:  "Check the algebraic properties of the suite on random inputs.",
		Flags:  toArray(roundsFlag, workersFlag, widthsFlag, seedFlag),
		Action: selftestCmd,
	},
	{
		Name:   "keygen",
		Usage:  "Generate a public/private key tuple and write it as TOML.",
		Flags:  toArray(outFlag, dumpFlag),
		Action: keygenCmd,
	},
	{
		Name:   "bruteforce",
		Usage:  "Search every (A, B) behind a random commitment (widths <= 16).",
		Action: bruteforceCmd,
	},
	{
		Name:   "period",
		Usage:  "Find the revolve period of A under B.",
		Flags:  toArray(hexAFlag, hexBFlag),
		Action: periodCmd,
	},
}

// CLI builds the herradura app.
func CLI() *cli.App {
	app := cli.NewApp()
	app.Name = "herradura"
	app.Version = version
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(output, "herradura %v (commit %v)\n", version, gitCommit)
	}
	app.ExitErrHandler = func(*cli.Context, error) {}
	app.Usage = "FSCX based key exchange, encryption and signature suite"
	app.Commands = appCommands
	app.Flags = toArray(configFlag, bitsFlag, verboseFlag, jsonLogsFlag, metricsFlag)
	return app
}

func toArray(flags ...cli.Flag) []cli.Flag {
	return flags
}

// setup loads the configuration, builds the logger and starts the metrics
// server when one is configured.
func setup(c *cli.Context) (Config, log.Logger, error) {
	conf, err := contextToConfig(c)
	if err != nil {
		return Config{}, nil, err
	}
	level := log.InfoLevel
	if conf.Verbose {
		level = log.DebugLevel
	}
	l := log.New(nil, level, conf.JSONLogs).Named(c.Command.Name)
	if conf.Metrics.Listen != "" {
		if _, err := metrics.Serve(c.Context, conf.Metrics.Listen, l); err != nil {
			return Config{}, nil, fmt.Errorf("metrics: %w", err)
		}
	}
	return conf, l, nil
}
