// Command homfa is the CLI front end for the homomorphic DFA evaluation
// engine: key generation, encryption, evaluation under any of the four
// strategies, decryption, and LTL-to-DFA compilation.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func newLogger(c *cli.Context) zerolog.Logger {
	level := zerolog.InfoLevel
	if c.Bool("verbose") {
		level = zerolog.DebugLevel
	}
	if c.Bool("trace") {
		level = zerolog.TraceLevel
	}
	var w zerolog.ConsoleWriter
	if c.Bool("json") {
		return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)
	}
	w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(w).With().Timestamp().Logger().Level(level)
}

func main() {
	app := &cli.App{
		Name:  "homfa",
		Usage: "homomorphic DFA evaluation over encrypted Boolean streams",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "enable debug-level logging"},
			&cli.BoolFlag{Name: "trace", Usage: "enable trace-level logging (every CMUX/bootstrap)"},
			&cli.BoolFlag{Name: "json", Usage: "emit logs as JSON instead of console-formatted"},
		},
		Commands: []*cli.Command{
			genkeyCommand,
			genbkCommand,
			genIKSCommand,
			encryptCommand,
			evalCommand,
			decryptCommand,
			ltl2specCommand,
			ltl2dotCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "homfa:", err)
		os.Exit(1)
	}
}
