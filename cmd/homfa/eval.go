package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/lfsec/homfa/engine"
	"github.com/lfsec/homfa/fhe"
	"github.com/lfsec/homfa/graph"
	"github.com/lfsec/homfa/herrors"
	"github.com/lfsec/homfa/stream"
)

var evalCommand = &cli.Command{
	Name:  "eval",
	Usage: "evaluate a DFA over an encrypted input under one of the four strategies",
	Flags: append(append([]cli.Flag{}, paramFlags...),
		&cli.StringFlag{Name: "strategy", Required: true, Usage: "offline|qtrlwe|reversed|qtrlwe2"},
		&cli.StringFlag{Name: "spec", Required: true, Usage: "DFA spec file (from_spec format)"},
		&cli.StringFlag{Name: "gk", Required: true, Usage: "gate-key file"},
		&cli.StringFlag{Name: "iks", Usage: "IKS-key file (required by qtrlwe2)"},
		&cli.StringFlag{Name: "in", Required: true, Usage: "ciphertext blob"},
		&cli.StringFlag{Name: "out", Required: true, Usage: "output Acceptance-Bit file"},
		&cli.IntFlag{Name: "bootstrap-interval", Value: 1, Usage: "bootstrap every N steps (offline, qtrlwe, reversed)"},
		&cli.IntFlag{Name: "d1", Value: 8, Usage: "qtrlwe2 first-LUT prefix depth"},
		&cli.IntFlag{Name: "d2", Value: 2, Usage: "qtrlwe2 second-LUT fold depth (d1+d2 addresses must fit the ring: 2^(d1+d2) <= N)"},
	),
	Action: func(c *cli.Context) error {
		log := newLogger(c)
		params, err := paramsFromContext(c)
		if err != nil {
			return err
		}
		g, err := graph.FromSpec(c.String("spec"))
		if err != nil {
			return err
		}
		g.WithLogger(log)

		gk, err := readGateKey(c.String("gk"), params)
		if err != nil {
			return err
		}
		var iks *fhe.IKSKey
		if c.String("iks") != "" {
			iks, err = readIKSKey(c.String("iks"), params)
			if err != nil {
				return err
			}
		}
		ev := fhe.NewEvaluator(params, gk, iks, log)

		f, err := os.Open(c.String("in"))
		if err != nil {
			return fmt.Errorf("opening %s: %w", c.String("in"), err)
		}
		defer f.Close()
		aps, err := stream.ReadBlob(f, params.N())
		if err != nil {
			return err
		}

		strategy := c.String("strategy")
		var input interface {
			Size() int
			Next() (fhe.APBit, error)
		}
		if strategy == "offline" {
			input = stream.NewReversed(aps)
		} else {
			input = stream.NewForward(aps)
		}

		var ee engine.Evaluator
		switch strategy {
		case "offline":
			ee, err = engine.NewOffline(g, ev, len(aps), c.Int("bootstrap-interval"), log)
		case "qtrlwe":
			ee, err = engine.NewQtrlwe(g, ev, c.Int("bootstrap-interval"), log)
		case "reversed":
			ee, err = engine.NewReversed(g, ev, c.Int("bootstrap-interval"), log)
		case "qtrlwe2":
			ee, err = engine.NewQtrlwe2(g, ev, c.Int("d1"), c.Int("d2"), log)
		default:
			return herrors.New(herrors.BadConfig, "main.eval", fmt.Sprintf("unknown strategy %q", strategy))
		}
		if err != nil {
			return err
		}

		for input.Size() > 0 {
			ap, err := input.Next()
			if err != nil {
				return err
			}
			if err := ee.Step(ap); err != nil {
				return err
			}
		}

		result, err := ee.Result()
		if err != nil {
			return err
		}
		out, err := os.Create(c.String("out"))
		if err != nil {
			return fmt.Errorf("creating %s: %w", c.String("out"), err)
		}
		defer out.Close()
		if _, err := result.WriteTo(out); err != nil {
			return fmt.Errorf("writing acceptance bit: %w", err)
		}
		log.Info().Str("strategy", strategy).Str("file", c.String("out")).Msg("evaluation complete")
		return nil
	},
}
