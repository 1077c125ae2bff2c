package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/lfsec/homfa/graph"
	"github.com/lfsec/homfa/ltl"
)

// transformOrder returns the subset of names present in args (as
// "--name" or "-name"), ordered by their position on the command line.
func transformOrder(args []string, names []string) []string {
	type hit struct {
		pos  int
		name string
	}
	var hits []hit
	for pos, arg := range args {
		for _, name := range names {
			if arg == "--"+name || arg == "-"+name {
				hits = append(hits, hit{pos, name})
			}
		}
	}
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j-1].pos > hits[j].pos; j-- {
			hits[j-1], hits[j] = hits[j], hits[j-1]
		}
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}

var ltl2specCommand = &cli.Command{
	Name:  "ltl2spec",
	Usage: "compile an LTL formula into a from_spec-format DFA",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "formula", Required: true, Usage: "LTL formula text"},
		&cli.IntFlag{Name: "k", Required: true, Usage: "number of atomic propositions"},
		&cli.StringFlag{Name: "translator", Value: ltl.DefaultTranslator, Usage: "external translator binary"},
		&cli.StringFlag{Name: "out", Required: true, Usage: "output DFA spec file"},
	},
	Action: func(c *cli.Context) error {
		log := newLogger(c)
		g, err := ltl.CompileWith(c.String("translator"), c.String("formula"), c.Int("k"))
		if err != nil {
			return err
		}
		f, err := os.Create(c.String("out"))
		if err != nil {
			return fmt.Errorf("creating %s: %w", c.String("out"), err)
		}
		defer f.Close()
		if err := g.Dump(f); err != nil {
			return err
		}
		log.Info().Int("vertices", g.VertexCount()).Int("finals", g.FinalCount()).Msg("DFA compiled")
		return nil
	},
}

var ltl2dotCommand = &cli.Command{
	Name:  "ltl2dot",
	Usage: "render a DFA spec (or an LTL formula) as a Graphviz DOT digraph",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "spec", Usage: "DFA spec file (mutually exclusive with --formula)"},
		&cli.StringFlag{Name: "formula", Usage: "LTL formula text (mutually exclusive with --spec)"},
		&cli.IntFlag{Name: "k", Usage: "number of atomic propositions, required with --formula"},
		&cli.StringFlag{Name: "translator", Value: ltl.DefaultTranslator},
		&cli.BoolFlag{Name: "minimize", Usage: "apply minimized() before rendering"},
		&cli.BoolFlag{Name: "reverse", Usage: "apply reversed() before rendering"},
		&cli.BoolFlag{Name: "negate", Usage: "apply negated() before rendering"},
		&cli.StringFlag{Name: "out", Required: true},
	},
	Action: func(c *cli.Context) error {
		log := newLogger(c)
		var g *graph.Graph
		var err error
		switch {
		case c.String("spec") != "":
			g, err = graph.FromSpec(c.String("spec"))
		case c.String("formula") != "":
			g, err = ltl.CompileWith(c.String("translator"), c.String("formula"), c.Int("k"))
		default:
			return fmt.Errorf("one of --spec or --formula is required")
		}
		if err != nil {
			return err
		}
		g.WithLogger(log)

		// Transforms compose in the order their flags appear on the
		// command line, so --reverse --minimize differs from --minimize
		// --reverse.
		for _, op := range transformOrder(os.Args, []string{"reverse", "minimize", "negate"}) {
			switch op {
			case "reverse":
				g, err = g.Reversed()
			case "minimize":
				g, err = g.Minimized()
			case "negate":
				g, err = g.Negated()
			}
			if err != nil {
				return err
			}
			g.WithLogger(log)
		}

		f, err := os.Create(c.String("out"))
		if err != nil {
			return fmt.Errorf("creating %s: %w", c.String("out"), err)
		}
		defer f.Close()
		if err := g.DumpDot(f); err != nil {
			return err
		}
		log.Info().Int("vertices", g.VertexCount()).Str("file", c.String("out")).Msg("DOT written")
		return nil
	},
}
