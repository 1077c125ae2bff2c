package main

import (
	"github.com/urfave/cli/v2"

	"github.com/lfsec/homfa/fhe"
)

// paramFlags are the fhe.Parameters fields exposed on every subcommand
// that touches keys or ciphertexts. Defaults match fhe.DefaultParameters
// so a bare `homfa genkey` round-trips with a bare `homfa eval`.
var paramFlags = []cli.Flag{
	&cli.IntFlag{Name: "log-n", Value: 10, Usage: "log2 of the TRLWE/TRGSW ring degree"},
	&cli.IntFlag{Name: "lwe-n", Value: 512, Usage: "LWE dimension of the single-bit form"},
	&cli.Uint64Flag{Name: "modulus", Value: 12289, Usage: "ciphertext modulus Q"},
	&cli.IntFlag{Name: "log-bg", Value: 8, Usage: "log2 of the gadget decomposition base"},
	&cli.IntFlag{Name: "levels", Value: 4, Usage: "gadget decomposition depth"},
	&cli.Float64Flag{Name: "std-dev", Value: 3.2, Usage: "noise standard deviation"},
}

func paramsFromContext(c *cli.Context) (fhe.Parameters, error) {
	return fhe.NewParameters(
		c.Int("log-n"),
		c.Int("lwe-n"),
		c.Uint64("modulus"),
		c.Int("log-bg"),
		c.Int("levels"),
		c.Float64("std-dev"),
	)
}
