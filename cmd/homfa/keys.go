package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/lfsec/homfa/fhe"
)

var genkeyCommand = &cli.Command{
	Name:  "genkey",
	Usage: "generate a fresh secret key",
	Flags: append(append([]cli.Flag{}, paramFlags...),
		&cli.StringFlag{Name: "out", Required: true, Usage: "output secret-key file"},
		&cli.Int64Flag{Name: "seed", Value: 1, Usage: "deterministic RNG seed (this engine is didactic, never cryptographically secure)"},
	),
	Action: func(c *cli.Context) error {
		log := newLogger(c)
		params, err := paramsFromContext(c)
		if err != nil {
			return err
		}
		kg := fhe.NewKeyGenerator(params, rand.NewSource(c.Int64("seed")))
		sk := kg.GenSecretKey()

		f, err := os.Create(c.String("out"))
		if err != nil {
			return fmt.Errorf("creating %s: %w", c.String("out"), err)
		}
		defer f.Close()
		if _, err := sk.WriteTo(f); err != nil {
			return fmt.Errorf("writing secret key: %w", err)
		}
		log.Info().Str("file", c.String("out")).Msg("secret key written")
		return nil
	},
}

var genbkCommand = &cli.Command{
	Name:  "genbk",
	Usage: "generate a gate (bootstrapping) key from a secret key",
	Flags: append(append([]cli.Flag{}, paramFlags...),
		&cli.StringFlag{Name: "sk", Required: true, Usage: "secret-key file"},
		&cli.StringFlag{Name: "out", Required: true, Usage: "output gate-key file"},
		&cli.Int64Flag{Name: "seed", Value: 1},
	),
	Action: func(c *cli.Context) error {
		log := newLogger(c)
		params, err := paramsFromContext(c)
		if err != nil {
			return err
		}
		sk, err := readSecretKey(c.String("sk"), params)
		if err != nil {
			return err
		}
		kg := fhe.NewKeyGenerator(params, rand.NewSource(c.Int64("seed")))
		gk := kg.GenGateKey(sk)

		f, err := os.Create(c.String("out"))
		if err != nil {
			return fmt.Errorf("creating %s: %w", c.String("out"), err)
		}
		defer f.Close()
		if _, err := gk.WriteTo(f); err != nil {
			return fmt.Errorf("writing gate key: %w", err)
		}
		log.Info().Str("file", c.String("out")).Msg("gate key written")
		return nil
	},
}

var genIKSCommand = &cli.Command{
	Name:  "geniks",
	Usage: "generate the identity key-switch key required by online-qtrlwe2",
	Flags: append(append([]cli.Flag{}, paramFlags...),
		&cli.StringFlag{Name: "sk", Required: true, Usage: "secret-key file"},
		&cli.StringFlag{Name: "out", Required: true, Usage: "output IKS-key file"},
		&cli.Int64Flag{Name: "seed", Value: 1},
	),
	Action: func(c *cli.Context) error {
		log := newLogger(c)
		params, err := paramsFromContext(c)
		if err != nil {
			return err
		}
		sk, err := readSecretKey(c.String("sk"), params)
		if err != nil {
			return err
		}
		kg := fhe.NewKeyGenerator(params, rand.NewSource(c.Int64("seed")))
		iks := kg.GenIKSKey(sk)

		f, err := os.Create(c.String("out"))
		if err != nil {
			return fmt.Errorf("creating %s: %w", c.String("out"), err)
		}
		defer f.Close()
		if _, err := iks.WriteTo(f); err != nil {
			return fmt.Errorf("writing IKS key: %w", err)
		}
		log.Info().Str("file", c.String("out")).Msg("IKS key written")
		return nil
	},
}

func readSecretKey(path string, params fhe.Parameters) (*fhe.SecretKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return fhe.ReadSecretKey(f, params)
}

func readGateKey(path string, params fhe.Parameters) (*fhe.GateKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return fhe.ReadGateKey(f, params)
}

func readIKSKey(path string, params fhe.Parameters) (*fhe.IKSKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return fhe.ReadIKSKey(f, params)
}
