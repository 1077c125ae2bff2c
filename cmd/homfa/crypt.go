package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/lfsec/homfa/fhe"
	"github.com/lfsec/homfa/stream"
)

var encryptCommand = &cli.Command{
	Name:  "encrypt",
	Usage: "encrypt a plaintext byte stream into a ciphertext blob of AP-Bits",
	Flags: append(append([]cli.Flag{}, paramFlags...),
		&cli.StringFlag{Name: "sk", Required: true, Usage: "secret-key file"},
		&cli.StringFlag{Name: "in", Required: true, Usage: "plaintext input file"},
		&cli.StringFlag{Name: "out", Required: true, Usage: "output ciphertext blob"},
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
		data, err := os.ReadFile(c.String("in"))
		if err != nil {
			return fmt.Errorf("reading %s: %w", c.String("in"), err)
		}
		bits := stream.BitsFromBytes(data)
		enc := fhe.NewEncryptor(params, sk)
		aps := stream.EncryptBits(enc, bits)

		f, err := os.Create(c.String("out"))
		if err != nil {
			return fmt.Errorf("creating %s: %w", c.String("out"), err)
		}
		defer f.Close()
		if err := stream.WriteBlob(f, aps); err != nil {
			return err
		}
		log.Info().Int("bits", len(bits)).Str("file", c.String("out")).Msg("ciphertext blob written")
		return nil
	},
}

var decryptCommand = &cli.Command{
	Name:  "decrypt",
	Usage: "decrypt an Acceptance-Bit ciphertext to a plaintext bool",
	Flags: append(append([]cli.Flag{}, paramFlags...),
		&cli.StringFlag{Name: "sk", Required: true, Usage: "secret-key file"},
		&cli.StringFlag{Name: "in", Required: true, Usage: "Acceptance-Bit ciphertext file"},
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
		f, err := os.Open(c.String("in"))
		if err != nil {
			return fmt.Errorf("opening %s: %w", c.String("in"), err)
		}
		defer f.Close()
		var ct fhe.TLWECiphertext
		if _, err := ct.ReadFrom(f); err != nil {
			return fmt.Errorf("reading acceptance bit: %w", err)
		}
		dec := fhe.NewDecryptor(params, sk)
		bit := dec.DecryptBit(ct)
		log.Debug().Bool("accept", bit).Msg("decrypted")
		fmt.Println(bit)
		return nil
	},
}
