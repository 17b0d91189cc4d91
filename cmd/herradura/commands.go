package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kr/pretty"
	"github.com/urfave/cli/v2"

	"github.com/TheusHen/herradura/herradura/adversary"
	"github.com/TheusHen/herradura/herradura/bitvec"
	"github.com/TheusHen/herradura/herradura/fscx"
	"github.com/TheusHen/herradura/herradura/scheme"
	"github.com/TheusHen/herradura/herradura/selftest"
)

const (
	publicKeyFile  = "public.toml"
	privateKeyFile = "private.toml"
)

func selftestCmd(c *cli.Context) error {
	conf, l, err := setup(c)
	if err != nil {
		return err
	}
	rep, err := selftest.Run(c.Context, selftest.Config{
		Widths:  conf.Selftest.Widths,
		Rounds:  conf.Selftest.Rounds,
		Workers: conf.Selftest.Workers,
		Seed:    conf.Selftest.Seed,
		Logger:  l,
		Metrics: true,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "selftest %s: %d checks, %d failures in %s\n", rep.ID, rep.Checks, rep.Failures, rep.Duration)
	return rep.Err
}

func keygenCmd(c *cli.Context) error {
	conf, l, err := setup(c)
	if err != nil {
		return err
	}
	p := scheme.MustParams(conf.Bits)
	kp, err := scheme.GenerateKeyPair(p, nil)
	if err != nil {
		return err
	}

	dir := c.String(outFlag.Name)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, publicKeyFile), 0o644, func(f *os.File) error {
		return scheme.WritePublicKey(f, kp.Public)
	}); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, privateKeyFile), 0o600, func(f *os.File) error {
		return scheme.WritePrivateKey(f, kp.Private)
	}); err != nil {
		return err
	}
	l.Infow("key tuple written", "dir", dir, "bits", p.Bits)
	if c.Bool(dumpFlag.Name) {
		pretty.Fprintf(output, "%# v\n%# v\n", kp.Public.TOML(), kp.Private.TOML())
	}
	fmt.Fprintf(output, "wrote %s and %s to %s\n", publicKeyFile, privateKeyFile, dir)
	return nil
}

func writeFile(path string, perm os.FileMode, fn func(*os.File) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func bruteforceCmd(c *cli.Context) error {
	conf, l, err := setup(c)
	if err != nil {
		return err
	}
	if !c.IsSet(bitsFlag.Name) && conf.Bits > adversary.MaxBruteForceBits {
		conf.Bits = 8
	}
	p := scheme.MustParams(conf.Bits)
	alice, err := scheme.NewParty(p, nil)
	if err != nil {
		return err
	}
	bob, err := scheme.NewParty(p, nil)
	if err != nil {
		return err
	}
	key, err := scheme.Exchange(alice, bob)
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "target commitment %s (%s)\n", alice.Commitment().Hex(), p)

	var recovered int
	found, err := adversary.BruteForce(c.Context, p, alice.Commitment(), func(s scheme.Secrets) bool {
		impostor, err := scheme.NewPartyFromSecrets(p, s)
		if err != nil {
			return false
		}
		k, err := impostor.SharedKey(bob.Commitment())
		if err == nil && k.Equal(key) {
			recovered++
		}
		l.Debugw("candidate", "a", s.A.Hex(), "b", s.B.Hex())
		return true
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "%d candidate secret pairs, %d reproduce the shared key %s\n", found, recovered, key.Hex())
	return nil
}

func periodCmd(c *cli.Context) error {
	conf, _, err := setup(c)
	if err != nil {
		return err
	}
	p := scheme.MustParams(conf.Bits)
	a, err := vectorArg(c, hexAFlag.Name, p)
	if err != nil {
		return err
	}
	b, err := vectorArg(c, hexBFlag.Name, p)
	if err != nil {
		return err
	}
	n, ok, err := fscx.Period(a, b, p.Bits)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("no period within the vector width")
	}
	fmt.Fprintf(output, "A=%s B=%s: Revolve(A, B, %d) == A\n", a.Hex(), b.Hex(), n)
	return nil
}

func vectorArg(c *cli.Context, name string, p scheme.Params) (bitvec.Vector, error) {
	if s := c.String(name); s != "" {
		return bitvec.ParseHex(p.Bits, s)
	}
	return p.Random(nil)
}
