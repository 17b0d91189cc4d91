package selftest

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/TheusHen/herradura/herradura/adversary"
	"github.com/TheusHen/herradura/herradura/bitvec"
	"github.com/TheusHen/herradura/herradura/fscx"
	"github.com/TheusHen/herradura/herradura/scheme"
)

// ErrPropertyFailed wraps every failed check.
var ErrPropertyFailed = errors.New("selftest: property failed")

// Property is one randomized check run at a given width.
type Property struct {
	Name  string
	Check func(p scheme.Params, rng io.Reader) error
}

// Properties is the default suite.
var Properties = []Property{
	{"known-vectors", knownVectors},
	{"restoration", restoration},
	{"hkex-symmetry", hkexSymmetry},
	{"hske-roundtrip", hskeRoundTrip},
	{"hpks-verify", hpksVerify},
	{"hpke-roundtrip", hpkeRoundTrip},
	{"forgery-reproducible", forgeryReproducible},
	{"entangled-roundtrip", entangledRoundTrip},
	{"period-divides-width", periodDividesWidth},
}

func failf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrPropertyFailed, fmt.Sprintf(format, args...))
}

func knownVectors(scheme.Params, io.Reader) error {
	a, b := bitvec.MustFromUint64(8, 0x01), bitvec.MustFromUint64(8, 0x02)
	got, err := fscx.FSCX(a, b)
	if err != nil {
		return err
	}
	if got.Uint64() != 0x84 {
		return failf("fscx(01, 02) = %s, want 84", got)
	}
	got, err = fscx.Revolve(a, b, 2)
	if err != nil {
		return err
	}
	if got.Uint64() != 0xc8 {
		return failf("revolve(01, 02, 2) = %s, want c8", got)
	}
	return nil
}

func restoration(p scheme.Params, rng io.Reader) error {
	a, err := p.Random(rng)
	if err != nil {
		return err
	}
	b, err := p.Random(rng)
	if err != nil {
		return err
	}
	ab, bb := a.Bytes(), b.Bytes()
	if _, err := fscx.FSCX(a, b); err != nil {
		return err
	}
	if !bytes.Equal(ab, a.Bytes()) || !bytes.Equal(bb, b.Bytes()) {
		return failf("fscx altered its inputs")
	}
	return nil
}

func hkexSymmetry(p scheme.Params, rng io.Reader) error {
	alice, err := scheme.NewParty(p, rng)
	if err != nil {
		return err
	}
	bob, err := scheme.NewParty(p, rng)
	if err != nil {
		return err
	}
	if _, err := scheme.Exchange(alice, bob); err != nil {
		return failf("%v", err)
	}
	return nil
}

func hskeRoundTrip(p scheme.Params, rng io.Reader) error {
	key, err := p.Random(rng)
	if err != nil {
		return err
	}
	msg, err := p.Random(rng)
	if err != nil {
		return err
	}
	e, err := scheme.Encrypt(p, msg, key)
	if err != nil {
		return err
	}
	d, err := scheme.Decrypt(p, e, key)
	if err != nil {
		return err
	}
	if !d.Equal(msg) {
		return failf("decrypt = %s, want %s", d, msg)
	}
	return nil
}

func hpksVerify(p scheme.Params, rng io.Reader) error {
	kp, err := scheme.GenerateKeyPair(p, rng)
	if err != nil {
		return err
	}
	msg, err := p.Random(rng)
	if err != nil {
		return err
	}
	s, err := scheme.Sign(p, kp.Private, msg)
	if err != nil {
		return err
	}
	if !scheme.Verify(p, kp.Public, msg, s) {
		return failf("genuine signature rejected")
	}
	return nil
}

func hpkeRoundTrip(p scheme.Params, rng io.Reader) error {
	kp, err := scheme.GenerateKeyPair(p, rng)
	if err != nil {
		return err
	}
	msg, err := p.Random(rng)
	if err != nil {
		return err
	}
	e, err := scheme.Seal(p, kp.Public, msg)
	if err != nil {
		return err
	}
	d, err := scheme.Open(p, kp.Private, e)
	if err != nil {
		return err
	}
	if !d.Equal(msg) {
		return failf("open = %s, want %s", d, msg)
	}
	return nil
}

// forgeryReproducible fails when the documented forgery stops working.
func forgeryReproducible(p scheme.Params, rng io.Reader) error {
	kp, err := scheme.GenerateKeyPair(p, rng)
	if err != nil {
		return err
	}
	obs, err := adversary.NewObserver(p, kp.Public)
	if err != nil {
		return err
	}
	nonce, err := p.Random(rng)
	if err != nil {
		return err
	}
	s, err := obs.ForgeSignature(nonce)
	if err != nil {
		return err
	}
	if !scheme.Verify(p, kp.Public, nonce, s) {
		return failf("forged signature no longer verifies")
	}
	return nil
}

func entangledRoundTrip(p scheme.Params, rng io.Reader) error {
	alice, err := scheme.NewParty(p, rng)
	if err != nil {
		return err
	}
	bob, err := scheme.NewParty(p, rng)
	if err != nil {
		return err
	}
	msg, err := p.Random(rng)
	if err != nil {
		return err
	}
	for _, mode := range []scheme.EntangleMode{scheme.EntangleFull, scheme.EntangleCompact} {
		sk, rk, err := scheme.Entangle(alice, bob, mode)
		if err != nil {
			return err
		}
		e, err := scheme.EntangledEncrypt(p, sk, msg)
		if err != nil {
			return err
		}
		d, err := scheme.EntangledDecrypt(p, rk, e)
		if err != nil {
			return err
		}
		if !d.Equal(msg) {
			return failf("%s mode: decrypt = %s, want %s", mode, d, msg)
		}
	}
	return nil
}

func periodDividesWidth(p scheme.Params, rng io.Reader) error {
	a, err := p.Random(rng)
	if err != nil {
		return err
	}
	b, err := p.Random(rng)
	if err != nil {
		return err
	}
	n, ok, err := fscx.Period(a, b, p.Bits)
	if err != nil {
		return err
	}
	if !ok || p.Bits%n != 0 {
		return failf("period %d (found=%v) does not divide %d", n, ok, p.Bits)
	}
	return nil
}
