package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/TheusHen/herradura/herradura/adversary"
	"github.com/TheusHen/herradura/herradura/bitvec"
	"github.com/TheusHen/herradura/herradura/fscx"
	"github.com/TheusHen/herradura/herradura/log"
	"github.com/TheusHen/herradura/herradura/metrics"
	"github.com/TheusHen/herradura/herradura/scheme"
)

// narrator prints labelled vectors and tracks whether every check passed.
type narrator struct {
	failed []string
}

func (n *narrator) section(title string) {
	fmt.Fprintf(output, "\n--- %s\n", title)
}

func (n *narrator) show(label string, v bitvec.Vector) {
	fmt.Fprintf(output, "%-10s %s\n", label+":", v.Hex())
}

// trace prints every intermediate step of Revolve(a, b, steps).
func (n *narrator) trace(label string, a, b bitvec.Vector, steps int) error {
	seq, err := fscx.Trace(a, b, steps)
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "  %s\n", label)
	for i, v := range seq {
		fmt.Fprintf(output, "  step %3d: %s\n", i, v.Hex())
	}
	return nil
}

func (n *narrator) check(protocol string, ok bool) {
	metrics.ObserveProtocol(protocol, boolErr(ok))
	if ok {
		fmt.Fprintf(output, "+ %s OK\n", protocol)
		return
	}
	fmt.Fprintf(output, "- %s FAILED\n", protocol)
	n.failed = append(n.failed, protocol)
}

func boolErr(ok bool) error {
	if ok {
		return nil
	}
	return errDemoCheck
}

var errDemoCheck = errors.New("demo check failed")

func demoCmd(c *cli.Context) error {
	conf, l, err := setup(c)
	if err != nil {
		return err
	}
	p := scheme.MustParams(conf.Bits)
	fmt.Fprintf(output, "herradura demo, %s\n", p)
	n := &narrator{}

	alice, err := scheme.NewParty(p, nil)
	if err != nil {
		return err
	}
	bob, err := scheme.NewParty(p, nil)
	if err != nil {
		return err
	}
	kp, err := scheme.NewKeyPair(p, alice.Secrets(), bob.Secrets())
	if err != nil {
		return err
	}
	steps := []func(*narrator, scheme.Params, *scheme.Party, *scheme.Party, *scheme.KeyPair, bool) error{
		demoHKEX, demoHSKE, demoHPKS, demoHPKSHSKE, demoHPKE, demoEntangled,
	}
	for _, step := range steps {
		if err := step(n, p, alice, bob, kp, conf.Verbose); err != nil {
			return err
		}
	}
	if err := demoEve(c, n, kp, l); err != nil {
		return err
	}
	if len(n.failed) > 0 {
		return fmt.Errorf("%w: %v", errDemoCheck, n.failed)
	}
	return nil
}

func demoHKEX(n *narrator, p scheme.Params, alice, bob *scheme.Party, _ *scheme.KeyPair, verbose bool) error {
	n.section("HKEX key exchange")
	a, b := alice.Secrets(), bob.Secrets()
	n.show("A", a.A)
	n.show("B", a.B)
	if verbose {
		if err := n.trace("revolve(A, B, i)", a.A, a.B, p.I); err != nil {
			return err
		}
	}
	n.show("C", alice.Commitment())
	n.show("A2", b.A)
	n.show("B2", b.B)
	if verbose {
		if err := n.trace("revolve(A2, B2, i)", b.A, b.B, p.I); err != nil {
			return err
		}
	}
	n.show("C2", bob.Commitment())
	if verbose {
		if err := n.trace("revolve(C2, B, r)", bob.Commitment(), a.B, p.R); err != nil {
			return err
		}
		if err := n.trace("revolve(C, B2, r)", alice.Commitment(), b.B, p.R); err != nil {
			return err
		}
	}
	ka, err := alice.SharedKey(bob.Commitment())
	if err != nil {
		return err
	}
	kb, err := bob.SharedKey(alice.Commitment())
	if err != nil {
		return err
	}
	n.show("hkex(a)", ka)
	n.show("hkex(b)", kb)
	n.check("hkex", ka.Equal(kb))
	return nil
}

func demoHSKE(n *narrator, p scheme.Params, alice, _ *scheme.Party, _ *scheme.KeyPair, verbose bool) error {
	n.section("HSKE symmetric encryption")
	key := alice.Secrets().A
	msg, err := p.Random(nil)
	if err != nil {
		return err
	}
	n.show("key", key)
	n.show("P", msg)
	if verbose {
		if err := n.trace("revolve(P, key, i)", msg, key, p.I); err != nil {
			return err
		}
	}
	e, err := scheme.Encrypt(p, msg, key)
	if err != nil {
		return err
	}
	d, err := scheme.Decrypt(p, e, key)
	if err != nil {
		return err
	}
	n.show("E", e)
	n.show("D", d)
	n.check("hske", d.Equal(msg))
	return nil
}

func demoHPKS(n *narrator, p scheme.Params, _, _ *scheme.Party, kp *scheme.KeyPair, _ bool) error {
	n.section("HPKS signature")
	msg, err := p.Random(nil)
	if err != nil {
		return err
	}
	s, err := scheme.Sign(p, kp.Private, msg)
	if err != nil {
		return err
	}
	v, err := scheme.Recover(p, kp.Public, s)
	if err != nil {
		return err
	}
	n.show("P", msg)
	n.show("S", s)
	n.show("V", v)
	n.check("hpks", v.Equal(msg))
	return nil
}

func demoHPKSHSKE(n *narrator, p scheme.Params, _, _ *scheme.Party, kp *scheme.KeyPair, _ bool) error {
	n.section("HPKS over HSKE")
	msg, err := p.Random(nil)
	if err != nil {
		return err
	}
	psk, err := p.Random(nil)
	if err != nil {
		return err
	}
	e, err := scheme.Encrypt(p, msg, psk)
	if err != nil {
		return err
	}
	s, err := scheme.Sign(p, kp.Private, e)
	if err != nil {
		return err
	}
	v, err := scheme.Recover(p, kp.Public, s)
	if err != nil {
		return err
	}
	d, err := scheme.Decrypt(p, v, psk)
	if err != nil {
		return err
	}
	n.show("P", msg)
	n.show("E", e)
	n.show("S", s)
	n.show("D", d)
	n.check("hpks-hske", d.Equal(msg))
	return nil
}

func demoHPKE(n *narrator, p scheme.Params, _, _ *scheme.Party, kp *scheme.KeyPair, _ bool) error {
	n.section("HPKE public key encryption")
	msg, err := p.Random(nil)
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
	n.show("P", msg)
	n.show("E", e)
	n.show("D", d)
	n.check("hpke", d.Equal(msg))
	return nil
}

func demoEntangled(n *narrator, p scheme.Params, alice, bob *scheme.Party, _ *scheme.KeyPair, _ bool) error {
	msg, err := p.Random(nil)
	if err != nil {
		return err
	}
	for _, mode := range []scheme.EntangleMode{scheme.EntangleFull, scheme.EntangleCompact} {
		n.section("HAEN entangled encryption, " + mode.String())
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
		n.show("P", msg)
		n.show("E", e)
		n.show("D", d)
		n.check("haen-"+mode.String(), d.Equal(msg))
	}
	return nil
}

func demoEve(c *cli.Context, n *narrator, kp *scheme.KeyPair, l log.Logger) error {
	n.section("EVE, public artifacts only")
	rep, err := adversary.Run(c.Context, kp, adversary.Options{Logger: l, Metrics: true})
	if err != nil {
		return err
	}
	for _, o := range rep.Outcomes {
		verdict := "attack failed"
		if o.Succeeded {
			verdict = "attack SUCCEEDED"
		}
		fmt.Fprintf(output, "%-22s want %s got %s: %s\n", o.Name, o.Want.Hex(), o.Got.Hex(), verdict)
	}
	return nil
}
