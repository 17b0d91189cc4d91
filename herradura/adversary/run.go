package adversary

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/TheusHen/herradura/herradura/bitvec"
	"github.com/TheusHen/herradura/herradura/log"
	"github.com/TheusHen/herradura/herradura/metrics"
	"github.com/TheusHen/herradura/herradura/scheme"
)

// Experiment names used in Outcome.Name and in metrics labels.
const (
	HPKSForge         = "hpks-forge"
	HPKSForgeUnmasked = "hpks-forge-unmasked"
	HPKSHSKEForge     = "hpks-hske-forge"
	HPKERecover       = "hpke-recover"
	HKEXKeyRecover    = "hkex-key-recover"
	HKEXEavesdrop     = "hkex-eavesdrop"
)

// Outcome is the result of one experiment. Want is what the attacker aimed
// for, Got is what the legitimate verifier or decryptor produced.
type Outcome struct {
	Name      string
	Forged    bitvec.Vector
	Want      bitvec.Vector
	Got       bitvec.Vector
	Succeeded bool
}

// Report collects the outcomes of Run.
type Report struct {
	ID       uuid.UUID
	Params   scheme.Params
	Outcomes []Outcome
}

// Outcome returns the named outcome.
func (r *Report) Outcome(name string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Name == name {
			return o, true
		}
	}
	return Outcome{}, false
}

// Succeeded lists the experiments whose attack worked.
func (r *Report) Succeeded() []string {
	var names []string
	for _, o := range r.Outcomes {
		if o.Succeeded {
			names = append(names, o.Name)
		}
	}
	return names
}

// Options tune Run. The zero value is usable.
type Options struct {
	Logger log.Logger
	// Rand supplies nonces, plaintexts and the disclosed preshared key.
	Rand io.Reader
	// Metrics records every outcome in metrics.AdversaryOutcomes.
	Metrics bool
}

type experiment struct {
	name string
	run  func(o *Observer, kp *scheme.KeyPair, rng io.Reader) (Outcome, error)
}

var experiments = []experiment{
	{HPKSForge, forgeSignature},
	{HPKSForgeUnmasked, forgeUnmasked},
	{HPKSHSKEForge, forgeEncrypted},
	{HPKERecover, recoverPlaintext},
	{HKEXKeyRecover, recoverSharedKey},
	{HKEXEavesdrop, eavesdrop},
}

// Run executes every experiment against kp, using only kp.Public for the
// attack and kp.Private for the legitimate replay.
func Run(ctx context.Context, kp *scheme.KeyPair, opts Options) (*Report, error) {
	l := opts.Logger
	if l == nil {
		l = log.Nop()
	}
	obs, err := NewObserver(kp.Params, kp.Public)
	if err != nil {
		return nil, err
	}
	rep := &Report{ID: uuid.New(), Params: kp.Params}
	l = l.With("run", rep.ID.String(), "bits", kp.Params.Bits)
	for _, e := range experiments {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		out, err := e.run(obs, kp, opts.Rand)
		if err != nil {
			return rep, err
		}
		out.Name = e.name
		rep.Outcomes = append(rep.Outcomes, out)
		if opts.Metrics {
			metrics.ObserveAdversary(e.name, out.Succeeded)
		}
		l.Debugw("experiment done", "name", e.name, "succeeded", out.Succeeded,
			"want", out.Want.Hex(), "got", out.Got.Hex())
	}
	l.Infow("adversary run complete", "succeeded", rep.Succeeded())
	return rep, nil
}

func forgeSignature(o *Observer, kp *scheme.KeyPair, rng io.Reader) (Outcome, error) {
	nonce, err := o.params.Random(rng)
	if err != nil {
		return Outcome{}, err
	}
	s, err := o.ForgeSignature(nonce)
	if err != nil {
		return Outcome{}, err
	}
	got, err := scheme.Recover(o.params, kp.Public, s)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Forged: s, Want: nonce, Got: got, Succeeded: scheme.Verify(o.params, kp.Public, nonce, s)}, nil
}

func forgeUnmasked(o *Observer, kp *scheme.KeyPair, rng io.Reader) (Outcome, error) {
	nonce, err := o.params.Random(rng)
	if err != nil {
		return Outcome{}, err
	}
	s, err := o.ForgeSignatureWithoutMask(nonce)
	if err != nil {
		return Outcome{}, err
	}
	got, err := scheme.Recover(o.params, kp.Public, s)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Forged: s, Want: nonce, Got: got, Succeeded: got.Equal(nonce)}, nil
}

func forgeEncrypted(o *Observer, kp *scheme.KeyPair, rng io.Reader) (Outcome, error) {
	nonce, err := o.params.Random(rng)
	if err != nil {
		return Outcome{}, err
	}
	preshared, err := o.params.Random(rng)
	if err != nil {
		return Outcome{}, err
	}
	s, err := o.ForgeEncryptedSignature(nonce, preshared)
	if err != nil {
		return Outcome{}, err
	}
	e, err := scheme.Recover(o.params, kp.Public, s)
	if err != nil {
		return Outcome{}, err
	}
	got, err := scheme.Decrypt(o.params, e, preshared)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Forged: s, Want: nonce, Got: got, Succeeded: got.Equal(nonce)}, nil
}

func recoverPlaintext(o *Observer, kp *scheme.KeyPair, rng io.Reader) (Outcome, error) {
	plaintext, err := o.params.Random(rng)
	if err != nil {
		return Outcome{}, err
	}
	e, err := scheme.Seal(o.params, kp.Public, plaintext)
	if err != nil {
		return Outcome{}, err
	}
	want, err := scheme.Open(o.params, kp.Private, e)
	if err != nil {
		return Outcome{}, err
	}
	got, err := o.RecoverPlaintext(e)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Forged: got, Want: want, Got: got, Succeeded: got.Equal(want)}, nil
}

func recoverSharedKey(o *Observer, kp *scheme.KeyPair, _ io.Reader) (Outcome, error) {
	want, err := kp.Private.Mask()
	if err != nil {
		return Outcome{}, err
	}
	got, err := o.RecoverSharedKey()
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Forged: got, Want: want, Got: got, Succeeded: got.Equal(want)}, nil
}

func eavesdrop(o *Observer, kp *scheme.KeyPair, _ io.Reader) (Outcome, error) {
	want, err := kp.Private.Mask()
	if err != nil {
		return Outcome{}, err
	}
	got, err := o.EavesdropSharedKey(kp.Private.C2)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Forged: got, Want: want, Got: got, Succeeded: got.Equal(want)}, nil
}
