package adversary

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheusHen/herradura/herradura/bitvec"
	"github.com/TheusHen/herradura/herradura/scheme"
)

func keyPair(t *testing.T, bits int, seed int64) *scheme.KeyPair {
	t.Helper()
	kp, err := scheme.GenerateKeyPair(scheme.MustParams(bits), bitvec.NewSeededReader(seed))
	require.NoError(t, err)
	return kp
}

func TestForgeSignatureVerifies(t *testing.T) {
	for _, bits := range []int{8, 32, 64, 256} {
		kp := keyPair(t, bits, int64(bits))
		obs, err := NewObserver(kp.Params, kp.Public)
		require.NoError(t, err)

		nonce, err := kp.Params.Random(nil)
		require.NoError(t, err)
		s, err := obs.ForgeSignature(nonce)
		require.NoError(t, err)
		require.True(t, scheme.Verify(kp.Params, kp.Public, nonce, s), "bits=%d", bits)
	}
}

func TestForgeWithoutMaskFails(t *testing.T) {
	kp := keyPair(t, 64, 7)
	obs, err := NewObserver(kp.Params, kp.Public)
	require.NoError(t, err)

	nonce := bitvec.MustFromUint64(64, 0xdeadbeef)
	s, err := obs.ForgeSignatureWithoutMask(nonce)
	require.NoError(t, err)
	got, err := scheme.Recover(kp.Params, kp.Public, s)
	require.NoError(t, err)
	want, err := nonce.Xor(kp.Public.A2)
	require.NoError(t, err)
	require.True(t, got.Equal(want))
}

func TestRunReport(t *testing.T) {
	kp := keyPair(t, 128, 42)
	rep, err := Run(context.Background(), kp, Options{Rand: bitvec.NewSeededReader(1)})
	require.NoError(t, err)
	require.Len(t, rep.Outcomes, len(experiments))

	require.ElementsMatch(t,
		[]string{HPKSForge, HPKSHSKEForge, HPKERecover, HKEXKeyRecover, HKEXEavesdrop},
		rep.Succeeded())

	ctl, ok := rep.Outcome(HPKSForgeUnmasked)
	require.True(t, ok)
	require.False(t, ctl.Succeeded)
	require.False(t, ctl.Got.Equal(ctl.Want))
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, keyPair(t, 8, 1), Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestEavesdropMatchesExchange(t *testing.T) {
	p := scheme.MustParams(256)
	alice, err := scheme.NewParty(p, nil)
	require.NoError(t, err)
	bob, err := scheme.NewParty(p, nil)
	require.NoError(t, err)

	want, err := scheme.Exchange(alice, bob)
	require.NoError(t, err)
	got, err := EavesdropSharedKey(p, alice.Commitment(), bob.Commitment())
	require.NoError(t, err)
	require.Equal(t, want.Hex(), got.Hex())
}

func TestNewObserverRejectsMismatch(t *testing.T) {
	kp := keyPair(t, 32, 3)
	_, err := NewObserver(scheme.MustParams(64), kp.Public)
	require.True(t, errors.Is(err, scheme.ErrParamsMismatch))

	pub := kp.Public
	pub.C = bitvec.MustFromUint64(16, 1)
	_, err = NewObserver(kp.Params, pub)
	require.ErrorIs(t, err, bitvec.ErrLengthMismatch)
}

func TestBruteForceRejectsCommitmentWidth(t *testing.T) {
	_, err := BruteForce(context.Background(), scheme.MustParams(8), bitvec.MustFromUint64(16, 1), nil)
	require.ErrorIs(t, err, bitvec.ErrLengthMismatch)
	require.ErrorIs(t, err, scheme.ErrParamsMismatch)
}

func TestBruteForce(t *testing.T) {
	p := scheme.MustParams(8)
	alice, err := scheme.NewParty(p, bitvec.NewSeededReader(5))
	require.NoError(t, err)
	bob, err := scheme.NewParty(p, bitvec.NewSeededReader(6))
	require.NoError(t, err)
	key, err := scheme.Exchange(alice, bob)
	require.NoError(t, err)

	var sawReal bool
	n, err := BruteForce(context.Background(), p, alice.Commitment(), func(s scheme.Secrets) bool {
		if s.A.Equal(alice.Secrets().A) && s.B.Equal(alice.Secrets().B) {
			sawReal = true
		}
		// Any preimage completes the exchange with Bob's commitment.
		impostor, err := scheme.NewPartyFromSecrets(p, s)
		require.NoError(t, err)
		k, err := impostor.SharedKey(bob.Commitment())
		require.NoError(t, err)
		require.True(t, k.Equal(key))
		return true
	})
	require.NoError(t, err)
	require.True(t, sawReal)
	// Revolve(., B, I) is a bijection for each B.
	require.Equal(t, 256, n)
}

func TestBruteForceStops(t *testing.T) {
	p := scheme.MustParams(8)
	c := bitvec.MustFromUint64(8, 0x5a)
	n, err := BruteForce(context.Background(), p, c, func(scheme.Secrets) bool { return false })
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestBruteForceLimits(t *testing.T) {
	_, err := BruteForce(context.Background(), scheme.MustParams(32), bitvec.MustFromUint64(32, 1), nil)
	require.ErrorIs(t, err, ErrWidthTooLarge)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = BruteForce(ctx, scheme.MustParams(16), bitvec.MustFromUint64(16, 1), nil)
	require.ErrorIs(t, err, context.Canceled)
}
