package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheusHen/herradura/herradura/scheme"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	old := output
	output = &buf
	defer func() { output = old }()
	err := CLI().RunContext(context.Background(), append([]string{"herradura"}, args...))
	return buf.String(), err
}

func TestDemo(t *testing.T) {
	out, err := run(t, "--bits", "64", "demo")
	require.NoError(t, err)
	for _, want := range []string{"+ hkex OK", "+ hske OK", "+ hpks OK", "+ hpks-hske OK", "+ hpke OK",
		"+ haen-full OK", "+ haen-compact OK", "hpks-forge", "attack SUCCEEDED"} {
		require.Contains(t, out, want)
	}
	require.NotContains(t, out, "FAILED\n")
}

func TestDemoVerboseTrace(t *testing.T) {
	out, err := run(t, "--bits", "32", "--verbose", "demo")
	require.NoError(t, err)
	require.Contains(t, out, "step   8:")
	for _, want := range []string{"revolve(A, B, i)", "revolve(A2, B2, i)", "revolve(C2, B, r)", "revolve(C, B2, r)", "revolve(P, key, i)"} {
		require.Contains(t, out, want)
	}
	// r = 24 for 32-bit parameters; only the HKEX key revolves get that far.
	require.Contains(t, out, "step  24:")
}

func TestSelftest(t *testing.T) {
	out, err := run(t, "selftest", "--rounds", "2", "--widths", "8", "--widths", "32", "--seed", "7")
	require.NoError(t, err)
	require.Contains(t, out, "0 failures")
}

func TestKeygen(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "--bits", "32", "keygen", "--out", dir, "--dump")
	require.NoError(t, err)
	require.Contains(t, out, "Bits:")

	f, err := os.Open(filepath.Join(dir, publicKeyFile))
	require.NoError(t, err)
	defer f.Close()
	pk, err := scheme.ReadPublicKey(f)
	require.NoError(t, err)
	require.Equal(t, 32, pk.Bits())

	g, err := os.Open(filepath.Join(dir, privateKeyFile))
	require.NoError(t, err)
	defer g.Close()
	sk, err := scheme.ReadPrivateKey(g)
	require.NoError(t, err)

	p := scheme.MustParams(32)
	msg, err := p.Random(nil)
	require.NoError(t, err)
	e, err := scheme.Seal(p, pk, msg)
	require.NoError(t, err)
	d, err := scheme.Open(p, sk, e)
	require.NoError(t, err)
	require.True(t, d.Equal(msg))
}

func TestBruteforce(t *testing.T) {
	out, err := run(t, "bruteforce")
	require.NoError(t, err)
	require.Contains(t, out, "256 candidate secret pairs, 256 reproduce")
}

func TestPeriod(t *testing.T) {
	out, err := run(t, "--bits", "8", "period", "--a", "01", "--b", "02")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "A=01 B=02: Revolve(A, B, "))
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "herradura.toml")
	require.NoError(t, os.WriteFile(path, []byte("bits = 16\n[selftest]\nrounds = 1\nwidths = [8]\n"), 0o600))

	out, err := run(t, "--config", path, "selftest")
	require.NoError(t, err)
	require.Contains(t, out, "0 failures")

	require.NoError(t, os.WriteFile(path, []byte("bitz = 16\n"), 0o600))
	_, err = run(t, "--config", path, "demo")
	require.ErrorContains(t, err, "unknown keys")
}

func TestInvalidBits(t *testing.T) {
	_, err := run(t, "--bits", "24", "demo")
	require.Error(t, err)
}
