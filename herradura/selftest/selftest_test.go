package selftest

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"

	"github.com/TheusHen/herradura/herradura/scheme"
)

func TestRunDefaultSuite(t *testing.T) {
	rep, err := Run(context.Background(), Config{Widths: []int{8, 32, 128}, Rounds: 4, Workers: 3})
	require.NoError(t, err)
	require.NoError(t, rep.Err)
	require.Equal(t, 3*len(Properties)*4, rep.Checks)
	require.Zero(t, rep.Failures)
}

func TestRunSeededIsReproducible(t *testing.T) {
	var seen []string
	record := Property{Name: "record", Check: func(p scheme.Params, rng io.Reader) error {
		v, err := p.Random(rng)
		if err != nil {
			return err
		}
		return errors.New(v.Hex())
	}}
	cfg := Config{Widths: []int{64}, Rounds: 1, Workers: 1, Seed: 99, Properties: []Property{record}}
	for i := 0; i < 2; i++ {
		rep, err := Run(context.Background(), cfg)
		require.NoError(t, err)
		seen = append(seen, rep.Err.Error())
	}
	require.Equal(t, seen[0], seen[1])
}

func TestRunAggregatesFailures(t *testing.T) {
	broken := Property{Name: "broken", Check: func(scheme.Params, io.Reader) error {
		return failf("always")
	}}
	rep, err := Run(context.Background(), Config{
		Widths:     []int{8, 16},
		Rounds:     3,
		Properties: []Property{broken},
	})
	require.NoError(t, err)
	require.Equal(t, 6, rep.Failures)

	var merr *multierror.Error
	require.True(t, errors.As(rep.Err, &merr))
	require.Len(t, merr.Errors, 6)
	require.ErrorIs(t, merr.Errors[0], ErrPropertyFailed)
}

func TestRunRejectsWidth(t *testing.T) {
	_, err := Run(context.Background(), Config{Widths: []int{24}})
	require.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep, err := Run(ctx, Config{Widths: []int{256}, Rounds: 1000})
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, rep.Checks, len(Properties)*1000)
}
