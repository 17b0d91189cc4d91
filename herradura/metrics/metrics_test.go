package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/TheusHen/herradura/herradura/log"
)

func TestObserveCounters(t *testing.T) {
	before := testutil.ToFloat64(ProtocolRuns.WithLabelValues("hkex", Fail))
	ObserveProtocol("hkex", errors.New("boom"))
	require.Equal(t, before+1, testutil.ToFloat64(ProtocolRuns.WithLabelValues("hkex", Fail)))

	before = testutil.ToFloat64(AdversaryOutcomes.WithLabelValues("forge", "true"))
	ObserveAdversary("forge", true)
	require.Equal(t, before+1, testutil.ToFloat64(AdversaryOutcomes.WithLabelValues("forge", "true")))

	before = testutil.ToFloat64(PropertyChecks.WithLabelValues("restore", OK))
	ObserveProperty("restore", true)
	require.Equal(t, before+1, testutil.ToFloat64(PropertyChecks.WithLabelValues("restore", OK)))
}

func TestServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ObserveProtocol("hske", nil)
	addr, err := Serve(ctx, "127.0.0.1:0", log.Nop())
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr.String() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "herradura_protocol_runs_total"))

	health, err := http.Get("http://" + addr.String() + "/healthz")
	require.NoError(t, err)
	health.Body.Close()
	require.Equal(t, http.StatusOK, health.StatusCode)
}
