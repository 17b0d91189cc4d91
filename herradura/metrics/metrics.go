// Package metrics exposes Prometheus counters for protocol runs, property
// checks and adversary experiments.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TheusHen/herradura/herradura/log"
)

var (
	// Registry holds every Herradura collector.
	Registry = prometheus.NewRegistry()

	// ProtocolRuns counts protocol executions by protocol and outcome.
	ProtocolRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "herradura",
		Name:      "protocol_runs_total",
		Help:      "Number of protocol runs by protocol and outcome",
	}, []string{"protocol", "outcome"})

	// PropertyChecks counts self-test property checks.
	PropertyChecks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "herradura",
		Name:      "property_checks_total",
		Help:      "Number of property checks by property and outcome",
	}, []string{"property", "outcome"})

	// AdversaryOutcomes counts adversary experiments by whether the attack worked.
	AdversaryOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "herradura",
		Name:      "adversary_outcomes_total",
		Help:      "Number of adversary experiments by experiment and success",
	}, []string{"experiment", "succeeded"})

	// SelftestDuration tracks how long a full self-test takes.
	SelftestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "herradura",
		Name:      "selftest_duration_seconds",
		Help:      "Duration of self-test runs",
		Buckets:   prometheus.DefBuckets,
	})
)

// Outcome labels.
const (
	OK   = "ok"
	Fail = "fail"
)

func init() {
	Registry.MustRegister(ProtocolRuns, PropertyChecks, AdversaryOutcomes, SelftestDuration)
}

// ObserveProtocol records one protocol run.
func ObserveProtocol(protocol string, err error) {
	outcome := OK
	if err != nil {
		outcome = Fail
	}
	ProtocolRuns.WithLabelValues(protocol, outcome).Inc()
}

// ObserveProperty records one property check.
func ObserveProperty(property string, ok bool) {
	outcome := OK
	if !ok {
		outcome = Fail
	}
	PropertyChecks.WithLabelValues(property, outcome).Inc()
}

// ObserveAdversary records one adversary experiment.
func ObserveAdversary(experiment string, succeeded bool) {
	AdversaryOutcomes.WithLabelValues(experiment, strconv.FormatBool(succeeded)).Inc()
}

// Handler serves the Herradura registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// Router serves /metrics and a /healthz liveness probe.
func Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

// Serve exposes Router on addr until ctx is cancelled. It returns the bound
// listener address once serving has started.
func Serve(ctx context.Context, addr string, l log.Logger) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{Handler: Router(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Warnw("metrics server stopped", "err", err)
		}
	}()
	l.Infow("metrics listener started", "addr", ln.Addr().String())
	return ln.Addr(), nil
}
