// Package selftest runs the Herradura property checks across widths on a
// pool of workers and aggregates every failure.
package selftest

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/TheusHen/herradura/herradura/bitvec"
	"github.com/TheusHen/herradura/herradura/log"
	"github.com/TheusHen/herradura/herradura/metrics"
	"github.com/TheusHen/herradura/herradura/scheme"
)

// DefaultWidths are checked when Config.Widths is empty.
var DefaultWidths = []int{8, 16, 32, 64, 128, 256}

// Config controls a run. Zero fields take defaults.
type Config struct {
	Widths  []int
	Rounds  int // per property and width, default 16
	Workers int // default GOMAXPROCS
	// Seed makes every check reproducible. Zero uses crypto/rand.
	Seed       int64
	Properties []Property
	Logger     log.Logger
	Metrics    bool
}

// Report summarizes a run. Err is a *multierror.Error holding every failure.
type Report struct {
	ID       uuid.UUID
	Checks   int
	Failures int
	Duration time.Duration
	Err      error
}

type job struct {
	prop  Property
	p     scheme.Params
	round int
}

func (cfg Config) withDefaults() (Config, error) {
	if len(cfg.Widths) == 0 {
		cfg.Widths = DefaultWidths
	}
	if cfg.Rounds <= 0 {
		cfg.Rounds = 16
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if len(cfg.Properties) == 0 {
		cfg.Properties = Properties
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Nop()
	}
	for _, w := range cfg.Widths {
		if _, err := scheme.NewParams(w); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// rng returns the source for one job: a seeded reader derived from the run
// seed and the job coordinates, or nil for crypto/rand.
func (cfg Config) rng(j job) io.Reader {
	if cfg.Seed == 0 {
		return nil
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%s/%d/%d", j.prop.Name, j.p.Bits, j.round)
	return bitvec.NewSeededReader(cfg.Seed ^ int64(h.Sum64()))
}

// Run checks every property Rounds times at every width. The returned error
// is only for configuration problems or cancellation; property failures are
// in Report.Err.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	rep := &Report{ID: uuid.New()}
	l := cfg.Logger.With("run", rep.ID.String())
	start := time.Now()

	jobs := make(chan job)
	var (
		mu       sync.Mutex
		failures *multierror.Error
		checks   atomic.Int64
		wg       sync.WaitGroup
	)
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				err := j.prop.Check(j.p, cfg.rng(j))
				checks.Add(1)
				if cfg.Metrics {
					metrics.ObserveProperty(j.prop.Name, err == nil)
				}
				if err == nil {
					continue
				}
				l.Debugw("property failed", "property", j.prop.Name, "bits", j.p.Bits, "round", j.round, "err", err)
				mu.Lock()
				failures = multierror.Append(failures,
					fmt.Errorf("%s at %d bits, round %d: %w", j.prop.Name, j.p.Bits, j.round, err))
				mu.Unlock()
			}
		}()
	}

	var cancelled error
feed:
	for _, w := range cfg.Widths {
		p := scheme.MustParams(w)
		for _, prop := range cfg.Properties {
			for r := 0; r < cfg.Rounds; r++ {
				select {
				case jobs <- job{prop: prop, p: p, round: r}:
				case <-ctx.Done():
					cancelled = ctx.Err()
					break feed
				}
			}
		}
	}
	close(jobs)
	wg.Wait()

	rep.Duration = time.Since(start)
	rep.Checks = int(checks.Load())
	if failures != nil {
		rep.Failures = len(failures.Errors)
		rep.Err = failures.ErrorOrNil()
	}
	if cfg.Metrics {
		metrics.SelftestDuration.Observe(rep.Duration.Seconds())
	}
	l.Infow("selftest finished", "checks", rep.Checks, "failures", rep.Failures, "duration", rep.Duration)
	return rep, cancelled
}
