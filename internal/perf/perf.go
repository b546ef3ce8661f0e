// Package perf runs a fixed number of virtual users against the quote
// endpoint for a fixed duration and checks latency and failure thresholds.
package perf

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/jupiter"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Thresholds a run must stay within.
type Thresholds struct {
	MaxP95         time.Duration
	MaxFailureRate float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{MaxP95: 2 * time.Second, MaxFailureRate: 0.05}
}

type Config struct {
	VUs      int
	Duration time.Duration
	Request  jupiter.QuoteRequest
	// Pause between iterations of one virtual user.
	Pause time.Duration
}

// Report summarises every completed request of a run.
type Report struct {
	Requests    int           `json:"requests" yaml:"requests"`
	Failures    int           `json:"failures" yaml:"failures"`
	FailureRate float64       `json:"failure_rate" yaml:"failure_rate"`
	P50         time.Duration `json:"p50" yaml:"p50"`
	P95         time.Duration `json:"p95" yaml:"p95"`
	Max         time.Duration `json:"max" yaml:"max"`
	Elapsed     time.Duration `json:"elapsed" yaml:"elapsed"`
}

// RPS is the completed request rate.
func (r *Report) RPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Requests) / r.Elapsed.Seconds()
}

// Check returns one error per breached threshold, joined.
func (r *Report) Check(t Thresholds) error {
	if r.Requests == 0 {
		return errors.New("no requests completed")
	}
	var errs []error
	if t.MaxP95 > 0 && r.P95 >= t.MaxP95 {
		errs = append(errs, fmt.Errorf("p95 %s exceeds %s", r.P95, t.MaxP95))
	}
	if r.FailureRate >= t.MaxFailureRate {
		errs = append(errs, fmt.Errorf("failure rate %.2f%% exceeds %.2f%%", r.FailureRate*100, t.MaxFailureRate*100))
	}
	return errors.Join(errs...)
}

type sample struct {
	latency time.Duration
	failed  bool
}

// Run drives cfg.VUs concurrent loops of quote requests until cfg.Duration
// elapses or ctx is cancelled. Requests cut short by the end of the run
// are not counted.
func Run(ctx context.Context, page *jupiter.QuotePage, cfg Config, logger *logrus.Logger) (*Report, error) {
	if cfg.VUs < 1 || cfg.Duration <= 0 {
		return nil, fmt.Errorf("perf: need at least one virtual user and a positive duration")
	}
	if logger == nil {
		logger = logrus.New()
	}

	runCtx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	var (
		mu      sync.Mutex
		samples []sample
	)
	started := time.Now()

	g, gctx := errgroup.WithContext(runCtx)
	for vu := 0; vu < cfg.VUs; vu++ {
		vu := vu
		g.Go(func() error {
			var local []sample
			for gctx.Err() == nil {
				s, ok := iteration(gctx, page, cfg.Request)
				if !ok {
					break
				}
				local = append(local, s)
				if cfg.Pause > 0 {
					select {
					case <-gctx.Done():
					case <-time.After(cfg.Pause):
					}
				}
			}
			logger.WithFields(logrus.Fields{"vu": vu, "requests": len(local)}).Debug("virtual user done")

			mu.Lock()
			samples = append(samples, local...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return summarise(samples, time.Since(started)), nil
}

// iteration mirrors the k6 checks: status 200 and an outAmount present.
func iteration(ctx context.Context, page *jupiter.QuotePage, req jupiter.QuoteRequest) (sample, bool) {
	start := time.Now()
	resp, err := page.GetQuote(ctx, req)
	latency := time.Since(start)
	if ctx.Err() != nil {
		return sample{}, false
	}
	if err != nil {
		return sample{latency: latency, failed: true}, true
	}

	var q struct {
		OutAmount string `json:"outAmount"`
	}
	failed := resp.Status != http.StatusOK || resp.Decode(&q) != nil || q.OutAmount == ""
	return sample{latency: latency, failed: failed}, true
}

func summarise(samples []sample, elapsed time.Duration) *Report {
	r := &Report{Requests: len(samples), Elapsed: elapsed}
	if len(samples) == 0 {
		return r
	}

	lat := make([]time.Duration, len(samples))
	for i, s := range samples {
		lat[i] = s.latency
		if s.failed {
			r.Failures++
		}
	}
	sort.Slice(lat, func(i, j int) bool { return lat[i] < lat[j] })

	r.FailureRate = float64(r.Failures) / float64(r.Requests)
	r.P50 = percentile(lat, 0.50)
	r.P95 = percentile(lat, 0.95)
	r.Max = lat[len(lat)-1]
	return r
}

// percentile uses the nearest-rank method on sorted input.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	return sorted[rank]
}
