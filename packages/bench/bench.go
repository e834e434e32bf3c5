package bench

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/abdul-hamid-achik/pet/packages/http"
)

// Config controls a run
type Config struct {
	// Count is the number of calls to issue
	Count int
	// Rate is the target calls per second; zero means unpaced
	Rate float64
	// Concurrency caps calls in flight; defaults to 1
	Concurrency int
}

// Outcome is what a single call settled with
type Outcome struct {
	Status  int
	Remote  bool
	Success bool
}

// Func performs one call
type Func func(ctx context.Context) (*http.Response, error)

// OutcomeOf classifies the result of a call
func OutcomeOf(resp *http.Response, err error) Outcome {
	if err == nil && resp != nil {
		return Outcome{Status: resp.Status, Remote: true, Success: true}
	}
	if e, ok := http.AsError(err); ok {
		return Outcome{Status: e.Status, Remote: e.Remote}
	}
	return Outcome{}
}

type scheduler struct {
	limiter *rate.Limiter
	sem     chan struct{}
}

func newScheduler(cfg Config) *scheduler {
	s := &scheduler{}
	if cfg.Rate > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}
	n := cfg.Concurrency
	if n < 1 {
		n = 1
	}
	s.sem = make(chan struct{}, n)
	return s
}

// acquire waits for the limiter, then for a free slot
func (s *scheduler) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *scheduler) release() {
	<-s.sem
}

// Run issues cfg.Count calls of fn. A cancelled context stops scheduling new
// calls; calls already in flight are waited for and the partial summary is
// returned together with the context error.
func Run(ctx context.Context, cfg Config, fn Func) (*Summary, error) {
	if cfg.Count < 1 {
		return nil, errors.New("bench: count must be at least 1")
	}
	logger := log.FromContext(ctx)

	sched := newScheduler(cfg)
	metrics := NewMetrics()
	metrics.Start()

	var wg sync.WaitGroup
	var runErr error
	for i := 0; i < cfg.Count; i++ {
		if err := sched.acquire(ctx); err != nil {
			runErr = err
			break
		}
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			defer sched.release()

			start := time.Now()
			resp, err := fn(ctx)
			o := OutcomeOf(resp, err)
			metrics.Record(o, time.Since(start))
			logger.Debug("bench call settled", "n", n, "status", o.Status, "success", o.Success)
		}(i)
	}
	wg.Wait()
	metrics.Stop()

	return metrics.GetSummary(), runErr
}
