package bench

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/pet/packages/http"
)

func testContext(t *testing.T) context.Context {
	return log.WithContext(context.Background(), log.New(io.Discard))
}

func TestRun_CountsOutcomes(t *testing.T) {
	var n atomic.Int32
	fn := func(ctx context.Context) (*http.Response, error) {
		switch n.Add(1) % 3 {
		case 0:
			return nil, &http.Error{Status: 404, Remote: true, Message: "Not Found"}
		case 1:
			return &http.Response{Status: 200, Remote: true}, nil
		default:
			return nil, &http.Error{Status: 599, Message: "Connection error: refused"}
		}
	}

	summary, err := Run(testContext(t), Config{Count: 9, Concurrency: 3}, fn)

	require.NoError(t, err)
	assert.Equal(t, int64(9), summary.TotalRequests)
	assert.Equal(t, int64(3), summary.SuccessCount)
	assert.Equal(t, int64(3), summary.RemoteFailures)
	assert.Equal(t, int64(3), summary.LocalFailures)
	assert.InDelta(t, 1.0/3, summary.SuccessRate, 0.001)
	assert.Equal(t, []StatusCount{{200, 3}, {404, 3}, {599, 3}}, summary.Statuses)
}

func TestRun_RespectsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	fn := func(ctx context.Context) (*http.Response, error) {
		cur := inFlight.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return &http.Response{Status: 204}, nil
	}

	_, err := Run(testContext(t), Config{Count: 10, Concurrency: 2}, fn)

	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestRun_RateLimited(t *testing.T) {
	fn := func(ctx context.Context) (*http.Response, error) {
		return &http.Response{Status: 200}, nil
	}

	start := time.Now()
	summary, err := Run(testContext(t), Config{Count: 5, Rate: 50, Concurrency: 5}, fn)

	require.NoError(t, err)
	assert.Equal(t, int64(5), summary.TotalRequests)
	// burst of one, then 4 more tokens at 20ms each
	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext(t))
	var calls atomic.Int32
	fn := func(ctx context.Context) (*http.Response, error) {
		if calls.Add(1) == 2 {
			cancel()
		}
		return &http.Response{Status: 200}, nil
	}

	summary, err := Run(ctx, Config{Count: 100}, fn)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, summary.TotalRequests, int64(100))
}

func TestRun_InvalidCount(t *testing.T) {
	_, err := Run(testContext(t), Config{}, nil)
	assert.Error(t, err)
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, Outcome{Status: 201, Remote: true, Success: true}, OutcomeOf(&http.Response{Status: 201}, nil))
	assert.Equal(t, Outcome{Status: 408}, OutcomeOf(nil, &http.Error{Status: 408, Message: "Request Timeout"}))
	assert.Equal(t, Outcome{}, OutcomeOf(nil, context.Canceled))
}

func TestMetrics_Percentiles(t *testing.T) {
	m := NewMetrics()
	m.Start()
	for i := 1; i <= 100; i++ {
		m.Record(Outcome{Status: 200, Success: true}, time.Duration(i)*time.Millisecond)
	}
	m.Stop()

	s := m.GetSummary()
	assert.InDelta(t, 50*time.Millisecond, s.P50, float64(time.Millisecond))
	assert.InDelta(t, 99*time.Millisecond, s.P99, float64(time.Millisecond))
	assert.InDelta(t, time.Millisecond, s.Min, float64(10*time.Microsecond))
	assert.InDelta(t, 100*time.Millisecond, s.Max, float64(time.Millisecond))
}
