package bench

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
)

// Metrics collects the outcome of every call in a run
type Metrics struct {
	mu sync.Mutex

	totalRequests   atomic.Int64
	successRequests atomic.Int64
	localFailures   atomic.Int64
	remoteFailures  atomic.Int64

	// Latency histogram (in microseconds for precision)
	histogram *hdrhistogram.Histogram
	statuses  map[int]int64

	startTime time.Time
	endTime   time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		// 1us to 60s range, 3 significant digits
		histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, 3),
		statuses:  make(map[int]int64),
	}
}

func (m *Metrics) Start() {
	m.startTime = time.Now()
}

func (m *Metrics) Stop() {
	m.endTime = time.Now()
}

// Record records one settled call
func (m *Metrics) Record(o Outcome, duration time.Duration) {
	m.totalRequests.Add(1)
	switch {
	case o.Success:
		m.successRequests.Add(1)
	case o.Remote:
		m.remoteFailures.Add(1)
	default:
		m.localFailures.Add(1)
	}

	latencyUs := duration.Microseconds()
	if latencyUs < minLatencyUs {
		latencyUs = minLatencyUs
	}
	if latencyUs > maxLatencyUs {
		latencyUs = maxLatencyUs
	}

	m.mu.Lock()
	_ = m.histogram.RecordValue(latencyUs)
	m.statuses[o.Status]++
	m.mu.Unlock()
}

// StatusCount is the number of calls that settled with Status
type StatusCount struct {
	Status int
	Count  int64
}

// Summary is the final metrics summary
type Summary struct {
	Duration       time.Duration
	TotalRequests  int64
	SuccessCount   int64
	LocalFailures  int64
	RemoteFailures int64
	RPS            float64
	SuccessRate    float64

	// Ordered by status code
	Statuses []StatusCount

	P50  time.Duration
	P95  time.Duration
	P99  time.Duration
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

func (m *Metrics) GetSummary() *Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	duration := m.endTime.Sub(m.startTime)
	if m.endTime.IsZero() {
		duration = time.Since(m.startTime)
	}

	total := m.totalRequests.Load()
	success := m.successRequests.Load()

	rps := float64(0)
	if duration.Seconds() > 0 {
		rps = float64(total) / duration.Seconds()
	}
	successRate := float64(0)
	if total > 0 {
		successRate = float64(success) / float64(total)
	}

	statuses := make([]StatusCount, 0, len(m.statuses))
	for status, n := range m.statuses {
		statuses = append(statuses, StatusCount{Status: status, Count: n})
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Status < statuses[j].Status })

	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }

	return &Summary{
		Duration:       duration,
		TotalRequests:  total,
		SuccessCount:   success,
		LocalFailures:  m.localFailures.Load(),
		RemoteFailures: m.remoteFailures.Load(),
		RPS:            rps,
		SuccessRate:    successRate,
		Statuses:       statuses,
		P50:            us(m.histogram.ValueAtQuantile(50)),
		P95:            us(m.histogram.ValueAtQuantile(95)),
		P99:            us(m.histogram.ValueAtQuantile(99)),
		Min:            us(m.histogram.Min()),
		Max:            us(m.histogram.Max()),
		Mean:           time.Duration(m.histogram.Mean()) * time.Microsecond,
	}
}
