package output

import (
	"encoding/json"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/abdul-hamid-achik/pet/packages/bench"
	"github.com/abdul-hamid-achik/pet/packages/http"
)

// JSONEnvelope is the serialized form of either envelope
type JSONEnvelope struct {
	Status     int          `json:"status"`
	Remote     bool         `json:"remote"`
	Message    string       `json:"message"`
	Headers    http.Headers `json:"headers,omitempty"`
	Response   http.Body    `json:"response,omitempty"`
	DurationMs int64        `json:"durationMs"`
}

// JSONSummary is the serialized bench summary
type JSONSummary struct {
	Total          int64            `json:"total"`
	Success        int64            `json:"success"`
	LocalFailures  int64            `json:"localFailures"`
	RemoteFailures int64            `json:"remoteFailures"`
	RPS            float64          `json:"rps"`
	Statuses       map[string]int64 `json:"statuses"`
	P50Ms          float64          `json:"p50Ms"`
	P95Ms          float64          `json:"p95Ms"`
	P99Ms          float64          `json:"p99Ms"`
	MinMs          float64          `json:"minMs"`
	MaxMs          float64          `json:"maxMs"`
	MeanMs         float64          `json:"meanMs"`
}

// JSONFormatter writes one JSON document per call
type JSONFormatter struct {
	writer io.Writer
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResponse(resp *http.Response) {
	f.encode(JSONEnvelope{
		Status:     resp.Status,
		Remote:     resp.Remote,
		Message:    resp.Message,
		Headers:    resp.Headers,
		Response:   resp.Body,
		DurationMs: resp.DurationMs(),
	})
}

func (f *JSONFormatter) FormatFailure(e *http.Error) {
	f.encode(JSONEnvelope{
		Status:     e.Status,
		Remote:     e.Remote,
		Message:    e.Message,
		Headers:    e.Headers,
		Response:   e.Response,
		DurationMs: e.Duration.Milliseconds(),
	})
}

func (f *JSONFormatter) FormatError(err error) {
	f.encode(map[string]string{"error": err.Error()})
}

func (f *JSONFormatter) FormatValue(label string, v any) {
	f.encode(map[string]any{label: v})
}

func (f *JSONFormatter) FormatSummary(s *bench.Summary) {
	ms := func(d time.Duration) float64 {
		return float64(d.Microseconds()) / 1000
	}
	statuses := make(map[string]int64, len(s.Statuses))
	for _, sc := range s.Statuses {
		statuses[strconv.Itoa(sc.Status)] = sc.Count
	}
	f.encode(JSONSummary{
		Total:          s.TotalRequests,
		Success:        s.SuccessCount,
		LocalFailures:  s.LocalFailures,
		RemoteFailures: s.RemoteFailures,
		RPS:            s.RPS,
		Statuses:       statuses,
		P50Ms:          ms(s.P50),
		P95Ms:          ms(s.P95),
		P99Ms:          ms(s.P99),
		MinMs:          ms(s.Min),
		MaxMs:          ms(s.Max),
		MeanMs:         ms(s.Mean),
	})
}

func (f *JSONFormatter) encode(v any) {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(v)
}
