package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abdul-hamid-achik/pet/packages/bench"
	"github.com/abdul-hamid-achik/pet/packages/http"
)

func newTestConsole(buf *bytes.Buffer, verbose bool) *ConsoleFormatter {
	return NewConsoleFormatter(WithWriter(buf), WithNoColor(true), WithVerbose(verbose))
}

func TestConsoleFormatter_Response(t *testing.T) {
	var buf bytes.Buffer
	f := newTestConsole(&buf, true)

	f.FormatResponse(&http.Response{
		Status:   200,
		Remote:   true,
		Message:  "OK",
		Headers:  http.Headers{"content-type": "application/json", "a-first": "1"},
		Body:     http.JSONBody{Raw: json.RawMessage(`{"a":1}`)},
		Duration: 12 * time.Millisecond,
	})

	assert.Equal(t, "200 OK (12ms)\na-first: 1\ncontent-type: application/json\n\n{\n  \"a\": 1\n}\n", buf.String())
}

func TestConsoleFormatter_Failure(t *testing.T) {
	var buf bytes.Buffer
	f := newTestConsole(&buf, false)

	f.FormatFailure(&http.Error{Status: 498, Message: "Malformed Response", Response: http.TextBody("{bad")})
	assert.Equal(t, "498 Malformed Response [local]\n{bad\n", buf.String())

	buf.Reset()
	f.FormatFailure(&http.Error{
		Status:   404,
		Remote:   true,
		Message:  "Not Found",
		Response: http.FormBody{Values: url.Values{"b": {"2"}, "a": {"1", "3"}}},
	})
	assert.Equal(t, "404 Not Found [remote]\na = 1\na = 3\nb = 2\n", buf.String())
}

func TestConsoleFormatter_EmptyBody(t *testing.T) {
	var buf bytes.Buffer
	newTestConsole(&buf, false).FormatResponse(&http.Response{Status: 204, Message: "No Content", Body: http.EmptyBody{}})
	assert.Equal(t, "204 No Content (0ms)\n", buf.String())

	buf.Reset()
	newTestConsole(&buf, true).FormatResponse(&http.Response{Status: 204, Message: "No Content", Body: http.EmptyBody{}})
	assert.Contains(t, buf.String(), "(empty body)")
}

func TestConsoleFormatter_ErrorAndValue(t *testing.T) {
	var buf bytes.Buffer
	f := newTestConsole(&buf, false)

	f.FormatError(errors.New("boom"))
	f.FormatValue("items.0", map[string]any{"id": float64(1)})
	f.FormatValue("missing", nil)

	assert.Equal(t, "Error: boom\nitems.0: {\"id\":1}\nmissing: null\n", buf.String())
}

func TestConsoleFormatter_Summary(t *testing.T) {
	var buf bytes.Buffer
	newTestConsole(&buf, false).FormatSummary(&bench.Summary{
		Duration:       time.Second,
		TotalRequests:  3,
		SuccessCount:   2,
		RemoteFailures: 1,
		RPS:            3,
		Statuses:       []bench.StatusCount{{Status: 200, Count: 2}, {Status: 500, Count: 1}},
		P50:            5 * time.Millisecond,
	})

	out := buf.String()
	assert.Contains(t, out, "Requests: 3 in 1s (3.0/s)")
	assert.Contains(t, out, "1 failed (0 local, 1 remote)")
	assert.Contains(t, out, "    500: 1\n")
	assert.Contains(t, out, "p50=5ms")
}
