package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abdul-hamid-achik/pet/packages/bench"
	"github.com/abdul-hamid-achik/pet/packages/http"
)

func TestJSONFormatter_Response(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	f.FormatResponse(&http.Response{
		Status:   200,
		Remote:   true,
		Message:  "OK",
		Headers:  http.Headers{"content-type": "application/json"},
		Body:     http.JSONBody{Raw: json.RawMessage(`{"a":1}`)},
		Duration: 3 * time.Millisecond,
	})

	assert.JSONEq(t, `{"status":200,"remote":true,"message":"OK","headers":{"content-type":"application/json"},"response":{"a":1},"durationMs":3}`, buf.String())
}

func TestJSONFormatter_Failure(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	f.FormatFailure(&http.Error{Status: 400, Message: "no URL specified"})

	assert.JSONEq(t, `{"status":400,"remote":false,"message":"no URL specified","durationMs":0}`, buf.String())
}

func TestJSONFormatter_Summary(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	f.FormatSummary(&bench.Summary{
		TotalRequests: 2,
		SuccessCount:  2,
		Statuses:      []bench.StatusCount{{Status: 200, Count: 2}},
		P50:           1500 * time.Microsecond,
	})

	var got JSONSummary
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, int64(2), got.Total)
	assert.Equal(t, map[string]int64{"200": 2}, got.Statuses)
	assert.Equal(t, 1.5, got.P50Ms)
}
