package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaders_CaseInsensitive(t *testing.T) {
	h := Headers{"Content-Type": "application/json"}

	assert.Equal(t, "application/json", h.Get("content-type"))
	assert.True(t, h.Has("CONTENT-TYPE"))
	assert.False(t, h.Has("Accept"))
	assert.Equal(t, "", h.Get("Accept"))

	h.Set("content-type", "text/plain")
	assert.Equal(t, Headers{"content-type": "text/plain"}, h)

	h.Del("Content-Type")
	assert.Empty(t, h)
}

func TestHeaders_Clone(t *testing.T) {
	var nilHeaders Headers
	clone := nilHeaders.Clone()
	assert.NotNil(t, clone)
	clone.Set("X", "1")

	orig := Headers{"A": "1"}
	cp := orig.Clone()
	cp.Set("a", "2")
	assert.Equal(t, Headers{"A": "1"}, orig)
}

func TestResponseHeaders(t *testing.T) {
	h := responseHeaders(http.Header{
		"Content-Type": {"text/plain"},
		"X-Multi":      {"a", "b"},
	})
	assert.Equal(t, Headers{"content-type": "text/plain", "x-multi": "a, b"}, h)
}

func TestPrepare(t *testing.T) {
	target, err := ParseTarget("https://u:p@example.com/")
	assert.NoError(t, err)

	p, perr := prepare(target, &Options{Body: []byte{1, 2}}, Headers{"User-Agent": "pet"})
	assert.Nil(t, perr)
	assert.Equal(t, "GET", p.method)
	assert.Equal(t, []byte{1, 2}, p.payload)
	assert.Equal(t, "application/octet-stream", p.headers.Get("Content-Type"))
	assert.Equal(t, DefaultAccept, p.headers.Get("Accept"))
	assert.Equal(t, "Basic dTpw", p.headers.Get("Authorization"))
	assert.Equal(t, "pet", p.headers.Get("user-agent"))

	p, perr = prepare(target, &Options{
		Headers: Headers{"authorization": "Bearer x", "Content-Type": "application/vnd.api+json"},
		Body:    map[string]int{"a": 1},
	}, nil)
	assert.Nil(t, perr)
	assert.Equal(t, "Bearer x", p.headers.Get("Authorization"))
	assert.Equal(t, "application/vnd.api+json", p.headers.Get("Content-Type"))
	assert.Equal(t, `{"a":1}`, string(p.payload))

	p, perr = prepare(target, &Options{Body: "hi"}, nil)
	assert.Nil(t, perr)
	assert.Equal(t, `"hi"`, string(p.payload))
	assert.Equal(t, "application/json", p.headers.Get("Content-Type"))
}
