package http

import (
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"
)

// DefaultAccept is sent when the caller did not set an Accept header.
const DefaultAccept = "application/json;q=0.9, text/*;q=0.5, */*;q=0.1"

// Options configures one call. A nil *Options is valid and means GET with
// default headers.
type Options struct {
	// Method defaults to GET.
	Method string
	// Headers are read case-insensitively. The map is copied per call.
	Headers Headers
	// Body is serialized as JSON unless it is []byte, or a string sent with
	// an explicit Content-Type; those are written verbatim.
	Body any
	// Timeout bounds the whole exchange. Zero disables it.
	Timeout time.Duration
	// TLSConfig is handed to the transport unchanged.
	TLSConfig *tls.Config
}

func (o *Options) clone() *Options {
	if o == nil {
		return &Options{}
	}
	cp := *o
	return &cp
}

// withMethod returns a copy of o with the method fixed.
func (o *Options) withMethod(method string) *Options {
	cp := o.clone()
	cp.Method = method
	return cp
}

// prepared is the private per-call copy of the caller's configuration.
type prepared struct {
	method    string
	target    *Target
	headers   Headers
	payload   []byte
	timeout   time.Duration
	tlsConfig *tls.Config
}

func prepare(target *Target, opts *Options, defaults Headers) (*prepared, *Error) {
	opts = opts.clone()

	p := &prepared{
		method:    opts.Method,
		target:    target,
		headers:   defaults.Clone(),
		timeout:   opts.Timeout,
		tlsConfig: opts.TLSConfig,
	}
	if p.method == "" {
		p.method = http.MethodGet
	}
	for k, v := range opts.Headers {
		p.headers.Set(k, v)
	}

	if !p.headers.Has("Accept") {
		p.headers["Accept"] = DefaultAccept
	}

	if opts.Body != nil {
		payload, contentType, err := encodeBody(opts.Body, p.headers.Has("Content-Type"))
		if err != nil {
			return nil, badRequest(err)
		}
		p.payload = payload
		if contentType != "" {
			p.headers["Content-Type"] = contentType
		}
	}

	if target.Auth != "" && !p.headers.Has("Authorization") {
		p.headers["Authorization"] = "Basic " + base64.StdEncoding.EncodeToString([]byte(target.Auth))
	}

	return p, nil
}

// encodeBody serializes body and reports the Content-Type to add, if any.
func encodeBody(body any, hasContentType bool) ([]byte, string, error) {
	switch v := body.(type) {
	case []byte:
		if hasContentType {
			return v, "", nil
		}
		return v, "application/octet-stream", nil
	case string:
		if hasContentType {
			return []byte(v), "", nil
		}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", err
	}
	if hasContentType {
		return data, "", nil
	}
	return data, "application/json", nil
}
