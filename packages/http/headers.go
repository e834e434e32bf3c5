package http

import (
	"net/http"
	"strings"
)

// Headers maps header names to values. Reads are case-insensitive, writes
// keep the casing the caller used.
type Headers map[string]string

// Get returns the value stored under any casing of key.
func (h Headers) Get(key string) string {
	v, _ := h.lookup(key)
	return v
}

// Has reports whether any casing of key is present.
func (h Headers) Has(key string) bool {
	_, ok := h.lookup(key)
	return ok
}

func (h Headers) lookup(key string) (string, bool) {
	if v, ok := h[key]; ok {
		return v, true
	}
	for k, v := range h {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// Set stores value under key, dropping any differently-cased duplicate.
func (h Headers) Set(key, value string) {
	h.Del(key)
	h[key] = value
}

// Del removes every casing of key.
func (h Headers) Del(key string) {
	for k := range h {
		if strings.EqualFold(k, key) {
			delete(h, k)
		}
	}
}

// Clone returns a shallow copy; a nil receiver yields an empty map.
func (h Headers) Clone() Headers {
	out := make(Headers, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// responseHeaders flattens a received header set. Names are lower-cased and
// repeated values joined with ", ".
func responseHeaders(src http.Header) Headers {
	out := make(Headers, len(src))
	for k, vs := range src {
		out[strings.ToLower(k)] = strings.Join(vs, ", ")
	}
	return out
}
