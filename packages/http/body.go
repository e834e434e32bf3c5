package http

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// BodyKind identifies how a response body was decoded.
type BodyKind int

const (
	KindEmpty BodyKind = iota
	KindJSON
	KindForm
	KindText
)

func (k BodyKind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindForm:
		return "form"
	case KindText:
		return "text"
	default:
		return "empty"
	}
}

// Body is a decoded response body. The concrete type is one of EmptyBody,
// JSONBody, FormBody or TextBody.
type Body interface {
	Kind() BodyKind
	// Bytes re-encodes the body. For TextBody and JSONBody this is the
	// received payload unchanged.
	Bytes() []byte
}

// EmptyBody is a response without payload bytes.
type EmptyBody struct{}

func (EmptyBody) Kind() BodyKind { return KindEmpty }
func (EmptyBody) Bytes() []byte  { return nil }

// MarshalJSON renders an empty body as null.
func (EmptyBody) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// JSONBody holds a syntactically valid JSON document.
type JSONBody struct {
	Raw json.RawMessage
}

func (JSONBody) Kind() BodyKind   { return KindJSON }
func (b JSONBody) Bytes() []byte  { return b.Raw }
func (b JSONBody) String() string { return string(b.Raw) }

// Decode unmarshals the document into v.
func (b JSONBody) Decode(v any) error {
	return json.Unmarshal(b.Raw, v)
}

// Value returns the document as generic Go values.
func (b JSONBody) Value() any {
	return gjson.ParseBytes(b.Raw).Value()
}

// Get looks up a gjson path, e.g. "items.0.name".
func (b JSONBody) Get(path string) gjson.Result {
	return gjson.GetBytes(b.Raw, path)
}

// MarshalJSON embeds the document as-is.
func (b JSONBody) MarshalJSON() ([]byte, error) {
	return b.Raw, nil
}

// FormBody is an application/x-www-form-urlencoded payload.
type FormBody struct {
	Values url.Values
}

func (FormBody) Kind() BodyKind  { return KindForm }
func (b FormBody) Bytes() []byte { return []byte(b.Values.Encode()) }

// Get returns the first value for key.
func (b FormBody) Get(key string) string { return b.Values.Get(key) }

// MarshalJSON renders single-valued keys as strings and repeated keys as
// arrays.
func (b FormBody) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(b.Values))
	for k, vs := range b.Values {
		if len(vs) == 1 {
			flat[k] = vs[0]
		} else {
			flat[k] = vs
		}
	}
	return json.Marshal(flat)
}

// TextBody is any other payload, read as UTF-8.
type TextBody string

func (TextBody) Kind() BodyKind  { return KindText }
func (b TextBody) Bytes() []byte { return []byte(b) }

var jsonTypes = map[string]bool{
	"application/json":   true,
	"application/x-json": true,
	"text/json":          true,
}

const formType = "application/x-www-form-urlencoded"

// mediaType strips parameters and normalizes case.
func mediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// classify picks the decoding arm for a payload.
func classify(contentType string, size int) BodyKind {
	if size == 0 {
		return KindEmpty
	}
	mt := mediaType(contentType)
	switch {
	case jsonTypes[mt]:
		return KindJSON
	case mt == formType:
		return KindForm
	default:
		return KindText
	}
}

// decodeBody turns raw bytes into a Body. It fails only for JSON that does
// not parse.
func decodeBody(contentType string, raw []byte) (Body, bool) {
	switch classify(contentType, len(raw)) {
	case KindEmpty:
		return EmptyBody{}, true
	case KindJSON:
		if !json.Valid(raw) {
			return TextBody(raw), false
		}
		return JSONBody{Raw: json.RawMessage(raw)}, true
	case KindForm:
		// malformed pairs are skipped, the rest kept
		values, _ := url.ParseQuery(string(raw))
		return FormBody{Values: values}, true
	default:
		return TextBody(raw), true
	}
}
