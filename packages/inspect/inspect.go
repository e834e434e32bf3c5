package inspect

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"

	"github.com/abdul-hamid-achik/pet/packages/http"
)

// ErrNotJSON is returned when a body that must be JSON is not
var ErrNotJSON = errors.New("response body is not JSON")

// Extractor reads values out of a decoded body
type Extractor struct {
	body     http.Body
	bodyJSON gjson.Result
}

func NewExtractor(body http.Body) *Extractor {
	e := &Extractor{body: body}
	if b, ok := body.(http.JSONBody); ok {
		e.bodyJSON = gjson.ParseBytes(b.Raw)
	}
	return e
}

// Query returns the value at path. An empty path returns the whole body.
// Form bodies are addressed by key; text bodies only by the empty path.
func (e *Extractor) Query(path string) (any, bool) {
	switch b := e.body.(type) {
	case http.JSONBody:
		if path == "" {
			return e.bodyJSON.Value(), true
		}
		result := e.bodyJSON.Get(path)
		if !result.Exists() {
			return nil, false
		}
		return result.Value(), true
	case http.FormBody:
		if path == "" {
			return b.Values.Encode(), true
		}
		vs, ok := b.Values[path]
		if !ok {
			return nil, false
		}
		if len(vs) == 1 {
			return vs[0], true
		}
		return vs, true
	case http.TextBody:
		if path == "" {
			return string(b), true
		}
	}
	return nil, false
}

// Query is a shorthand for NewExtractor(body).Query(path)
func Query(body http.Body, path string) (any, bool) {
	return NewExtractor(body).Query(path)
}

// ValidateSchema checks a JSON body against a JSON Schema document and
// reports every violation in one error.
func ValidateSchema(body http.Body, schema []byte) error {
	b, ok := body.(http.JSONBody)
	if !ok {
		return ErrNotJSON
	}

	schemaLoader := gojsonschema.NewBytesLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(b.Raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var violations []string
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(violations, "; "))
}

// ValidateSchemaFile reads the schema from path
func ValidateSchemaFile(body http.Body, path string) error {
	schema, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	return ValidateSchema(body, schema)
}
