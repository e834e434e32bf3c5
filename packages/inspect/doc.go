// Package inspect extracts values from and validates decoded response bodies.
//
// Paths use gjson syntax ("items.0.name", "items.#.id"). Schemas are JSON
// Schema documents, checked with gojsonschema.
package inspect
