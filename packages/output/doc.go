// Package output renders call envelopes for the terminal.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: the envelope as a JSON document
package output

import (
	"github.com/abdul-hamid-achik/pet/packages/bench"
	"github.com/abdul-hamid-achik/pet/packages/http"
)

// Formatter is implemented by every output format
type Formatter interface {
	FormatResponse(resp *http.Response)
	FormatFailure(e *http.Error)
	FormatError(err error)
	FormatValue(label string, v any)
	FormatSummary(s *bench.Summary)
}
