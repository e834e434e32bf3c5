package http

import (
	"errors"
	"fmt"
	"time"
)

// Synthetic statuses for failures that did not come from the server.
const (
	StatusBadRequest       = 400
	StatusRequestTimeout   = 408
	StatusMalformed        = 498
	StatusClientAborted    = 499
	StatusServerAborted    = 596
	StatusConnectionFailed = 599
)

const (
	msgNoURL         = "no URL specified"
	msgMalformed     = "Malformed Response"
	msgClientAborted = "Request Aborted by Client"
	msgServerAborted = "Request Aborted by Server"
	msgTimeout       = "Request Timeout"
)

// Error is the failure envelope. Remote is true only when the server sent a
// complete response with a status of 300 or above; Headers and Response are
// then filled in. A malformed JSON payload keeps the raw text in Response.
type Error struct {
	Status   int           `json:"status"`
	Remote   bool          `json:"remote"`
	Message  string        `json:"message"`
	Headers  Headers       `json:"headers,omitempty"`
	Response Body          `json:"response,omitempty"`
	Duration time.Duration `json:"-"`
}

func (e *Error) Error() string {
	if e.Remote {
		return fmt.Sprintf("remote failure: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("local failure: %d %s", e.Status, e.Message)
}

func (e *Error) IsClientError() bool {
	return e.Remote && e.Status >= 400 && e.Status < 500
}

func (e *Error) IsServerError() bool {
	return e.Remote && e.Status >= 500
}

func (e *Error) IsRedirect() bool {
	return e.Remote && e.Status >= 300 && e.Status < 400
}

// AsError extracts the failure envelope from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func localError(status int, message string) *Error {
	return &Error{Status: status, Remote: false, Message: message}
}

func badRequest(err error) *Error {
	return localError(StatusBadRequest, "Bad Request: "+err.Error())
}
