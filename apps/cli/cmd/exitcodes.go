package cmd

import "fmt"

// Exit codes for the pet CLI
const (
	// ExitSuccess indicates the call succeeded
	ExitSuccess = 0

	// ExitRemoteFailure indicates the server answered with a failure status
	// or the answer did not pass --schema
	ExitRemoteFailure = 1

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitLocalFailure indicates the call never got a usable answer
	// (connection, timeout, abort, malformed body)
	ExitLocalFailure = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError carries an exit code out of a command. A nil err means the
// failure was already reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

func usageErrorf(format string, args ...any) error {
	return withExitCode(ExitUsageError, fmt.Errorf(format, args...))
}
