package http

import "sync"

// Call is one in-flight exchange. It settles exactly once; later attempts to
// settle it are ignored.
type Call struct {
	once sync.Once
	done chan struct{}
	resp *Response
	err  *Error
}

func newCall() *Call {
	return &Call{done: make(chan struct{})}
}

// settle records the outcome if the call is still pending and reports
// whether this invocation won.
func (c *Call) settle(resp *Response, err *Error) bool {
	won := false
	c.once.Do(func() {
		c.resp = resp
		c.err = err
		won = true
		close(c.done)
	})
	return won
}

// Done is closed once the call has settled.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call settles. The error, when non-nil, is an *Error.
func (c *Call) Wait() (*Response, error) {
	<-c.done
	if c.err != nil {
		return nil, c.err
	}
	return c.resp, nil
}
