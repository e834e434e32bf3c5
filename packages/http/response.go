package http

import (
	"time"
)

// Response is the envelope of a call that the server answered with a status
// below 300.
type Response struct {
	Status   int           `json:"status"`
	Remote   bool          `json:"remote"`
	Message  string        `json:"message"`
	Headers  Headers       `json:"headers"`
	Body     Body          `json:"response"`
	Duration time.Duration `json:"-"`
}

func (r *Response) Header(key string) string {
	return r.Headers.Get(key)
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	return r.Body != nil && r.Body.Kind() == KindJSON
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
