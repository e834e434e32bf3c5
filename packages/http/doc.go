// Package http issues single HTTPS requests and normalizes the outcome.
//
// Every call produces exactly one envelope:
//   - a *Response when the server answered with a status below 300
//   - an *Error otherwise, carrying the status, whether the server was
//     reached (Remote) and, when available, the decoded body
//
// Response bodies are decoded by content type into a Body variant
// (EmptyBody, JSONBody, FormBody or TextBody). There is no connection
// reuse, no redirect following, no retry and no HTTP/2: one request is one
// TLS connection.
package http
