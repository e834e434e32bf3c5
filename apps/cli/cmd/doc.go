// Package cmd implements the pet CLI commands using Cobra.
//
// Available commands:
//   - request: Send a request with any method
//   - get, post, put, patch, delete: Method shorthands for request
//   - history: Show recently recorded calls
//   - init: Write a starter config file
//   - completion: Generate shell completion scripts
//   - version: Show pet version information
//
// Every request command can repeat a call under a rate limit for a quick
// latency summary, query or schema-check a JSON answer, and re-send
// whenever an @file body changes.
package cmd
