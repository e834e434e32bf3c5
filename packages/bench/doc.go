// Package bench repeats a single call a fixed number of times and summarizes
// the outcomes.
//
// Calls are paced by a token-bucket limiter and bounded by a concurrency
// semaphore. Latencies go into an HDR histogram so percentiles stay exact
// to three significant digits.
package bench
