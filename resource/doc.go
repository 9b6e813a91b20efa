// Package resource bounds worker thread concurrency and output-sink
// throughput via weighted semaphores and a token-bucket rate limiter.
package resource
