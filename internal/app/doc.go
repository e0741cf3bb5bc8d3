// Package app wires configuration, telemetry, services and HTTP routing
// into a runnable report server.
//
// Middleware runs in a fixed order: request id, real ip, tracing and
// metrics, structured logging, panic recovery, security headers and CORS.
// Report routes add rate limiting, a request timeout, an upload size limit
// and a multipart content type check.
//
// Run blocks until its context is cancelled or SIGINT/SIGTERM arrives and
// then drains in-flight requests within the configured shutdown timeout.
// Errors are returned to the caller; the package never exits the process.
package app
