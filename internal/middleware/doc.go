// Package middleware contains the HTTP middleware chain of the report
// server: request ids, structured request logging, OpenTelemetry spans and
// request metrics, rate limiting, CORS, security headers and upload limits.
package middleware
