// Package http contains the HTTP handlers of the report server.
//
// Handlers are thin: they decode the request, call a service and render
// the result. Errors are rendered as RFC 7807 problems by the shared
// error handler.
//
//	POST /api/reports          multipart "files" in, consolidated xlsx out
//	POST /api/reports/summary  multipart "files" in, email text as JSON out
//	GET  /api/health[/ready|/live]
//	GET  /api/version
package http
