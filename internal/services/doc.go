// Package services holds the application layer shared by the CLI and the
// HTTP server.
//
// ReportService runs a batch through the filter pipeline and renders the
// email summary, then streams or saves the formatted workbook.
// HealthService answers liveness, readiness and version probes.
package services
