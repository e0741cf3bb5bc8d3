// Package exporter writes the consolidated OLA report.
//
// Formatter turns a consolidated table into a single-sheet workbook with the
// fifteen report columns, uniform cell styling and a filled header row.
// ReportWriter saves that workbook and the email summary text to the
// configured output directory.
//
// Example usage:
//
//	w := exporter.NewReportWriter(cfg.Report, logger)
//	path, err := w.WriteReport(result.Consolidated)
package exporter
