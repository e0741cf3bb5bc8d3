package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"olareport/internal/config"
	apperrors "olareport/internal/errors"
	"olareport/pkg/contracts/domain"
)

// ReportWriter saves the report workbook and the email text to disk
type ReportWriter struct {
	formatter *Formatter
	outputDir string
	fileName  string
	logger    *slog.Logger
}

// NewReportWriter creates a writer for the configured output location
func NewReportWriter(cfg config.ReportConfig, logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	fileName := cfg.FileName
	if fileName == "" {
		fileName = domain.ReportFileName
	}
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	return &ReportWriter{
		formatter: NewFormatter(cfg),
		outputDir: outputDir,
		fileName:  fileName,
		logger:    logger.With("component", "report_writer"),
	}
}

// Path returns where WriteReport puts the workbook
func (w *ReportWriter) Path() string {
	return filepath.Join(w.outputDir, w.fileName)
}

// WriteReport formats the table and saves it, replacing any previous report.
// The workbook is written to a temporary file first so a failed run never
// leaves a truncated report behind.
func (w *ReportWriter) WriteReport(table *domain.Table) (string, error) {
	wb, err := w.formatter.Format(table)
	if err != nil {
		return "", err
	}
	defer wb.Close()

	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create output directory", err).
			WithContext("dir", w.outputDir)
	}

	path := w.Path()
	if err := w.saveAtomic(wb, path); err != nil {
		return "", apperrors.NewStorageError("failed to save report", err).WithContext("path", path)
	}

	w.logger.Info("Report written",
		slog.String("path", path),
		slog.Int("rows", table.Len()))
	return path, nil
}

// saveAtomic streams the workbook into a temporary file in the target
// directory and renames it over path. SaveAs cannot be used for the
// temporary file because it picks the package type from the extension.
func (w *ReportWriter) saveAtomic(wb *excelize.File, path string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = wb.Write(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// WriteText saves the email summary. A relative path is resolved against
// the output directory.
func (w *ReportWriter) WriteText(path, text string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.outputDir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create output directory", err)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to write %s", path), err)
	}

	w.logger.Info("Summary written", slog.String("path", path), slog.Int("bytes", len(text)))
	return path, nil
}
