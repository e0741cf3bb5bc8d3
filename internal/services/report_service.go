package services

import (
	"context"
	"io"
	"log/slog"

	"olareport/internal/config"
	"olareport/internal/dataprocessing"
	apperrors "olareport/internal/errors"
	"olareport/internal/exporter"
	"olareport/internal/files"
	"olareport/internal/infrastructure"
	"olareport/pkg/contracts/domain"
)

// Report is a processed batch together with its email summary
type Report struct {
	*dataprocessing.Result
	EmailText string `json:"email_text"`
}

// ReportService runs report batches for the CLI and the HTTP handlers
type ReportService struct {
	pipeline  *dataprocessing.Pipeline
	formatter *exporter.Formatter
	writer    *exporter.ReportWriter
	discovery *files.Discovery
	cfg       config.ReportConfig
	logger    *slog.Logger
}

// NewReportService wires the pipeline and exporter from configuration.
// metrics may be nil.
func NewReportService(cfg *config.Config, directory *domain.UserDirectory, discovery *files.Discovery, metrics *infrastructure.ReportMetrics, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	if directory == nil {
		directory = domain.DefaultUserDirectory()
	}
	if discovery == nil {
		discovery = files.NewDiscovery("", nil)
	}

	logger.Info("ReportService initialized",
		slog.String("output_dir", cfg.Report.OutputDir),
		slog.String("file_name", cfg.Report.FileName),
		slog.Int("directory_users", directory.Len()))

	return &ReportService{
		pipeline: dataprocessing.NewPipeline(directory,
			dataprocessing.WithLogger(logger),
			dataprocessing.WithMetrics(metrics),
		),
		formatter: exporter.NewFormatter(cfg.Report),
		writer:    exporter.NewReportWriter(cfg.Report, logger),
		discovery: discovery,
		cfg:       cfg.Report,
		logger:    logger.With(slog.String("component", "report_service")),
	}
}

// Process filters and consolidates the inputs and renders the email text.
// A nil report with a nil error means there was nothing to process.
func (s *ReportService) Process(ctx context.Context, inputs []dataprocessing.Input) (*Report, error) {
	result, err := s.pipeline.Run(ctx, inputs)
	if err != nil || result == nil {
		return nil, err
	}

	body := result.Consolidated
	if s.cfg.SummaryReportColumnsOnly {
		projected, missing := body.Select(domain.ReportColumns...)
		if len(missing) > 0 {
			return nil, apperrors.NewSchemaError("consolidated report", missing...)
		}
		body = projected
	}

	return &Report{
		Result:    result,
		EmailText: dataprocessing.GenerateEmailText(body, result.Weeks),
	}, nil
}

// ProcessFiles loads the files at paths and processes them in that order
func (s *ReportService) ProcessFiles(ctx context.Context, paths []string) (*Report, error) {
	inputs, err := s.discovery.LoadInputs(paths)
	if err != nil {
		return nil, err
	}
	return s.Process(ctx, inputs)
}

// FindInputs lists the workbooks of an input directory in name order
func (s *ReportService) FindInputs(dir string) ([]string, error) {
	found, err := s.discovery.FindSpreadsheets(dir)
	if err != nil {
		return nil, err
	}
	return files.Paths(found), nil
}

// WriteWorkbook streams the formatted report to w
func (s *ReportService) WriteWorkbook(w io.Writer, report *Report) error {
	return s.formatter.WriteTo(w, report.Consolidated)
}

// SaveWorkbook writes the formatted report to the output directory
func (s *ReportService) SaveWorkbook(report *Report) (string, error) {
	return s.writer.WriteReport(report.Consolidated)
}

// SaveEmailText writes the email summary next to the report
func (s *ReportService) SaveEmailText(path string, report *Report) (string, error) {
	return s.writer.WriteText(path, report.EmailText)
}

// FileName is the name the report is saved and downloaded under
func (s *ReportService) FileName() string {
	if s.cfg.FileName == "" {
		return domain.ReportFileName
	}
	return s.cfg.FileName
}
