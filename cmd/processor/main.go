package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"olareport/internal/config"
	apperrors "olareport/internal/errors"
	"olareport/internal/files"
	"olareport/internal/infrastructure"
	"olareport/internal/services"
	"olareport/internal/validation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// options are the command line settings of one run
type options struct {
	inDir    string
	outDir   string
	name     string
	email    string
	logLevel string
	files    []string
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("processor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: processor [-in DIR] [-out DIR] [-name FILE] [-email FILE] files...")
		fmt.Fprintln(stderr, "Inputs are .xls, .xlsx or .xlsm workbooks; "+apperrors.ResaveBinaryHint+".")
		fs.PrintDefaults()
	}

	opts := &options{}
	fs.StringVar(&opts.inDir, "in", "", "directory whose .xls/.xlsx files are processed in name order")
	fs.StringVar(&opts.outDir, "out", "", "output directory for the report (overrides OLA_REPORT_OUTPUT_DIR)")
	fs.StringVar(&opts.name, "name", "", "report file name (overrides OLA_REPORT_FILE_NAME)")
	fs.StringVar(&opts.email, "email", "", "write the email text to this file instead of stdout; relative paths land in the output directory")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.files = fs.Args()
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 1
	}
	if opts.outDir != "" {
		cfg.Report.OutputDir = opts.outDir
	}
	if opts.name != "" {
		cfg.Report.FileName = opts.name
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 1
	}

	logger := infrastructure.NewLogger(stderr, cfg.Logging.Level)

	directory, err := cfg.UserDirectory()
	if err != nil {
		logger.Error("Failed to load user directory", slog.String("error", err.Error()))
		return 1
	}

	validator := validation.NewFileValidator(logger, 0)
	svc := services.NewReportService(cfg, directory, files.NewDiscovery("", validator), nil, logger)

	paths := opts.files
	if opts.inDir != "" {
		found, err := svc.FindInputs(opts.inDir)
		if err != nil {
			logger.Error("Failed to list input directory",
				slog.String("directory", opts.inDir),
				slog.String("error", err.Error()))
			return 1
		}
		paths = append(found, paths...)
	}

	if len(paths) == 0 {
		fmt.Fprintln(stdout, "No input files, nothing to do")
		return 0
	}

	report, err := svc.ProcessFiles(ctx, paths)
	if err != nil {
		logger.Error("Processing failed", slog.String("error", err.Error()))
		return 1
	}
	if report == nil {
		fmt.Fprintln(stdout, "No input files, nothing to do")
		return 0
	}

	reportPath, err := svc.SaveWorkbook(report)
	if err != nil {
		logger.Error("Failed to write report", slog.String("error", err.Error()))
		return 1
	}

	if opts.email != "" {
		emailPath, err := svc.SaveEmailText(opts.email, report)
		if err != nil {
			logger.Error("Failed to write email text", slog.String("error", err.Error()))
			return 1
		}
		logger.Info("Email text written", slog.String("path", emailPath))
	} else {
		fmt.Fprint(stdout, report.EmailText)
	}

	logger.Info("Report complete",
		slog.String("run_id", report.RunID),
		slog.String("path", reportPath),
		slog.Int("files", len(report.Files)),
		slog.Int("rows", report.Rows()),
		slog.String("weeks", strings.Join(report.Weeks, ", ")))

	return 0
}
