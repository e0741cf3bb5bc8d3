package dataprocessing

import (
	"context"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/blake2b"

	apperrors "olareport/internal/errors"
	"olareport/internal/infrastructure"
	"olareport/pkg/contracts/domain"
)

// Input is one uploaded or discovered spreadsheet
type Input struct {
	Name string
	Data []byte
}

// Result is the outcome of one batch
type Result struct {
	RunID        string              `json:"run_id"`
	Consolidated *domain.Table       `json:"-"`
	Weeks        []string            `json:"weeks"`
	Files        []domain.FileResult `json:"files"`
}

// Rows returns the number of consolidated rows
func (r *Result) Rows() int {
	if r == nil || r.Consolidated == nil {
		return 0
	}
	return r.Consolidated.Len()
}

// Pipeline parses, filters and concatenates a batch of spreadsheets
type Pipeline struct {
	filter  *RowFilter
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.ReportMetrics
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the pipeline logger
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTracer sets the tracer used for batch and file spans
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// WithMetrics enables row and batch counters
func WithMetrics(m *infrastructure.ReportMetrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// NewPipeline creates a pipeline over the given user directory
func NewPipeline(directory *domain.UserDirectory, opts ...Option) *Pipeline {
	p := &Pipeline{
		filter: NewRowFilter(directory),
		logger: slog.Default(),
		tracer: otel.Tracer(infrastructure.MeterName),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = infrastructure.WithComponent(p.logger, "pipeline")
	return p
}

// Run processes inputs in order and returns their concatenation. An empty
// batch is not an error: Run returns a nil result so callers can skip
// writing any output. The first file that cannot be read or lacks a
// required column aborts the whole batch.
func (p *Pipeline) Run(ctx context.Context, inputs []Input) (result *Result, err error) {
	if len(inputs) == 0 {
		p.logger.InfoContext(ctx, "no input files, nothing to do")
		return nil, nil
	}

	runID := uuid.New().String()
	ctx = infrastructure.WithRunID(ctx, runID)
	ctx, span := p.tracer.Start(ctx, "report.batch", trace.WithAttributes(
		attribute.String("report.run_id", runID),
		attribute.Int("report.files", len(inputs)),
	))
	start := time.Now()

	defer func() {
		infrastructure.RecordBatch(ctx, p.metrics, len(inputs), time.Since(start), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	logger := p.logger
	logger.InfoContext(ctx, "processing batch", "files", len(inputs))

	filtered := make([]*domain.Table, 0, len(inputs))
	files := make([]domain.FileResult, 0, len(inputs))

	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		table, fr, err := p.processFile(ctx, in)
		if err != nil {
			logger.ErrorContext(ctx, "file rejected", "file", in.Name, "error", err)
			return nil, err
		}

		logger.DebugContext(ctx, "file processed",
			"file", fr.Name,
			"format", fr.Format,
			"rows_read", fr.RowsRead,
			"rows_kept", fr.RowsKept,
			"annotated", fr.Annotated)

		filtered = append(filtered, table)
		files = append(files, fr)
	}

	consolidated := domain.Concat(filtered...)
	result = &Result{
		RunID:        runID,
		Consolidated: consolidated,
		Weeks:        DistinctWeeks(consolidated),
		Files:        files,
	}

	logger.InfoContext(ctx, "batch complete",
		"rows", result.Rows(),
		"weeks", len(result.Weeks),
		"duration_ms", time.Since(start).Milliseconds())

	return result, nil
}

func (p *Pipeline) processFile(ctx context.Context, in Input) (*domain.Table, domain.FileResult, error) {
	ctx, span := p.tracer.Start(ctx, "report.file", trace.WithAttributes(
		attribute.String("report.file", in.Name),
		attribute.Int("report.bytes", len(in.Data)),
	))
	defer span.End()

	sum := blake2b.Sum256(in.Data)
	fr := domain.FileResult{
		Name:     in.Name,
		Checksum: hex.EncodeToString(sum[:]),
	}

	table, format, err := ParseWorkbook(in.Name, in.Data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return nil, fr, err
	}
	fr.Format = string(format)

	if missing := table.MissingColumns(domain.RequiredColumns...); len(missing) > 0 {
		err := apperrors.NewSchemaError(in.Name, missing...)
		span.RecordError(err)
		span.SetStatus(codes.Error, "schema mismatch")
		return nil, fr, err
	}

	out, stats, err := p.filter.Apply(in.Name, table)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "filter failed")
		return nil, fr, err
	}

	fr.RowsRead = stats.RowsRead
	fr.RowsKept = stats.RowsKept
	fr.Annotated = stats.Annotated
	fr.Weeks = DistinctWeeks(out)

	span.SetAttributes(
		attribute.String("report.format", fr.Format),
		attribute.Int("report.rows_read", fr.RowsRead),
		attribute.Int("report.rows_kept", fr.RowsKept),
	)
	infrastructure.RecordFile(ctx, p.metrics, fr.Format, fr.RowsRead, fr.RowsKept, fr.Annotated)

	return out, fr, nil
}
