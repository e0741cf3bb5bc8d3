package http

import (
	"context"
	"io"

	"olareport/internal/dataprocessing"
	"olareport/internal/services"
)

// ReportServiceInterface defines the report operations the handlers need
type ReportServiceInterface interface {
	Process(ctx context.Context, inputs []dataprocessing.Input) (*services.Report, error)
	WriteWorkbook(w io.Writer, report *services.Report) error
	FileName() string
}
