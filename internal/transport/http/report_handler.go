package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"olareport/internal/dataprocessing"
	apierrors "olareport/internal/errors"
	"olareport/internal/services"
	"olareport/pkg/contracts/domain"
)

// FilesField is the multipart field carrying the uploaded workbooks
const FilesField = "files"

// Response headers describing a generated report
const (
	HeaderReportWeeks = "X-Report-Weeks"
	HeaderReportRows  = "X-Report-Rows"
	HeaderRunID       = "X-Run-ID"
)

// SummaryResponse is the JSON body of POST /api/reports/summary
type SummaryResponse struct {
	RunID     string              `json:"run_id"`
	Files     []domain.FileResult `json:"files"`
	Rows      int                 `json:"rows"`
	Weeks     []string            `json:"weeks"`
	EmailText string              `json:"email_text"`
}

// Render implements render.Renderer
func (s *SummaryResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// ReportHandler turns uploaded weekly exports into the consolidated report
type ReportHandler struct {
	service      ReportServiceInterface
	maxFiles     int
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a report handler. maxFiles caps the number of
// workbooks in one upload; zero means unlimited.
func NewReportHandler(service ReportServiceInterface, maxFiles int, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		service:      service,
		maxFiles:     maxFiles,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes, mounted under /api/reports
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateReport)
	r.Post("/summary", h.CreateSummary)
	return r
}

// CreateReport handles POST /api/reports. The consolidated workbook is
// returned as a download; an upload without files yields 204.
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.process(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.service.WriteWorkbook(&buf, report); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", domain.ReportMIMEType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": h.service.FileName(),
	}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set(HeaderReportWeeks, strings.Join(report.Weeks, ","))
	w.Header().Set(HeaderReportRows, strconv.Itoa(report.Rows()))
	w.Header().Set(HeaderRunID, report.RunID)
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "failed to send report",
			slog.String("error", err.Error()),
			slog.String("run_id", report.RunID))
	}
}

// CreateSummary handles POST /api/reports/summary, returning the email
// text and per-file counts as JSON
func (h *ReportHandler) CreateSummary(w http.ResponseWriter, r *http.Request) {
	report, ok := h.process(w, r)
	if !ok {
		return
	}

	render.Render(w, r, &SummaryResponse{
		RunID:     report.RunID,
		Files:     report.Files,
		Rows:      report.Rows(),
		Weeks:     report.Weeks,
		EmailText: report.EmailText,
	})
}

// process reads the upload and runs it. It writes the response itself and
// returns false when there is nothing more to send.
func (h *ReportHandler) process(w http.ResponseWriter, r *http.Request) (*services.Report, bool) {
	inputs, err := h.readUpload(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}

	h.logger.InfoContext(r.Context(), "processing upload",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Int("files", len(inputs)))

	report, err := h.service.Process(r.Context(), inputs)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	if report == nil {
		w.WriteHeader(http.StatusNoContent)
		return nil, false
	}
	return report, true
}

// readUpload collects the files parts of a multipart body in order. Parts
// without a file name are empty file inputs and are skipped.
func (h *ReportHandler) readUpload(r *http.Request) ([]dataprocessing.Input, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, apierrors.InvalidRequestWithError(err)
	}

	var inputs []dataprocessing.Input
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, uploadError(err)
		}

		if part.FormName() != FilesField || part.FileName() == "" {
			part.Close()
			continue
		}

		if h.maxFiles > 0 && len(inputs) >= h.maxFiles {
			part.Close()
			return nil, apierrors.ErrValidation(FilesField,
				fmt.Sprintf("at most %d files can be processed at once", h.maxFiles))
		}

		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, uploadError(err)
		}

		inputs = append(inputs, dataprocessing.Input{Name: part.FileName(), Data: data})
	}

	return inputs, nil
}

// uploadError keeps body limit errors intact so they map to 413
func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return err
	}
	return apierrors.InvalidRequestWithError(err)
}
