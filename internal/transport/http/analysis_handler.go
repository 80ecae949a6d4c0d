package http

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fleetjobs/internal/errors"
	"fleetjobs/internal/exporter"
	"fleetjobs/internal/ingest"
)

// uploadField is the multipart form field carrying the CSV files.
const uploadField = "files"

// AnalysisHandler serves the analysis endpoints. Uploads are validated,
// handed to the service, and the outcome rendered as JSON or a file download.
type AnalysisHandler struct {
	service   AnalysisService
	validator *ingest.UploadValidator
	logger    *slog.Logger
	maxMemory int64
}

// NewAnalysisHandler creates an analysis handler.
func NewAnalysisHandler(service AnalysisService, validator *ingest.UploadValidator, maxMemory int64, logger *slog.Logger) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxMemory <= 0 {
		maxMemory = 32 << 20
	}
	return &AnalysisHandler{
		service:   service,
		validator: validator,
		logger:    logger.With(slog.String("handler", "analysis")),
		maxMemory: maxMemory,
	}
}

// Routes returns the analysis routes.
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Analyze)
	r.Post("/export", h.Export)
	r.Post("/series", h.Series)
	return r
}

// Analyze runs the batch through the pipeline and renders the full report:
// per-file summaries, the aggregate overdue analysis, and reconciled rows.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	files, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	report, err := h.service.Analyze(r.Context(), files)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "analysis failed", slog.String("error", err.Error()))
		render.Render(w, r, errors.NewErrorResponse(errors.FromAppError(err)))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, report)
}

// Series runs the batch and renders chart-ready series.
func (h *AnalysisHandler) Series(w http.ResponseWriter, r *http.Request) {
	files, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	report, err := h.service.Series(r.Context(), files)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "series derivation failed", slog.String("error", err.Error()))
		render.Render(w, r, errors.NewErrorResponse(errors.FromAppError(err)))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, report)
}

// Export runs the batch and streams the styled Excel workbook. The ?format=csv
// query switches to a plain CSV of the reconciled rows.
func (h *AnalysisHandler) Export(w http.ResponseWriter, r *http.Request) {
	files, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		h.exportCSV(w, r, files)
		return
	}

	data, name, err := h.service.ExportExcel(r.Context(), files)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "excel export failed", slog.String("error", err.Error()))
		render.Render(w, r, errors.NewErrorResponse(errors.FromAppError(err)))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *AnalysisHandler) exportCSV(w http.ResponseWriter, r *http.Request, files []ingest.SourceFile) {
	report, err := h.service.Analyze(r.Context(), files)
	if err != nil {
		render.Render(w, r, errors.NewErrorResponse(errors.FromAppError(err)))
		return
	}

	data, err := exporter.SummaryCSV(report.Rows)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed", slog.String("error", err.Error()))
		render.Render(w, r, errors.NewErrorResponse(errors.ErrExportFailed))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="job_status_summary.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// readUpload parses the multipart form, validates the headers, and reads
// every file into memory. A file whose body cannot be read is carried with
// its error so the pipeline degrades it to an error-marker summary instead of
// failing the batch.
func (h *AnalysisHandler) readUpload(w http.ResponseWriter, r *http.Request) ([]ingest.SourceFile, bool) {
	if err := r.ParseMultipartForm(h.maxMemory); err != nil {
		render.Render(w, r, errors.NewErrorResponse(errors.InvalidRequestWithError(err)))
		return nil, false
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[uploadField]
	if len(headers) == 0 {
		render.Render(w, r, errors.NewErrorResponse(errors.ErrMissingUpload))
		return nil, false
	}

	if err := h.validator.Validate(headers); err != nil {
		render.Render(w, r, errors.NewErrorResponse(errors.ErrUploadValidation(err)))
		return nil, false
	}

	files := make([]ingest.SourceFile, 0, len(headers))
	for _, header := range headers {
		files = append(files, h.readOne(header))
	}
	return files, true
}

func (h *AnalysisHandler) readOne(header *multipart.FileHeader) ingest.SourceFile {
	src := ingest.SourceFile{Name: header.Filename}

	f, err := header.Open()
	if err != nil {
		src.Err = fmt.Errorf("failed to open upload: %w", err)
		return src
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		src.Err = fmt.Errorf("failed to read upload: %w", err)
		return src
	}

	src.Data = data
	return src
}
