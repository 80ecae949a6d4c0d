package ingest

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"fleetjobs/internal/errors"
)

// UploadValidator checks multipart uploads before ingestion: extension, size
// cap and batch size. Validation failures are request errors, not batch
// degradation.
type UploadValidator struct {
	logger   *slog.Logger
	maxBytes int64
	maxFiles int
}

// NewUploadValidator creates an upload validator.
func NewUploadValidator(logger *slog.Logger, maxBytes int64, maxFiles int) *UploadValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadValidator{logger: logger, maxBytes: maxBytes, maxFiles: maxFiles}
}

// Validate checks the uploaded file headers.
func (v *UploadValidator) Validate(headers []*multipart.FileHeader) error {
	if len(headers) == 0 {
		return errors.NewAppValidationError("no files uploaded")
	}
	if v.maxFiles > 0 && len(headers) > v.maxFiles {
		return errors.NewAppValidationError(
			fmt.Sprintf("too many files: %d uploaded, limit is %d", len(headers), v.maxFiles))
	}

	for _, h := range headers {
		if !strings.EqualFold(filepath.Ext(h.Filename), ".csv") {
			return errors.NewAppValidationError(
				fmt.Sprintf("unsupported file type for %q: only CSV files are accepted", h.Filename))
		}
		if h.Size == 0 {
			return errors.NewAppValidationError(fmt.Sprintf("file %q is empty", h.Filename))
		}
		if v.maxBytes > 0 && h.Size > v.maxBytes {
			v.logger.Warn("rejected oversized upload",
				slog.String("file", h.Filename),
				slog.Int64("size", h.Size),
				slog.Int64("limit", v.maxBytes))
			return errors.NewAppValidationError(
				fmt.Sprintf("file %q exceeds the %d byte size limit", h.Filename, v.maxBytes))
		}
	}
	return nil
}
