package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorFormatting(t *testing.T) {
	cause := stderrors.New("unexpected EOF")
	err := NewParsingError("failed to read CSV header", cause)

	assert.Equal(t, "[PARSING] failed to read CSV header: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewAppValidationError("no files uploaded")
	assert.Equal(t, "[VALIDATION] no files uploaded", bare.Error())
}

func TestWithContext(t *testing.T) {
	err := NewExportError("failed to build Excel report", nil).
		WithContext("rows", 12)

	assert.Equal(t, 12, err.Context["rows"])
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(NewAppValidationError("bad upload")))
	assert.False(t, IsValidation(NewParsingError("bad csv", nil)))
	assert.False(t, IsValidation(stderrors.New("plain")))
}

func TestFromAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		errorCode  string
	}{
		{
			name:       "validation maps to 400",
			err:        NewAppValidationError("too many files"),
			statusCode: http.StatusBadRequest,
			errorCode:  "VALIDATION_FAILED",
		},
		{
			name:       "not found maps to 404",
			err:        NewNotFoundError("report"),
			statusCode: http.StatusNotFound,
			errorCode:  "NOT_FOUND",
		},
		{
			name:       "ingestion maps to 500",
			err:        NewIngestionError("batch aborted", nil),
			statusCode: http.StatusInternalServerError,
			errorCode:  "INGESTION_ERROR",
		},
		{
			name:       "plain error maps to 500",
			err:        stderrors.New("boom"),
			statusCode: http.StatusInternalServerError,
			errorCode:  "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromAppError(tt.err)
			require.NotNil(t, apiErr)
			assert.Equal(t, tt.statusCode, apiErr.StatusCode)
			assert.Equal(t, tt.errorCode, apiErr.ErrorCode)
		})
	}
}
