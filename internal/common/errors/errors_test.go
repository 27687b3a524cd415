// internal/common/errors/errors_test.go
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeAnalysisPersistFailed, 3},
		{ErrCodeSearchIndexFailed, 3},
		{ErrCodeNotificationSendFailed, 3},
		{ErrCodeAnalysisCacheFailed, 2},
		{ErrCodeTimeout, 2},
		{ErrCodeProductNotFound, 0},
		{ErrCodeInvalidProductSignal, 0},
		{ErrCodeParseError, 0},
		{ErrorCode("SOMETHING_ELSE"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetRetryCount(tt.code))
			assert.Equal(t, tt.expected > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("retryable error keeps retries and metadata", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewSearchIndexFailedError("trending_products", stderrors.New("503")))

		assert.Equal(t, "SEARCH_INDEX_FAILED", bpmn.Code)
		assert.Equal(t, 3, bpmn.Retries)
		assert.True(t, bpmn.Retryable)
		assert.Equal(t, "503", bpmn.Details)
		assert.Equal(t, "trending_products", bpmn.ErrorVariables["index"])

		vars := bpmn.ToErrorVariables()
		assert.Equal(t, "SEARCH_INDEX_FAILED", vars["errorCode"])
		assert.Equal(t, "SEARCH_INDEX_FAILED", vars["originalErrorCode"])
	})

	t.Run("business error has no retries", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewProductNotFoundError("p-1"))

		assert.Equal(t, "PRODUCT_NOT_FOUND", bpmn.Code)
		assert.Equal(t, 0, bpmn.Retries)
		assert.Equal(t, "p-1", bpmn.ErrorVariables["productId"])
	})
}

func TestAsStandardError(t *testing.T) {
	t.Run("wrapped standard error is unwrapped", func(t *testing.T) {
		orig := NewProductNotFoundError("p-2")
		got := AsStandardError(fmt.Errorf("save: %w", orig))
		assert.Same(t, orig, got)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		got := AsStandardError(stderrors.New("nil pointer"))
		assert.Equal(t, ErrCodeInternal, got.Code)
		assert.Equal(t, "nil pointer", got.Details)
		assert.False(t, got.Retryable)
	})
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		err        *StandardError
		jobRetries int32
		expected   Resolution
	}{
		{"business error is thrown", NewProductNotFoundError("p"), 3, Resolution{Throw: true}},
		{"retryable error with retries left", NewAnalysisPersistFailedError("p", nil), 5, Resolution{Retries: 3}},
		{"retries capped by job", NewAnalysisPersistFailedError("p", nil), 2, Resolution{Retries: 1}},
		{"last attempt is thrown", NewAnalysisPersistFailedError("p", nil), 1, Resolution{Throw: true}},
		{"timeout retried twice", NewTimeoutError("index", nil), 3, Resolution{Retries: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.err, tt.jobRetries))
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidProductSignal))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeParseError))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeValidationFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeScoringConfigInvalid))
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeProductNotFound))
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeAnalysisCacheFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchIndexFailed))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeNotificationSendFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeTimeout))
}

func TestStandardError_Error(t *testing.T) {
	err := NewInvalidProductSignalError("supplierPrice must be a number")
	require.Error(t, err)
	assert.Equal(t, "INVALID_PRODUCT_SIGNAL: Product signal failed validation: supplierPrice must be a number", err.Error())

	assert.Equal(t, "INTERNAL_ERROR: Unexpected error", NewInternalError(nil).Error())
}
