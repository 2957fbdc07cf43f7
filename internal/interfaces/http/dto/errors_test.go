package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	t.Run("maps known codes", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(ErrCodeInvalidInput))
		assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(ErrCodeValidation))
		assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ErrCodeNotFound))
		assert.Equal(t, http.StatusGone, GetHTTPStatus(ErrCodeBatchDeleted))
		assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(ErrCodeInsufficientStock))
		assert.Equal(t, http.StatusConflict, GetHTTPStatus(ErrCodeConcurrencyExhausted))
		assert.Equal(t, http.StatusServiceUnavailable, GetHTTPStatus(ErrCodeStoreUnavailable))
	})

	t.Run("unknown code falls back to 500", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("ERR_NO_SUCH_CODE"))
	})
}

func TestErrorResponse(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "batch not found", "req-123")
	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "batch not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}
