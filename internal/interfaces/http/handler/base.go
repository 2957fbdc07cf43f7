package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/opsboard/backend/internal/interfaces/http/dto"
	"github.com/opsboard/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// bindJSON binds the request body, responding with 400 on failure.
// Field-level binding failures surface as validation errors, anything
// else as a JSON parse error.
func (h *BaseHandler) bindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		h.ErrorWithCode(c, dto.ErrCodeValidation, verr.Error())
	} else {
		h.ErrorWithCode(c, dto.ErrCodeInvalidJSON, err.Error())
	}
	return false
}

// HandleError converts ledger errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var (
		invalidReq   *inventory.InvalidRequestError
		validation   *inventory.ValidationError
		itemNotFound *inventory.ItemNotFoundError
		deleted      *inventory.BatchDeletedError
		insufficient *inventory.InsufficientStockError
		exhausted    *inventory.ConcurrencyExhaustedError
		unavailable  *inventory.StoreUnavailableError
	)

	switch {
	case errors.As(err, &invalidReq):
		h.ErrorWithCode(c, dto.ErrCodeInvalidInput, invalidReq.Error())
	case errors.As(err, &validation):
		h.ErrorWithCode(c, dto.ErrCodeValidation, validation.Error())
	case errors.As(err, &itemNotFound):
		h.ErrorWithCode(c, dto.ErrCodeNotFound, itemNotFound.Error())
	case errors.Is(err, shared.ErrNotFound):
		h.ErrorWithCode(c, dto.ErrCodeNotFound, "resource not found")
	case errors.As(err, &deleted):
		h.ErrorWithCode(c, dto.ErrCodeBatchDeleted, deleted.Error())
	case errors.As(err, &insufficient):
		h.ErrorWithCode(c, dto.ErrCodeInsufficientStock, insufficient.Error())
	case errors.As(err, &exhausted):
		h.ErrorWithCode(c, dto.ErrCodeConcurrencyExhausted, exhausted.Error())
	case errors.As(err, &unavailable):
		h.ErrorWithCode(c, dto.ErrCodeStoreUnavailable, unavailable.Error())
	default:
		h.InternalError(c, "An unexpected error occurred")
	}
}
