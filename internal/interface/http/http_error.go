package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/weatherwise/pkg/errors"
)

// HTTPError is the transport view of a failure: status, stable code and client message.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewHTTPError builds an HTTPError.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// fromDomainError maps AppError codes onto statuses. Errors without a known
// code become 500 with fallbackCode.
func fromDomainError(fallbackCode string, err error) *HTTPError {
	status, code := http.StatusInternalServerError, fallbackCode
	switch apperrors.CodeOf(err) {
	case apperrors.CodeInvalidInput:
		status, code = http.StatusBadRequest, "invalid_request"
	case apperrors.CodeNotFound:
		status, code = http.StatusNotFound, "not_found"
	case apperrors.CodeUnavailable:
		status, code = http.StatusServiceUnavailable, "unavailable"
	case apperrors.CodeStorage:
		status, code = http.StatusBadGateway, "storage_error"
	}
	message := ""
	if err != nil {
		message = err.Error()
	}
	return NewHTTPError(status, code, message, err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return fromDomainError("internal_error", err)
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
