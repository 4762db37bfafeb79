package dto

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/quotevault/quotevault/internal/domain"
)

// traceIDKey is the gin context key set by the request ID middleware.
const traceIDKey = "trace_id"

// GetTraceID extracts the trace ID for error responses.
// Prefers the value set in the gin context, falls back to the
// X-Request-ID header. Returns "" if neither is present.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(traceIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}

		return ""
	}

	return c.Request.Header.Get("X-Request-ID")
}

// HandleError maps a domain error to an HTTP error response and writes it.
// Domain errors keep their messages; unavailable and unknown errors get
// generic messages so internals never leak to clients.
func HandleError(c *gin.Context, err error) {
	resp := errorResponseFor(err)
	resp.WithTraceID(GetTraceID(c))

	c.JSON(HTTPStatusFromCode(resp.Error.Code), resp)
}

// errorResponseFor builds the error envelope for a domain error.
func errorResponseFor(err error) *ErrorResponse {
	switch {
	case domain.IsNotFound(err):
		return NewErrorResponse(ErrorCodeNotFound, err.Error())

	case domain.IsConflict(err):
		return NewErrorResponse(ErrorCodeConflict, err.Error())

	case domain.IsValidation(err):
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.Error.Details = map[string]string{
				validationErr.Field: validationErr.Message,
			}
		}

		return resp

	case domain.IsUnavailable(err):
		return NewErrorResponse(ErrorCodeUnavailable, "service temporarily unavailable")

	default:
		return NewErrorResponse(ErrorCodeInternal, "an internal error occurred")
	}
}
