// Package request renders errors that handlers and middleware push with c.Error
// and did not answer themselves.
package request

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mo-amir99/course-server-go/pkg/apperrors"
	"github.com/mo-amir99/course-server-go/pkg/response"
)

// Handler renders pending errors in the envelope once the chain returns.
// A response already written is left alone, so handlers that map their own
// sentinel errors always win. Panics reach here as AppErrors from Recovery.
func Handler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := errors.Join(errorsFromContext(c.Errors)...)
		if err == nil {
			return
		}

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			response.ErrorWithLog(logger, c, appErr.StatusCode(), appErr.Message(), err)
			return
		}

		status, message := classify(c, err)
		response.ErrorWithLog(logger, c, status, message, err)
	}
}

// NotFound renders unmatched routes in the standard envelope.
func NotFound(c *gin.Context) {
	response.Error(c, http.StatusNotFound, "Route not found", nil)
}

func errorsFromContext(errs []*gin.Error) []error {
	list := make([]error, 0, len(errs))
	for _, item := range errs {
		if item != nil && item.Err != nil {
			list = append(list, item.Err)
		}
	}
	return list
}

func classify(c *gin.Context, err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "Request body too large"
	case c.Errors.ByType(gin.ErrorTypeBind).Last() != nil:
		return http.StatusBadRequest, "Invalid request body"
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "Resource not found"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "Service temporarily unavailable"
	}
	return http.StatusInternalServerError, "Internal server error"
}
