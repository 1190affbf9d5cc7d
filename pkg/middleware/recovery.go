package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/course-server-go/pkg/apperrors"
)

// Recovery turns a panic into an internal error on the gin context. The outer
// request.Handler renders it. Mount Recovery inside request.Handler.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			logger.ErrorContext(c.Request.Context(), "panic recovered",
				slog.String("request_id", GetRequestID(c)),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.Any("error", recovered),
				slog.String("stack", string(debug.Stack())),
			)

			_ = c.Error(apperrors.New("Internal server error", http.StatusInternalServerError, apperrors.ErrInternal, fmt.Errorf("panic: %v", recovered)))
			c.Abort()
		}()

		c.Next()
	}
}
