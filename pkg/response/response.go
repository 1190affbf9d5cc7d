package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
	Pagination any    `json:"pagination,omitempty"`
}

// Success writes a success response with optional message, data and pagination.
func Success(c *gin.Context, status int, data any, message string, pagination any) {
	c.JSON(status, Envelope{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: pagination,
	})
}

// Created is a convenience helper for POST 201 responses.
func Created(c *gin.Context, data any, message string) {
	Success(c, http.StatusCreated, data, message, nil)
}

// SuccessNoCache writes a success response that browsers and proxies must not store.
// Used for gated content, which can change as soon as progress does.
func SuccessNoCache(c *gin.Context, status int, data any, message string) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	Success(c, status, data, message, nil)
}

// Error writes an error response. The detail of err is only exposed for client errors.
func Error(c *gin.Context, status int, message string, err error) {
	env := Envelope{Success: false, Message: message}
	if err != nil && status < http.StatusInternalServerError {
		env.Error = err.Error()
	}
	c.JSON(status, env)
}

// ErrorWithLog writes an error response and logs server-side failures.
func ErrorWithLog(logger *slog.Logger, c *gin.Context, status int, message string, err error) {
	if logger != nil && err != nil {
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, message, slog.Int("status", status), slog.String("error", err.Error()))
	}

	Error(c, status, message, err)
}
