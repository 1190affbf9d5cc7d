package feedback

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/course-server-go/internal/features/auth"
	"github.com/mo-amir99/course-server-go/internal/features/progress"
	"github.com/mo-amir99/course-server-go/pkg/apperrors"
	"github.com/mo-amir99/course-server-go/pkg/response"
)

// Handler processes feedback HTTP requests.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a feedback handler instance.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// ListByCourse returns a course's feedback.
func (h *Handler) ListByCourse(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	entries, err := h.service.ListByCourse(c.Request.Context(), principal.Email, c.Param("courseId"))
	if err != nil {
		h.respondError(c, err, "failed to list feedback")
		return
	}

	response.Success(c, http.StatusOK, entries, "", nil)
}

// ListVisible returns feedback across the caller's courses.
func (h *Handler) ListVisible(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	entries, err := h.service.ListVisible(c.Request.Context(), principal.Email)
	if err != nil {
		h.respondError(c, err, "failed to list feedback")
		return
	}

	response.Success(c, http.StatusOK, entries, "", nil)
}

type createRequest struct {
	Text string `json:"text"`
}

// Create adds course feedback.
func (h *Handler) Create(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid feedback payload", err)
		return
	}

	entry, err := h.service.Add(c.Request.Context(), principal.Email, c.Param("courseId"), req.Text)
	if err != nil {
		h.respondError(c, err, "failed to add feedback")
		return
	}

	response.Created(c, entry, "Thank you for your feedback!")
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrTextRequired):
		status = http.StatusBadRequest
		message = "Feedback text is required."
	case errors.Is(err, ErrTextTooLong):
		status = http.StatusBadRequest
		message = "Feedback text is too long."
	case errors.Is(err, ErrCourseNotCompleted):
		status = http.StatusForbidden
		message = "Complete every lesson of the course to leave feedback."
	case errors.Is(err, progress.ErrNotPermitted):
		status = http.StatusForbidden
		message = "You do not have access to this course."
	case apperrors.Is(err, apperrors.ErrUnavailable):
		status = http.StatusServiceUnavailable
		message = "Service temporarily unavailable"
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
