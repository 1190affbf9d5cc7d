package lesson

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/course-server-go/internal/features/auth"
	"github.com/mo-amir99/course-server-go/internal/features/course"
	"github.com/mo-amir99/course-server-go/internal/features/progress"
	"github.com/mo-amir99/course-server-go/pkg/apperrors"
	"github.com/mo-amir99/course-server-go/pkg/response"
	"github.com/mo-amir99/course-server-go/pkg/validation"
)

// Handler processes lesson HTTP requests.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a lesson handler instance.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// ListForCourse returns the caller's view of a course's lessons.
func (h *Handler) ListForCourse(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	lessons, err := h.service.ListForLearner(c.Request.Context(), principal.Email, c.Param("courseId"))
	if err != nil {
		h.respondError(c, err, "failed to list lessons")
		return
	}

	response.Success(c, http.StatusOK, lessons, "", nil)
}

// GetContent opens a lesson.
func (h *Handler) GetContent(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}
	number, ok := h.lessonNumber(c)
	if !ok {
		return
	}

	content, err := h.service.Open(c.Request.Context(), principal.Email, c.Param("courseId"), number)
	if err != nil {
		h.respondError(c, err, "failed to open lesson")
		return
	}

	response.SuccessNoCache(c, http.StatusOK, content, "")
}

// ToggleLike likes or unlikes a lesson.
func (h *Handler) ToggleLike(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}
	number, ok := h.lessonNumber(c)
	if !ok {
		return
	}

	summary, err := h.service.ToggleLike(c.Request.Context(), principal.Email, c.Param("courseId"), number)
	if err != nil {
		h.respondError(c, err, "failed to update like")
		return
	}

	response.Success(c, http.StatusOK, summary, "", nil)
}

// List returns a course's lessons with quiz counts.
func (h *Handler) List(c *gin.Context) {
	lessons, err := h.service.List(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		h.respondError(c, err, "failed to list lessons")
		return
	}

	response.Success(c, http.StatusOK, lessons, "", nil)
}

// GetByNumber returns one lesson without access gating.
func (h *Handler) GetByNumber(c *gin.Context) {
	number, ok := h.lessonNumber(c)
	if !ok {
		return
	}

	l, err := h.service.Get(c.Request.Context(), c.Param("courseId"), number)
	if err != nil {
		h.respondError(c, err, "failed to load lesson")
		return
	}

	response.Success(c, http.StatusOK, l, "", nil)
}

type upsertRequest struct {
	Title    string `json:"title"`
	VideoURL string `json:"videoUrl"`
	PDFURL   string `json:"pdfUrl"`
}

// Upsert creates or replaces a lesson.
func (h *Handler) Upsert(c *gin.Context) {
	number, ok := h.lessonNumber(c)
	if !ok {
		return
	}

	var req upsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lesson payload", err)
		return
	}

	l, created, err := h.service.Upsert(c.Request.Context(), UpsertInput{
		CourseID: c.Param("courseId"),
		Number:   number,
		Title:    req.Title,
		VideoURL: req.VideoURL,
		PDFURL:   req.PDFURL,
	})
	if err != nil {
		h.respondError(c, err, "failed to save lesson")
		return
	}

	if created {
		response.Created(c, l, "Lesson created")
		return
	}
	response.Success(c, http.StatusOK, l, "Lesson updated", nil)
}

// Delete removes a lesson.
func (h *Handler) Delete(c *gin.Context) {
	number, ok := h.lessonNumber(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("courseId"), number); err != nil {
		h.respondError(c, err, "failed to delete lesson")
		return
	}

	response.Success(c, http.StatusOK, nil, "Lesson deleted", nil)
}

func (h *Handler) lessonNumber(c *gin.Context) (int, bool) {
	number, err := validation.ParseLessonNumber(c.Param("lessonNumber"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "Invalid lesson number", err)
		return 0, false
	}
	return number, true
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrLessonNotFound):
		status = http.StatusNotFound
		message = "Lesson not found"
	case errors.Is(err, course.ErrCourseNotFound):
		status = http.StatusNotFound
		message = "Course not found"
	case errors.Is(err, ErrInvalidNumber), errors.Is(err, progress.ErrInvalidLesson):
		status = http.StatusBadRequest
		message = "Invalid lesson number"
	case errors.Is(err, ErrContentRequired):
		status = http.StatusBadRequest
		message = "Provide a video or a document reference."
	case errors.Is(err, ErrInvalidContentURL):
		status = http.StatusBadRequest
		message = "Content references must be http(s) URLs."
	case errors.Is(err, progress.ErrNotPermitted):
		status = http.StatusForbidden
		message = "You do not have access to this course."
	case errors.Is(err, progress.ErrLessonLocked):
		status = http.StatusForbidden
		message = "Complete the previous lesson's quiz to unlock this lesson."
	case apperrors.Is(err, apperrors.ErrUnavailable):
		status = http.StatusServiceUnavailable
		message = "Service temporarily unavailable"
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
