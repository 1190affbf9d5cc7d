package course

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/course-server-go/internal/features/auth"
	"github.com/mo-amir99/course-server-go/pkg/apperrors"
	"github.com/mo-amir99/course-server-go/pkg/response"
)

// Handler processes course HTTP requests.
type Handler struct {
	catalog *Catalog
	logger  *slog.Logger
}

// NewHandler constructs a course handler instance.
func NewHandler(catalog *Catalog, logger *slog.Logger) *Handler {
	return &Handler{catalog: catalog, logger: logger}
}

// ListVisible returns the courses the caller may open.
func (h *Handler) ListVisible(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	courses, err := h.catalog.Visible(c.Request.Context(), principal.PermissionSet())
	if err != nil {
		h.respondError(c, err, "failed to list courses")
		return
	}

	response.Success(c, http.StatusOK, courses, "", nil)
}

// List returns every course.
func (h *Handler) List(c *gin.Context) {
	courses, err := h.catalog.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "failed to list courses")
		return
	}

	response.Success(c, http.StatusOK, courses, "", nil)
}

// GetByID fetches a single course.
func (h *Handler) GetByID(c *gin.Context) {
	course, err := h.catalog.Get(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		h.respondError(c, err, "failed to load course")
		return
	}

	response.Success(c, http.StatusOK, course, "", nil)
}

type upsertRequest struct {
	ID     string `json:"id"`
	Name   string `json:"name" binding:"required"`
	Topics string `json:"topics"`
}

// Create upserts a course using the id from the body.
func (h *Handler) Create(c *gin.Context) {
	var req upsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course payload", err)
		return
	}

	h.upsert(c, UpsertInput{ID: req.ID, Name: req.Name, Topics: req.Topics})
}

// Update upserts a course using the id from the path.
func (h *Handler) Update(c *gin.Context) {
	var req upsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course payload", err)
		return
	}

	h.upsert(c, UpsertInput{ID: c.Param("courseId"), Name: req.Name, Topics: req.Topics})
}

func (h *Handler) upsert(c *gin.Context, input UpsertInput) {
	course, created, err := h.catalog.Upsert(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err, "failed to save course")
		return
	}

	if created {
		response.Created(c, course, "Course created")
		return
	}
	response.Success(c, http.StatusOK, course, "Course updated", nil)
}

// Delete removes a course and its dependent rows.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("courseId")); err != nil {
		h.respondError(c, err, "failed to delete course")
		return
	}

	response.Success(c, http.StatusOK, nil, "Course deleted", nil)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrCourseNotFound):
		status = http.StatusNotFound
		message = "Course not found"
	case errors.Is(err, ErrNameRequired):
		status = http.StatusBadRequest
		message = "'name' is required."
	case errors.Is(err, ErrInvalidID):
		status = http.StatusBadRequest
		message = "Invalid course id"
	case apperrors.Is(err, apperrors.ErrUnavailable):
		status = http.StatusServiceUnavailable
		message = "Service temporarily unavailable"
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
