package user

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/course-server-go/pkg/apperrors"
	"github.com/mo-amir99/course-server-go/pkg/pagination"
	"github.com/mo-amir99/course-server-go/pkg/response"
)

// Handler processes administrator user requests.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a user handler instance.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// List returns paginated learners.
func (h *Handler) List(c *gin.Context) {
	params := pagination.Extract(c)

	users, total, err := h.service.ListLearners(c.Request.Context(), ListFilters{
		Keyword: strings.TrimSpace(c.Query("filterKeyword")),
	}, params)
	if err != nil {
		h.respondError(c, err, "failed to list users")
		return
	}

	response.Success(c, http.StatusOK, users, "", pagination.MetadataFrom(total, params))
}

// Create registers a new user.
func (h *Handler) Create(c *gin.Context) {
	var req struct {
		Email       string   `json:"email" binding:"required"`
		Password    string   `json:"password" binding:"required"`
		FullName    string   `json:"fullName" binding:"required"`
		Permissions []string `json:"permissions"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid user payload", err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), CreateInput{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		Permissions: req.Permissions,
	})
	if err != nil {
		h.respondError(c, err, "failed to create user")
		return
	}

	response.Created(c, created, "User created")
}

// UpdatePermissions replaces a learner's permitted courses.
func (h *Handler) UpdatePermissions(c *gin.Context) {
	var req struct {
		Courses []string `json:"courses"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid permissions payload", err)
		return
	}

	updated, err := h.service.SetPermissions(c.Request.Context(), c.Param("email"), req.Courses)
	if err != nil {
		h.respondError(c, err, "failed to update permissions")
		return
	}

	response.Success(c, http.StatusOK, updated, "Access updated", nil)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrUserNotFound):
		status = http.StatusNotFound
		message = "User not found"
	case errors.Is(err, ErrEmailTaken):
		status = http.StatusConflict
		message = "Email already exists"
	case errors.Is(err, ErrInvalidEmail):
		status = http.StatusBadRequest
		message = "Invalid email format"
	case errors.Is(err, ErrInvalidPassword):
		status = http.StatusBadRequest
		message = "Password must be at least 8 characters"
	case errors.Is(err, ErrFullNameRequired):
		status = http.StatusBadRequest
		message = "Full name is required"
	case errors.Is(err, ErrInvalidPermission):
		status = http.StatusBadRequest
		message = "Permissions must be valid course ids"
	case errors.Is(err, ErrAdminNotEditable):
		status = http.StatusForbidden
		message = "Administrator permissions cannot be edited"
	case apperrors.Is(err, apperrors.ErrUnavailable):
		status = http.StatusServiceUnavailable
		message = "Service temporarily unavailable"
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
