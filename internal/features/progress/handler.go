package progress

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/course-server-go/internal/features/auth"
	"github.com/mo-amir99/course-server-go/pkg/response"
)

// Handler serves the learner's progress overview.
type Handler struct {
	gate   *Gate
	logger *slog.Logger
}

// NewHandler constructs a progress handler instance.
func NewHandler(gate *Gate, logger *slog.Logger) *Handler {
	return &Handler{gate: gate, logger: logger}
}

// Overview returns completion figures for every started course.
func (h *Handler) Overview(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	response.Success(c, http.StatusOK, h.gate.Overview(c.Request.Context(), principal.Email), "", nil)
}
