package quiz

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/course-server-go/internal/features/auth"
	"github.com/mo-amir99/course-server-go/internal/features/lesson"
	"github.com/mo-amir99/course-server-go/internal/features/progress"
	"github.com/mo-amir99/course-server-go/pkg/apperrors"
	"github.com/mo-amir99/course-server-go/pkg/response"
	"github.com/mo-amir99/course-server-go/pkg/validation"
)

// Handler processes quiz HTTP requests.
type Handler struct {
	engine *Engine
	logger *slog.Logger
}

// NewHandler constructs a quiz handler instance.
func NewHandler(engine *Engine, logger *slog.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

// GetForLearner returns the quiz of an accessible lesson without answers.
func (h *Handler) GetForLearner(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}
	number, ok := h.lessonNumber(c)
	if !ok {
		return
	}

	questions, err := h.engine.ForLearner(c.Request.Context(), principal.Email, c.Param("courseId"), number)
	if err != nil {
		h.respondError(c, err, "failed to load quiz")
		return
	}

	response.SuccessNoCache(c, http.StatusOK, questions, "")
}

type submitRequest struct {
	Answers []string `json:"answers" binding:"required"`
}

// Submit grades the learner's answers.
func (h *Handler) Submit(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}
	number, ok := h.lessonNumber(c)
	if !ok {
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid submission payload", err)
		return
	}

	result, err := h.engine.Submit(c.Request.Context(), principal.Email, c.Param("courseId"), number, req.Answers)
	if err != nil {
		h.respondError(c, err, "failed to grade quiz")
		return
	}

	message := "Some answers are incorrect. Review the lesson and try again."
	if result.Passed {
		message = "Quiz passed. The next lesson is unlocked."
	}
	response.Success(c, http.StatusOK, result, message, nil)
}

// GetForAdmin returns the authored quiz with answers.
func (h *Handler) GetForAdmin(c *gin.Context) {
	number, ok := h.lessonNumber(c)
	if !ok {
		return
	}

	response.Success(c, http.StatusOK, h.engine.GetQuiz(c.Request.Context(), c.Param("courseId"), number), "", nil)
}

type saveRequest struct {
	Questions []Pair `json:"questions" binding:"required"`
}

// Save replaces a lesson's quiz.
func (h *Handler) Save(c *gin.Context) {
	number, ok := h.lessonNumber(c)
	if !ok {
		return
	}

	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid quiz payload", err)
		return
	}

	questions, err := h.engine.SaveQuiz(c.Request.Context(), c.Param("courseId"), number, req.Questions)
	if err != nil {
		h.respondError(c, err, "failed to save quiz")
		return
	}

	response.Success(c, http.StatusOK, questions, "Quiz saved", nil)
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
	case errors.Is(err, ErrQuizNotFound):
		status = http.StatusNotFound
		message = "No quiz is available for this lesson yet."
	case errors.Is(err, lesson.ErrLessonNotFound):
		status = http.StatusNotFound
		message = "Lesson not found"
	case errors.Is(err, ErrQuizIncomplete):
		status = http.StatusBadRequest
		message = "Please fill in all 5 questions and answers."
	case errors.Is(err, ErrIncompleteSubmission):
		status = http.StatusBadRequest
		message = "Please answer all questions."
	case errors.Is(err, progress.ErrInvalidLesson):
		status = http.StatusBadRequest
		message = "Invalid lesson number"
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
