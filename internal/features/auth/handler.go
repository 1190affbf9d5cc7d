package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/course-server-go/internal/utils/jwt"
	"github.com/mo-amir99/course-server-go/pkg/apperrors"
	"github.com/mo-amir99/course-server-go/pkg/response"
)

// TokenConfig controls the signed session marker handed to clients.
type TokenConfig struct {
	Secret string
	Expiry time.Duration
}

// Handler processes authentication HTTP requests.
type Handler struct {
	gate   *Gate
	logger *slog.Logger
	tokens TokenConfig
}

// NewHandler constructs an auth handler instance.
func NewHandler(gate *Gate, logger *slog.Logger, tokens TokenConfig) *Handler {
	return &Handler{gate: gate, logger: logger, tokens: tokens}
}

type loginResponse struct {
	User        Principal `json:"user"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Login authenticates a user and returns a session token.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid login payload", err)
		return
	}

	principal, err := h.gate.Authenticate(c.Request.Context(), Credentials{
		Email:    req.Email,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.respondError(c, err, "login failed")
		return
	}

	issuedAt := h.gate.now()
	token, err := jwt.GenerateSessionToken(principal.SessionID, principal.Email, h.tokens.Secret, issuedAt, h.tokens.Expiry)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to issue token", err)
		return
	}

	response.Success(c, http.StatusOK, loginResponse{
		User:        principal,
		AccessToken: token,
		ExpiresAt:   issuedAt.Add(h.tokens.Expiry),
	}, "Login successful", nil)
}

// Logout closes every session of the caller.
func (h *Handler) Logout(c *gin.Context) {
	principal, ok := PrincipalFrom(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	if err := h.gate.Logout(c.Request.Context(), principal.Email); err != nil {
		h.respondError(c, err, "logout failed")
		return
	}

	response.Success(c, http.StatusOK, nil, "Logged out", nil)
}

// Me returns the caller's identity.
func (h *Handler) Me(c *gin.Context) {
	principal, ok := PrincipalFrom(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	response.Success(c, http.StatusOK, principal, "", nil)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = "Invalid email or password"
	case errors.Is(err, ErrMissingFields):
		status = http.StatusBadRequest
		message = "Email and password are required"
	case errors.Is(err, ErrRateLimited):
		status = http.StatusTooManyRequests
		message = "Too many failed attempts. Try again in a few minutes"
	case errors.Is(err, ErrTooManySessions):
		status = http.StatusConflict
		message = "Maximum number of active sessions reached"
	case apperrors.Is(err, apperrors.ErrUnavailable):
		status = http.StatusServiceUnavailable
		message = "Service temporarily unavailable"
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
