package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/course-server-go/internal/features/auth"
	"github.com/mo-amir99/course-server-go/internal/utils/jwt"
	"github.com/mo-amir99/course-server-go/pkg/response"
)

// AuthMiddleware holds dependencies for authentication middleware.
type AuthMiddleware struct {
	gate      *auth.Gate
	jwtSecret string
	logger    *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(gate *auth.Gate, jwtSecret string, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		gate:      gate,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// AuthenticateToken validates the bearer token, resolves the live session and
// refreshes its activity timestamp.
func (m *AuthMiddleware) AuthenticateToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := m.ensureAuthenticated(c); !ok {
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts unless the principal holds the admin sentinel.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.PrincipalFrom(c)
		if !ok {
			response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "User not authenticated", nil)
			c.Abort()
			return
		}

		if !principal.IsAdmin() {
			response.ErrorWithLog(m.logger, c, http.StatusForbidden, "Access denied: Insufficient permissions.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// Authenticated is the handler chain for any signed-in user.
func (m *AuthMiddleware) Authenticated() []gin.HandlerFunc {
	return []gin.HandlerFunc{m.AuthenticateToken()}
}

// Admin is the handler chain for administrator routes.
func (m *AuthMiddleware) Admin() []gin.HandlerFunc {
	return []gin.HandlerFunc{m.AuthenticateToken(), m.RequireAdmin()}
}

func (m *AuthMiddleware) ensureAuthenticated(c *gin.Context) (auth.Principal, bool) {
	if principal, ok := auth.PrincipalFrom(c); ok {
		return principal, true
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "No token provided", nil)
		c.Abort()
		return auth.Principal{}, false
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "No token provided", nil)
		c.Abort()
		return auth.Principal{}, false
	}

	claims, err := jwt.VerifyToken(token, m.jwtSecret)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrExpiredToken):
			response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "Token expired", err)
		default:
			response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "Invalid token", err)
		}
		c.Abort()
		return auth.Principal{}, false
	}

	ctx := c.Request.Context()
	principal, err := m.gate.Validate(ctx, claims.SessionID, claims.Email)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrSessionExpired):
			response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "Session expired", err)
		default:
			response.ErrorWithLog(m.logger, c, http.StatusServiceUnavailable, "Service temporarily unavailable", err)
		}
		c.Abort()
		return auth.Principal{}, false
	}

	if err := m.gate.Touch(ctx, principal.Email); err != nil {
		m.logger.WarnContext(ctx, "failed to refresh session activity",
			slog.String("email", principal.Email),
			slog.String("error", err.Error()),
		)
	}

	auth.SetPrincipal(c, principal)
	return principal, true
}
